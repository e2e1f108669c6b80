package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrUnknownOption     = errors.New("unknown map option")
	ErrInvalidTile       = errors.New("invalid tile coordinate")
	ErrSlotEmpty         = errors.New("no overlay installed in slot")
	ErrUpstream          = errors.New("upstream unavailable")
)
