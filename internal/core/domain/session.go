package domain

import "time"

// TileOverlay is a raster layer addressed by a {z}/{x}/{y} URL template.
type TileOverlay struct {
	Slot                 Slot      `json:"slot"`
	Option               MapOption `json:"option"`
	URLTemplate          string    `json:"url_template"`
	CanReplaceMapContent bool      `json:"can_replace_map_content"`
	Level                int       `json:"level"` // 0 draws below everything else
	InstalledAt          time.Time `json:"installed_at"`
}

// ChangeAction describes what a selection did to a slot.
type ChangeAction string

const (
	ActionInstalled ChangeAction = "installed"
	ActionReplaced  ChangeAction = "replaced"
	ActionRemoved   ChangeAction = "removed"
	ActionUnchanged ChangeAction = "unchanged"
)

// OverlayChange is the outcome of one selection.
type OverlayChange struct {
	SessionID string       `json:"session_id"`
	Option    MapOption    `json:"option"`
	Slot      Slot         `json:"slot"`
	Action    ChangeAction `json:"action"`
	Previous  *TileOverlay `json:"previous,omitempty"`
	Current   *TileOverlay `json:"current,omitempty"`
	Viewport  Bounds       `json:"viewport"`
	At        time.Time    `json:"at"`
}

// Changed reports whether the selection modified session state.
func (c OverlayChange) Changed() bool {
	return c.Action != ActionUnchanged
}

// MapSession is the state of one map viewer: viewport plus active overlays.
type MapSession struct {
	ID                 string       `json:"id"`
	Region             Region       `json:"region"`
	Base               *TileOverlay `json:"base,omitempty"`
	Data               *TileOverlay `json:"data,omitempty"`
	LegendVisible      bool         `json:"legend_visible"` // follows the active data layer: true only while it is temperature
	AnnotationsVisible bool         `json:"annotations_visible"`
	LastLocation       *GeoPoint    `json:"last_location,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// Overlay returns the active overlay of a tile slot, or nil.
func (s *MapSession) Overlay(slot Slot) *TileOverlay {
	switch slot {
	case SlotBase:
		return s.Base
	case SlotData:
		return s.Data
	}
	return nil
}

// Select applies a menu option. The previous overlay of the affected slot is
// removed before the new one is installed, and nothing happens when the
// requested template is already active. Options without a template clear
// their slot.
func (s *MapSession) Select(option MapOption, table OverlayTable, now time.Time) OverlayChange {
	change := OverlayChange{SessionID: s.ID, Option: option, Slot: option.Slot(), At: now}

	switch change.Slot {
	case SlotAnnotations:
		s.AnnotationsVisible = !s.AnnotationsVisible
		change.Action = ActionRemoved
		if s.AnnotationsVisible {
			change.Action = ActionInstalled
		}
	case SlotBase:
		tpl, ok := table.Template(option)
		if !ok {
			change.Action, change.Previous = clearSlot(&s.Base)
			break
		}
		change.Action, change.Previous, change.Current = installSlot(&s.Base, &TileOverlay{
			Slot:                 SlotBase,
			Option:               option,
			URLTemplate:          tpl,
			CanReplaceMapContent: true,
			Level:                0,
			InstalledAt:          now,
		})
	default:
		tpl, ok := table.Template(option)
		if !ok {
			change.Action, change.Previous = clearSlot(&s.Data)
		} else {
			change.Action, change.Previous, change.Current = installSlot(&s.Data, &TileOverlay{
				Slot:        SlotData,
				Option:      option,
				URLTemplate: tpl,
				Level:       1,
				InstalledAt: now,
			})
		}
		s.LegendVisible = s.Data != nil && s.Data.Option == OptionTemperature
	}

	if change.Changed() {
		s.UpdatedAt = now
	}
	return change
}

func clearSlot(slot **TileOverlay) (ChangeAction, *TileOverlay) {
	prev := *slot
	if prev == nil {
		return ActionUnchanged, nil
	}
	*slot = nil
	return ActionRemoved, prev
}

func installSlot(slot **TileOverlay, next *TileOverlay) (ChangeAction, *TileOverlay, *TileOverlay) {
	prev := *slot
	if prev != nil && prev.URLTemplate == next.URLTemplate {
		return ActionUnchanged, nil, prev
	}
	*slot = next
	if prev == nil {
		return ActionInstalled, nil, next
	}
	return ActionReplaced, prev, next
}
