package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/solarmap/internal/core/domain"
	"github.com/samirrijal/solarmap/internal/core/ports"
	"github.com/samirrijal/solarmap/internal/pkg/metrics"
)

var tracer = otel.Tracer("github.com/samirrijal/solarmap/internal/core/usecases")

// OverlayService switches the base map and data overlays of a session.
type OverlayService struct {
	sessions  ports.SessionRepository
	publisher ports.EventPublisher
	locks     *SessionLocks
	table     domain.OverlayTable
	now       func() time.Time
}

// NewOverlayService creates a new OverlayService. publisher may be nil.
func NewOverlayService(
	sessions ports.SessionRepository,
	publisher ports.EventPublisher,
	locks *SessionLocks,
	table domain.OverlayTable,
) *OverlayService {
	if table == nil {
		table = domain.DefaultOverlayTable()
	}
	if locks == nil {
		locks = NewSessionLocks()
	}
	return &OverlayService{
		sessions:  sessions,
		publisher: publisher,
		locks:     locks,
		table:     table,
		now:       time.Now,
	}
}

// Options lists the menu entries.
func (s *OverlayService) Options() []domain.OptionInfo {
	out := make([]domain.OptionInfo, 0, len(domain.AllMapOptions))
	for _, o := range domain.AllMapOptions {
		out = append(out, domain.OptionInfo{ID: o, Label: o.Label(), Slot: o.Slot()})
	}
	return out
}

// Table returns the template table in use.
func (s *OverlayService) Table() domain.OverlayTable {
	return s.table
}

// Select applies option to the session. The session is saved and an event
// published only when the selection changed something.
func (s *OverlayService) Select(ctx context.Context, sessionID string, option domain.MapOption) (*domain.MapSession, domain.OverlayChange, error) {
	ctx, span := tracer.Start(ctx, "OverlayService.Select")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID), attribute.String("map.option", string(option)))

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, domain.OverlayChange{}, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	change := session.Select(option, s.table, s.now().UTC())
	change.Viewport = session.Region.Bounds()
	metrics.OverlaySelections.WithLabelValues(string(change.Slot), string(change.Action)).Inc()

	if !change.Changed() {
		return session, change, nil
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, domain.OverlayChange{}, fmt.Errorf("save session %s: %w", sessionID, err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOverlayChange(ctx, &change); err != nil {
			slog.WarnContext(ctx, "publish overlay change failed", "session_id", sessionID, "error", err)
		}
	}

	return session, change, nil
}
