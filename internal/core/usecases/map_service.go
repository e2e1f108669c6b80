package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/solarmap/internal/core/domain"
	"github.com/samirrijal/solarmap/internal/core/ports"
	"github.com/samirrijal/solarmap/internal/pkg/geospatial"
)

// MapSettings holds the viewport constants.
type MapSettings struct {
	Initial            domain.GeoPoint
	ScaleMeters        float64
	RegionRadiusMeters float64
}

// DefaultMapSettings centers on Lviv at a 100 km span.
func DefaultMapSettings() MapSettings {
	return MapSettings{
		Initial:            domain.GeoPoint{Lat: 49.8293460, Lon: 24.0222010},
		ScaleMeters:        100000,
		RegionRadiusMeters: 1000,
	}
}

// MapService owns session viewports.
type MapService struct {
	sessions  ports.SessionRepository
	publisher ports.EventPublisher
	locks     *SessionLocks
	settings  MapSettings
	now       func() time.Time
}

// NewMapService creates a new MapService. publisher may be nil.
func NewMapService(sessions ports.SessionRepository, publisher ports.EventPublisher, locks *SessionLocks, settings MapSettings) *MapService {
	if locks == nil {
		locks = NewSessionLocks()
	}
	return &MapService{
		sessions:  sessions,
		publisher: publisher,
		locks:     locks,
		settings:  settings,
		now:       time.Now,
	}
}

// NewSession creates a session centered on the initial coordinate with no overlays.
func (s *MapService) NewSession(ctx context.Context) (*domain.MapSession, error) {
	now := s.now().UTC()
	session := &domain.MapSession{
		ID:        uuid.NewString(),
		Region:    s.region(s.settings.Initial, s.settings.ScaleMeters),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Get returns a session.
func (s *MapService) Get(ctx context.Context, id string) (*domain.MapSession, error) {
	return s.sessions.GetByID(ctx, id)
}

// List returns a page of sessions and the total count.
func (s *MapService) List(ctx context.Context, offset, limit int) ([]domain.MapSession, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.sessions.List(ctx, offset, limit)
}

// Center moves the viewport to p at the fixed map scale.
func (s *MapService) Center(ctx context.Context, id string, p domain.GeoPoint) (*domain.MapSession, error) {
	return s.recenter(ctx, id, p, s.region(p, s.settings.ScaleMeters))
}

// CenterOnLocation moves the viewport to the box of region radius around p.
func (s *MapService) CenterOnLocation(ctx context.Context, id string, p domain.GeoPoint) (*domain.MapSession, error) {
	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(p.Lat, p.Lon, s.settings.RegionRadiusMeters)
	return s.recenter(ctx, id, p, domain.Region{Center: p, LatitudeDelta: maxLat - minLat, LongitudeDelta: maxLon - minLon})
}

// UpdateLocation records the device location without moving the viewport.
func (s *MapService) UpdateLocation(ctx context.Context, id string, p domain.GeoPoint) (*domain.MapSession, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	loc := p
	session.LastLocation = &loc
	session.UpdatedAt = s.now().UTC()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session %s: %w", id, err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishLocation(ctx, id, p); err != nil {
			slog.WarnContext(ctx, "publish location failed", "session_id", id, "error", err)
		}
	}
	return session, nil
}

func (s *MapService) recenter(ctx context.Context, id string, p domain.GeoPoint, region domain.Region) (*domain.MapSession, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	session.Region = region
	session.UpdatedAt = s.now().UTC()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session %s: %w", id, err)
	}
	return session, nil
}

func (s *MapService) region(p domain.GeoPoint, span float64) domain.Region {
	return domain.RegionWithDistance(p, span, span)
}
