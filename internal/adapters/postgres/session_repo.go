package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/solarmap/internal/core/domain"
)

// SessionRepo implements ports.SessionRepository.
type SessionRepo struct {
	db *DB
}

func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

const sessionColumns = `center_lat, center_lon, lat_delta, lon_delta, base_overlay, data_overlay,
	legend_visible, annotations_visible, last_lat, last_lon, created_at, updated_at`

func (r *SessionRepo) Create(ctx context.Context, s *domain.MapSession) error {
	base, data, err := encodeOverlays(s)
	if err != nil {
		return err
	}
	lastLat, lastLon := lastLocation(s)
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO map_sessions (id, `+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, s.ID, s.Region.Center.Lat, s.Region.Center.Lon, s.Region.LatitudeDelta, s.Region.LongitudeDelta,
		base, data, s.LegendVisible, s.AnnotationsVisible, lastLat, lastLon, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *SessionRepo) Save(ctx context.Context, s *domain.MapSession) error {
	base, data, err := encodeOverlays(s)
	if err != nil {
		return err
	}
	lastLat, lastLon := lastLocation(s)
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE map_sessions SET
			center_lat = $2, center_lon = $3, lat_delta = $4, lon_delta = $5,
			base_overlay = $6, data_overlay = $7, legend_visible = $8, annotations_visible = $9,
			last_lat = $10, last_lon = $11, updated_at = $12
		WHERE id = $1
	`, s.ID, s.Region.Center.Lat, s.Region.Center.Lon, s.Region.LatitudeDelta, s.Region.LongitudeDelta,
		base, data, s.LegendVisible, s.AnnotationsVisible, lastLat, lastLon, s.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", s.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *SessionRepo) GetByID(ctx context.Context, id string) (*domain.MapSession, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("session %q: %w", id, domain.ErrNotFound)
	}
	row := r.db.Pool.QueryRow(ctx, `SELECT id::text, `+sessionColumns+` FROM map_sessions WHERE id = $1`, id)
	s, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return s, err
}

func (r *SessionRepo) List(ctx context.Context, offset, limit int) ([]domain.MapSession, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM map_sessions`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id::text, `+sessionColumns+` FROM map_sessions
		ORDER BY updated_at DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sessions []domain.MapSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, total, rows.Err()
}

func scanSession(row pgx.Row) (*domain.MapSession, error) {
	var (
		s                domain.MapSession
		base, data       []byte
		lastLat, lastLon *float64
	)
	err := row.Scan(&s.ID, &s.Region.Center.Lat, &s.Region.Center.Lon, &s.Region.LatitudeDelta, &s.Region.LongitudeDelta,
		&base, &data, &s.LegendVisible, &s.AnnotationsVisible, &lastLat, &lastLon, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if s.Base, err = decodeOverlay(base); err != nil {
		return nil, fmt.Errorf("decode base overlay: %w", err)
	}
	if s.Data, err = decodeOverlay(data); err != nil {
		return nil, fmt.Errorf("decode data overlay: %w", err)
	}
	if lastLat != nil && lastLon != nil {
		s.LastLocation = &domain.GeoPoint{Lat: *lastLat, Lon: *lastLon}
	}
	return &s, nil
}

func encodeOverlays(s *domain.MapSession) (base, data any, err error) {
	if base, err = encodeOverlay(s.Base); err != nil {
		return nil, nil, err
	}
	if data, err = encodeOverlay(s.Data); err != nil {
		return nil, nil, err
	}
	return base, data, nil
}

// encodeOverlay returns nil (SQL NULL) for an empty slot.
func encodeOverlay(o *domain.TileOverlay) (any, error) {
	if o == nil {
		return nil, nil
	}
	b, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func decodeOverlay(b []byte) (*domain.TileOverlay, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var o domain.TileOverlay
	if err := json.Unmarshal(b, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func lastLocation(s *domain.MapSession) (lat, lon *float64) {
	if s.LastLocation == nil {
		return nil, nil
	}
	return &s.LastLocation.Lat, &s.LastLocation.Lon
}
