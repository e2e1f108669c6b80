//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/solarmap/internal/adapters/postgres"
	"github.com/samirrijal/solarmap/internal/core/domain"
	"github.com/samirrijal/solarmap/internal/pkg/config"
)

// setupTestDB connects to the database configured for the test service.
// The schema must already be migrated.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("solarmap-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func deleteSession(t *testing.T, db *postgres.DB, id string) {
	t.Cleanup(func() {
		_, _ = db.Pool.Exec(context.Background(), `DELETE FROM map_sessions WHERE id = $1`, id)
	})
}

func TestSessionRepo_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewSessionRepo(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	s := &domain.MapSession{
		ID:        uuid.NewString(),
		Region:    domain.RegionWithDistance(domain.GeoPoint{Lat: 49.829346, Lon: 24.022201}, 100000, 100000),
		CreatedAt: now,
		UpdatedAt: now,
	}
	deleteSession(t, db, s.ID)

	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Base != nil || got.Data != nil || got.LastLocation != nil {
		t.Errorf("new session should be empty, got %+v", got)
	}
	if got.Region.Center != s.Region.Center {
		t.Errorf("center = %+v, want %+v", got.Region.Center, s.Region.Center)
	}

	s.Select(domain.OptionTemperature, domain.DefaultOverlayTable(), now.Add(time.Second))
	s.LastLocation = &domain.GeoPoint{Lat: 50, Lon: 24}
	if err := repo.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err = repo.GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("get after save: %v", err)
	}
	if got.Data == nil || got.Data.Option != domain.OptionTemperature || got.Data.URLTemplate != domain.TemperatureURLTemplate {
		t.Errorf("data overlay not persisted: %+v", got.Data)
	}
	if !got.LegendVisible {
		t.Error("legend flag not persisted")
	}
	if got.LastLocation == nil || *got.LastLocation != *s.LastLocation {
		t.Errorf("last location = %v, want %v", got.LastLocation, s.LastLocation)
	}

	sessions, total, err := repo.List(ctx, 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total < 1 || len(sessions) == 0 {
		t.Errorf("expected at least one session, got %d of %d", len(sessions), total)
	}
}

func TestSessionRepo_NotFound(t *testing.T) {
	repo := postgres.NewSessionRepo(setupTestDB(t))
	ctx := context.Background()

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		if _, err := repo.GetByID(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("GetByID(%q): expected ErrNotFound, got %v", id, err)
		}
	}

	missing := &domain.MapSession{ID: uuid.NewString(), UpdatedAt: time.Now()}
	if err := repo.Save(ctx, missing); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Save: expected ErrNotFound, got %v", err)
	}
}
