package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/solarmap/internal/core/domain"
)

// --- Mock SessionRepository ---

type mockSessionRepo struct {
	mu        sync.Mutex
	sessions  map[string]domain.MapSession
	saves     int
	createFn  func(ctx context.Context, s *domain.MapSession) error
	getByIDFn func(ctx context.Context, id string) (*domain.MapSession, error)
	saveFn    func(ctx context.Context, s *domain.MapSession) error
	listFn    func(ctx context.Context, offset, limit int) ([]domain.MapSession, int, error)
}

func newSessionRepo(sessions ...domain.MapSession) *mockSessionRepo {
	m := &mockSessionRepo{sessions: make(map[string]domain.MapSession)}
	for _, s := range sessions {
		m.sessions[s.ID] = s
	}
	return m
}

func (m *mockSessionRepo) Create(ctx context.Context, s *domain.MapSession) error {
	if m.createFn != nil {
		return m.createFn(ctx, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *mockSessionRepo) GetByID(ctx context.Context, id string) (*domain.MapSession, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m *mockSessionRepo) Save(ctx context.Context, s *domain.MapSession) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return domain.ErrNotFound
	}
	m.sessions[s.ID] = *s
	m.saves++
	return nil
}

func (m *mockSessionRepo) List(ctx context.Context, offset, limit int) ([]domain.MapSession, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, 0, nil
}

func (m *mockSessionRepo) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu        sync.Mutex
	changes   []domain.OverlayChange
	locations []domain.GeoPoint
	err       error
}

func (m *mockPublisher) PublishOverlayChange(ctx context.Context, change *domain.OverlayChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes = append(m.changes, *change)
	return m.err
}

func (m *mockPublisher) PublishLocation(ctx context.Context, sessionID string, p domain.GeoPoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations = append(m.locations, p)
	return m.err
}

// --- Mock CacheService ---

var errMiss = errors.New("miss")

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]int
}

func newCache() *mockCache {
	return &mockCache{data: make(map[string][]byte), ttls: make(map[string]int)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errMiss
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttlSeconds
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock TileFetcher ---

type mockFetcher struct {
	mu      sync.Mutex
	calls   []string
	fetchFn func(ctx context.Context, url string) ([]byte, string, error)
}

func (m *mockFetcher) FetchTile(ctx context.Context, url string) ([]byte, string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, url)
	m.mu.Unlock()
	if m.fetchFn != nil {
		return m.fetchFn(ctx, url)
	}
	return []byte("tile:" + url), "image/png", nil
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// --- Mock WeatherProvider ---

type mockWeather struct {
	calls     int
	currentFn func(ctx context.Context, lat, lon float64) (*domain.WeatherCondition, error)
}

func (m *mockWeather) CurrentWeather(ctx context.Context, lat, lon float64) (*domain.WeatherCondition, error) {
	m.calls++
	if m.currentFn != nil {
		return m.currentFn(ctx, lat, lon)
	}
	return &domain.WeatherCondition{Location: domain.GeoPoint{Lat: lat, Lon: lon}, TemperatureC: 20}, nil
}

// --- Mock TileWarmer ---

type mockWarmer struct {
	requests []domain.WarmRequest
	err      error
}

func (m *mockWarmer) Warm(ctx context.Context, req domain.WarmRequest) (string, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	return "run-1", nil
}
