package ports

import (
	"context"

	"github.com/samirrijal/solarmap/internal/core/domain"
)

// SessionRepository persists map sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *domain.MapSession) error
	GetByID(ctx context.Context, id string) (*domain.MapSession, error)
	Save(ctx context.Context, s *domain.MapSession) error
	List(ctx context.Context, offset, limit int) ([]domain.MapSession, int, error)
}
