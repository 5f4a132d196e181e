package repository

import (
	"context"

	"github.com/alexanderramin/reflow/internal/domain"
)

// RunRepo persists reflow runs for the history surface.
type RunRepo interface {
	Save(ctx context.Context, run *domain.ReflowRun) error
	List(ctx context.Context, limit int) ([]*domain.ReflowRun, error)
	Get(ctx context.Context, id string) (*domain.ReflowRun, error)
}
