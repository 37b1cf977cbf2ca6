package run

import (
	"context"

	"fittrack_backend/internal/access"
	"fittrack_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service records and lists runs for the session in ctx.
type Service interface {
	List(ctx context.Context, page common.PaginationQuery) ([]Run, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*Run, error)
	Create(ctx context.Context, req CreateRunRequest) (*Run, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	store  *access.Store[Run]
	logger *zap.Logger
}

// NewService creates a new run service.
func NewService(db *gorm.DB, engine *access.Engine, logger *zap.Logger) Service {
	return &service{
		store:  access.NewStore[Run](db, engine, access.TableRuns),
		logger: logger.Named("run_service"),
	}
}

func (s *service) List(ctx context.Context, page common.PaginationQuery) ([]Run, int64, error) {
	return s.store.List(ctx, page)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	return s.store.Get(ctx, id)
}

func (s *service) Create(ctx context.Context, req CreateRunRequest) (*Run, error) {
	r := &Run{
		UserID:          access.SessionFromContext(ctx).IdentityID,
		StartedAt:       req.StartedAt.UTC(),
		DistanceKm:      req.DistanceKm,
		DurationSeconds: req.DurationSeconds,
		Notes:           req.Notes,
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}
