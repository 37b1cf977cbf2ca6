package stats

import (
	"context"
	"time"

	"fittrack_backend/internal/access"
	"fittrack_backend/internal/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service exposes stats to the session in ctx.
type Service interface {
	ListSnapshots(ctx context.Context, page common.PaginationQuery) ([]Snapshot, int64, error)
	// Today computes the session's counters live, through the row policies.
	Today(ctx context.Context) (*Snapshot, error)
}

type service struct {
	db     *gorm.DB
	engine *access.Engine
	store  *access.Store[Snapshot]
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new stats service.
func NewService(db *gorm.DB, engine *access.Engine, logger *zap.Logger) Service {
	return &service{
		db:     db,
		engine: engine,
		store:  access.NewStore[Snapshot](db, engine, access.TableStatsSnapshots),
		logger: logger.Named("stats_service"),
		now:    time.Now,
	}
}

func (s *service) ListSnapshots(ctx context.Context, page common.PaginationQuery) ([]Snapshot, int64, error) {
	return s.store.List(ctx, page)
}

func (s *service) Today(ctx context.Context) (*Snapshot, error) {
	sess := access.SessionFromContext(ctx)
	if sess.Anonymous() {
		return nil, common.ErrUnauthorized
	}
	date := s.now().UTC().Format(DateLayout)
	scopes := make(map[string]access.Scope, len(counterTables))
	for _, table := range counterTables {
		scope, err := s.engine.Scope(ctx, table, access.OpSelect)
		if err != nil {
			return nil, err
		}
		scopes[table] = scope
	}
	scoped := func(ctx context.Context, table string) *gorm.DB {
		return s.db.WithContext(ctx).Table(table).Scopes(scopes[table])
	}
	counters, err := computeCounters(ctx, scoped, sess.IdentityID, date)
	if err != nil {
		return nil, err
	}
	return &Snapshot{UserID: sess.IdentityID, SnapshotDate: date, Counters: counters}, nil
}
