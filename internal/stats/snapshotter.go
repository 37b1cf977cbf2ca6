package stats

import (
	"context"
	"fmt"
	"time"

	"fittrack_backend/internal/access"
	"fittrack_backend/internal/platform/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Snapshotter writes one snapshot per profile per day. It runs as a trusted
// background subsystem and does not apply session policies.
type Snapshotter struct {
	db          *gorm.DB
	concurrency int
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// RunResult summarizes one snapshot run.
type RunResult struct {
	Date     string
	Profiles int
	Written  int
	Failed   int
}

func NewSnapshotter(db *gorm.DB, concurrency int, logger *zap.Logger, m *metrics.Metrics) *Snapshotter {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Snapshotter{
		db:          db,
		concurrency: concurrency,
		logger:      logger.Named("stats_snapshotter"),
		metrics:     m,
	}
}

// Run snapshots every profile for the calendar day of at. A failure for one
// profile is logged and counted; the run continues with the others.
func (s *Snapshotter) Run(ctx context.Context, at time.Time) (RunResult, error) {
	start := time.Now()
	defer func() { s.metrics.StatsSnapshotRun.Observe(time.Since(start).Seconds()) }()

	res := RunResult{Date: at.UTC().Format(DateLayout)}

	var ids []string
	if err := s.db.WithContext(ctx).Table(access.TableProfiles).Order("id").Pluck("id", &ids).Error; err != nil {
		return res, fmt.Errorf("listing profiles: %w", err)
	}
	res.Profiles = len(ids)

	trusted := func(ctx context.Context, table string) *gorm.DB {
		return s.db.WithContext(ctx).Table(table)
	}

	outcomes := make([]error, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = s.snapshotOne(gctx, trusted, id, res.Date)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	for i, err := range outcomes {
		if err != nil {
			res.Failed++
			s.metrics.StatsSnapshotsTotal.WithLabelValues("failed").Inc()
			s.logger.Error("Snapshot failed", zap.String("user_id", ids[i]), zap.Error(err))
			continue
		}
		res.Written++
		s.metrics.StatsSnapshotsTotal.WithLabelValues("written").Inc()
	}
	s.logger.Info("Stats snapshot run finished",
		zap.String("date", res.Date),
		zap.Int("profiles", res.Profiles),
		zap.Int("written", res.Written),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

func (s *Snapshotter) snapshotOne(ctx context.Context, q tableQuery, userID, date string) error {
	counters, err := computeCounters(ctx, q, userID, date)
	if err != nil {
		return err
	}
	snap := &Snapshot{UserID: userID, SnapshotDate: date, Counters: counters}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "snapshot_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"workout_count", "run_count", "total_run_distance_km",
			"checkin_count", "checkins_on_date", "updated_at",
		}),
	}).Create(snap).Error
}
