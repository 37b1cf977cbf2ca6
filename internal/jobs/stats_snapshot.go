package jobs

import (
	"context"
	"fmt"
	"time"

	"fittrack_backend/internal/config"
	"fittrack_backend/internal/stats"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Snapshotter is the work performed on every tick.
type Snapshotter interface {
	Run(ctx context.Context, at time.Time) (stats.RunResult, error)
}

// StatsSnapshotJob runs the stats snapshotter on STATS_SNAPSHOT_SCHEDULE.
type StatsSnapshotJob struct {
	snapshotter   Snapshotter
	logger        *zap.Logger
	schedule      string
	timeout       time.Duration
	cronScheduler *cron.Cron
	now           func() time.Time
}

// NewStatsSnapshotJob creates a new StatsSnapshotJob.
func NewStatsSnapshotJob(snapshotter *stats.Snapshotter, logger *zap.Logger, cfg *config.Config) *StatsSnapshotJob {
	return newStatsSnapshotJob(snapshotter, logger, cfg.StatsSnapshotSchedule)
}

func newStatsSnapshotJob(snapshotter Snapshotter, logger *zap.Logger, schedule string) *StatsSnapshotJob {
	cronLog := NewCronLogger(logger.Named("cron"))
	scheduler := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.SkipIfStillRunning(cronLog)),
	)
	return &StatsSnapshotJob{
		snapshotter:   snapshotter,
		logger:        logger.Named("StatsSnapshotJob"),
		schedule:      schedule,
		timeout:       10 * time.Minute,
		cronScheduler: scheduler,
		now:           time.Now,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *StatsSnapshotJob) SetupAndStart() error {
	if j.schedule == "" {
		j.logger.Warn("Stats snapshot job schedule not defined (STATS_SNAPSHOT_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(j.schedule, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule stats snapshot job", zap.String("spec", j.schedule), zap.Error(err))
		return err
	}

	j.logger.Info("Stats snapshot job scheduled", zap.String("spec", j.schedule), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

func (j *StatsSnapshotJob) runJob() {
	j.logger.Info("Starting stats snapshot job run...")
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	res, err := j.snapshotter.Run(ctx, j.now())
	if err != nil {
		j.logger.Error("Stats snapshot job run failed", zap.Error(err))
		return
	}
	j.logger.Info("Stats snapshot job run completed",
		zap.String("date", res.Date),
		zap.Int("written", res.Written),
		zap.Int("failed", res.Failed),
	)
}

// Stop gracefully stops the cron scheduler.
func (j *StatsSnapshotJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping stats snapshot job scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Stats snapshot job scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Stats snapshot job scheduler stop timed out.")
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Debug(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(key, keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(key, "MISSING_VALUE"))
		}
	}
	return fields
}
