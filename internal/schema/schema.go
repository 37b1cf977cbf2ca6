// Package schema lists every persisted model and migrates them together, so
// that foreign keys declared on parents are created on their children.
package schema

import (
	"context"
	"fmt"

	"fittrack_backend/internal/checkin"
	"fittrack_backend/internal/identity"
	"fittrack_backend/internal/profile"
	"fittrack_backend/internal/role"
	"fittrack_backend/internal/run"
	"fittrack_backend/internal/stats"
	"fittrack_backend/internal/workout"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models returns the persisted models, parents first.
func Models() []interface{} {
	return []interface{}{
		&identity.Identity{},
		&profile.Profile{},
		&role.Assignment{},
		&workout.Workout{},
		&workout.WorkoutDay{},
		&workout.Exercise{},
		&workout.ExerciseSet{},
		&run.Run{},
		&checkin.Checkin{},
		&stats.Snapshot{},
	}
}

// Migrate creates or updates every table, index and constraint.
func Migrate(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrating schema: %w", err)
	}
	logger.Info("Database schema migrated", zap.Int("models", len(Models())))
	return nil
}
