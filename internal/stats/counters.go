package stats

import (
	"context"
	"fmt"

	"fittrack_backend/internal/access"

	"gorm.io/gorm"
)

// counterTables are the tables computeCounters reads.
var counterTables = []string{access.TableWorkouts, access.TableRuns, access.TableCheckins}

// tableQuery returns a query rooted at table, already restricted as the
// caller requires.
type tableQuery func(ctx context.Context, table string) *gorm.DB

func computeCounters(ctx context.Context, q tableQuery, userID, date string) (Counters, error) {
	var c Counters

	count := func(table string, dst *int64, extra ...interface{}) error {
		db := q(ctx, table).Where(table+".user_id = ?", userID)
		if len(extra) > 0 {
			db = db.Where(extra[0], extra[1:]...)
		}
		if err := db.Count(dst).Error; err != nil {
			return fmt.Errorf("counting %s: %w", table, err)
		}
		return nil
	}

	if err := count(access.TableWorkouts, &c.WorkoutCount); err != nil {
		return c, err
	}
	if err := count(access.TableRuns, &c.RunCount); err != nil {
		return c, err
	}
	if err := count(access.TableCheckins, &c.CheckinCount); err != nil {
		return c, err
	}
	if err := count(access.TableCheckins, &c.CheckinsOnDate, access.TableCheckins+".date = ?", date); err != nil {
		return c, err
	}

	err := q(ctx, access.TableRuns).Where(access.TableRuns+".user_id = ?", userID).
		Select("COALESCE(SUM(" + access.TableRuns + ".distance_km), 0)").
		Scan(&c.TotalRunDistanceKm).Error
	if err != nil {
		return c, fmt.Errorf("summing run distance: %w", err)
	}
	return c, nil
}
