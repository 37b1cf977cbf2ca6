package stats

import (
	"fittrack_backend/internal/common"
)

// Snapshot is one profile's activity counters as of a calendar day.
type Snapshot struct {
	common.BaseModel
	UserID       string `gorm:"type:varchar(128);not null;uniqueIndex:idx_stats_snapshots_user_date" json:"user_id"`
	SnapshotDate string `gorm:"type:varchar(10);not null;uniqueIndex:idx_stats_snapshots_user_date" json:"snapshot_date"`
	Counters
}

func (Snapshot) TableName() string { return "stats_snapshots" }

// Counters are the aggregated figures kept per snapshot.
type Counters struct {
	WorkoutCount       int64   `gorm:"not null;default:0" json:"workout_count"`
	RunCount           int64   `gorm:"not null;default:0" json:"run_count"`
	TotalRunDistanceKm float64 `gorm:"not null;default:0" json:"total_run_distance_km"`
	CheckinCount       int64   `gorm:"not null;default:0" json:"checkin_count"`
	CheckinsOnDate     int64   `gorm:"not null;default:0" json:"checkins_on_date"`
}

// DateLayout is the calendar date format of SnapshotDate.
const DateLayout = "2006-01-02"
