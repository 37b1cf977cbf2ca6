package run

import (
	"time"

	"fittrack_backend/internal/common"
)

// Run is one recorded run.
type Run struct {
	common.BaseModel
	UserID          string    `gorm:"type:varchar(128);not null;index" json:"user_id"`
	StartedAt       time.Time `gorm:"not null" json:"started_at"`
	DistanceKm      float64   `gorm:"not null" json:"distance_km"`
	DurationSeconds int       `gorm:"not null" json:"duration_seconds"`
	Notes           *string   `gorm:"type:text" json:"notes,omitempty"`
}

func (Run) TableName() string { return "runs" }

// PaceSecondsPerKm returns the average pace, or 0 for a zero distance.
func (r *Run) PaceSecondsPerKm() float64 {
	if r.DistanceKm <= 0 {
		return 0
	}
	return float64(r.DurationSeconds) / r.DistanceKm
}

type CreateRunRequest struct {
	StartedAt       time.Time `json:"started_at" binding:"required"`
	DistanceKm      float64   `json:"distance_km" binding:"gte=0,lte=1000"`
	DurationSeconds int       `json:"duration_seconds" binding:"required,gte=1"`
	Notes           *string   `json:"notes" binding:"omitempty,max=2000"`
}

type RunResponse struct {
	Run
	PaceSecondsPerKm float64 `json:"pace_seconds_per_km"`
}

func ToRunResponse(r *Run) RunResponse {
	return RunResponse{Run: *r, PaceSecondsPerKm: r.PaceSecondsPerKm()}
}
