package checkin

import (
	"fittrack_backend/internal/common"
)

// Type names the kind of entity a check-in completes.
type Type string

const (
	TypeWorkout  Type = "workout"
	TypeExercise Type = "exercise"
	TypeRun      Type = "run"
)

// DateLayout is the calendar date format stored in Checkin.Date.
const DateLayout = "2006-01-02"

// Checkin marks a workout, exercise or run as completed on a calendar day.
// At most one exists per (user, type, ref, date).
type Checkin struct {
	common.BaseModel
	UserID string `gorm:"type:varchar(128);not null;uniqueIndex:idx_checkins_user_type_ref_date" json:"user_id"`
	Type   Type   `gorm:"type:varchar(16);not null;uniqueIndex:idx_checkins_user_type_ref_date;check:chk_checkins_type,type IN ('workout','exercise','run')" json:"type"`
	RefID  string `gorm:"type:varchar(64);not null;uniqueIndex:idx_checkins_user_type_ref_date" json:"ref_id"`
	Date   string `gorm:"type:varchar(10);not null;uniqueIndex:idx_checkins_user_type_ref_date" json:"date"`
}

func (Checkin) TableName() string { return "checkins" }

type CreateCheckinRequest struct {
	Type  string `json:"type" binding:"required,oneof=workout exercise run"`
	RefID string `json:"ref_id" binding:"required,uuid"`
	Date  string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}
