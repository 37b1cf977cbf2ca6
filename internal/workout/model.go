package workout

import (
	"fittrack_backend/internal/common"

	"github.com/google/uuid"
)

// Workout is a training plan owned by one profile.
type Workout struct {
	common.BaseModel
	UserID    string       `gorm:"type:varchar(128);not null;index" json:"user_id"`
	Name      string       `gorm:"type:varchar(120);not null" json:"name"`
	Notes     *string      `gorm:"type:text" json:"notes,omitempty"`
	Days      []WorkoutDay `gorm:"foreignKey:WorkoutID;constraint:OnDelete:CASCADE" json:"days,omitempty"`
	Exercises []Exercise   `gorm:"foreignKey:WorkoutID;constraint:OnDelete:CASCADE" json:"exercises,omitempty"`
}

func (Workout) TableName() string { return "workouts" }

// WorkoutDay schedules a workout on a day of the week (0 = Sunday).
type WorkoutDay struct {
	common.BaseModel
	WorkoutID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_workout_days_workout_day" json:"workout_id"`
	DayOfWeek int       `gorm:"not null;uniqueIndex:idx_workout_days_workout_day;check:chk_workout_days_dow,day_of_week BETWEEN 0 AND 6" json:"day_of_week"`
}

func (WorkoutDay) TableName() string { return "workout_days" }

// Exercise is one movement within a workout.
type Exercise struct {
	common.BaseModel
	WorkoutID uuid.UUID     `gorm:"type:uuid;not null;index" json:"workout_id"`
	Name      string        `gorm:"type:varchar(120);not null" json:"name"`
	Position  int           `gorm:"not null;default:0" json:"position"`
	Notes     *string       `gorm:"type:text" json:"notes,omitempty"`
	Sets      []ExerciseSet `gorm:"foreignKey:ExerciseID;constraint:OnDelete:CASCADE" json:"sets,omitempty"`
}

func (Exercise) TableName() string { return "exercises" }

// ExerciseSet is one prescribed set of an exercise.
type ExerciseSet struct {
	common.BaseModel
	ExerciseID  uuid.UUID `gorm:"type:uuid;not null;index" json:"exercise_id"`
	SetNumber   int       `gorm:"not null" json:"set_number"`
	Reps        int       `gorm:"not null;default:0" json:"reps"`
	WeightKg    *float64  `json:"weight_kg,omitempty"`
	RestSeconds *int      `json:"rest_seconds,omitempty"`
}

func (ExerciseSet) TableName() string { return "exercise_sets" }

// --- DTOs ---

type CreateWorkoutRequest struct {
	Name  string  `json:"name" binding:"required,min=1,max=120"`
	Notes *string `json:"notes" binding:"omitempty,max=2000"`
}

type UpdateWorkoutRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=120"`
	Notes *string `json:"notes" binding:"omitempty,max=2000"`
}

func (r UpdateWorkoutRequest) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if r.Name != nil {
		changes["name"] = *r.Name
	}
	if r.Notes != nil {
		changes["notes"] = *r.Notes
	}
	return changes
}

type AddDayRequest struct {
	DayOfWeek *int `json:"day_of_week" binding:"required,gte=0,lte=6"`
}

type CreateExerciseRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=120"`
	Position int     `json:"position" binding:"gte=0"`
	Notes    *string `json:"notes" binding:"omitempty,max=2000"`
}

type UpdateExerciseRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=120"`
	Position *int    `json:"position" binding:"omitempty,gte=0"`
	Notes    *string `json:"notes" binding:"omitempty,max=2000"`
}

func (r UpdateExerciseRequest) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if r.Name != nil {
		changes["name"] = *r.Name
	}
	if r.Position != nil {
		changes["position"] = *r.Position
	}
	if r.Notes != nil {
		changes["notes"] = *r.Notes
	}
	return changes
}

type CreateSetRequest struct {
	SetNumber   int      `json:"set_number" binding:"required,gte=1"`
	Reps        int      `json:"reps" binding:"gte=0"`
	WeightKg    *float64 `json:"weight_kg" binding:"omitempty,gte=0"`
	RestSeconds *int     `json:"rest_seconds" binding:"omitempty,gte=0"`
}

type UpdateSetRequest struct {
	SetNumber   *int     `json:"set_number" binding:"omitempty,gte=1"`
	Reps        *int     `json:"reps" binding:"omitempty,gte=0"`
	WeightKg    *float64 `json:"weight_kg" binding:"omitempty,gte=0"`
	RestSeconds *int     `json:"rest_seconds" binding:"omitempty,gte=0"`
}

func (r UpdateSetRequest) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if r.SetNumber != nil {
		changes["set_number"] = *r.SetNumber
	}
	if r.Reps != nil {
		changes["reps"] = *r.Reps
	}
	if r.WeightKg != nil {
		changes["weight_kg"] = *r.WeightKg
	}
	if r.RestSeconds != nil {
		changes["rest_seconds"] = *r.RestSeconds
	}
	return changes
}
