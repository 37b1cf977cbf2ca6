package profile

import (
	"time"

	"fittrack_backend/internal/checkin"
	"fittrack_backend/internal/common"
	"fittrack_backend/internal/role"
	"fittrack_backend/internal/run"
	"fittrack_backend/internal/stats"
	"fittrack_backend/internal/workout"
)

// Profile is the application record of an identity. Its ID is the identity ID.
// Every domain row is owned by a profile and removed with it.
type Profile struct {
	ID        string    `gorm:"type:varchar(128);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Roles     []role.Assignment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Workouts  []workout.Workout `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Runs      []run.Run         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Checkins  []checkin.Checkin `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Snapshots []stats.Snapshot  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for the Profile model.
func (Profile) TableName() string {
	return "profiles"
}

// UpdateProfileRequest is the body of PATCH /profiles/me.
type UpdateProfileRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=255"`
}

// ProfileResponse is a profile as returned by the API. IsAdmin and Roles are
// read from the role store on every request and never stored on the profile.
type ProfileResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	IsAdmin   bool          `json:"is_admin"`
	Roles     []common.Role `json:"roles"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
