package role

import (
	"fmt"
	"time"

	"fittrack_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assignment grants one role to one profile. The pair (UserID, Role) is unique.
type Assignment struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string      `gorm:"type:varchar(128);not null;uniqueIndex:idx_role_assignments_user_role" json:"user_id"`
	Role      common.Role `gorm:"type:varchar(20);not null;uniqueIndex:idx_role_assignments_user_role;check:chk_role_assignments_role,role IN ('admin','user')" json:"role"`
	GrantedBy *string     `gorm:"type:varchar(128)" json:"granted_by,omitempty"`
	CreatedAt time.Time   `gorm:"not null" json:"created_at"`
}

// TableName specifies the table name for the Assignment model.
func (Assignment) TableName() string {
	return "role_assignments"
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	if !a.Role.Valid() {
		return common.ErrBadRequest.WithDetails(fmt.Sprintf("Unknown role %q.", a.Role))
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// GrantRequest is the body of POST /roles.
type GrantRequest struct {
	UserID string `json:"user_id" binding:"required,max=128"`
	Role   string `json:"role" binding:"required,oneof=admin user"`
}
