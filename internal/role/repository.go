package role

import (
	"context"
	"fmt"

	"fittrack_backend/internal/common"

	"gorm.io/gorm"
)

// Repository is the trusted role store. It is used by provisioning and the
// operator CLI and never applies session policies.
type Repository interface {
	Assign(ctx context.Context, userID string, r common.Role, grantedBy *string) (*Assignment, error)
	Revoke(ctx context.Context, userID string, r common.Role) (bool, error)
	ListForUser(ctx context.Context, userID string) ([]Assignment, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM role repository on db, which may be a
// transaction handle.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Assign(ctx context.Context, userID string, role common.Role, grantedBy *string) (*Assignment, error) {
	a := &Assignment{UserID: userID, Role: role, GrantedBy: grantedBy}
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if common.IsUniqueViolation(err) {
			return nil, common.ErrConflict.WithDetails(fmt.Sprintf("User already holds the %s role.", role))
		}
		return nil, common.TranslateDBError(err, "")
	}
	return a, nil
}

func (r *gormRepository) Revoke(ctx context.Context, userID string, role common.Role) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Delete(&Assignment{})
	if res.Error != nil {
		return false, fmt.Errorf("revoking role: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *gormRepository) ListForUser(ctx context.Context, userID string) ([]Assignment, error) {
	var out []Assignment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("role").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}
	return out, nil
}
