package profile

import (
	"context"
	"fmt"

	"fittrack_backend/internal/common"

	"gorm.io/gorm"
)

// Repository is trusted profile storage used by provisioning and account
// removal. Session-scoped reads go through Service instead.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	FindByID(ctx context.Context, id string) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	Delete(ctx context.Context, id string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM profile repository on db, which may be
// a transaction handle.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, p *Profile) error {
	p.Email = common.NormalizeEmail(p.Email)
	if err := r.db.WithContext(ctx).Omit("Roles", "Workouts", "Runs", "Checkins", "Snapshots").Create(p).Error; err != nil {
		if common.IsUniqueViolation(err) {
			return common.ErrConflict.WithDetails("A profile with this email already exists.")
		}
		return common.TranslateDBError(err, "")
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, common.TranslateDBError(err, "Profile not found.")
	}
	return &p, nil
}

func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*Profile, error) {
	var p Profile
	if err := r.db.WithContext(ctx).Where("email = ?", common.NormalizeEmail(email)).First(&p).Error; err != nil {
		return nil, common.TranslateDBError(err, "Profile not found with this email.")
	}
	return &p, nil
}

// Delete removes the profile; the database cascades to every owned row.
func (r *gormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Profile{})
	if res.Error != nil {
		return fmt.Errorf("deleting profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Profile not found.")
	}
	return nil
}
