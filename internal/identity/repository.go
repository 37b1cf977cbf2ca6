package identity

import (
	"context"
	"fmt"

	"fittrack_backend/internal/common"

	"gorm.io/gorm"
)

// Repository defines the interface for identity data operations.
type Repository interface {
	Create(ctx context.Context, ident *Identity) error
	FindByID(ctx context.Context, id string) (*Identity, error)
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	Delete(ctx context.Context, id string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM identity repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts the identity. Provisioning callbacks registered on the
// handle run inside the same transaction, so a rejected identity is never
// persisted.
func (r *gormRepository) Create(ctx context.Context, ident *Identity) error {
	ident.Email = common.NormalizeEmail(ident.Email)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Profile").Create(ident).Error
	})
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return err
		}
		if common.IsUniqueViolation(err) {
			return common.ErrConflict.WithDetails("An identity with this id or email already exists.")
		}
		return fmt.Errorf("creating identity: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id string) (*Identity, error) {
	var ident Identity
	err := r.db.WithContext(ctx).Preload("Profile").Where("id = ?", id).First(&ident).Error
	if err != nil {
		return nil, common.TranslateDBError(err, "Identity not found.")
	}
	return &ident, nil
}

func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*Identity, error) {
	var ident Identity
	err := r.db.WithContext(ctx).Preload("Profile").Where("email = ?", common.NormalizeEmail(email)).First(&ident).Error
	if err != nil {
		return nil, common.TranslateDBError(err, "Identity not found with this email.")
	}
	return &ident, nil
}

// Delete removes the identity and, through cascades, its profile and every
// row the profile owns.
func (r *gormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Identity{})
	if res.Error != nil {
		return fmt.Errorf("deleting identity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Identity not found.")
	}
	return nil
}
