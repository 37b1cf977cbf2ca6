package role

import (
	"context"
	"errors"
	"fmt"

	"fittrack_backend/internal/access"
	"fittrack_backend/internal/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Operator changes roles from the command line. It is a trusted path that
// bypasses session policies, so every change is logged.
type Operator struct {
	db      *gorm.DB
	repo    Repository
	checker *Checker
	logger  *zap.Logger
}

func NewOperator(db *gorm.DB, checker *Checker, logger *zap.Logger) *Operator {
	return &Operator{
		db:      db,
		repo:    NewGORMRepository(db),
		checker: checker,
		logger:  logger.Named("role_operator"),
	}
}

func (o *Operator) profileID(ctx context.Context, email string) (string, error) {
	var id string
	err := o.db.WithContext(ctx).
		Table(access.TableProfiles).
		Select("id").
		Where("email = ?", common.NormalizeEmail(email)).
		Take(&id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", common.ErrNotFound.WithDetails(fmt.Sprintf("No profile with email %s.", email))
	}
	if err != nil {
		return "", fmt.Errorf("looking up profile: %w", err)
	}
	return id, nil
}

// GrantByEmail grants r to the profile with email.
func (o *Operator) GrantByEmail(ctx context.Context, email string, r common.Role) (*Assignment, error) {
	id, err := o.profileID(ctx, email)
	if err != nil {
		return nil, err
	}
	a, err := o.repo.Assign(ctx, id, r, nil)
	if err != nil {
		return nil, err
	}
	o.checker.Invalidate(id)
	o.logger.Warn("Role granted by operator", zap.String("user_id", id), zap.String("email", email), zap.String("role", string(r)))
	return a, nil
}

// RevokeByEmail revokes r from the profile with email.
func (o *Operator) RevokeByEmail(ctx context.Context, email string, r common.Role) error {
	id, err := o.profileID(ctx, email)
	if err != nil {
		return err
	}
	removed, err := o.repo.Revoke(ctx, id, r)
	if err != nil {
		return err
	}
	if !removed {
		return common.ErrNotFound.WithDetails(fmt.Sprintf("%s does not hold the %s role.", email, r))
	}
	o.checker.Invalidate(id)
	o.logger.Warn("Role revoked by operator", zap.String("user_id", id), zap.String("email", email), zap.String("role", string(r)))
	return nil
}
