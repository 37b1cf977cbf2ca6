package role

import (
	"context"
	"fmt"

	"fittrack_backend/internal/access"
	"fittrack_backend/internal/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service manages role assignments on behalf of the session in ctx. Every
// call goes through the role_assignments policy: admins manage all rows,
// everyone else can only read their own.
type Service interface {
	List(ctx context.Context, page common.PaginationQuery, userID string) ([]Assignment, int64, error)
	Grant(ctx context.Context, userID string, r common.Role) (*Assignment, error)
	Revoke(ctx context.Context, userID string, r common.Role) error
}

type service struct {
	store   *access.Store[Assignment]
	checker *Checker
	logger  *zap.Logger
}

// NewService creates a new role service.
func NewService(db *gorm.DB, engine *access.Engine, checker *Checker, logger *zap.Logger) Service {
	return &service{
		store:   access.NewStore[Assignment](db, engine, access.TableRoleAssignments),
		checker: checker,
		logger:  logger.Named("role_service"),
	}
}

func (s *service) List(ctx context.Context, page common.PaginationQuery, userID string) ([]Assignment, int64, error) {
	var scopes []access.Scope
	if userID != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("role_assignments.user_id = ?", userID)
		})
	}
	return s.store.List(ctx, page, scopes...)
}

func (s *service) Grant(ctx context.Context, userID string, r common.Role) (*Assignment, error) {
	if !r.Valid() {
		return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Unknown role %q.", r))
	}
	grantor := access.SessionFromContext(ctx).IdentityID
	a := &Assignment{UserID: userID, Role: r, GrantedBy: &grantor}
	if err := s.store.Create(ctx, a); err != nil {
		if apiErr, ok := common.IsAPIError(err); ok && apiErr.Code == common.ErrConflict.Code {
			return nil, common.ErrConflict.WithDetails(fmt.Sprintf("User %s already holds the %s role or does not exist.", userID, r))
		}
		return nil, err
	}
	s.checker.Invalidate(userID)
	s.logger.Info("Role granted",
		zap.String("user_id", userID),
		zap.String("role", string(r)),
		zap.String("granted_by", grantor),
	)
	return a, nil
}

func (s *service) Revoke(ctx context.Context, userID string, r common.Role) error {
	n, err := s.store.DeleteWhere(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("role_assignments.user_id = ? AND role_assignments.role = ?", userID, r)
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrNotFound.WithDetails(fmt.Sprintf("User %s does not hold the %s role.", userID, r))
	}
	s.checker.Invalidate(userID)
	s.logger.Info("Role revoked",
		zap.String("user_id", userID),
		zap.String("role", string(r)),
		zap.String("revoked_by", access.SessionFromContext(ctx).IdentityID),
	)
	return nil
}
