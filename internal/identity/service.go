package identity

import (
	"context"
	"errors"

	"fittrack_backend/internal/common"
	"fittrack_backend/internal/role"

	"go.uber.org/zap"
)

// Service accepts identity-creation events. Provisioning of the profile and
// initial role happens synchronously inside Create.
type Service interface {
	Create(ctx context.Context, ev Event) (*Identity, []role.Assignment, error)
	Ensure(ctx context.Context, claims Claims) (*Identity, bool, error)
	Get(ctx context.Context, id string) (*Identity, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	roles  role.Repository
	logger *zap.Logger
}

// NewService creates a new identity service.
func NewService(repo Repository, roles role.Repository, logger *zap.Logger) Service {
	return &service{repo: repo, roles: roles, logger: logger.Named("identity_service")}
}

func (s *service) Create(ctx context.Context, ev Event) (*Identity, []role.Assignment, error) {
	ident := &Identity{ID: ev.ID, Email: ev.Email, Metadata: ev.Metadata}
	if err := s.repo.Create(ctx, ident); err != nil {
		s.logger.Warn("Identity creation rejected", zap.String("identity_id", ev.ID), zap.Error(err))
		return nil, nil, err
	}

	created, err := s.repo.FindByID(ctx, ident.ID)
	if err != nil {
		return nil, nil, err
	}
	assignments, err := s.roles.ListForUser(ctx, ident.ID)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("Identity created", zap.String("identity_id", created.ID))
	return created, assignments, nil
}

// Ensure returns the identity for verified claims, creating it on first use.
// The bool reports whether it was created by this call.
func (s *service) Ensure(ctx context.Context, claims Claims) (*Identity, bool, error) {
	ident, err := s.repo.FindByID(ctx, claims.UID)
	if err == nil {
		return ident, false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}

	var meta map[string]interface{}
	if claims.Name != "" {
		meta = map[string]interface{}{"name": claims.Name}
	}
	ident, _, err = s.Create(ctx, Event{ID: claims.UID, Email: claims.Email, Metadata: meta})
	if errors.Is(err, common.ErrConflict) {
		// A concurrent first request may have provisioned it already.
		if existing, findErr := s.repo.FindByID(ctx, claims.UID); findErr == nil {
			return existing, false, nil
		}
	}
	if err != nil {
		return nil, false, err
	}
	return ident, true, nil
}

func (s *service) Get(ctx context.Context, id string) (*Identity, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Identity deleted", zap.String("identity_id", id))
	return nil
}
