package profile

import (
	"context"

	"fittrack_backend/internal/access"
	"fittrack_backend/internal/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service reads and updates profiles on behalf of the session in ctx.
type Service interface {
	Me(ctx context.Context) (*ProfileResponse, error)
	UpdateMe(ctx context.Context, req UpdateProfileRequest) (*ProfileResponse, error)
	Get(ctx context.Context, id string) (*ProfileResponse, error)
	List(ctx context.Context, page common.PaginationQuery) ([]ProfileResponse, int64, error)
}

type service struct {
	store  *access.Store[Profile]
	roles  access.RoleChecker
	logger *zap.Logger
}

// NewService creates a new profile service.
func NewService(db *gorm.DB, engine *access.Engine, roles access.RoleChecker, logger *zap.Logger) Service {
	return &service{
		store:  access.NewStore[Profile](db, engine, access.TableProfiles),
		roles:  roles,
		logger: logger.Named("profile_service"),
	}
}

func (s *service) Me(ctx context.Context) (*ProfileResponse, error) {
	return s.Get(ctx, access.SessionFromContext(ctx).IdentityID)
}

func (s *service) UpdateMe(ctx context.Context, req UpdateProfileRequest) (*ProfileResponse, error) {
	changes := map[string]interface{}{}
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	p, err := s.store.Update(ctx, access.SessionFromContext(ctx).IdentityID, changes)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, p)
}

func (s *service) Get(ctx context.Context, id string) (*ProfileResponse, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, p)
}

func (s *service) List(ctx context.Context, page common.PaginationQuery) ([]ProfileResponse, int64, error) {
	rows, total, err := s.store.List(ctx, page)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ProfileResponse, 0, len(rows))
	for i := range rows {
		resp, err := s.toResponse(ctx, &rows[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *resp)
	}
	return out, total, nil
}

// toResponse projects the legacy is_admin flag from the role store.
func (s *service) toResponse(ctx context.Context, p *Profile) (*ProfileResponse, error) {
	resp := &ProfileResponse{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Roles:     []common.Role{},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	for _, r := range common.Roles {
		held, err := s.roles.HasRole(ctx, p.ID, r)
		if err != nil {
			return nil, err
		}
		if held {
			resp.Roles = append(resp.Roles, r)
		}
	}
	for _, r := range resp.Roles {
		if r == common.RoleAdmin {
			resp.IsAdmin = true
		}
	}
	return resp, nil
}
