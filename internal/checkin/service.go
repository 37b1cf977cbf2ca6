package checkin

import (
	"context"
	"fmt"
	"time"

	"fittrack_backend/internal/access"
	"fittrack_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// refTables maps a check-in type to the table its ref_id points into.
var refTables = map[Type]string{
	TypeWorkout:  access.TableWorkouts,
	TypeExercise: access.TableExercises,
	TypeRun:      access.TableRuns,
}

// Service records daily check-ins for the session in ctx.
type Service interface {
	List(ctx context.Context, page common.PaginationQuery, date string) ([]Checkin, int64, error)
	Create(ctx context.Context, req CreateCheckinRequest) (*Checkin, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	db     *gorm.DB
	engine *access.Engine
	store  *access.Store[Checkin]
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new check-in service.
func NewService(db *gorm.DB, engine *access.Engine, logger *zap.Logger) Service {
	return &service{
		db:     db,
		engine: engine,
		store:  access.NewStore[Checkin](db, engine, access.TableCheckins),
		logger: logger.Named("checkin_service"),
		now:    time.Now,
	}
}

func (s *service) List(ctx context.Context, page common.PaginationQuery, date string) ([]Checkin, int64, error) {
	if date == "" {
		return s.store.List(ctx, page)
	}
	return s.store.List(ctx, page, func(db *gorm.DB) *gorm.DB {
		return db.Where("checkins.date = ?", date)
	})
}

func (s *service) Create(ctx context.Context, req CreateCheckinRequest) (*Checkin, error) {
	t := Type(req.Type)
	table, ok := refTables[t]
	if !ok {
		return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Unknown check-in type %q.", req.Type))
	}
	date := req.Date
	if date == "" {
		date = s.now().UTC().Format(DateLayout)
	} else if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, common.ErrBadRequest.WithDetails("Date must use the YYYY-MM-DD format.")
	}

	ref, err := uuid.Parse(req.RefID)
	if err != nil {
		return nil, common.ErrBadRequest.WithDetails("ref_id must be a UUID.")
	}
	if err := s.ensureOwned(ctx, table, ref); err != nil {
		return nil, err
	}

	c := &Checkin{
		UserID: access.SessionFromContext(ctx).IdentityID,
		Type:   t,
		RefID:  ref.String(),
		Date:   date,
	}
	if err := s.store.Create(ctx, c); err != nil {
		if apiErr, ok := common.IsAPIError(err); ok && apiErr.Code == common.ErrConflict.Code {
			return nil, common.ErrConflict.WithDetails(fmt.Sprintf("Already checked in this %s on %s.", t, date))
		}
		return nil, err
	}
	return c, nil
}

// ensureOwned requires the referenced row to belong to the session. Admin
// read access to other profiles' rows does not count.
func (s *service) ensureOwned(ctx context.Context, table string, refID uuid.UUID) error {
	var n int64
	err := s.db.WithContext(ctx).
		Table(table).
		Scopes(s.engine.OwnerScope(ctx, table)).
		Where(table+".id = ?", refID).
		Count(&n).Error
	if err != nil {
		return fmt.Errorf("checking check-in reference: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound.WithDetails("The referenced entity could not be found.")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}
