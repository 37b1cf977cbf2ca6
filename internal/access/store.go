package access

import (
	"context"
	"fmt"
	"slices"

	"fittrack_backend/internal/common"

	"gorm.io/gorm"
)

// Scope is an extra query condition applied on top of the policy scope.
type Scope = func(*gorm.DB) *gorm.DB

// Store runs row operations on one table through the policy engine.
type Store[T any] struct {
	db     *gorm.DB
	engine *Engine
	table  string
}

// NewStore returns a policy-scoped store for the model T stored in table.
func NewStore[T any](db *gorm.DB, engine *Engine, table string) *Store[T] {
	return &Store[T]{db: db, engine: engine, table: table}
}

func (s *Store[T]) Table() string { return s.table }

func (s *Store[T]) idCondition() string {
	return s.table + ".id = ?"
}

// List returns the visible rows matching scopes, one page at a time.
func (s *Store[T]) List(ctx context.Context, page common.PaginationQuery, scopes ...Scope) ([]T, int64, error) {
	policy, err := s.engine.Scope(ctx, s.table, OpSelect)
	if err != nil {
		return nil, 0, err
	}

	q := s.db.WithContext(ctx).Model(new(T)).Scopes(policy).Scopes(scopes...).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting %s: %w", s.table, err)
	}

	var rows []T
	err = q.Order(s.table + ".created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing %s: %w", s.table, err)
	}
	return rows, total, nil
}

// Get returns one visible row. Rows hidden by policy are reported as not found.
func (s *Store[T]) Get(ctx context.Context, id interface{}, scopes ...Scope) (*T, error) {
	policy, err := s.engine.Scope(ctx, s.table, OpSelect)
	if err != nil {
		return nil, err
	}
	var row T
	err = s.db.WithContext(ctx).
		Scopes(policy).
		Scopes(scopes...).
		Where(s.idCondition(), id).
		First(&row).Error
	if err != nil {
		return nil, common.TranslateDBError(err, fmt.Sprintf("No %s row with id %v.", s.table, id))
	}
	return &row, nil
}

// Create inserts row after checking it against the insert policy.
func (s *Store[T]) Create(ctx context.Context, row *T) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.engine.CheckInsert(ctx, tx, s.table, row); err != nil {
			return err
		}
		if err := tx.Create(row).Error; err != nil {
			return common.TranslateDBError(err, "")
		}
		return nil
	})
}

// Update applies changes (keyed by column name) to one row the session may
// update, and returns the row as the session sees it afterwards.
func (s *Store[T]) Update(ctx context.Context, id interface{}, changes map[string]interface{}) (*T, error) {
	rule, _ := s.engine.Rule(s.table)
	for col := range changes {
		if slices.Contains(rule.Immutable, col) {
			return nil, common.ErrPolicyDenied.WithDetails(fmt.Sprintf("Column %s cannot be changed.", col))
		}
	}

	policy, err := s.engine.Scope(ctx, s.table, OpUpdate)
	if err != nil {
		return nil, err
	}
	if len(changes) > 0 {
		res := s.db.WithContext(ctx).
			Model(new(T)).
			Scopes(policy).
			Where(s.idCondition(), id).
			Updates(changes)
		if res.Error != nil {
			return nil, common.TranslateDBError(res.Error, "")
		}
		if res.RowsAffected == 0 {
			return nil, common.ErrNotFound.WithDetails(fmt.Sprintf("No %s row with id %v.", s.table, id))
		}
	}
	return s.Get(ctx, id)
}

// Delete removes one row the session may delete.
func (s *Store[T]) Delete(ctx context.Context, id interface{}) error {
	n, err := s.DeleteWhere(ctx, func(db *gorm.DB) *gorm.DB { return db.Where(s.idCondition(), id) })
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrNotFound.WithDetails(fmt.Sprintf("No %s row with id %v.", s.table, id))
	}
	return nil
}

// DeleteWhere removes every row matching scopes that the session may delete.
// At least one scope is required.
func (s *Store[T]) DeleteWhere(ctx context.Context, scopes ...Scope) (int64, error) {
	if len(scopes) == 0 {
		return 0, fmt.Errorf("delete from %s without conditions", s.table)
	}
	policy, err := s.engine.Scope(ctx, s.table, OpDelete)
	if err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).Scopes(policy).Scopes(scopes...).Delete(new(T))
	if res.Error != nil {
		return 0, common.TranslateDBError(res.Error, "")
	}
	return res.RowsAffected, nil
}
