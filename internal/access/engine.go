// Package access enforces the per-table, per-operation row policies that
// scope every domain read and write to the calling session.
package access

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"fittrack_backend/internal/common"
	"fittrack_backend/internal/platform/database"
	"fittrack_backend/internal/platform/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Operation is a row operation a policy grants independently of the others.
type Operation string

const (
	OpSelect Operation = "select"
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Hop is one foreign key step from a table towards its owning profile.
// Column lives on the previous table and references Table.id.
type Hop struct {
	Column string
	Table  string
}

// Rule is the policy for one table. Ownership is OwnerColumn on the table
// itself, or on the last table reached through Chain.
type Rule struct {
	Table       string
	OwnerColumn string
	Chain       []Hop
	OwnerOps    []Operation
	AdminOps    []Operation
	// Immutable columns cannot be changed through the policy path.
	Immutable []string
}

func (r Rule) allowsOwner(op Operation) bool { return slices.Contains(r.OwnerOps, op) }
func (r Rule) allowsAdmin(op Operation) bool { return slices.Contains(r.AdminOps, op) }

// Decision records which rule granted (or refused) an operation.
type Decision string

const (
	DecisionOwner     Decision = "owner"
	DecisionAdmin     Decision = "admin"
	DecisionDenied    Decision = "denied"
	DecisionAnonymous Decision = "anonymous"
)

// RoleChecker answers role membership from outside the caller's row scope.
type RoleChecker interface {
	HasRole(ctx context.Context, identityID string, role common.Role) (bool, error)
}

// Engine evaluates the policy set.
type Engine struct {
	roles      RoleChecker
	rules      map[string]Rule
	predicates map[string]string
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewEngine builds an engine over the default policy set.
func NewEngine(roles RoleChecker, logger *zap.Logger, m *metrics.Metrics) *Engine {
	return NewEngineWithRules(roles, Policies(), logger, m)
}

// NewEngineWithRules builds an engine over an explicit rule list.
func NewEngineWithRules(roles RoleChecker, rules []Rule, logger *zap.Logger, m *metrics.Metrics) *Engine {
	e := &Engine{
		roles:      roles,
		rules:      make(map[string]Rule, len(rules)),
		predicates: make(map[string]string, len(rules)),
		logger:     logger.Named("access"),
		metrics:    m,
	}
	for _, r := range rules {
		e.rules[r.Table] = r
		e.predicates[r.Table] = ownerPredicate(r)
	}
	return e
}

// Rule returns the policy for table.
func (e *Engine) Rule(table string) (Rule, bool) {
	r, ok := e.rules[table]
	return r, ok
}

// Authorize decides how op on table is granted to the session in ctx.
func (e *Engine) Authorize(ctx context.Context, table string, op Operation) (Decision, error) {
	decision, err := e.authorize(ctx, table, op)
	if err != nil {
		return DecisionDenied, err
	}
	e.metrics.PolicyDecisionsTotal.WithLabelValues(table, string(op), string(decision)).Inc()
	if decision == DecisionDenied || decision == DecisionAnonymous {
		e.logger.Debug("Policy denied operation",
			zap.String("table", table),
			zap.String("operation", string(op)),
			zap.String("decision", string(decision)),
		)
	}
	return decision, nil
}

func (e *Engine) authorize(ctx context.Context, table string, op Operation) (Decision, error) {
	sess := SessionFromContext(ctx)
	if sess.Anonymous() {
		return DecisionAnonymous, nil
	}
	rule, ok := e.rules[table]
	if !ok {
		return DecisionDenied, nil
	}
	if rule.allowsAdmin(op) {
		isAdmin, err := e.roles.HasRole(ctx, sess.IdentityID, common.RoleAdmin)
		if err != nil {
			return DecisionDenied, fmt.Errorf("checking admin role: %w", err)
		}
		if isAdmin {
			return DecisionAdmin, nil
		}
	}
	if rule.allowsOwner(op) {
		return DecisionOwner, nil
	}
	return DecisionDenied, nil
}

// Scope returns a gorm scope restricting a statement on table to the rows op
// may touch for the session in ctx.
func (e *Engine) Scope(ctx context.Context, table string, op Operation) (func(*gorm.DB) *gorm.DB, error) {
	decision, err := e.Authorize(ctx, table, op)
	if err != nil {
		return nil, err
	}
	switch decision {
	case DecisionAdmin:
		return func(db *gorm.DB) *gorm.DB { return db }, nil
	case DecisionOwner:
		pred := e.predicates[table]
		id := SessionFromContext(ctx).IdentityID
		return func(db *gorm.DB) *gorm.DB { return db.Where(pred, id) }, nil
	}
	return func(db *gorm.DB) *gorm.DB { return db.Where("1 = 0") }, nil
}

// OwnerScope restricts a statement on table to the rows owned by the session
// in ctx, regardless of what else the session may read.
func (e *Engine) OwnerScope(ctx context.Context, table string) func(*gorm.DB) *gorm.DB {
	sess := SessionFromContext(ctx)
	pred, ok := e.predicates[table]
	if sess.Anonymous() || !ok {
		return func(db *gorm.DB) *gorm.DB { return db.Where("1 = 0") }
	}
	return func(db *gorm.DB) *gorm.DB { return db.Where(pred, sess.IdentityID) }
}

// CheckInsert evaluates the owner predicate against a row that is about to be
// inserted into table. db must be the handle the insert will run on.
func (e *Engine) CheckInsert(ctx context.Context, db *gorm.DB, table string, row interface{}) error {
	decision, err := e.Authorize(ctx, table, OpInsert)
	if err != nil {
		return err
	}
	switch decision {
	case DecisionAdmin:
		return nil
	case DecisionOwner:
	default:
		return common.ErrPolicyDenied.WithDetails(fmt.Sprintf("Insert into %s is not permitted.", table))
	}

	rule := e.rules[table]
	sess := SessionFromContext(ctx)
	owned, err := e.rowOwnedBy(ctx, db, rule, row, sess.IdentityID)
	if err != nil {
		return err
	}
	if !owned {
		e.metrics.PolicyDecisionsTotal.WithLabelValues(table, string(OpInsert), string(DecisionDenied)).Inc()
		e.logger.Warn("Insert rejected by owner check",
			zap.String("table", table),
			zap.String("identity_id", sess.IdentityID),
		)
		return common.ErrPolicyDenied.WithDetails(fmt.Sprintf("Insert into %s is not permitted.", table))
	}
	return nil
}

func (e *Engine) rowOwnedBy(ctx context.Context, db *gorm.DB, rule Rule, row interface{}, identityID string) (bool, error) {
	if len(rule.Chain) == 0 {
		v, err := columnValue(ctx, db, row, rule.OwnerColumn)
		if err != nil {
			return false, err
		}
		return fmt.Sprint(v) == identityID, nil
	}

	parent, err := columnValue(ctx, db, row, rule.Chain[0].Column)
	if err != nil {
		return false, err
	}
	from, joins := chainJoins(rule)
	last := fmt.Sprintf("h%d", len(rule.Chain)-1)

	q := database.Detach(db).WithContext(ctx).Table(from)
	for _, j := range joins {
		q = q.Joins(j)
	}
	var n int64
	err = q.Where("h0.id = ? AND "+last+"."+rule.OwnerColumn+" = ?", parent, identityID).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("evaluating ownership chain for %s: %w", rule.Table, err)
	}
	return n > 0, nil
}

// ownerPredicate renders the owner condition for rule with a single
// placeholder for the session identity.
func ownerPredicate(rule Rule) string {
	if len(rule.Chain) == 0 {
		return rule.Table + "." + rule.OwnerColumn + " = ?"
	}
	from, joins := chainJoins(rule)
	last := fmt.Sprintf("h%d", len(rule.Chain)-1)

	var b strings.Builder
	b.WriteString("EXISTS (SELECT 1 FROM ")
	b.WriteString(from)
	for _, j := range joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	fmt.Fprintf(&b, " WHERE h0.id = %s.%s AND %s.%s = ?)", rule.Table, rule.Chain[0].Column, last, rule.OwnerColumn)
	return b.String()
}

// chainJoins aliases the tables of rule.Chain as h0, h1, ... in order.
func chainJoins(rule Rule) (string, []string) {
	from := rule.Chain[0].Table + " h0"
	joins := make([]string, 0, len(rule.Chain)-1)
	for i := 1; i < len(rule.Chain); i++ {
		joins = append(joins, fmt.Sprintf("JOIN %s h%d ON h%d.id = h%d.%s",
			rule.Chain[i].Table, i, i, i-1, rule.Chain[i].Column))
	}
	return from, joins
}

func columnValue(ctx context.Context, db *gorm.DB, row interface{}, column string) (interface{}, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(row); err != nil {
		return nil, fmt.Errorf("parsing model: %w", err)
	}
	field := stmt.Schema.LookUpField(column)
	if field == nil {
		return nil, fmt.Errorf("model %s has no column %q", stmt.Schema.Name, column)
	}
	v, zero := field.ValueOf(ctx, reflect.Indirect(reflect.ValueOf(row)))
	if zero {
		return "", nil
	}
	return v, nil
}
