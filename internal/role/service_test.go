package role_test

import (
	"context"
	"testing"

	"fittrack_backend/internal/common"
	"fittrack_backend/internal/role"
	"fittrack_backend/internal/testsupport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(env *testsupport.Env) role.Service {
	return role.NewService(env.DB, env.Engine, env.Checker, env.Logger)
}

func TestAdminGrantsAndRevokes(t *testing.T) {
	env := testsupport.NewEnv(t, testsupport.WithRoleCacheSeconds(60))
	admin := env.Provision(t, testsupport.BootstrapAdmin)
	user := env.Provision(t, "ana@example.com")
	svc := newService(env)
	ctx := context.Background()

	// Warm the cache so the grant has something to invalidate.
	held, err := env.Checker.HasRole(ctx, user, common.RoleAdmin)
	require.NoError(t, err)
	require.False(t, held)

	a, err := svc.Grant(testsupport.As(admin), user, common.RoleAdmin)
	require.NoError(t, err)
	require.NotNil(t, a.GrantedBy)
	assert.Equal(t, admin, *a.GrantedBy)

	held, err = env.Checker.HasRole(ctx, user, common.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, held)

	require.NoError(t, svc.Revoke(testsupport.As(admin), user, common.RoleAdmin))
	held, err = env.Checker.HasRole(ctx, user, common.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, held)

	assert.ErrorIs(t, svc.Revoke(testsupport.As(admin), user, common.RoleAdmin), common.ErrNotFound)
}

func TestGrantDuplicateIsConflict(t *testing.T) {
	env := testsupport.NewEnv(t)
	admin := env.Provision(t, testsupport.BootstrapAdmin)
	user := env.Provision(t, "ana@example.com")

	_, err := newService(env).Grant(testsupport.As(admin), user, common.RoleUser)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestUserCannotPromoteThemselves(t *testing.T) {
	env := testsupport.NewEnv(t)
	env.Provision(t, testsupport.BootstrapAdmin)
	user := env.Provision(t, "ana@example.com")
	svc := newService(env)

	_, err := svc.Grant(testsupport.As(user), user, common.RoleAdmin)
	assert.ErrorIs(t, err, common.ErrPolicyDenied)

	// Non-admins cannot delete assignments, not even their own.
	err = svc.Revoke(testsupport.As(user), user, common.RoleUser)
	assert.ErrorIs(t, err, common.ErrNotFound)

	held, err := env.Checker.HasRole(context.Background(), user, common.RoleUser)
	require.NoError(t, err)
	assert.True(t, held)
}

func TestListIsScopedToSession(t *testing.T) {
	env := testsupport.NewEnv(t)
	admin := env.Provision(t, testsupport.BootstrapAdmin)
	user := env.Provision(t, "ana@example.com")
	svc := newService(env)
	page := common.PaginationQuery{Page: 1, PageSize: 10}

	rows, total, err := svc.List(testsupport.As(user), page, admin)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, rows)

	rows, total, err = svc.List(testsupport.As(admin), page, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, common.RoleUser, rows[0].Role)
}

func TestOperatorGrantsByEmail(t *testing.T) {
	env := testsupport.NewEnv(t)
	user := env.Provision(t, "ana@example.com")
	op := role.NewOperator(env.DB, env.Checker, env.Logger)
	ctx := context.Background()

	_, err := op.GrantByEmail(ctx, "ANA@example.com", common.RoleAdmin)
	require.NoError(t, err)
	held, err := env.Checker.HasRole(ctx, user, common.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, held)

	require.NoError(t, op.RevokeByEmail(ctx, "ana@example.com", common.RoleAdmin))
	assert.ErrorIs(t, op.RevokeByEmail(ctx, "ana@example.com", common.RoleAdmin), common.ErrNotFound)

	_, err = op.GrantByEmail(ctx, "nobody@example.com", common.RoleAdmin)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
