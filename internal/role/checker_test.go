package role_test

import (
	"context"
	"testing"

	"fittrack_backend/internal/common"
	"fittrack_backend/internal/role"
	"fittrack_backend/internal/testsupport"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasRole(t *testing.T) {
	env := testsupport.NewEnv(t)
	admin := env.Provision(t, testsupport.BootstrapAdmin)
	user := env.Provision(t, "ana@example.com")
	ctx := context.Background()

	tests := []struct {
		name string
		id   string
		role common.Role
		want bool
	}{
		{"admin holds admin", admin, common.RoleAdmin, true},
		{"admin does not imply user", admin, common.RoleUser, false},
		{"user holds user", user, common.RoleUser, true},
		{"user is not admin", user, common.RoleAdmin, false},
		{"unknown identity", "uid-missing", common.RoleUser, false},
		{"empty identity", "", common.RoleAdmin, false},
		{"unknown role", user, common.Role("coach"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.Checker.HasRole(ctx, tt.id, tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasRoleIgnoresCallerSession(t *testing.T) {
	env := testsupport.NewEnv(t)
	admin := env.Provision(t, testsupport.BootstrapAdmin)
	user := env.Provision(t, "ana@example.com")

	// A plain user's session cannot read the admin's assignment rows, yet the
	// check still sees them.
	got, err := env.Checker.HasRole(testsupport.As(user), admin, common.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = env.Checker.HasRole(testsupport.Anonymous(), admin, common.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestCachedAnswersUntilInvalidated(t *testing.T) {
	env := testsupport.NewEnv(t, testsupport.WithRoleCacheSeconds(60))
	user := env.Provision(t, "ana@example.com")
	ctx := context.Background()

	got, err := env.Checker.HasRole(ctx, user, common.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, got)

	_, err = role.NewGORMRepository(env.DB).Assign(ctx, user, common.RoleAdmin, nil)
	require.NoError(t, err)

	got, err = env.Checker.HasRole(ctx, user, common.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, got, "stale answer served from cache")
	assert.Equal(t, 1.0, testutil.ToFloat64(env.Metrics.RoleChecksTotal.WithLabelValues("admin", "false", "cache")))

	env.Checker.Invalidate(user)
	got, err = env.Checker.HasRole(ctx, user, common.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, got)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.Metrics.RoleChecksTotal.WithLabelValues("admin", "true", "db")))
}

func TestRepositoryRejectsDuplicateAssignment(t *testing.T) {
	env := testsupport.NewEnv(t)
	user := env.Provision(t, "ana@example.com")

	_, err := role.NewGORMRepository(env.DB).Assign(context.Background(), user, common.RoleUser, nil)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestRepositoryRequiresExistingProfile(t *testing.T) {
	env := testsupport.NewEnv(t)

	_, err := role.NewGORMRepository(env.DB).Assign(context.Background(), "uid-ghost", common.RoleUser, nil)
	assert.Error(t, err)
}
