package profile_test

import (
	"testing"

	"fittrack_backend/internal/common"
	"fittrack_backend/internal/profile"
	"fittrack_backend/internal/testsupport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(env *testsupport.Env) profile.Service {
	return profile.NewService(env.DB, env.Engine, env.Checker, env.Logger)
}

func TestMeProjectsRoles(t *testing.T) {
	env := testsupport.NewEnv(t)
	admin := env.Provision(t, testsupport.BootstrapAdmin)
	ana := env.Provision(t, "ana@example.com")
	svc := newService(env)

	me, err := svc.Me(testsupport.As(ana))
	require.NoError(t, err)
	assert.Equal(t, "ana", me.Name)
	assert.False(t, me.IsAdmin)
	assert.Equal(t, []common.Role{common.RoleUser}, me.Roles)

	me, err = svc.Me(testsupport.As(admin))
	require.NoError(t, err)
	assert.True(t, me.IsAdmin)
	assert.Equal(t, []common.Role{common.RoleAdmin}, me.Roles)
}

func TestProfilesVisibleToOwnerAndAdmin(t *testing.T) {
	env := testsupport.NewEnv(t)
	admin := env.Provision(t, testsupport.BootstrapAdmin)
	ana := env.Provision(t, "ana@example.com")
	ben := env.Provision(t, "ben@example.com")
	svc := newService(env)
	page := common.PaginationQuery{Page: 1, PageSize: 10}

	_, err := svc.Get(testsupport.As(ben), ana)
	assert.ErrorIs(t, err, common.ErrNotFound)

	got, err := svc.Get(testsupport.As(admin), ana)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got.Email)

	_, total, err := svc.List(testsupport.As(ben), page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = svc.List(testsupport.As(admin), page)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	_, err = svc.Me(testsupport.Anonymous())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateMeChangesOnlyOwnName(t *testing.T) {
	env := testsupport.NewEnv(t)
	ana := env.Provision(t, "ana@example.com")
	svc := newService(env)

	name := "Ana María"
	updated, err := svc.UpdateMe(testsupport.As(ana), profile.UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "ana@example.com", updated.Email)

	_, err = svc.UpdateMe(testsupport.Anonymous(), profile.UpdateProfileRequest{Name: &name})
	assert.ErrorIs(t, err, common.ErrNotFound)
}
