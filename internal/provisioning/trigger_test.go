package provisioning_test

import (
	"context"
	"testing"
	"time"

	"fittrack_backend/internal/common"
	"fittrack_backend/internal/emailpolicy"
	"fittrack_backend/internal/identity"
	"fittrack_backend/internal/platform/metrics"
	"fittrack_backend/internal/profile"
	"fittrack_backend/internal/provisioning"
	"fittrack_backend/internal/role"
	"fittrack_backend/internal/testsupport"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func rolesOf(t *testing.T, db *gorm.DB, id string) []role.Assignment {
	t.Helper()
	out, err := role.NewGORMRepository(db).ListForUser(context.Background(), id)
	require.NoError(t, err)
	return out
}

func countRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}

func TestBootstrapAdminIsProvisionedAsAdmin(t *testing.T) {
	env := testsupport.NewEnv(t)
	ctx := context.Background()

	ident, assignments, err := env.Identity.Create(ctx, identity.Event{ID: "uid-admin", Email: testsupport.BootstrapAdmin})
	require.NoError(t, err)

	require.NotNil(t, ident.Profile)
	assert.Equal(t, "master", ident.Profile.Name)
	require.Len(t, assignments, 1)
	assert.Equal(t, common.RoleAdmin, assignments[0].Role)
	assert.Nil(t, assignments[0].GrantedBy)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.Metrics.ProvisioningTotal.WithLabelValues("created", "admin")))
}

func TestBootstrapComparisonIgnoresCaseAndSpace(t *testing.T) {
	env := testsupport.NewEnv(t)

	ident, assignments, err := env.Identity.Create(context.Background(), identity.Event{ID: "uid-admin", Email: "  MASTER@Master.com "})
	require.NoError(t, err)

	assert.Equal(t, testsupport.BootstrapAdmin, ident.Email)
	assert.Equal(t, testsupport.BootstrapAdmin, ident.Profile.Email)
	require.Len(t, assignments, 1)
	assert.Equal(t, common.RoleAdmin, assignments[0].Role)
}

func TestRegularSignupGetsExactlyOneUserRole(t *testing.T) {
	env := testsupport.NewEnv(t)

	id := env.Provision(t, "ana@example.com")

	assignments := rolesOf(t, env.DB, id)
	require.Len(t, assignments, 1)
	assert.Equal(t, common.RoleUser, assignments[0].Role)

	p, err := profile.NewGORMRepository(env.DB).FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "ana", p.Name)
	assert.Equal(t, "ana@example.com", p.Email)
}

func TestNameComesFromMetadataWhenPresent(t *testing.T) {
	env := testsupport.NewEnv(t)

	ident, _, err := env.Identity.Create(context.Background(), identity.Event{
		ID:       "uid-1",
		Email:    "ana@example.com",
		Metadata: map[string]interface{}{"name": "Ana López", "plan": "pro"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Ana López", ident.Profile.Name)
	assert.Equal(t, "pro", ident.Metadata["plan"])
}

func TestInvalidEmailRollsBackEverything(t *testing.T) {
	env := testsupport.NewEnv(t)
	ctx := context.Background()

	_, _, err := env.Identity.Create(ctx, identity.Event{ID: "uid-bad", Email: "not-an-email"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = identity.NewGORMRepository(env.DB).FindByEmail(ctx, "not-an-email")
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = profile.NewGORMRepository(env.DB).FindByEmail(ctx, "not-an-email")
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.Zero(t, countRows(t, env.DB, "identities"))
	assert.Zero(t, countRows(t, env.DB, "profiles"))
	assert.Zero(t, countRows(t, env.DB, "role_assignments"))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.Metrics.ProvisioningTotal.WithLabelValues("rejected", "none")))
}

func TestBatchInsertIsAtomic(t *testing.T) {
	env := testsupport.NewEnv(t)

	batch := []identity.Identity{
		{ID: "uid-1", Email: "ana@example.com"},
		{ID: "uid-2", Email: "broken@"},
	}
	err := env.DB.Create(&batch).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)

	assert.Zero(t, countRows(t, env.DB, "identities"))
	assert.Zero(t, countRows(t, env.DB, "profiles"))
}

func TestDuplicateEmailIsAConflict(t *testing.T) {
	env := testsupport.NewEnv(t)
	env.Provision(t, "ana@example.com")

	_, _, err := env.Identity.Create(context.Background(), identity.Event{ID: "uid-other", Email: "Ana@Example.com"})
	assert.ErrorIs(t, err, common.ErrConflict)

	assert.Equal(t, int64(1), countRows(t, env.DB, "identities"))
	assert.Equal(t, int64(1), countRows(t, env.DB, "profiles"))
	assert.Equal(t, int64(1), countRows(t, env.DB, "role_assignments"))
}

func TestOrganizationPolicyGatesSignups(t *testing.T) {
	env := testsupport.NewEnv(t, testsupport.WithEmailPolicy(emailpolicy.V1))
	ctx := context.Background()

	_, _, err := env.Identity.Create(ctx, identity.Event{ID: "uid-gmail", Email: "ana@gmail.com"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, assignments, err := env.Identity.Create(ctx, identity.Event{ID: "uid-org", Email: "ana@dominio.com"})
	require.NoError(t, err)
	assert.Equal(t, common.RoleUser, assignments[0].Role)

	_, assignments, err = env.Identity.Create(ctx, identity.Event{ID: "uid-admin", Email: testsupport.BootstrapAdmin})
	require.NoError(t, err)
	assert.Equal(t, common.RoleAdmin, assignments[0].Role)
}

func TestDeriveName(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		metadata map[string]interface{}
		want     string
	}{
		{"metadata name", "ana@example.com", map[string]interface{}{"name": "Ana"}, "Ana"},
		{"trimmed metadata name", "ana@example.com", map[string]interface{}{"name": "  Ana  "}, "Ana"},
		{"blank metadata name", "ana@example.com", map[string]interface{}{"name": "   "}, "ana"},
		{"non-string metadata name", "ana@example.com", map[string]interface{}{"name": 42}, "ana"},
		{"nil metadata", "ana.lopez@example.com", nil, "ana.lopez"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, provisioning.DeriveName(tt.email, tt.metadata))
		})
	}
}

func TestInitialRole(t *testing.T) {
	v := emailpolicy.MustNew(emailpolicy.V3, "", "")
	trigger := provisioning.NewTrigger(v, "Boss@Gym.app", zap.NewNop(), metrics.NewNop())

	assert.Equal(t, common.RoleAdmin, trigger.InitialRole("boss@gym.app"))
	assert.Equal(t, common.RoleUser, trigger.InitialRole("coach@gym.app"))

	noBootstrap := provisioning.NewTrigger(v, "", zap.NewNop(), metrics.NewNop())
	assert.Equal(t, common.RoleUser, noBootstrap.InitialRole(""))
}

func TestSignupPersistsOneIdentityWithProfileAndRole(t *testing.T) {
	env := testsupport.NewEnv(t)

	_, assignments, err := env.Identity.Create(context.Background(), identity.Event{ID: "uid-1", Email: "alice@example.com"})
	require.NoError(t, err)
	require.Len(t, assignments, 1)

	assert.Equal(t, int64(1), countRows(t, env.DB, "identities"))
	assert.Equal(t, int64(1), countRows(t, env.DB, "profiles"))
	assert.Equal(t, int64(1), countRows(t, env.DB, "role_assignments"))
}

func TestProvisioningIgnoresCallerStatementState(t *testing.T) {
	env := testsupport.NewEnv(t)

	ident := &identity.Identity{ID: "uid-1", Email: "ana@example.com"}
	err := env.DB.Model(&identity.Identity{}).Table(identity.TableName).Where("email <> ?", "").Create(ident).Error
	require.NoError(t, err)

	assert.Equal(t, int64(1), countRows(t, env.DB, "identities"))
	p, err := profile.NewGORMRepository(env.DB).FindByID(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "ana", p.Name)
	require.Len(t, rolesOf(t, env.DB, "uid-1"), 1)
}

func TestProvisionOnHandleWithConditions(t *testing.T) {
	env := testsupport.NewEnv(t)
	ctx := context.Background()

	err := env.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("INSERT INTO identities (id, email, created_at) VALUES (?, ?, ?)",
			"uid-raw", "raw@example.com", time.Now()).Error; err != nil {
			return err
		}
		busy := tx.Model(&identity.Identity{}).Where("id = ?", "someone-else")
		return env.Trigger.Provision(ctx, busy, &identity.Identity{ID: "uid-raw", Email: "raw@example.com"})
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), countRows(t, env.DB, "identities"))
	assert.Equal(t, int64(1), countRows(t, env.DB, "profiles"))
	assignments := rolesOf(t, env.DB, "uid-raw")
	require.Len(t, assignments, 1)
	assert.Equal(t, common.RoleUser, assignments[0].Role)
}
