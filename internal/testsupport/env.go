// Package testsupport builds throwaway sqlite databases with the production
// schema, provisioning trigger and policy engine installed.
package testsupport

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fittrack_backend/internal/access"
	"fittrack_backend/internal/emailpolicy"
	"fittrack_backend/internal/identity"
	"fittrack_backend/internal/platform/metrics"
	"fittrack_backend/internal/provisioning"
	"fittrack_backend/internal/role"
	"fittrack_backend/internal/schema"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// BootstrapAdmin is the bootstrap admin address used by test environments.
const BootstrapAdmin = "master@master.com"

// Env is a migrated database with every core component wired to it.
type Env struct {
	DB       *gorm.DB
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Trigger  *provisioning.Trigger
	Checker  *role.Checker
	Engine   *access.Engine
	Identity identity.Service
}

type options struct {
	policy   emailpolicy.Version
	cacheTTL int
}

// Option customizes NewEnv.
type Option func(*options)

// WithEmailPolicy selects the email policy version.
func WithEmailPolicy(v emailpolicy.Version) Option {
	return func(o *options) { o.policy = v }
}

// WithRoleCacheSeconds enables the role check cache.
func WithRoleCacheSeconds(n int) Option {
	return func(o *options) { o.cacheTTL = n }
}

// NewDB opens an empty in-memory sqlite database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// NewEnv returns a migrated database with the provisioning trigger installed.
func NewEnv(t testing.TB, opts ...Option) *Env {
	t.Helper()
	o := options{policy: emailpolicy.Latest}
	for _, opt := range opts {
		opt(&o)
	}

	logger := zap.NewNop()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	db := NewDB(t)

	validator, err := emailpolicy.New(o.policy, BootstrapAdmin, emailpolicy.DefaultOrganizationDomain)
	require.NoError(t, err)
	trigger := provisioning.NewTrigger(validator, BootstrapAdmin, logger, m)
	require.NoError(t, db.Use(trigger))
	require.NoError(t, schema.Migrate(context.Background(), db, logger))

	checker := role.NewChecker(db, time.Duration(o.cacheTTL)*time.Second, logger, m)
	return &Env{
		DB:       db,
		Logger:   logger,
		Registry: reg,
		Metrics:  m,
		Trigger:  trigger,
		Checker:  checker,
		Engine:   access.NewEngine(checker, logger, m),
		Identity: identity.NewService(identity.NewGORMRepository(db), role.NewGORMRepository(db), logger),
	}
}

// Provision creates an identity through the provisioning path and returns its ID.
func (e *Env) Provision(t testing.TB, email string) string {
	t.Helper()
	id := "uid-" + uuid.NewString()
	_, _, err := e.Identity.Create(context.Background(), identity.Event{ID: id, Email: email})
	require.NoError(t, err)
	return id
}

// As returns a context carrying the session of identityID.
func As(identityID string) context.Context {
	return access.WithSession(context.Background(), access.Session{IdentityID: identityID})
}

// Anonymous returns a context without a session.
func Anonymous() context.Context {
	return context.Background()
}
