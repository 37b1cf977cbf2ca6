//go:build wireinject
// +build wireinject

package main

import (
	"fittrack_backend/internal/access"
	"fittrack_backend/internal/app"
	"fittrack_backend/internal/checkin"
	"fittrack_backend/internal/config"
	"fittrack_backend/internal/firebase"
	"fittrack_backend/internal/identity"
	"fittrack_backend/internal/jobs"
	"fittrack_backend/internal/middleware"
	"fittrack_backend/internal/platform/logger"
	"fittrack_backend/internal/platform/metrics"
	"fittrack_backend/internal/profile"
	"fittrack_backend/internal/provisioning"
	"fittrack_backend/internal/role"
	"fittrack_backend/internal/run"
	"fittrack_backend/internal/stats"
	"fittrack_backend/internal/workout"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
)

// platformSet provides the logger, metrics and the database with the
// provisioning trigger installed.
var platformSet = wire.NewSet(
	logger.New,
	metrics.NewRegistry,
	wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
	metrics.New,
	provisioning.NewTriggerFromConfig,
	provideDB,
)

// accessSet provides the privileged role checker and the policy engine.
var accessSet = wire.NewSet(
	role.NewCheckerFromConfig,
	wire.Bind(new(access.RoleChecker), new(*role.Checker)),
	access.NewEngine,
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		platformSet,
		accessSet,

		// Identity and provisioning
		identity.NewGORMRepository,
		role.NewGORMRepository,
		identity.NewService,
		provideIdentityHandler,

		// Token verification
		firebase.NewVerifier,
		wire.Bind(new(middleware.TokenVerifier), new(*firebase.Verifier)),

		// Domain modules
		profile.NewService,
		profile.NewHandler,
		role.NewService,
		role.NewHandler,
		workout.NewService,
		workout.NewHandler,
		run.NewService,
		run.NewHandler,
		checkin.NewService,
		checkin.NewHandler,
		stats.NewService,
		provideSnapshotter,
		stats.NewHandler,
		jobs.NewStatsSnapshotJob,

		// Application Layer
		wire.Struct(new(app.Handlers), "*"),
		app.NewServer,
	)
	return nil, nil, nil
}

// initializeTools wires the components used by the maintenance commands.
func initializeTools(cfg *config.Config) (*tools, func(), error) {
	wire.Build(
		platformSet,
		role.NewCheckerFromConfig,
		role.NewOperator,
		provideSnapshotter,
		wire.Struct(new(tools), "*"),
	)
	return nil, nil, nil
}
