package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "fittrack"

// Metrics holds the collectors recorded by the provisioning, access and stats packages.
type Metrics struct {
	ProvisioningTotal    *prometheus.CounterVec
	PolicyDecisionsTotal *prometheus.CounterVec
	RoleChecksTotal      *prometheus.CounterVec
	StatsSnapshotsTotal  *prometheus.CounterVec
	StatsSnapshotRun     prometheus.Histogram
}

// NewRegistry returns a registry pre-loaded with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New creates the application collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ProvisioningTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provisioning",
			Name:      "accounts_total",
			Help:      "Account provisioning attempts by outcome and initial role.",
		}, []string{"outcome", "role"}),
		PolicyDecisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "access",
			Name:      "policy_decisions_total",
			Help:      "Row access decisions by table, operation and granting rule.",
		}, []string{"table", "operation", "decision"}),
		RoleChecksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "access",
			Name:      "role_checks_total",
			Help:      "Privileged role checks by role, result and source.",
		}, []string{"role", "result", "source"}),
		StatsSnapshotsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "snapshots_total",
			Help:      "Per-profile stats snapshots written by outcome.",
		}, []string{"outcome"}),
		StatsSnapshotRun: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "snapshot_run_duration_seconds",
			Help:      "Duration of a full stats snapshot run.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}
	reg.MustRegister(
		m.ProvisioningTotal,
		m.PolicyDecisionsTotal,
		m.RoleChecksTotal,
		m.StatsSnapshotsTotal,
		m.StatsSnapshotRun,
	)
	return m
}

// NewNop returns collectors registered with a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
