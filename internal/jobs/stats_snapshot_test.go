package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"fittrack_backend/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// MockSnapshotter is a mock type for the Snapshotter interface
type MockSnapshotter struct {
	mock.Mock
}

func (m *MockSnapshotter) Run(ctx context.Context, at time.Time) (stats.RunResult, error) {
	args := m.Called(ctx, at)
	return args.Get(0).(stats.RunResult), args.Error(1)
}

func TestRunJobPassesCurrentTime(t *testing.T) {
	at := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	m := new(MockSnapshotter)
	m.On("Run", mock.Anything, at).Return(stats.RunResult{Date: "2026-03-02", Profiles: 2, Written: 2}, nil).Once()

	job := newStatsSnapshotJob(m, zap.NewNop(), "@daily")
	job.now = func() time.Time { return at }
	job.runJob()

	m.AssertExpectations(t)
}

func TestRunJobLogsFailure(t *testing.T) {
	m := new(MockSnapshotter)
	m.On("Run", mock.Anything, mock.AnythingOfType("time.Time")).Return(stats.RunResult{}, errors.New("db down"))

	core, logs := observer.New(zap.InfoLevel)
	job := newStatsSnapshotJob(m, zap.New(core), "@daily")
	job.runJob()

	assert.Equal(t, 1, logs.FilterMessage("Stats snapshot job run failed").Len())
	m.AssertNumberOfCalls(t, "Run", 1)
}

func TestSetupAndStart(t *testing.T) {
	m := new(MockSnapshotter)

	job := newStatsSnapshotJob(m, zap.NewNop(), "")
	assert.NoError(t, job.SetupAndStart())

	job = newStatsSnapshotJob(m, zap.NewNop(), "not a schedule")
	assert.Error(t, job.SetupAndStart())

	job = newStatsSnapshotJob(m, zap.NewNop(), "@every 1h")
	require.NoError(t, job.SetupAndStart())
	job.Stop()
	m.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestCronLoggerPairsKeysAndValues(t *testing.T) {
	cl := &cronLogger{zl: zap.NewNop()}

	fields := cl.parseKeysAndValues("entry", 1, "dangling")
	require.Len(t, fields, 2)
	assert.Equal(t, "entry", fields[0].Key)
	assert.Equal(t, "dangling", fields[1].Key)
}
