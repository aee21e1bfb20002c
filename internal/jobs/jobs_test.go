package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/doorline/leadcapture-api/internal/jobs"
	"github.com/doorline/leadcapture-api/internal/metrics"
	"github.com/doorline/leadcapture-api/internal/wizard"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPurger struct {
	n   int
	err error
}

func (s *stubPurger) PurgeExpired(ctx context.Context) (int, error) {
	return s.n, s.err
}

type stubSnapshotter struct {
	calls int
	err   error
}

func (s *stubSnapshotter) Snapshot(ctx context.Context) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "exports/2026/03/leads.csv", nil
}

type slowJob struct{}

func (slowJob) Name() string { return "slow" }

func (slowJob) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestScheduler_AddAndRemove(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop(), time.Second)

	require.NoError(t, jobs.RegisterDraftCleanupJob(s, &stubPurger{}, zap.NewNop(), "0 */10 * * * *"))
	require.NoError(t, jobs.RegisterExportSnapshotJob(s, &stubSnapshotter{}, zap.NewNop(), "0 0 2 * * *"))
	assert.Equal(t, []string{jobs.DraftCleanupJobName, jobs.ExportSnapshotJobName}, s.JobNames())

	err := jobs.RegisterDraftCleanupJob(s, &stubPurger{}, zap.NewNop(), "@every 1m")
	assert.Error(t, err)

	require.NoError(t, s.RemoveJob(jobs.DraftCleanupJobName))
	assert.Error(t, s.RemoveJob(jobs.DraftCleanupJobName))
	assert.Equal(t, []string{jobs.ExportSnapshotJobName}, s.JobNames())
}

func TestScheduler_InvalidCron(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop(), 0)
	err := jobs.RegisterDraftCleanupJob(s, &stubPurger{}, zap.NewNop(), "not a cron")
	assert.Error(t, err)
	assert.Empty(t, s.JobNames())
}

func TestScheduler_RunNowRecordsOutcome(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop(), time.Second)
	job := jobs.NewExportSnapshotJob(&stubSnapshotter{err: errors.New("storage down")}, zap.NewNop())

	before := testutil.ToFloat64(metrics.JobRuns.WithLabelValues(jobs.ExportSnapshotJobName, metrics.ResultFailure))
	err := s.RunNow(context.Background(), job)
	require.Error(t, err)
	after := testutil.ToFloat64(metrics.JobRuns.WithLabelValues(jobs.ExportSnapshotJobName, metrics.ResultFailure))
	assert.Equal(t, before+1, after)
}

func TestScheduler_RunNowAppliesTimeout(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop(), 20*time.Millisecond)
	err := s.RunNow(context.Background(), slowJob{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDraftCleanupJob_PurgesExpiredDrafts(t *testing.T) {
	store := wizard.NewMemoryStore(time.Nanosecond)
	svc := wizard.NewService(store, nil, zap.NewNop())
	ctx := context.Background()
	_, err := svc.Start(ctx, "user@example.com")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	job := jobs.NewDraftCleanupJob(svc, zap.NewNop())
	assert.Equal(t, jobs.DraftCleanupJobName, job.Name())
	require.NoError(t, job.Run(ctx))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDraftCleanupJob_PropagatesError(t *testing.T) {
	job := jobs.NewDraftCleanupJob(&stubPurger{err: errors.New("redis down")}, zap.NewNop())
	assert.Error(t, job.Run(context.Background()))
}

func TestExportSnapshotJob_Run(t *testing.T) {
	snap := &stubSnapshotter{}
	job := jobs.NewExportSnapshotJob(snap, zap.NewNop())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, snap.calls)
}
