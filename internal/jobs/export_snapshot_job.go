package jobs

import (
	"context"

	"go.uber.org/zap"
)

// ExportSnapshotJobName is the name of the export snapshot job
const ExportSnapshotJobName = "export_snapshot"

// Snapshotter writes a CSV export of every lead to storage
type Snapshotter interface {
	Snapshot(ctx context.Context) (string, error)
}

// ExportSnapshotJob stores a periodic export of all leads
type ExportSnapshotJob struct {
	exports Snapshotter
	logger  *zap.Logger
}

func NewExportSnapshotJob(exports Snapshotter, logger *zap.Logger) *ExportSnapshotJob {
	return &ExportSnapshotJob{exports: exports, logger: logger}
}

func (j *ExportSnapshotJob) Name() string { return ExportSnapshotJobName }

func (j *ExportSnapshotJob) Run(ctx context.Context) error {
	key, err := j.exports.Snapshot(ctx)
	if err != nil {
		return err
	}
	j.logger.Info("export snapshot written", zap.String("key", key))
	return nil
}

// RegisterExportSnapshotJob schedules the export snapshot job
func RegisterExportSnapshotJob(scheduler *Scheduler, exports Snapshotter, logger *zap.Logger, cronExpr string) error {
	return scheduler.AddJob(cronExpr, NewExportSnapshotJob(exports, logger))
}
