package jobs

import (
	"context"

	"go.uber.org/zap"
)

// DraftCleanupJobName is the name of the draft cleanup job
const DraftCleanupJobName = "draft_cleanup"

// DraftPurger drops wizard drafts idle past their TTL
type DraftPurger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// DraftCleanupJob removes abandoned wizard drafts
type DraftCleanupJob struct {
	drafts DraftPurger
	logger *zap.Logger
}

func NewDraftCleanupJob(drafts DraftPurger, logger *zap.Logger) *DraftCleanupJob {
	return &DraftCleanupJob{drafts: drafts, logger: logger}
}

func (j *DraftCleanupJob) Name() string { return DraftCleanupJobName }

func (j *DraftCleanupJob) Run(ctx context.Context) error {
	n, err := j.drafts.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		j.logger.Info("purged expired drafts", zap.Int("count", n))
	}
	return nil
}

// RegisterDraftCleanupJob schedules the draft cleanup job
func RegisterDraftCleanupJob(scheduler *Scheduler, drafts DraftPurger, logger *zap.Logger, cronExpr string) error {
	return scheduler.AddJob(cronExpr, NewDraftCleanupJob(drafts, logger))
}
