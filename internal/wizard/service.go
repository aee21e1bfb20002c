package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service runs wizard operations against drafts held in a Store.
// Operations on one draft are serialised; a draft is visible only to its owner.
type Service struct {
	store     Store
	submitter Submitter
	locks     *keyedMutex
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a wizard service
func NewService(store Store, submitter Submitter, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		submitter: submitter,
		locks:     newKeyedMutex(),
		logger:    logger,
		now:       time.Now,
	}
}

// Start creates an empty draft for owner
func (s *Service) Start(ctx context.Context, owner string) (*Controller, error) {
	c := NewController(uuid.NewString(), owner, s.now)
	if err := s.store.Save(ctx, c.State()); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	s.refreshGauge(ctx)
	s.logger.Info("draft started", zap.String("draft_id", c.State().ID), zap.String("owner", owner))
	return c, nil
}

// load fetches a draft and hides drafts of other owners
func (s *Service) load(ctx context.Context, owner, id string) (*Controller, error) {
	state, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if state.Owner != owner {
		return nil, ErrDraftNotFound
	}
	return Resume(state, s.now)
}

// Get returns the draft
func (s *Service) Get(ctx context.Context, owner, id string) (*Controller, error) {
	return s.load(ctx, owner, id)
}

// Delete discards the draft
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	c, err := s.load(ctx, owner, id)
	if err != nil {
		return err
	}
	if c.submitting() {
		return ErrSubmissionInProgress
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	s.refreshGauge(ctx)
	return nil
}

// mutate loads the draft, applies fn and saves the result. The state is
// saved whenever fn changed it, including when fn reports a validation error.
func (s *Service) mutate(ctx context.Context, owner, id, action string, fn func(*Controller) error) (*Controller, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	c, err := s.load(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	opErr := fn(c)
	var stepErr *StepValidationError
	if opErr != nil && !errors.As(opErr, &stepErr) {
		metrics.RecordTransition(action, false)
		return c, opErr
	}

	if err := s.store.Save(ctx, c.State()); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	metrics.RecordTransition(action, opErr == nil)
	return c, opErr
}

// UpdateSection replaces one section of the draft with the decoded value
func (s *Service) UpdateSection(ctx context.Context, owner, id string, section domain.Section, raw []byte) (*Controller, error) {
	value, err := DecodeSection(section, raw)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, owner, id, "update", func(c *Controller) error {
		return c.UpdateSection(section, value)
	})
}

// Next validates the current step and advances
func (s *Service) Next(ctx context.Context, owner, id string) (*Controller, error) {
	return s.mutate(ctx, owner, id, "next", func(c *Controller) error {
		return c.Next()
	})
}

// Back steps back one step
func (s *Service) Back(ctx context.Context, owner, id string) (*Controller, error) {
	return s.mutate(ctx, owner, id, "back", func(c *Controller) error {
		return c.Back()
	})
}

// Reset clears the draft for another lead
func (s *Service) Reset(ctx context.Context, owner, id string) (*Controller, error) {
	return s.mutate(ctx, owner, id, "reset", func(c *Controller) error {
		return c.Reset()
	})
}

// Submit persists the draft as a lead. The submitting flag is saved before
// the submitter runs, so a second submit for the same draft made meanwhile
// is rejected with ErrSubmissionInProgress.
func (s *Service) Submit(ctx context.Context, owner, id string) (*Controller, error) {
	c, err := s.mutate(ctx, owner, id, "submit", func(c *Controller) error {
		return c.BeginSubmit()
	})
	if err != nil {
		return c, err
	}

	form := c.State().FormData.Clone()
	receipt, subErr := s.submitter.Submit(ctx, form, owner)

	unlock := s.locks.Lock(id)
	defer unlock()

	// reload so edits that raced the submission are not lost. A draft that
	// was deleted or expired meanwhile is not recreated.
	fresh, err := s.load(ctx, owner, id)
	gone := errors.Is(err, ErrDraftNotFound)
	if err == nil {
		c = fresh
	}
	c.CompleteSubmit(receipt, subErr)
	if !gone {
		if err := s.store.Save(ctx, c.State()); err != nil {
			s.logger.Error("failed to save draft after submission",
				zap.String("draft_id", id),
				zap.Bool("submitted", subErr == nil),
				zap.Error(err),
			)
			if subErr == nil {
				return c, nil
			}
		}
	}

	if subErr != nil {
		s.logger.Warn("draft submission failed", zap.String("draft_id", id), zap.Error(subErr))
		return c, subErr
	}

	s.logger.Info("draft submitted",
		zap.String("draft_id", id),
		zap.String("lead_number", receipt.LeadNumber),
	)
	return c, nil
}

// StepView returns a step's field descriptors
func (s *Service) StepView(ctx context.Context, owner, id string, step Step) (domain.StepView, error) {
	c, err := s.load(ctx, owner, id)
	if err != nil {
		return domain.StepView{}, err
	}
	return c.View(step)
}

// Review returns the review summary of the draft
func (s *Service) Review(ctx context.Context, owner, id string) (domain.ReviewView, error) {
	c, err := s.load(ctx, owner, id)
	if err != nil {
		return domain.ReviewView{}, err
	}
	return c.Review(), nil
}

// PurgeExpired drops drafts idle past their TTL
func (s *Service) PurgeExpired(ctx context.Context) (int, error) {
	n, err := s.store.Purge(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge drafts: %w", err)
	}
	if n > 0 {
		metrics.DraftsPurged.Add(float64(n))
	}
	s.refreshGauge(ctx)
	return n, nil
}

func (s *Service) refreshGauge(ctx context.Context) {
	if n, err := s.store.Count(ctx); err == nil {
		metrics.DraftsActive.Set(float64(n))
	}
}
