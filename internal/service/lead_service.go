package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/mapper"
	"github.com/doorline/leadcapture-api/internal/metrics"
	"github.com/doorline/leadcapture-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LeadService persists completed wizard forms as leads
type LeadService struct {
	db        *gorm.DB
	leadRepo  *repository.LeadRepository
	sequences *NumberSequenceService
	logger    *zap.Logger
}

// NewLeadService creates a new lead service
func NewLeadService(
	db *gorm.DB,
	leadRepo *repository.LeadRepository,
	sequences *NumberSequenceService,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		db:        db,
		leadRepo:  leadRepo,
		sequences: sequences,
		logger:    logger,
	}
}

// Submit stores form as a new lead with its five child rows.
// The lead number and every insert share one transaction. On failure a
// *SubmissionError naming the failing stage is returned and nothing is kept.
func (s *LeadService) Submit(ctx context.Context, form *domain.LeadForm, submittedBy string) (*domain.SubmissionReceipt, error) {
	if form == nil {
		return nil, fmt.Errorf("%w: form is required", ErrInvalidInput)
	}

	start := time.Now()
	var receipt *domain.SubmissionReceipt

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := s.submitTx(ctx, tx, form, submittedBy)
		if err != nil {
			return err
		}
		receipt = r
		return nil
	})

	elapsed := time.Since(start)
	if err != nil {
		var subErr *SubmissionError
		if !errors.As(err, &subErr) {
			// commit failures surface here
			subErr = &SubmissionError{Stage: "commit", Err: err}
		}
		metrics.RecordSubmission(false, subErr.Stage, elapsed.Seconds())
		s.logger.Error("lead submission failed",
			zap.String("stage", subErr.Stage),
			zap.String("submitted_by", submittedBy),
			zap.Duration("duration", elapsed),
			zap.Error(subErr.Err),
		)
		return nil, subErr
	}

	metrics.RecordSubmission(true, "", elapsed.Seconds())
	s.logger.Info("lead submitted",
		zap.String("lead_id", receipt.LeadID.String()),
		zap.String("lead_number", receipt.LeadNumber),
		zap.String("submitted_by", submittedBy),
		zap.Duration("duration", elapsed),
	)
	return receipt, nil
}

func (s *LeadService) submitTx(ctx context.Context, tx *gorm.DB, form *domain.LeadForm, submittedBy string) (*domain.SubmissionReceipt, error) {
	leads := s.leadRepo.WithTx(tx)

	leadNumber, err := s.sequences.WithTx(tx).GenerateLeadNumber(ctx)
	if err != nil {
		return nil, &SubmissionError{Stage: StageLeadNumber, Err: err}
	}

	lead := mapper.NewLead(leadNumber, submittedBy)
	if err := leads.Create(ctx, lead); err != nil {
		return nil, &SubmissionError{Stage: StageLead, Err: err}
	}

	rows := mapper.BuildLeadRows(form, lead.ID)

	if err := leads.CreateCustomerDetails(ctx, &rows.Customer); err != nil {
		return nil, &SubmissionError{Stage: StageCustomer, Err: err}
	}
	if err := leads.CreateProjectInformation(ctx, &rows.Project); err != nil {
		return nil, &SubmissionError{Stage: StageProject, Err: err}
	}
	if err := leads.CreateStakeholderDetails(ctx, &rows.Stakeholder); err != nil {
		return nil, &SubmissionError{Stage: StageStakeholders, Err: err}
	}
	if err := leads.CreateDoorSpecifications(ctx, rows.Doors); err != nil {
		return nil, &SubmissionError{Stage: StageDoors, Err: err}
	}
	if err := leads.CreatePaymentDetails(ctx, &rows.Payment); err != nil {
		return nil, &SubmissionError{Stage: StagePayment, Err: err}
	}

	s.logger.Debug("lead rows inserted",
		zap.String("lead_id", lead.ID.String()),
		zap.String("lead_number", lead.LeadNumber),
		zap.Int("door_rows", len(rows.Doors)),
	)

	return &domain.SubmissionReceipt{
		LeadID:     lead.ID,
		LeadNumber: lead.LeadNumber,
	}, nil
}
