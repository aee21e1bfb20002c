package service

import (
	"context"
	"fmt"
	"time"

	"github.com/doorline/leadcapture-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LeadNumberPrefix is the prefix of every lead number
const LeadNumberPrefix = "LEAD"

// NumberSequenceService generates lead numbers from a per-year sequence.
//
// Format: LEAD-{YEAR}-{SEQUENCE}
// Example: LEAD-2026-0042
type NumberSequenceService struct {
	repo   *repository.NumberSequenceRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewNumberSequenceService creates a new NumberSequenceService
func NewNumberSequenceService(repo *repository.NumberSequenceRepository, logger *zap.Logger) *NumberSequenceService {
	return &NumberSequenceService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// WithTx returns a service whose sequence reads and writes join tx
func (s *NumberSequenceService) WithTx(tx *gorm.DB) *NumberSequenceService {
	return &NumberSequenceService{
		repo:   s.repo.WithTx(tx),
		logger: s.logger,
		now:    s.now,
	}
}

// GenerateLeadNumber returns the next lead number for the current year.
// Inside a transaction the increment is rolled back with it, so numbers of
// failed submissions are reused.
func (s *NumberSequenceService) GenerateLeadNumber(ctx context.Context) (string, error) {
	year := s.now().UTC().Year()

	nextSeq, err := s.repo.GetNextNumber(ctx, LeadNumberPrefix, year)
	if err != nil {
		s.logger.Error("failed to get next sequence number",
			zap.String("prefix", LeadNumberPrefix),
			zap.Int("year", year),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate lead number: %w", err)
	}

	return FormatLeadNumber(year, nextSeq), nil
}

// FormatLeadNumber renders a lead number, zero-padding the sequence to 4 digits
func FormatLeadNumber(year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", LeadNumberPrefix, year, seq)
}
