package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/mapper"
	"github.com/doorline/leadcapture-api/internal/repository"
	"github.com/doorline/leadcapture-api/internal/storage"
	"go.uber.org/zap"
)

// ExportContentType is the content type of lead exports
const ExportContentType = "text/csv; charset=utf-8"

var exportHeader = []string{
	"Lead Number", "Status", "Created At", "Submitted By",
	"Customer Name", "Mobile", "Email", "Address", "Alternate Contact", "Alternate Number", "Remarks",
	"Project Name", "Building Type", "Construction Stage", "Door Timeline", "Total Units/Floors", "Total Door Count",
	"Architect Name", "Architect Contact", "Contractor Name", "Contractor Contact",
	"Doors",
	"Payment Methods", "Lead Source", "Project Priority", "Expected Completion",
}

// ExportService writes leads as CSV and stores scheduled snapshots
type ExportService struct {
	leadRepo *repository.LeadRepository
	store    storage.Storage
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService creates a new export service. store may be nil when
// snapshots are not configured.
func NewExportService(leadRepo *repository.LeadRepository, store storage.Storage, logger *zap.Logger) *ExportService {
	return &ExportService{
		leadRepo: leadRepo,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// WriteCSV writes every lead within scope to w, newest first, and returns
// the number of leads written
func (s *ExportService) WriteCSV(ctx context.Context, w io.Writer, scope repository.LeadScope) (int, error) {
	leads, err := s.leadRepo.List(ctx, scope)
	if err != nil {
		return 0, fmt.Errorf("failed to list leads: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("failed to write export header: %w", err)
	}
	for i := range leads {
		if err := cw.Write(exportRow(&leads[i])); err != nil {
			return i, fmt.Errorf("failed to write lead %s: %w", leads[i].LeadNumber, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return len(leads), fmt.Errorf("failed to flush export: %w", err)
	}
	return len(leads), nil
}

// SnapshotKey returns the storage key of a snapshot taken at t
func SnapshotKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("exports/%04d/%02d/leads-%s.csv", t.Year(), int(t.Month()), t.Format("20060102T150405Z"))
}

// Snapshot exports every lead to storage and returns the key written
func (s *ExportService) Snapshot(ctx context.Context) (string, error) {
	if s.store == nil {
		return "", ErrStorageUnavailable
	}

	var buf bytes.Buffer
	n, err := s.WriteCSV(ctx, &buf, repository.AllLeads)
	if err != nil {
		return "", err
	}

	key := SnapshotKey(s.now())
	size, err := s.store.Put(ctx, key, ExportContentType, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to store export snapshot: %w", err)
	}

	s.logger.Info("export snapshot stored",
		zap.String("key", key),
		zap.Int("leads", n),
		zap.Int64("bytes", size),
	)
	return key, nil
}

func exportRow(lead *domain.Lead) []string {
	form := mapper.ToLeadForm(lead)
	cu, p, st, pay := form.Customer, form.Project, form.Stakeholders, form.Payment

	row := []string{
		lead.LeadNumber, string(lead.Status), lead.CreatedAt.UTC().Format(time.RFC3339), lead.SubmittedBy,
		cu.Name, cu.Mobile, cu.Email, cu.Address, cu.AlternateContact, cu.AlternateNumber, cu.Remarks,
		p.ProjectName, p.BuildingType, p.ConstructionStage, p.DoorRequirementTimeline, p.TotalUnitsFloors, p.EstimatedTotalDoorCount,
		st.ArchitectName, st.ArchitectContact, st.ContractorName, st.ContractorContact,
		doorSummary(lead.DoorSpecifications),
		strings.Join(pay.PaymentMethods, ", "), pay.LeadSource, pay.ProjectPriority, pay.ExpectedCompletionDate,
	}
	for i := range row {
		row[i] = escapeFormula(row[i])
	}
	return row
}

// escapeFormula quotes cells a spreadsheet would evaluate as a formula
func escapeFormula(cell string) string {
	if cell == "" {
		return cell
	}
	switch cell[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + cell
	}
	return cell
}

// doorSummary renders door rows as "Main Door: Teak Wood 3ft x 7ft x2; ..."
func doorSummary(doors []domain.DoorSpecification) string {
	parts := make([]string, 0, len(doors))
	for _, d := range doors {
		part := d.DoorType + ": " + d.MaterialType + " " + d.Size + " x" + strconv.Itoa(d.Quantity)
		if d.SpecificationDetails != nil && *d.SpecificationDetails != "" {
			part += " (" + *d.SpecificationDetails + ")"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}
