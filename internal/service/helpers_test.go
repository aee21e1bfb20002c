package service_test

import (
	"context"
	"testing"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/repository"
	"github.com/doorline/leadcapture-api/internal/service"
	"github.com/doorline/leadcapture-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	leadRepo  *repository.LeadRepository
	seqRepo   *repository.NumberSequenceRepository
	leads     *service.LeadService
	dashboard *service.DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	log := zap.NewNop()
	leadRepo := repository.NewLeadRepository(db)
	seqRepo := repository.NewNumberSequenceRepository(db)
	seq := service.NewNumberSequenceService(seqRepo, log)
	return &fixture{
		db:        db,
		leadRepo:  leadRepo,
		seqRepo:   seqRepo,
		leads:     service.NewLeadService(db, leadRepo, seq, log),
		dashboard: service.NewDashboardService(leadRepo, log),
	}
}

func sampleForm(customer, project string) *domain.LeadForm {
	form := domain.NewLeadForm()
	form.Customer = domain.CustomerSection{
		Name:    customer,
		Mobile:  "9876543210",
		Email:   "owner@example.com",
		Address: "Plot 4, MG Road",
	}
	form.Project = domain.ProjectSection{
		ProjectName:             project,
		BuildingType:            "Commercial",
		ConstructionStage:       "Walls",
		DoorRequirementTimeline: "3 months",
		EstimatedTotalDoorCount: "12",
	}
	form.Stakeholders = domain.StakeholderSection{
		ArchitectName: "Meena", ArchitectContact: "9988776655",
		ContractorName: "BuildWell", ContractorContact: "9090909090",
	}
	form.DoorSpecifications[domain.DoorTypeMain] = domain.DoorSpec{Material: "Teak Wood", Size: "3ft x 7ft", Quantity: "2"}
	form.DoorSpecifications[domain.DoorTypeSpecial] = domain.DoorSpec{Material: "Specify", Size: "4ft x 8ft", Quantity: "1", Specification: "Sliding"}
	form.Payment = domain.PaymentSection{
		PaymentMethods:         []string{"Cash"},
		LeadSource:             "Walk-in",
		ProjectPriority:        "Hot",
		ExpectedCompletionDate: "2026-12-01",
	}
	return form
}

func (f *fixture) submit(t *testing.T, form *domain.LeadForm, by string) *domain.SubmissionReceipt {
	t.Helper()
	receipt, err := f.leads.Submit(context.Background(), form, by)
	require.NoError(t, err)
	return receipt
}
