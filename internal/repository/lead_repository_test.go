package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/repository"
	"github.com/doorline/leadcapture-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createLead(t *testing.T, repo *repository.LeadRepository, number, submittedBy string, createdAt time.Time) *domain.Lead {
	t.Helper()
	ctx := context.Background()

	lead := &domain.Lead{
		LeadNumber:  number,
		Status:      domain.LeadStatusNew,
		SubmittedBy: submittedBy,
		CreatedAt:   createdAt,
	}
	require.NoError(t, repo.Create(ctx, lead))
	require.NotEqual(t, uuid.Nil, lead.ID)

	require.NoError(t, repo.CreateCustomerDetails(ctx, &domain.CustomerContactDetail{
		LeadID: lead.ID, CustomerName: "Customer " + number, MobileNumber: "9876543210", AddressSiteLocation: "Pune",
	}))
	require.NoError(t, repo.CreateProjectInformation(ctx, &domain.ProjectInformation{
		LeadID: lead.ID, ProjectName: "Project " + number, BuildingType: "Commercial",
		ConstructionStage: "Walls", DoorRequirementTimeline: "3 months", EstimatedTotalDoorCount: 12,
	}))
	require.NoError(t, repo.CreateStakeholderDetails(ctx, &domain.StakeholderDetail{
		LeadID: lead.ID, ArchitectEngineerName: "Ar Meena", ArchitectContactNumber: "9988776655",
		ContractorName: "BuildWell", ContractorContactNumber: "9090909090",
	}))
	require.NoError(t, repo.CreateDoorSpecifications(ctx, []domain.DoorSpecification{
		{LeadID: lead.ID, DoorType: "Main Door", MaterialType: "Teak Wood", Size: "3ft x 7ft", Quantity: 2},
		{LeadID: lead.ID, DoorType: "Glass Door", MaterialType: "Full Glass", Size: "4ft x 7ft", Quantity: 1},
	}))
	require.NoError(t, repo.CreatePaymentDetails(ctx, &domain.PaymentDetail{
		LeadID: lead.ID, PaymentMethods: domain.StringArray{"Cash"}, LeadSource: "Walk-in",
		ProjectPriority: "Warm", ExpectedCompletionDate: "2026-11-30",
	}))
	return lead
}

func TestLeadRepository_GetByIDLoadsChildren(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewLeadRepository(db)
	created := createLead(t, repo, "LEAD-2026-0001", "user@example.com", time.Now())

	lead, err := repo.GetByID(context.Background(), created.ID, repository.AllLeads)

	require.NoError(t, err)
	assert.Equal(t, "LEAD-2026-0001", lead.LeadNumber)
	require.Len(t, lead.CustomerContactDetails, 1)
	require.Len(t, lead.ProjectInformation, 1)
	require.Len(t, lead.StakeholderDetails, 1)
	require.Len(t, lead.DoorSpecifications, 2)
	require.Len(t, lead.PaymentDetails, 1)
	assert.Equal(t, domain.StringArray{"Cash"}, lead.PaymentDetails[0].PaymentMethods)
	assert.Equal(t, 12, lead.ProjectInformation[0].EstimatedTotalDoorCount)
}

func TestLeadRepository_GetByIDRespectsScope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewLeadRepository(db)
	created := createLead(t, repo, "LEAD-2026-0001", "owner@example.com", time.Now())

	_, err := repo.GetByID(context.Background(), created.ID, repository.OwnLeads("someone@example.com"))
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	lead, err := repo.GetByID(context.Background(), created.ID, repository.OwnLeads("owner@example.com"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, lead.ID)
}

func TestLeadRepository_ListNewestFirstAndScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewLeadRepository(db)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	createLead(t, repo, "LEAD-2026-0001", "a@example.com", base)
	createLead(t, repo, "LEAD-2026-0002", "b@example.com", base.Add(time.Hour))
	createLead(t, repo, "LEAD-2026-0003", "a@example.com", base.Add(2*time.Hour))

	all, err := repo.List(context.Background(), repository.AllLeads)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "LEAD-2026-0003", all[0].LeadNumber)
	assert.Equal(t, "LEAD-2026-0002", all[1].LeadNumber)
	assert.Equal(t, "LEAD-2026-0001", all[2].LeadNumber)
	assert.Len(t, all[0].DoorSpecifications, 2)

	own, err := repo.List(context.Background(), repository.OwnLeads("a@example.com"))
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, "LEAD-2026-0003", own[0].LeadNumber)

	count, err := repo.Count(context.Background(), repository.OwnLeads("b@example.com"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLeadRepository_WithTxRollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewLeadRepository(db)

	err := db.Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		lead := &domain.Lead{LeadNumber: "LEAD-2026-0009", Status: domain.LeadStatusNew, SubmittedBy: "x@example.com"}
		require.NoError(t, txRepo.Create(context.Background(), lead))
		return errors.New("abort")
	})
	require.Error(t, err)

	exists, err := repo.ExistsByNumber(context.Background(), "LEAD-2026-0009")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLeadRepository_CreateDoorSpecificationsEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewLeadRepository(db)

	assert.NoError(t, repo.CreateDoorSpecifications(context.Background(), nil))
	assert.Equal(t, int64(0), testutil.CountRows(t, db, "door_specifications"))
}
