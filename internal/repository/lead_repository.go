package repository

import (
	"context"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LeadRepository handles the leads table and its five child tables
type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *LeadRepository) WithTx(tx *gorm.DB) *LeadRepository {
	return &LeadRepository{db: tx}
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(lead).Error
}

func (r *LeadRepository) CreateCustomerDetails(ctx context.Context, row *domain.CustomerContactDetail) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *LeadRepository) CreateProjectInformation(ctx context.Context, row *domain.ProjectInformation) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *LeadRepository) CreateStakeholderDetails(ctx context.Context, row *domain.StakeholderDetail) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// CreateDoorSpecifications inserts all door rows in one statement
func (r *LeadRepository) CreateDoorSpecifications(ctx context.Context, rows []domain.DoorSpecification) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *LeadRepository) CreatePaymentDetails(ctx context.Context, row *domain.PaymentDetail) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// GetByID returns a lead with every child collection loaded
func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID, scope LeadScope) (*domain.Lead, error) {
	var lead domain.Lead
	query := withChildren(r.db.WithContext(ctx)).Where("leads.id = ?", id)
	query = ApplyLeadScope(query, scope)
	if err := query.First(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// List returns every lead in scope with its child collections, newest first
func (r *LeadRepository) List(ctx context.Context, scope LeadScope) ([]domain.Lead, error) {
	var leads []domain.Lead
	query := withChildren(r.db.WithContext(ctx).Model(&domain.Lead{}))
	query = ApplyLeadScope(query, scope)
	if err := query.Order("leads.created_at DESC").Order("leads.lead_number DESC").Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// Count returns the number of leads in scope
func (r *LeadRepository) Count(ctx context.Context, scope LeadScope) (int64, error) {
	var total int64
	query := ApplyLeadScope(r.db.WithContext(ctx).Model(&domain.Lead{}), scope)
	err := query.Count(&total).Error
	return total, err
}

// ExistsByNumber reports whether a lead number is taken
func (r *LeadRepository) ExistsByNumber(ctx context.Context, leadNumber string) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Lead{}).
		Where("lead_number = ?", leadNumber).
		Count(&total).Error
	return total > 0, err
}

func withChildren(query *gorm.DB) *gorm.DB {
	return query.
		Preload("CustomerContactDetails").
		Preload("ProjectInformation").
		Preload("StakeholderDetails").
		Preload("DoorSpecifications").
		Preload("PaymentDetails")
}
