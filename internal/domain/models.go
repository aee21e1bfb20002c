package domain

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// BaseModel carries the primary key shared by every lead table.
// IDs are assigned in BeforeCreate so the same models work on SQLite in tests.
type BaseModel struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
}

// BeforeCreate assigns a fresh UUID when none is set
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// LeadStatus represents the lifecycle status of a lead
type LeadStatus string

const (
	LeadStatusNew LeadStatus = "New"
)

// Lead is the parent row of a captured lead. The five child collections are
// conceptually 1:1 except DoorSpecifications, which holds one row per door type.
type Lead struct {
	BaseModel
	LeadNumber  string     `gorm:"column:lead_number;type:varchar(50);not null;uniqueIndex"`
	Status      LeadStatus `gorm:"type:varchar(50);not null;default:'New'"`
	SubmittedBy string     `gorm:"column:submitted_by;type:varchar(255);not null;index"`
	Notes       *string    `gorm:"type:text"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime"`

	CustomerContactDetails []CustomerContactDetail `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE"`
	ProjectInformation     []ProjectInformation    `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE"`
	StakeholderDetails     []StakeholderDetail     `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE"`
	DoorSpecifications     []DoorSpecification     `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE"`
	PaymentDetails         []PaymentDetail         `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE"`
}

func (Lead) TableName() string { return "leads" }

// CustomerContactDetail holds the customer section of a lead
type CustomerContactDetail struct {
	BaseModel
	LeadID                 uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerName           string    `gorm:"type:text;not null"`
	MobileNumber           string    `gorm:"type:text;not null"`
	EmailAddress           *string   `gorm:"type:text"`
	AddressSiteLocation    string    `gorm:"type:text;not null"`
	AlternateContactPerson *string   `gorm:"type:text"`
	AlternateNumber        *string   `gorm:"type:text"`
	Remarks                *string   `gorm:"type:text"`
}

func (CustomerContactDetail) TableName() string { return "customer_contact_details" }

// ProjectInformation holds the project section of a lead
type ProjectInformation struct {
	BaseModel
	LeadID                  uuid.UUID `gorm:"type:uuid;not null;index"`
	ProjectName             string    `gorm:"type:text;not null"`
	BuildingType            string    `gorm:"type:text;not null"`
	ConstructionStage       string    `gorm:"type:text;not null"`
	DoorRequirementTimeline string    `gorm:"type:text;not null"`
	TotalUnitsFloors        *string   `gorm:"type:text"`
	EstimatedTotalDoorCount int       `gorm:"not null;default:0"`
}

func (ProjectInformation) TableName() string { return "project_information" }

// StakeholderDetail holds the architect and contractor of a lead
type StakeholderDetail struct {
	BaseModel
	LeadID                  uuid.UUID `gorm:"type:uuid;not null;index"`
	ArchitectEngineerName   string    `gorm:"type:text;not null"`
	ArchitectContactNumber  string    `gorm:"type:text;not null"`
	ContractorName          string    `gorm:"type:text;not null"`
	ContractorContactNumber string    `gorm:"type:text;not null"`
}

func (StakeholderDetail) TableName() string { return "stakeholder_details" }

// DoorSpecification is one door type requested for a lead
type DoorSpecification struct {
	BaseModel
	LeadID               uuid.UUID `gorm:"type:uuid;not null;index"`
	DoorType             string    `gorm:"type:text;not null"`
	MaterialType         string    `gorm:"type:text;not null"`
	Size                 string    `gorm:"type:text;not null"`
	Quantity             int       `gorm:"not null"`
	SpecificationDetails *string   `gorm:"type:text"`
	PhotoURL             *string   `gorm:"column:photo_url;type:text"`
}

func (DoorSpecification) TableName() string { return "door_specifications" }

// PaymentDetail holds the payment and priority section of a lead
type PaymentDetail struct {
	BaseModel
	LeadID                 uuid.UUID   `gorm:"type:uuid;not null;index"`
	PaymentMethods         StringArray `gorm:"not null"`
	LeadSource             string      `gorm:"type:text;not null"`
	ProjectPriority        string      `gorm:"type:text;not null"`
	ExpectedCompletionDate string      `gorm:"type:text;not null"`
}

func (PaymentDetail) TableName() string { return "payment_details" }

// NumberSequence tracks the last issued lead number per prefix and year
type NumberSequence struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	Prefix       string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_number_sequences_prefix_year"`
	Year         int       `gorm:"not null;uniqueIndex:idx_number_sequences_prefix_year"`
	LastSequence int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (NumberSequence) TableName() string { return "number_sequences" }

// StringArray is a text array column. It maps to TEXT[] on PostgreSQL and
// falls back to the array literal stored as text on other dialects.
type StringArray []string

// GormDBDataType picks the column type per dialect
func (StringArray) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// Value encodes the array using the PostgreSQL array literal format
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return pq.StringArray{}.Value()
	}
	return pq.StringArray(a).Value()
}

// Scan decodes a PostgreSQL array literal
func (a *StringArray) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	*a = StringArray(arr)
	return nil
}
