package domain

// DoorType is the internal key of one of the fixed door categories
type DoorType string

const (
	DoorTypeMain           DoorType = "mainDoor"
	DoorTypeInterior       DoorType = "interiorDoor"
	DoorTypeBathroom       DoorType = "bathroomDoor"
	DoorTypePooja          DoorType = "poojaDoor"
	DoorTypeBalcony        DoorType = "balconyDoor"
	DoorTypeKitchenUtility DoorType = "kitchenUtilityDoor"
	DoorTypeGlass          DoorType = "glassDoor"
	DoorTypeFireExit       DoorType = "fireExitDoor"
	DoorTypeSpecial        DoorType = "specialDoor"

	// DoorTypeOther collects stored rows whose label is not recognised
	DoorTypeOther DoorType = "other"
)

// DoorTypes lists the door keys in canonical order
var DoorTypes = []DoorType{
	DoorTypeMain,
	DoorTypeInterior,
	DoorTypeBathroom,
	DoorTypePooja,
	DoorTypeBalcony,
	DoorTypeKitchenUtility,
	DoorTypeGlass,
	DoorTypeFireExit,
	DoorTypeSpecial,
}

// IsValid reports whether d is one of the nine canonical door keys
func (d DoorType) IsValid() bool {
	for _, t := range DoorTypes {
		if t == d {
			return true
		}
	}
	return false
}

// Section names one of the five groupings of a lead
type Section string

const (
	SectionCustomer     Section = "customer"
	SectionProject      Section = "project"
	SectionStakeholders Section = "stakeholders"
	SectionDoors        Section = "doorSpecifications"
	SectionPayment      Section = "payment"
)

// Sections lists the sections in wizard order
var Sections = []Section{
	SectionCustomer,
	SectionProject,
	SectionStakeholders,
	SectionDoors,
	SectionPayment,
}

// ParseSection resolves a section name
func ParseSection(s string) (Section, bool) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, true
		}
	}
	return "", false
}

// LeadForm is the form representation of a lead as edited by the wizard.
// Number fields are kept as text.
type LeadForm struct {
	Customer           CustomerSection    `json:"customer"`
	Project            ProjectSection     `json:"project"`
	Stakeholders       StakeholderSection `json:"stakeholders"`
	DoorSpecifications DoorSpecifications `json:"doorSpecifications"`
	Payment            PaymentSection     `json:"payment"`
}

type CustomerSection struct {
	Name             string `json:"name"`
	Mobile           string `json:"mobile"`
	Email            string `json:"email"`
	Address          string `json:"address"`
	AlternateContact string `json:"alternateContact"`
	AlternateNumber  string `json:"alternateNumber"`
	Remarks          string `json:"remarks"`
}

type ProjectSection struct {
	ProjectName             string `json:"projectName"`
	BuildingType            string `json:"buildingType"`
	ConstructionStage       string `json:"constructionStage"`
	DoorRequirementTimeline string `json:"doorRequirementTimeline"`
	TotalUnitsFloors        string `json:"totalUnitsFloors"`
	EstimatedTotalDoorCount string `json:"estimatedTotalDoorCount"`
}

type StakeholderSection struct {
	ArchitectName     string `json:"architectName"`
	ArchitectContact  string `json:"architectContact"`
	ContractorName    string `json:"contractorName"`
	ContractorContact string `json:"contractorContact"`
}

// DoorSpec is the specification of one door type. Photo is an inline data URI.
type DoorSpec struct {
	Material      string  `json:"material"`
	Size          string  `json:"size"`
	Quantity      string  `json:"quantity"`
	Photo         *string `json:"photo"`
	Specification string  `json:"specification"`
}

// DoorSpecifications maps door keys to their specification
type DoorSpecifications map[DoorType]DoorSpec

type PaymentSection struct {
	PaymentMethods         []string `json:"paymentMethods"`
	LeadSource             string   `json:"leadSource"`
	ProjectPriority        string   `json:"projectPriority"`
	ExpectedCompletionDate string   `json:"expectedCompletionDate"`
}

// NewDoorSpecifications returns an entry for every canonical door type
func NewDoorSpecifications() DoorSpecifications {
	doors := make(DoorSpecifications, len(DoorTypes))
	for _, t := range DoorTypes {
		doors[t] = DoorSpec{}
	}
	return doors
}

// NewLeadForm returns an empty lead with every door key present
func NewLeadForm() *LeadForm {
	return &LeadForm{
		DoorSpecifications: NewDoorSpecifications(),
		Payment: PaymentSection{
			PaymentMethods: []string{},
		},
	}
}

// EnsureDoorKeys fills in any missing canonical door key
func (f *LeadForm) EnsureDoorKeys() {
	if f.DoorSpecifications == nil {
		f.DoorSpecifications = NewDoorSpecifications()
		return
	}
	for _, t := range DoorTypes {
		if _, ok := f.DoorSpecifications[t]; !ok {
			f.DoorSpecifications[t] = DoorSpec{}
		}
	}
}

// Clone returns a deep copy of the form
func (f *LeadForm) Clone() *LeadForm {
	if f == nil {
		return nil
	}
	out := *f
	out.DoorSpecifications = make(DoorSpecifications, len(f.DoorSpecifications))
	for k, v := range f.DoorSpecifications {
		if v.Photo != nil {
			p := *v.Photo
			v.Photo = &p
		}
		out.DoorSpecifications[k] = v
	}
	out.Payment.PaymentMethods = append([]string{}, f.Payment.PaymentMethods...)
	return &out
}
