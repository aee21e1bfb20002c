package mapper

import (
	"sort"
	"strconv"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/validation"
	"github.com/google/uuid"
)

// Defaults applied when rows are built from a form
const (
	NotSpecified      = "Not Specified"
	SubmissionNotes   = "Mobile App Submission"
	UnknownSubmitter  = "unknown"
	UnknownCustomer   = "Unknown Customer"
	ProjectNameNotSet = "Project Name Not Set"
)

// ============================================================================
// Stored lead -> form data
// ============================================================================

// ToLeadForm converts a stored lead with its child collections into form
// data. The first row of each 1:1 collection is used. Door rows are keyed by
// their stored label; unknown labels land under the "other" key.
// Returns nil for a nil lead.
func ToLeadForm(lead *domain.Lead) *domain.LeadForm {
	if lead == nil {
		return nil
	}

	form := domain.NewLeadForm()

	if len(lead.CustomerContactDetails) > 0 {
		c := lead.CustomerContactDetails[0]
		form.Customer = domain.CustomerSection{
			Name:             c.CustomerName,
			Mobile:           c.MobileNumber,
			Email:            deref(c.EmailAddress),
			Address:          c.AddressSiteLocation,
			AlternateContact: deref(c.AlternateContactPerson),
			AlternateNumber:  deref(c.AlternateNumber),
			Remarks:          deref(c.Remarks),
		}
	}

	if len(lead.ProjectInformation) > 0 {
		p := lead.ProjectInformation[0]
		form.Project = domain.ProjectSection{
			ProjectName:             p.ProjectName,
			BuildingType:            p.BuildingType,
			ConstructionStage:       p.ConstructionStage,
			DoorRequirementTimeline: p.DoorRequirementTimeline,
			TotalUnitsFloors:        deref(p.TotalUnitsFloors),
			EstimatedTotalDoorCount: strconv.Itoa(p.EstimatedTotalDoorCount),
		}
	}

	if len(lead.StakeholderDetails) > 0 {
		s := lead.StakeholderDetails[0]
		form.Stakeholders = domain.StakeholderSection{
			ArchitectName:     s.ArchitectEngineerName,
			ArchitectContact:  s.ArchitectContactNumber,
			ContractorName:    s.ContractorName,
			ContractorContact: s.ContractorContactNumber,
		}
	}

	for _, ds := range lead.DoorSpecifications {
		key := domain.DoorTypeFromLabel(ds.DoorType)
		form.DoorSpecifications[key] = domain.DoorSpec{
			Material:      ds.MaterialType,
			Size:          ds.Size,
			Quantity:      strconv.Itoa(ds.Quantity),
			Specification: deref(ds.SpecificationDetails),
			Photo:         copyPtr(ds.PhotoURL),
		}
	}

	if len(lead.PaymentDetails) > 0 {
		p := lead.PaymentDetails[0]
		methods := []string{}
		if p.PaymentMethods != nil {
			methods = append(methods, p.PaymentMethods...)
		}
		form.Payment = domain.PaymentSection{
			PaymentMethods:         methods,
			LeadSource:             p.LeadSource,
			ProjectPriority:        p.ProjectPriority,
			ExpectedCompletionDate: p.ExpectedCompletionDate,
		}
	}

	return form
}

// ============================================================================
// Form data -> rows
// ============================================================================

// LeadRows holds the child rows of one submission
type LeadRows struct {
	Customer    domain.CustomerContactDetail
	Project     domain.ProjectInformation
	Stakeholder domain.StakeholderDetail
	Doors       []domain.DoorSpecification
	Payment     domain.PaymentDetail
}

// NewLead builds the parent row for a submission
func NewLead(leadNumber, submittedBy string) *domain.Lead {
	if submittedBy == "" {
		submittedBy = UnknownSubmitter
	}
	notes := SubmissionNotes
	return &domain.Lead{
		LeadNumber:  leadNumber,
		Status:      domain.LeadStatusNew,
		SubmittedBy: submittedBy,
		Notes:       &notes,
	}
}

// BuildLeadRows converts form data into the child rows stored for leadID
func BuildLeadRows(form *domain.LeadForm, leadID uuid.UUID) LeadRows {
	return LeadRows{
		Customer: domain.CustomerContactDetail{
			LeadID:                 leadID,
			CustomerName:           form.Customer.Name,
			MobileNumber:           form.Customer.Mobile,
			EmailAddress:           optional(form.Customer.Email),
			AddressSiteLocation:    form.Customer.Address,
			AlternateContactPerson: optional(form.Customer.AlternateContact),
			AlternateNumber:        optional(form.Customer.AlternateNumber),
			Remarks:                optional(form.Customer.Remarks),
		},
		Project: domain.ProjectInformation{
			LeadID:                  leadID,
			ProjectName:             form.Project.ProjectName,
			BuildingType:            form.Project.BuildingType,
			ConstructionStage:       form.Project.ConstructionStage,
			DoorRequirementTimeline: form.Project.DoorRequirementTimeline,
			TotalUnitsFloors:        optional(form.Project.TotalUnitsFloors),
			EstimatedTotalDoorCount: validation.ParseCount(form.Project.EstimatedTotalDoorCount),
		},
		Stakeholder: domain.StakeholderDetail{
			LeadID:                  leadID,
			ArchitectEngineerName:   form.Stakeholders.ArchitectName,
			ArchitectContactNumber:  form.Stakeholders.ArchitectContact,
			ContractorName:          form.Stakeholders.ContractorName,
			ContractorContactNumber: form.Stakeholders.ContractorContact,
		},
		Doors: BuildDoorRows(form.DoorSpecifications, leadID),
		Payment: domain.PaymentDetail{
			LeadID:                 leadID,
			PaymentMethods:         domain.StringArray(append([]string{}, form.Payment.PaymentMethods...)),
			LeadSource:             form.Payment.LeadSource,
			ProjectPriority:        form.Payment.ProjectPriority,
			ExpectedCompletionDate: form.Payment.ExpectedCompletionDate,
		},
	}
}

// BuildDoorRows emits one row per door whose quantity parses above zero,
// canonical door types first, then any other keys in name order.
func BuildDoorRows(doors domain.DoorSpecifications, leadID uuid.UUID) []domain.DoorSpecification {
	rows := make([]domain.DoorSpecification, 0)
	for _, key := range doorKeyOrder(doors) {
		spec := doors[key]
		qty := validation.ParseCount(spec.Quantity)
		if qty <= 0 {
			continue
		}
		rows = append(rows, domain.DoorSpecification{
			LeadID:               leadID,
			DoorType:             domain.DoorTypeLabel(key),
			MaterialType:         orDefault(spec.Material, NotSpecified),
			Size:                 orDefault(spec.Size, NotSpecified),
			Quantity:             qty,
			SpecificationDetails: optional(spec.Specification),
			PhotoURL:             optionalPtr(spec.Photo),
		})
	}
	return rows
}

func doorKeyOrder(doors domain.DoorSpecifications) []domain.DoorType {
	keys := make([]domain.DoorType, 0, len(doors))
	for _, t := range domain.DoorTypes {
		if _, ok := doors[t]; ok {
			keys = append(keys, t)
		}
	}
	var extra []domain.DoorType
	for k := range doors {
		if !k.IsValid() {
			extra = append(extra, k)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(keys, extra...)
}

// ============================================================================
// Dashboard DTOs
// ============================================================================

// CustomerName returns the first customer name, or "" when absent
func CustomerName(lead *domain.Lead) string {
	if len(lead.CustomerContactDetails) == 0 {
		return ""
	}
	return lead.CustomerContactDetails[0].CustomerName
}

// ProjectName returns the first project name, or "" when absent
func ProjectName(lead *domain.Lead) string {
	if len(lead.ProjectInformation) == 0 {
		return ""
	}
	return lead.ProjectInformation[0].ProjectName
}

// ToLeadSummaryDTO converts a lead to its dashboard card
func ToLeadSummaryDTO(lead *domain.Lead) domain.LeadSummaryDTO {
	dto := domain.LeadSummaryDTO{
		ID:           lead.ID,
		LeadNumber:   lead.LeadNumber,
		Status:       lead.Status,
		CustomerName: orDefault(CustomerName(lead), UnknownCustomer),
		ProjectName:  orDefault(ProjectName(lead), ProjectNameNotSet),
		SubmittedBy:  lead.SubmittedBy,
		CreatedAt:    lead.CreatedAt,
	}
	if len(lead.ProjectInformation) > 0 {
		dto.EstimatedTotalDoorCount = lead.ProjectInformation[0].EstimatedTotalDoorCount
	}
	return dto
}

// ToLeadSummaryDTOs converts a list of leads
func ToLeadSummaryDTOs(leads []domain.Lead) []domain.LeadSummaryDTO {
	out := make([]domain.LeadSummaryDTO, len(leads))
	for i := range leads {
		out[i] = ToLeadSummaryDTO(&leads[i])
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func copyPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalPtr(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return copyPtr(s)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
