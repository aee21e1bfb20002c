package wizard

import (
	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/validation"
)

// GeneralErrorKey holds an error that applies to a whole section
const GeneralErrorKey = "general"

// Messages shown by the step validators
const (
	MsgCustomerNameRequired   = "Customer/Owner Name is required"
	MsgAddressRequired        = "Address/Site Location is required"
	MsgProjectNameRequired    = "Project Name is required"
	MsgBuildingTypeRequired   = "Building Type is required"
	MsgConstructionRequired   = "Construction Stage is required"
	MsgTimelineRequired       = "Requirement Timeline is required"
	MsgDoorCountRequired      = "Estimated Door Count is required"
	MsgArchitectNameRequired  = "Architect/Engineer Name is required"
	MsgContractorNameRequired = "Contractor Name is required"
	MsgDoorsRequired          = "Please specify at least one door type with Material, Size, and Quantity."
	MsgPaymentMethodRequired  = "Select at least one payment method"
	MsgLeadSourceRequired     = "Lead Source is required"
	MsgPriorityRequired       = "Project Priority is required"
	MsgCompletionDateRequired = "Expected Completion Date is required"
)

// ValidateCustomer checks name, mobile and address. Email is not gated.
func ValidateCustomer(c domain.CustomerSection) domain.SectionErrors {
	errs := domain.SectionErrors{}
	if c.Name == "" {
		errs["name"] = MsgCustomerNameRequired
	}
	if msg := validation.ValidateMobile(c.Mobile); msg != "" {
		errs["mobile"] = msg
	}
	if c.Address == "" {
		errs["address"] = MsgAddressRequired
	}
	return errs
}

func ValidateProject(p domain.ProjectSection) domain.SectionErrors {
	errs := domain.SectionErrors{}
	if p.ProjectName == "" {
		errs["projectName"] = MsgProjectNameRequired
	}
	if p.BuildingType == "" {
		errs["buildingType"] = MsgBuildingTypeRequired
	}
	if p.ConstructionStage == "" {
		errs["constructionStage"] = MsgConstructionRequired
	}
	if p.DoorRequirementTimeline == "" {
		errs["doorRequirementTimeline"] = MsgTimelineRequired
	}
	if p.EstimatedTotalDoorCount == "" {
		errs["estimatedTotalDoorCount"] = MsgDoorCountRequired
	}
	return errs
}

func ValidateStakeholders(s domain.StakeholderSection) domain.SectionErrors {
	errs := domain.SectionErrors{}
	if s.ArchitectName == "" {
		errs["architectName"] = MsgArchitectNameRequired
	}
	if msg := validation.ValidateMobile(s.ArchitectContact); msg != "" {
		errs["architectContact"] = msg
	}
	if s.ContractorName == "" {
		errs["contractorName"] = MsgContractorNameRequired
	}
	if msg := validation.ValidateMobile(s.ContractorContact); msg != "" {
		errs["contractorContact"] = msg
	}
	return errs
}

// ValidateDoors requires one door with material, size and a positive quantity
func ValidateDoors(doors domain.DoorSpecifications) domain.SectionErrors {
	for _, d := range doors {
		if isSpecified(d) {
			return domain.SectionErrors{}
		}
	}
	return domain.SectionErrors{GeneralErrorKey: MsgDoorsRequired}
}

func isSpecified(d domain.DoorSpec) bool {
	return d.Material != "" && d.Size != "" && d.Quantity != "" && validation.ParseCount(d.Quantity) > 0
}

func ValidatePayment(p domain.PaymentSection) domain.SectionErrors {
	errs := domain.SectionErrors{}
	if len(p.PaymentMethods) == 0 {
		errs["paymentMethods"] = MsgPaymentMethodRequired
	}
	if p.LeadSource == "" {
		errs["leadSource"] = MsgLeadSourceRequired
	}
	if p.ProjectPriority == "" {
		errs["projectPriority"] = MsgPriorityRequired
	}
	if p.ExpectedCompletionDate == "" {
		errs["expectedCompletionDate"] = MsgCompletionDateRequired
	}
	return errs
}

// ValidateSection runs the validator bound to section
func ValidateSection(section domain.Section, form *domain.LeadForm) (domain.SectionErrors, error) {
	switch section {
	case domain.SectionCustomer:
		return ValidateCustomer(form.Customer), nil
	case domain.SectionProject:
		return ValidateProject(form.Project), nil
	case domain.SectionStakeholders:
		return ValidateStakeholders(form.Stakeholders), nil
	case domain.SectionDoors:
		return ValidateDoors(form.DoorSpecifications), nil
	case domain.SectionPayment:
		return ValidatePayment(form.Payment), nil
	default:
		return nil, ErrUnknownSection
	}
}
