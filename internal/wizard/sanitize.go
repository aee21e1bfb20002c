package wizard

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/validation"
)

// SanitizeCustomer applies the input-time sanitisers of the customer step
func SanitizeCustomer(c domain.CustomerSection) domain.CustomerSection {
	return domain.CustomerSection{
		Name:             validation.SanitizeName(c.Name),
		Mobile:           validation.SanitizeMobile(c.Mobile),
		Email:            validation.SanitizeEmail(c.Email),
		Address:          validation.SanitizeAddress(c.Address),
		AlternateContact: validation.SanitizeName(c.AlternateContact),
		AlternateNumber:  validation.SanitizeMobile(c.AlternateNumber),
		Remarks:          validation.SanitizeAddress(c.Remarks),
	}
}

// SanitizeProject leaves the two option fields as given
func SanitizeProject(p domain.ProjectSection) domain.ProjectSection {
	return domain.ProjectSection{
		ProjectName:             validation.SanitizeAddress(p.ProjectName),
		BuildingType:            p.BuildingType,
		ConstructionStage:       p.ConstructionStage,
		DoorRequirementTimeline: validation.SanitizeAddress(p.DoorRequirementTimeline),
		TotalUnitsFloors:        validation.SanitizeAddress(p.TotalUnitsFloors),
		EstimatedTotalDoorCount: validation.SanitizeNumber(p.EstimatedTotalDoorCount),
	}
}

func SanitizeStakeholders(s domain.StakeholderSection) domain.StakeholderSection {
	return domain.StakeholderSection{
		ArchitectName:     validation.SanitizeName(s.ArchitectName),
		ArchitectContact:  validation.SanitizeMobile(s.ArchitectContact),
		ContractorName:    validation.SanitizeName(s.ContractorName),
		ContractorContact: validation.SanitizeMobile(s.ContractorContact),
	}
}

// SanitizeDoors keeps the nine canonical door keys, filling any that are
// missing. Only the special door carries specification text.
func SanitizeDoors(doors domain.DoorSpecifications) domain.DoorSpecifications {
	out := domain.NewDoorSpecifications()
	for key, d := range doors {
		if !key.IsValid() {
			continue
		}
		spec := domain.DoorSpec{
			Material: d.Material,
			Size:     validation.SanitizeDoorSize(d.Size),
			Quantity: validation.SanitizeNumber(d.Quantity),
		}
		if key == domain.DoorTypeSpecial {
			spec.Specification = validation.SanitizeAddress(d.Specification)
		}
		if d.Photo != nil && *d.Photo != "" {
			photo := *d.Photo
			spec.Photo = &photo
		}
		out[key] = spec
	}
	return out
}

// SanitizePayment enforces single selection of the payment method: the last
// method supplied wins
func SanitizePayment(p domain.PaymentSection) domain.PaymentSection {
	methods := []string{}
	for i := len(p.PaymentMethods) - 1; i >= 0; i-- {
		if p.PaymentMethods[i] != "" {
			methods = []string{p.PaymentMethods[i]}
			break
		}
	}
	return domain.PaymentSection{
		PaymentMethods:         methods,
		LeadSource:             p.LeadSource,
		ProjectPriority:        p.ProjectPriority,
		ExpectedCompletionDate: p.ExpectedCompletionDate,
	}
}

// DecodeSection parses the JSON body of a section update into the section's
// type. Unknown fields are rejected.
func DecodeSection(section domain.Section, raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var (
		value any
		err   error
	)
	switch section {
	case domain.SectionCustomer:
		var v domain.CustomerSection
		err = dec.Decode(&v)
		value = v
	case domain.SectionProject:
		var v domain.ProjectSection
		err = dec.Decode(&v)
		value = v
	case domain.SectionStakeholders:
		var v domain.StakeholderSection
		err = dec.Decode(&v)
		value = v
	case domain.SectionDoors:
		var v domain.DoorSpecifications
		err = dec.Decode(&v)
		value = v
	case domain.SectionPayment:
		var v domain.PaymentSection
		err = dec.Decode(&v)
		value = v
	default:
		return nil, ErrUnknownSection
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSectionData, err)
	}
	return value, nil
}

// applySection sanitises value and writes it into form
func applySection(form *domain.LeadForm, section domain.Section, value any) error {
	switch section {
	case domain.SectionCustomer:
		v, ok := value.(domain.CustomerSection)
		if !ok {
			return ErrInvalidSectionData
		}
		form.Customer = SanitizeCustomer(v)
	case domain.SectionProject:
		v, ok := value.(domain.ProjectSection)
		if !ok {
			return ErrInvalidSectionData
		}
		form.Project = SanitizeProject(v)
	case domain.SectionStakeholders:
		v, ok := value.(domain.StakeholderSection)
		if !ok {
			return ErrInvalidSectionData
		}
		form.Stakeholders = SanitizeStakeholders(v)
	case domain.SectionDoors:
		v, ok := value.(domain.DoorSpecifications)
		if !ok {
			return ErrInvalidSectionData
		}
		form.DoorSpecifications = SanitizeDoors(v)
	case domain.SectionPayment:
		v, ok := value.(domain.PaymentSection)
		if !ok {
			return ErrInvalidSectionData
		}
		form.Payment = SanitizePayment(v)
	default:
		return ErrUnknownSection
	}
	return nil
}
