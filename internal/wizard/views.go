package wizard

import (
	"sort"
	"strings"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/validation"
)

// Input kinds rendered by clients
const (
	InputText     = "text"
	InputTel      = "tel"
	InputEmail    = "email"
	InputTextarea = "textarea"
	InputNumber   = "number"
	InputSelect   = "select"
	InputRadio    = "radio"
	InputDate     = "date"
	InputPhoto    = "photo"
)

type fieldSpec struct {
	name        string
	label       string
	input       string
	sanitizer   validation.FieldKind
	required    bool
	placeholder string
	options     []string
}

var customerFields = []fieldSpec{
	{name: "name", label: "Customer / Owner Name", input: InputText, sanitizer: validation.KindName, required: true, placeholder: "e.g. Rajesh Kumar"},
	{name: "mobile", label: "Mobile Number", input: InputTel, sanitizer: validation.KindMobile, required: true, placeholder: "98765 43210"},
	{name: "email", label: "Email Address", input: InputEmail, sanitizer: validation.KindEmail, placeholder: "john@example.com"},
	{name: "address", label: "Address / Site Location", input: InputTextarea, sanitizer: validation.KindAddress, required: true, placeholder: "Plot No, Street Name, Area..."},
	{name: "alternateContact", label: "Alternate Contact Person", input: InputText, sanitizer: validation.KindName, placeholder: "e.g. Suresh Kumar"},
	{name: "alternateNumber", label: "Alternate Number", input: InputTel, sanitizer: validation.KindMobile, placeholder: "98765 43210"},
	{name: "remarks", label: "Remarks", input: InputTextarea, sanitizer: validation.KindAddress, placeholder: "Any additional notes..."},
}

var projectFields = []fieldSpec{
	{name: "projectName", label: "Project Name", input: InputText, sanitizer: validation.KindAddress, required: true, placeholder: "e.g. Green Valley Residency"},
	{name: "buildingType", label: "Building Type", input: InputSelect, required: true, options: domain.BuildingTypes},
	{name: "constructionStage", label: "Construction Stage", input: InputSelect, required: true, options: domain.ConstructionStages},
	{name: "doorRequirementTimeline", label: "Estimated Door Requirement Timeline", input: InputText, sanitizer: validation.KindAddress, required: true, placeholder: "MM/YYYY or months"},
	{name: "totalUnitsFloors", label: "Total Units / Floors", input: InputText, sanitizer: validation.KindAddress, placeholder: "e.g. 4 Floors or 12 Units"},
	{name: "estimatedTotalDoorCount", label: "Estimated Total Door Count", input: InputNumber, sanitizer: validation.KindNumber, required: true, placeholder: "e.g. 15"},
}

var stakeholderFields = []fieldSpec{
	{name: "architectName", label: "Architect / Engineer Name", input: InputText, sanitizer: validation.KindName, required: true, placeholder: "e.g. Ar. Rajesh Kumar"},
	{name: "architectContact", label: "Contact Number", input: InputTel, sanitizer: validation.KindMobile, required: true, placeholder: "98765 43210"},
	{name: "contractorName", label: "Contractor Name", input: InputText, sanitizer: validation.KindName, required: true, placeholder: "e.g. BuildWell Constructions"},
	{name: "contractorContact", label: "Contact Number", input: InputTel, sanitizer: validation.KindMobile, required: true, placeholder: "98765 43210"},
}

var paymentFields = []fieldSpec{
	{name: "paymentMethods", label: "Payment Methods", input: InputRadio, required: true, options: domain.PaymentMethods},
	{name: "leadSource", label: "Lead Source", input: InputSelect, required: true, options: domain.LeadSources},
	{name: "projectPriority", label: "Project Priority", input: InputRadio, required: true, options: domain.PriorityLevels},
	{name: "expectedCompletionDate", label: "Expected Completion Date", input: InputDate, required: true},
}

func (f fieldSpec) describe(value string, errs domain.SectionErrors) domain.FieldDescriptor {
	return domain.FieldDescriptor{
		Name:        f.name,
		Label:       f.label,
		Kind:        f.input,
		Sanitizer:   string(f.sanitizer),
		Required:    f.required,
		Placeholder: f.placeholder,
		Options:     f.options,
		Value:       value,
		Error:       errs[f.name],
	}
}

func describeAll(specs []fieldSpec, values map[string]string, errs domain.SectionErrors) []domain.FieldDescriptor {
	out := make([]domain.FieldDescriptor, 0, len(specs))
	for _, f := range specs {
		out = append(out, f.describe(values[f.name], errs))
	}
	return out
}

// View describes step for rendering with current values and errors
func (c *Controller) View(step Step) (domain.StepView, error) {
	if !step.Valid() {
		return domain.StepView{}, ErrUnknownStep
	}
	def := step.Definition()
	form := c.state.FormData
	errs := c.state.Errors[def.Section]

	view := domain.StepView{
		Index:    int(step),
		Name:     def.Name,
		Title:    def.Title,
		Subtitle: def.Subtitle,
		Section:  def.Section,
		ReadOnly: c.ReadOnly() || c.state.IsSubmitted,
	}

	switch step {
	case StepCustomer:
		cu := form.Customer
		view.Groups = []domain.FieldGroup{{
			Key: string(def.Section), Title: def.Title,
			Fields: describeAll(customerFields, map[string]string{
				"name": cu.Name, "mobile": cu.Mobile, "email": cu.Email, "address": cu.Address,
				"alternateContact": cu.AlternateContact, "alternateNumber": cu.AlternateNumber, "remarks": cu.Remarks,
			}, errs),
		}}
	case StepProject:
		p := form.Project
		view.Groups = []domain.FieldGroup{{
			Key: string(def.Section), Title: def.Title,
			Fields: describeAll(projectFields, map[string]string{
				"projectName": p.ProjectName, "buildingType": p.BuildingType, "constructionStage": p.ConstructionStage,
				"doorRequirementTimeline": p.DoorRequirementTimeline, "totalUnitsFloors": p.TotalUnitsFloors,
				"estimatedTotalDoorCount": p.EstimatedTotalDoorCount,
			}, errs),
		}}
	case StepStakeholders:
		s := form.Stakeholders
		view.Groups = []domain.FieldGroup{
			{
				Key: "architect", Title: "Architect / Engineer",
				Fields: describeAll(stakeholderFields[:2], map[string]string{
					"architectName": s.ArchitectName, "architectContact": s.ArchitectContact,
				}, errs),
			},
			{
				Key: "contractor", Title: "Contractor",
				Fields: describeAll(stakeholderFields[2:], map[string]string{
					"contractorName": s.ContractorName, "contractorContact": s.ContractorContact,
				}, errs),
			},
		}
	case StepDoors:
		view.Groups = doorGroups(form.DoorSpecifications)
		view.GeneralError = errs[GeneralErrorKey]
	case StepPayment:
		p := form.Payment
		method := ""
		if len(p.PaymentMethods) > 0 {
			method = p.PaymentMethods[len(p.PaymentMethods)-1]
		}
		view.Groups = []domain.FieldGroup{{
			Key: string(def.Section), Title: def.Title,
			Fields: describeAll(paymentFields, map[string]string{
				"paymentMethods": method, "leadSource": p.LeadSource,
				"projectPriority": p.ProjectPriority, "expectedCompletionDate": p.ExpectedCompletionDate,
			}, errs),
		}}
	case StepReview:
		// the review step renders Review()
	}

	return view, nil
}

func doorGroups(doors domain.DoorSpecifications) []domain.FieldGroup {
	groups := make([]domain.FieldGroup, 0, len(domain.DoorTypeOptions))
	for _, opt := range domain.DoorTypeOptions {
		d := doors[opt.Key]
		photo := ""
		if d.Photo != nil {
			photo = *d.Photo
		}
		fields := []domain.FieldDescriptor{
			{Name: "material", Label: "Material", Kind: InputSelect, Placeholder: "Select material...", Options: opt.Materials, Value: d.Material},
			{Name: "size", Label: "Size", Kind: InputText, Sanitizer: string(validation.KindDoorSize), Placeholder: "e.g. 3ft x 7ft", Value: d.Size},
			{Name: "quantity", Label: "Quantity", Kind: InputNumber, Sanitizer: string(validation.KindNumber), Placeholder: "0", Value: d.Quantity},
		}
		if opt.Key == domain.DoorTypeSpecial {
			fields = append(fields, domain.FieldDescriptor{
				Name: "specification", Label: "Specification Details", Kind: InputText,
				Sanitizer: string(validation.KindAddress), Placeholder: "Describe the special door type...", Value: d.Specification,
			})
		}
		fields = append(fields, domain.FieldDescriptor{Name: "photo", Label: "Door Photo", Kind: InputPhoto, Value: photo})

		groups = append(groups, domain.FieldGroup{Key: string(opt.Key), Title: opt.Name, Fields: fields})
	}
	return groups
}

// Review returns the read-only summary of the current form
func (c *Controller) Review() domain.ReviewView {
	return BuildReview(c.state.FormData)
}

// BuildReview summarises form. Rows with empty values are omitted and a door
// is listed when it has a material, size or quantity.
func BuildReview(form *domain.LeadForm) domain.ReviewView {
	if form == nil {
		form = domain.NewLeadForm()
	}
	review := steps[StepReview]
	view := domain.ReviewView{Title: review.Title, Subtitle: review.Subtitle}

	cu := form.Customer
	view.Sections = append(view.Sections, domain.ReviewSection{
		Section: domain.SectionCustomer,
		Title:   steps[StepCustomer].Title,
		Items: items(
			"Name", cu.Name,
			"Mobile", cu.Mobile,
			"Email", cu.Email,
			"Address", cu.Address,
			"Alternate Contact", cu.AlternateContact,
			"Alternate Number", cu.AlternateNumber,
			"Remarks", cu.Remarks,
		),
	})

	p := form.Project
	view.Sections = append(view.Sections, domain.ReviewSection{
		Section: domain.SectionProject,
		Title:   steps[StepProject].Title,
		Items: items(
			"Project Name", p.ProjectName,
			"Building Type", p.BuildingType,
			"Construction Stage", p.ConstructionStage,
			"Door Timeline", p.DoorRequirementTimeline,
			"Total Units/Floors", p.TotalUnitsFloors,
			"Total Door Count", p.EstimatedTotalDoorCount,
		),
	})

	s := form.Stakeholders
	view.Sections = append(view.Sections, domain.ReviewSection{
		Section: domain.SectionStakeholders,
		Title:   steps[StepStakeholders].Title,
		Items: items(
			"Architect Name", s.ArchitectName,
			"Architect Contact", s.ArchitectContact,
			"Contractor Name", s.ContractorName,
			"Contractor Contact", s.ContractorContact,
		),
	})

	if groups := reviewDoorGroups(form.DoorSpecifications); len(groups) > 0 {
		view.Sections = append(view.Sections, domain.ReviewSection{
			Section: domain.SectionDoors,
			Title:   steps[StepDoors].Title,
			Groups:  groups,
		})
	}

	pay := form.Payment
	view.Sections = append(view.Sections, domain.ReviewSection{
		Section: domain.SectionPayment,
		Title:   steps[StepPayment].Title,
		Items: items(
			"Payment Methods", strings.Join(pay.PaymentMethods, ", "),
			"Lead Source", pay.LeadSource,
			"Project Priority", pay.ProjectPriority,
			"Expected Completion", pay.ExpectedCompletionDate,
		),
	})

	return view
}

// items pairs labels with values, skipping empty values
func items(pairs ...string) []domain.ReviewItem {
	out := make([]domain.ReviewItem, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		out = append(out, domain.ReviewItem{Label: pairs[i], Value: pairs[i+1]})
	}
	return out
}

func reviewDoorGroups(doors domain.DoorSpecifications) []domain.ReviewGroup {
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
	keys = append(keys, extra...)

	var groups []domain.ReviewGroup
	for _, key := range keys {
		d := doors[key]
		if d.Material == "" && d.Size == "" && d.Quantity == "" {
			continue
		}
		title := "Other"
		if opt, ok := domain.DoorTypeOptionFor(key); ok {
			title = opt.Label
		}
		g := domain.ReviewGroup{
			Key:   string(key),
			Title: title,
			Items: items(
				"Material", d.Material,
				"Size", d.Size,
				"Quantity", d.Quantity,
				"Specification", d.Specification,
			),
		}
		if d.Photo != nil && *d.Photo != "" {
			photo := *d.Photo
			g.Photo = &photo
		}
		groups = append(groups, g)
	}
	return groups
}
