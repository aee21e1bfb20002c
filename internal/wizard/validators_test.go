package wizard_test

import (
	"encoding/json"
	"testing"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCustomer(t *testing.T) {
	assert.Empty(t, wizard.ValidateCustomer(validCustomer()))

	c := validCustomer()
	c.Mobile = "98765"
	c.Email = "not-an-email"
	errs := wizard.ValidateCustomer(c)
	assert.Equal(t, domain.SectionErrors{"mobile": "Mobile number must contain exactly 10 digits"}, errs)
}

func TestValidateProject(t *testing.T) {
	assert.Empty(t, wizard.ValidateProject(validProject()))

	errs := wizard.ValidateProject(domain.ProjectSection{})
	assert.Len(t, errs, 5)
	assert.Equal(t, wizard.MsgDoorCountRequired, errs["estimatedTotalDoorCount"])
	assert.NotContains(t, errs, "totalUnitsFloors")
}

func TestValidateStakeholders(t *testing.T) {
	assert.Empty(t, wizard.ValidateStakeholders(validStakeholders()))

	s := validStakeholders()
	s.ContractorContact = ""
	s.ArchitectName = ""
	errs := wizard.ValidateStakeholders(s)
	assert.Equal(t, wizard.MsgArchitectNameRequired, errs["architectName"])
	assert.Equal(t, "Mobile Number is required", errs["contractorContact"])
	assert.Len(t, errs, 2)
}

func TestValidateDoors(t *testing.T) {
	tests := []struct {
		name  string
		spec  domain.DoorSpec
		valid bool
	}{
		{"complete", domain.DoorSpec{Material: "WPC", Size: "3ft x 7ft", Quantity: "2"}, true},
		{"missing size", domain.DoorSpec{Material: "WPC", Quantity: "2"}, false},
		{"zero quantity", domain.DoorSpec{Material: "WPC", Size: "3x7", Quantity: "0"}, false},
		{"non numeric quantity", domain.DoorSpec{Material: "WPC", Size: "3x7", Quantity: "two"}, false},
		{"leading number", domain.DoorSpec{Material: "WPC", Size: "3x7", Quantity: "3 pcs"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doors := domain.NewDoorSpecifications()
			doors[domain.DoorTypeInterior] = tt.spec
			errs := wizard.ValidateDoors(doors)
			if tt.valid {
				assert.Empty(t, errs)
			} else {
				assert.Equal(t, domain.SectionErrors{wizard.GeneralErrorKey: wizard.MsgDoorsRequired}, errs)
			}
		})
	}
}

func TestValidatePayment(t *testing.T) {
	assert.Empty(t, wizard.ValidatePayment(validPayment()))
	errs := wizard.ValidatePayment(domain.PaymentSection{})
	assert.Len(t, errs, 4)
}

func TestValidateSectionUnknown(t *testing.T) {
	_, err := wizard.ValidateSection("billing", domain.NewLeadForm())
	assert.ErrorIs(t, err, wizard.ErrUnknownSection)
}

func TestSanitizeDoors(t *testing.T) {
	photo := "data:image/png;base64,AAAA"
	empty := ""
	in := domain.DoorSpecifications{
		domain.DoorTypeMain:    {Material: "Teak Wood", Size: "3ft x 7ft!", Quantity: "2 nos", Specification: "ignored", Photo: &photo},
		domain.DoorTypeSpecial: {Material: "Specify", Size: "4x8", Quantity: "1", Specification: "Sliding #2, folding"},
		domain.DoorTypeGlass:   {Photo: &empty},
		"garageDoor":           {Material: "Steel"},
	}

	out := wizard.SanitizeDoors(in)

	assert.Len(t, out, len(domain.DoorTypes))
	assert.NotContains(t, out, domain.DoorType("garageDoor"))
	main := out[domain.DoorTypeMain]
	assert.Equal(t, "3ft x 7ft", main.Size)
	assert.Equal(t, "2", main.Quantity)
	assert.Empty(t, main.Specification)
	require.NotNil(t, main.Photo)
	assert.Equal(t, photo, *main.Photo)
	assert.Equal(t, "Sliding 2, folding", out[domain.DoorTypeSpecial].Specification)
	assert.Nil(t, out[domain.DoorTypeGlass].Photo)
}

func TestSanitizePaymentKeepsLastMethod(t *testing.T) {
	out := wizard.SanitizePayment(domain.PaymentSection{PaymentMethods: []string{"Cash", "Bank Transfer", ""}})
	assert.Equal(t, []string{"Bank Transfer"}, out.PaymentMethods)

	out = wizard.SanitizePayment(domain.PaymentSection{})
	assert.NotNil(t, out.PaymentMethods)
	assert.Empty(t, out.PaymentMethods)
}

func TestSanitizeProjectKeepsOptions(t *testing.T) {
	out := wizard.SanitizeProject(domain.ProjectSection{
		ProjectName:             "Green Valley (Phase 2)",
		BuildingType:            "Independent House / Villa",
		ConstructionStage:       "Roofing / Slab",
		EstimatedTotalDoorCount: "1,200",
	})
	assert.Equal(t, "Green Valley Phase 2", out.ProjectName)
	assert.Equal(t, "Independent House / Villa", out.BuildingType)
	assert.Equal(t, "1200", out.EstimatedTotalDoorCount)
}

func TestDecodeSection(t *testing.T) {
	v, err := wizard.DecodeSection(domain.SectionCustomer, []byte(`{"name":"Asha","mobile":"9876543210"}`))
	require.NoError(t, err)
	assert.Equal(t, "Asha", v.(domain.CustomerSection).Name)

	v, err = wizard.DecodeSection(domain.SectionDoors, []byte(`{"mainDoor":{"material":"WPC","size":"3x7","quantity":"1","photo":null}}`))
	require.NoError(t, err)
	assert.Equal(t, "WPC", v.(domain.DoorSpecifications)[domain.DoorTypeMain].Material)

	_, err = wizard.DecodeSection(domain.SectionCustomer, []byte(`{"nickname":"A"}`))
	assert.ErrorIs(t, err, wizard.ErrInvalidSectionData)

	_, err = wizard.DecodeSection(domain.SectionPayment, []byte(`{"paymentMethods":"Cash"}`))
	assert.ErrorIs(t, err, wizard.ErrInvalidSectionData)

	_, err = wizard.DecodeSection("billing", []byte(`{}`))
	assert.ErrorIs(t, err, wizard.ErrUnknownSection)
}

func TestStepValidationErrorMessage(t *testing.T) {
	err := &wizard.StepValidationError{
		Section: domain.SectionCustomer,
		Errors:  domain.SectionErrors{"mobile": "x", "name": "y"},
	}
	assert.Equal(t, "step validation failed: customer (mobile, name)", err.Error())

	data, jerr := json.Marshal(err.Errors)
	require.NoError(t, jerr)
	assert.JSONEq(t, `{"mobile":"x","name":"y"}`, string(data))
}
