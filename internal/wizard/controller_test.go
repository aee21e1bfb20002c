package wizard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_NextBlocksOnInvalidStep(t *testing.T) {
	c := wizard.NewController("d1", "user@example.com", newClock().Now)

	err := c.Next()

	var stepErr *wizard.StepValidationError
	require.True(t, errors.As(err, &stepErr))
	assert.True(t, errors.Is(err, wizard.ErrStepValidation))
	assert.Equal(t, domain.SectionCustomer, stepErr.Section)
	assert.Equal(t, wizard.StepCustomer, c.State().CurrentStep)

	errs := c.State().Errors[domain.SectionCustomer]
	assert.Equal(t, wizard.MsgCustomerNameRequired, errs["name"])
	assert.Equal(t, "Mobile Number is required", errs["mobile"])
	assert.Equal(t, wizard.MsgAddressRequired, errs["address"])
	assert.NotContains(t, errs, "email")
}

func TestController_NextAdvancesAndClearsSectionErrors(t *testing.T) {
	c := wizard.NewController("d1", "user@example.com", newClock().Now)
	require.Error(t, c.Next())

	require.NoError(t, c.UpdateSection(domain.SectionCustomer, validCustomer()))
	assert.NotContains(t, c.State().Errors, domain.SectionCustomer)

	require.NoError(t, c.Next())
	assert.Equal(t, wizard.StepProject, c.State().CurrentStep)
	assert.Empty(t, c.State().Errors)
}

func TestController_ErrorsAreKeptPerSection(t *testing.T) {
	c := wizard.NewController("d1", "user@example.com", newClock().Now)
	require.NoError(t, c.UpdateSection(domain.SectionCustomer, validCustomer()))
	require.NoError(t, c.Next())

	require.Error(t, c.Next())
	require.Contains(t, c.State().Errors, domain.SectionProject)

	require.NoError(t, c.Back())
	assert.Equal(t, wizard.StepCustomer, c.State().CurrentStep)

	// revalidating the customer step leaves the project errors in place
	require.NoError(t, c.Next())
	assert.Equal(t, wizard.StepProject, c.State().CurrentStep)
	assert.Equal(t, wizard.MsgProjectNameRequired, c.State().Errors[domain.SectionProject]["projectName"])
}

func TestController_BackOnFirstStepStays(t *testing.T) {
	c := wizard.NewController("d1", "user@example.com", nil)
	require.NoError(t, c.Back())
	assert.Equal(t, wizard.StepCustomer, c.State().CurrentStep)
}

func TestController_UpdateSectionOnlyForCurrentStep(t *testing.T) {
	c := wizard.NewController("d1", "user@example.com", nil)

	err := c.UpdateSection(domain.SectionPayment, validPayment())
	assert.ErrorIs(t, err, wizard.ErrSectionNotActive)

	err = c.UpdateSection(domain.Section("billing"), validPayment())
	assert.ErrorIs(t, err, wizard.ErrUnknownSection)

	err = c.UpdateSection(domain.SectionCustomer, validProject())
	assert.ErrorIs(t, err, wizard.ErrInvalidSectionData)
}

func TestController_UpdateSectionSanitizes(t *testing.T) {
	c := wizard.NewController("d1", "user@example.com", nil)

	require.NoError(t, c.UpdateSection(domain.SectionCustomer, domain.CustomerSection{
		Name:    "Rajesh 2 Kumar!",
		Mobile:  "987-654 3210x",
		Email:   " raj @example.com ",
		Address: "Plot #4, MG Road",
	}))

	cu := c.State().FormData.Customer
	assert.Equal(t, "Rajesh  Kumar", cu.Name)
	assert.Equal(t, "9876543210", cu.Mobile)
	assert.Equal(t, "raj@example.com", cu.Email)
	assert.Equal(t, "Plot 4, MG Road", cu.Address)
	require.NoError(t, c.Next())
}

func TestController_PaymentWithoutMethodBlocks(t *testing.T) {
	c := wizard.NewController("d1", "user@example.com", nil)
	for _, s := range []struct {
		section domain.Section
		value   any
	}{
		{domain.SectionCustomer, validCustomer()},
		{domain.SectionProject, validProject()},
		{domain.SectionStakeholders, validStakeholders()},
		{domain.SectionDoors, validDoors()},
	} {
		require.NoError(t, c.UpdateSection(s.section, s.value))
		require.NoError(t, c.Next())
	}

	payment := validPayment()
	payment.PaymentMethods = nil
	require.NoError(t, c.UpdateSection(domain.SectionPayment, payment))

	err := c.Next()
	require.ErrorIs(t, err, wizard.ErrStepValidation)
	assert.Equal(t, wizard.StepPayment, c.State().CurrentStep)
	assert.Equal(t, wizard.MsgPaymentMethodRequired, c.State().Errors[domain.SectionPayment]["paymentMethods"])
}

func TestController_NextOnReviewIsNoop(t *testing.T) {
	c := wizard.NewController("d1", "user@example.com", nil)
	require.NoError(t, fillToReview(c))
	assert.Equal(t, wizard.StepReview, c.State().CurrentStep)

	require.NoError(t, c.Next())
	assert.Equal(t, wizard.StepReview, c.State().CurrentStep)
}

func TestController_BeginSubmitGates(t *testing.T) {
	c := wizard.NewController("d1", "user@example.com", nil)
	assert.ErrorIs(t, c.BeginSubmit(), wizard.ErrNotOnReviewStep)

	require.NoError(t, fillToReview(c))

	// payment is checked again at submit time
	c.State().FormData.Payment.LeadSource = ""
	err := c.BeginSubmit()
	require.ErrorIs(t, err, wizard.ErrStepValidation)
	assert.Equal(t, wizard.MsgLeadSourceRequired, c.State().Errors[domain.SectionPayment]["leadSource"])
	assert.False(t, c.State().IsSubmitting)

	c.State().FormData.Payment.LeadSource = "Walk-in"
	require.NoError(t, c.BeginSubmit())
	assert.True(t, c.State().IsSubmitting)
	assert.ErrorIs(t, c.BeginSubmit(), wizard.ErrSubmissionInProgress)
	assert.ErrorIs(t, c.Back(), wizard.ErrSubmissionInProgress)
}

func TestController_StaleSubmittingFlagExpires(t *testing.T) {
	clk := newClock()
	c := wizard.NewController("d1", "user@example.com", clk.Now)
	require.NoError(t, fillToReview(c))
	require.NoError(t, c.BeginSubmit())

	clk.Advance(time.Minute)
	assert.ErrorIs(t, c.Back(), wizard.ErrSubmissionInProgress)

	clk.Advance(2 * time.Minute)
	assert.False(t, c.DTO().IsSubmitting)
	assert.NoError(t, c.Back())
}

func TestController_SubmitSuccessLocksDraft(t *testing.T) {
	c := wizard.NewController("d1", "user@example.com", nil)
	require.NoError(t, fillToReview(c))
	sub := &fakeSubmitter{}

	receipt, err := c.Submit(context.Background(), sub)

	require.NoError(t, err)
	assert.Equal(t, "LEAD-2026-0001", receipt.LeadNumber)
	assert.True(t, c.State().IsSubmitted)
	assert.False(t, c.State().IsSubmitting)
	assert.ErrorIs(t, c.BeginSubmit(), wizard.ErrAlreadySubmitted)
	assert.ErrorIs(t, c.Back(), wizard.ErrAlreadySubmitted)
	assert.Equal(t, 1, sub.Calls())
}

func TestController_SubmitFailureAllowsRetry(t *testing.T) {
	c := wizard.NewController("d1", "user@example.com", nil)
	require.NoError(t, fillToReview(c))
	sub := &fakeSubmitter{err: errors.New("database unavailable")}

	_, err := c.Submit(context.Background(), sub)
	require.Error(t, err)
	assert.False(t, c.State().IsSubmitting)
	assert.False(t, c.State().IsSubmitted)
	assert.Equal(t, wizard.StepReview, c.State().CurrentStep)

	sub.err = nil
	receipt, err := c.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.LeadNumber)
}

func TestController_ResetStartsOver(t *testing.T) {
	c := wizard.NewController("d1", "user@example.com", nil)
	require.NoError(t, fillToReview(c))
	_, err := c.Submit(context.Background(), &fakeSubmitter{})
	require.NoError(t, err)

	require.NoError(t, c.Reset())

	s := c.State()
	assert.Equal(t, "d1", s.ID)
	assert.Equal(t, wizard.StepCustomer, s.CurrentStep)
	assert.False(t, s.IsSubmitted)
	assert.Nil(t, s.Receipt)
	assert.Empty(t, s.FormData.Customer.Name)
	assert.Len(t, s.FormData.DoorSpecifications, len(domain.DoorTypes))
}

func TestController_ViewModeIsReadOnly(t *testing.T) {
	form := domain.NewLeadForm()
	form.Customer = validCustomer()
	c := wizard.NewViewController(form)

	assert.True(t, c.ReadOnly())
	assert.Equal(t, wizard.StepReview, c.State().CurrentStep)
	assert.ErrorIs(t, c.Next(), wizard.ErrReadOnly)
	assert.ErrorIs(t, c.Back(), wizard.ErrReadOnly)
	assert.ErrorIs(t, c.UpdateSection(domain.SectionPayment, validPayment()), wizard.ErrReadOnly)
	assert.ErrorIs(t, c.BeginSubmit(), wizard.ErrReadOnly)
	assert.ErrorIs(t, c.Reset(), wizard.ErrReadOnly)

	view, err := c.View(wizard.StepCustomer)
	require.NoError(t, err)
	assert.True(t, view.ReadOnly)
	assert.Equal(t, "view", c.DTO().Mode)
}

func TestController_ResumeFillsMissingDoorKeys(t *testing.T) {
	state := &wizard.State{ID: "d1", FormData: &domain.LeadForm{DoorSpecifications: domain.DoorSpecifications{}}}

	c, err := wizard.Resume(state, nil)
	require.NoError(t, err)

	assert.Len(t, c.State().FormData.DoorSpecifications, len(domain.DoorTypes))
	assert.NotNil(t, c.State().Errors)
}

func TestParseStep(t *testing.T) {
	tests := []struct {
		in   string
		want wizard.Step
		err  bool
	}{
		{"0", wizard.StepCustomer, false},
		{"5", wizard.StepReview, false},
		{"doors", wizard.StepDoors, false},
		{" Payment ", wizard.StepPayment, false},
		{"6", 0, true},
		{"-1", 0, true},
		{"billing", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := wizard.ParseStep(tt.in)
			if tt.err {
				assert.ErrorIs(t, err, wizard.ErrUnknownStep)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStepForSection(t *testing.T) {
	step, ok := wizard.StepForSection(domain.SectionDoors)
	assert.True(t, ok)
	assert.Equal(t, wizard.StepDoors, step)

	_, ok = wizard.StepForSection("")
	assert.False(t, ok)
	assert.Len(t, wizard.Steps(), wizard.StepCount)
	assert.Equal(t, "Review", wizard.StepReview.String())
}

func TestController_ResumeRejectsOutOfRangeStep(t *testing.T) {
	for _, step := range []wizard.Step{-1, wizard.StepCount} {
		_, err := wizard.Resume(&wizard.State{ID: "d1", CurrentStep: step}, nil)
		assert.ErrorIs(t, err, wizard.ErrCorruptDraft)
	}
}
