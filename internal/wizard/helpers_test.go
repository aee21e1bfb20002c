package wizard_test

import (
	"context"
	"sync"
	"time"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/wizard"
	"github.com/google/uuid"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func validCustomer() domain.CustomerSection {
	return domain.CustomerSection{Name: "Rajesh Kumar", Mobile: "9876543210", Address: "Plot 4, MG Road"}
}

func validProject() domain.ProjectSection {
	return domain.ProjectSection{
		ProjectName:             "Green Valley",
		BuildingType:            "Commercial",
		ConstructionStage:       "Walls",
		DoorRequirementTimeline: "3 months",
		EstimatedTotalDoorCount: "12",
	}
}

func validStakeholders() domain.StakeholderSection {
	return domain.StakeholderSection{
		ArchitectName: "Meena", ArchitectContact: "9988776655",
		ContractorName: "BuildWell", ContractorContact: "9090909090",
	}
}

func validDoors() domain.DoorSpecifications {
	doors := domain.NewDoorSpecifications()
	doors[domain.DoorTypeMain] = domain.DoorSpec{Material: "Teak Wood", Size: "3ft x 7ft", Quantity: "2"}
	return doors
}

func validPayment() domain.PaymentSection {
	return domain.PaymentSection{
		PaymentMethods:         []string{"Cash"},
		LeadSource:             "Walk-in",
		ProjectPriority:        "Hot",
		ExpectedCompletionDate: "2026-12-01",
	}
}

// fillToReview drives c through every step with valid data
func fillToReview(c *wizard.Controller) error {
	sections := []struct {
		section domain.Section
		value   any
	}{
		{domain.SectionCustomer, validCustomer()},
		{domain.SectionProject, validProject()},
		{domain.SectionStakeholders, validStakeholders()},
		{domain.SectionDoors, validDoors()},
		{domain.SectionPayment, validPayment()},
	}
	for _, s := range sections {
		if err := c.UpdateSection(s.section, s.value); err != nil {
			return err
		}
		if err := c.Next(); err != nil {
			return err
		}
	}
	return nil
}

type fakeSubmitter struct {
	mu      sync.Mutex
	calls   int
	forms   []*domain.LeadForm
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeSubmitter) Submit(ctx context.Context, form *domain.LeadForm, submittedBy string) (*domain.SubmissionReceipt, error) {
	f.mu.Lock()
	f.calls++
	f.forms = append(f.forms, form)
	n := f.calls
	err := f.err
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if err != nil {
		return nil, err
	}
	return &domain.SubmissionReceipt{
		LeadID:     uuid.New(),
		LeadNumber: "LEAD-2026-000" + string(rune('0'+n)),
	}, nil
}

func (f *fakeSubmitter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
