package wizard

import (
	"strconv"
	"strings"

	"github.com/doorline/leadcapture-api/internal/domain"
)

// Step is the index of a wizard step
type Step int

const (
	StepCustomer Step = iota
	StepProject
	StepStakeholders
	StepDoors
	StepPayment
	StepReview
)

// StepCount is the number of wizard steps
const StepCount = 6

// StepDefinition names a step and the section it edits.
// The review step edits no section.
type StepDefinition struct {
	Step     Step
	Name     string
	Title    string
	Subtitle string
	Section  domain.Section
}

var steps = [StepCount]StepDefinition{
	{Step: StepCustomer, Name: "Customer", Title: "Customer Contact Details", Subtitle: "Primary customer information", Section: domain.SectionCustomer},
	{Step: StepProject, Name: "Project", Title: "Project Information", Subtitle: "Details about the construction project", Section: domain.SectionProject},
	{Step: StepStakeholders, Name: "Stakeholders", Title: "Stakeholder Details", Subtitle: "Key people involved in the project", Section: domain.SectionStakeholders},
	{Step: StepDoors, Name: "Doors", Title: "Door Specifications", Subtitle: "Specify requirements for each door type", Section: domain.SectionDoors},
	{Step: StepPayment, Name: "Payment", Title: "Payment & Project Level", Subtitle: "Payment methods and lead classification", Section: domain.SectionPayment},
	{Step: StepReview, Name: "Review", Title: "Review & Submit", Subtitle: "Please review all information before submitting"},
}

// Steps returns the step definitions in order
func Steps() []StepDefinition {
	out := make([]StepDefinition, StepCount)
	copy(out, steps[:])
	return out
}

// Valid reports whether s is a known step
func (s Step) Valid() bool {
	return s >= StepCustomer && s <= StepReview
}

// Definition returns the definition of s. s must be valid.
func (s Step) Definition() StepDefinition {
	return steps[s]
}

func (s Step) String() string {
	if !s.Valid() {
		return "Step(" + strconv.Itoa(int(s)) + ")"
	}
	return steps[s].Name
}

// ParseStep accepts a step index ("3") or name ("doors")
func ParseStep(v string) (Step, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		if s := Step(n); s.Valid() {
			return s, nil
		}
		return 0, ErrUnknownStep
	}
	for _, d := range steps {
		if strings.EqualFold(d.Name, v) {
			return d.Step, nil
		}
	}
	return 0, ErrUnknownStep
}

// StepForSection returns the step that edits section
func StepForSection(section domain.Section) (Step, bool) {
	for _, d := range steps {
		if d.Section != "" && d.Section == section {
			return d.Step, true
		}
	}
	return 0, false
}
