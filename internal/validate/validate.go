// Package validate holds the wizard's step validation rules. Everything here
// is pure: rules read the draft and the caller's clock, nothing else.
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/ZainManzoor2003/mehndi-sub003/internal/booking"
)

// Step identifies one wizard page. Steps are validated in order; submit
// re-runs all of them so a later answer can still bounce the user back to an
// earlier page.
type Step int

const (
	StepContact Step = iota + 1
	StepEvent
	StepStyle
	StepBudget
)

func (s Step) String() string {
	switch s {
	case StepContact:
		return "contact"
	case StepEvent:
		return "event"
	case StepStyle:
		return "style"
	case StepBudget:
		return "budget"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// ParseStep maps a route segment back to a step.
func ParseStep(s string) (Step, bool) {
	switch s {
	case "contact":
		return StepContact, true
	case "event":
		return StepEvent, true
	case "style":
		return StepStyle, true
	case "budget":
		return StepBudget, true
	}
	return 0, false
}

// StepError is a failed rule. Step is the page the wizard must show, which
// on submit may be earlier than the page the user is on.
type StepError struct {
	Step    Step
	Message string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Message)
}

func fail(step Step, msg string) *StepError {
	return &StepError{Step: step, Message: msg}
}

// BridalRequired is the one shared predicate for the bridal-only fields.
// Both step-advance and submit go through it so the two surfaces cannot
// drift apart.
func BridalRequired(d *booking.Draft) bool {
	return d.DesignStyle == booking.StyleBridal
}

// Check validates a single step. now is only consulted by the budget step's
// final date check; see Submit for the re-check semantics.
func Check(step Step, d *booking.Draft, now time.Time) *StepError {
	switch step {
	case StepContact:
		return checkContact(d)
	case StepEvent:
		return checkEvent(d)
	case StepStyle:
		return checkStyle(d)
	case StepBudget:
		return checkBudget(d, now)
	}
	return fail(step, "unknown step")
}

// Submit runs every step in order and returns the first failure. The event
// date is deliberately validated against the submission-time clock, not the
// clock at step entry: a draft left open overnight can fail here and bounce
// back to the event step.
func Submit(d *booking.Draft, now time.Time) *StepError {
	for _, s := range []Step{StepContact, StepEvent, StepStyle, StepBudget} {
		if err := Check(s, d, now); err != nil {
			return err
		}
	}
	return nil
}

func checkContact(d *booking.Draft) *StepError {
	full := strings.TrimSpace(d.FirstName + " " + d.LastName)
	if full == "" {
		return fail(StepContact, "please enter your full name")
	}
	return nil
}

func checkEvent(d *booking.Draft) *StepError {
	if d.EventType == "" {
		return fail(StepEvent, "please select an event type")
	}
	if d.EventType == booking.EventOther && strings.TrimSpace(d.OtherEventType) == "" {
		return fail(StepEvent, "please tell us what kind of event it is")
	}
	if d.EventDate == "" {
		return fail(StepEvent, "please pick an event date")
	}
	if _, err := time.Parse(booking.DateLayout, d.EventDate); err != nil {
		return fail(StepEvent, "event date is not a valid date")
	}
	if d.PreferredTimeSlot == "" {
		return fail(StepEvent, "please pick a preferred time slot")
	}
	if strings.TrimSpace(d.Location) == "" {
		return fail(StepEvent, "please enter the event location")
	}
	if d.ArtistTravel == "" {
		return fail(StepEvent, "please tell us whether the artist should travel to you")
	}
	if BridalRequired(d) && strings.TrimSpace(d.VenueName) == "" {
		return fail(StepEvent, "venue name is required for bridal bookings")
	}
	return nil
}

func checkStyle(d *booking.Draft) *StepError {
	if d.DesignStyle == "" {
		return fail(StepStyle, "please choose a design style")
	}
	if BridalRequired(d) && strings.TrimSpace(d.CoveragePreference) == "" {
		return fail(StepStyle, "coverage preference is required for bridal bookings")
	}
	return nil
}

func checkBudget(d *booking.Draft, now time.Time) *StepError {
	if d.MinimumBudget <= 0 {
		return fail(StepBudget, "please enter your minimum budget")
	}
	if d.MaximumBudget <= 0 {
		return fail(StepBudget, "please enter your maximum budget")
	}
	if d.MaximumBudget <= d.MinimumBudget {
		return fail(StepBudget, "maximum budget must be greater than minimum budget")
	}
	if d.NumberOfPeople < 1 {
		return fail(StepBudget, "please enter how many people need mehndi")
	}

	// The date itself belongs to the event step, so that is where a stale
	// draft is sent back to.
	date, err := time.Parse(booking.DateLayout, d.EventDate)
	if err != nil {
		return fail(StepEvent, "event date is not a valid date")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !date.After(today) {
		return fail(StepEvent, "event date must be in the future")
	}
	return nil
}
