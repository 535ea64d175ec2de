package lifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrActionNotAllowed means the booking's authoritative status does not
	// permit the requested action. Always derived from a fresh server copy,
	// never from the cached row.
	ErrActionNotAllowed = errors.New("this action is not available for the booking's current status")

	// ErrEventNotPassed blocks mark-complete before the event date. It is an
	// informational block: the control is shown, clicking it explains why
	// nothing happened.
	ErrEventNotPassed = errors.New("the event date has not passed yet; the booking can be marked complete after the event")

	ErrPaymentIncomplete  = errors.New("payment has not been fully captured for this booking")
	ErrCancellationReason = errors.New("a cancellation description is required")
)

// RefreshError reports that the mutation itself SUCCEEDED but the follow-up
// resync failed. Callers must not present it as a failed mutation; the cached
// collection is stale and flagged as such.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("booking updated, but refreshing the list failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }
