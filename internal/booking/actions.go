package booking

// Action is a client-initiated mutation on an existing booking.
type Action string

const (
	ActionEdit         Action = "edit"
	ActionDelete       Action = "delete"
	ActionCancel       Action = "cancel"
	ActionMarkComplete Action = "mark_complete"
)

// actionTable maps each action to the statuses it is legal from. Statuses
// absent from every entry (in_progress, completed, cancelled, anything the
// upstream invents later) offer no client actions at all.
var actionTable = map[Action][]Status{
	ActionEdit:         {StatusPending},
	ActionDelete:       {StatusPending},
	ActionCancel:       {StatusConfirmed},
	ActionMarkComplete: {StatusConfirmed},
}

// ActionAllowed reports whether the action is legal from the booking's
// current status. Mark-complete additionally requires full payment; the
// event-date gate is deliberately NOT applied here — the control stays
// visible before the date and execution returns an explanatory block.
func ActionAllowed(a Action, b *Booking) bool {
	allowed, ok := actionTable[a]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s != b.Status {
			continue
		}
		if a == ActionMarkComplete && !b.FullyPaid() {
			return false
		}
		return true
	}
	return false
}

// LegalActions returns every action offered for the booking, in a stable
// order suitable for rendering.
func LegalActions(b *Booking) []Action {
	order := []Action{ActionEdit, ActionDelete, ActionCancel, ActionMarkComplete}
	var out []Action
	for _, a := range order {
		if ActionAllowed(a, b) {
			out = append(out, a)
		}
	}
	return out
}
