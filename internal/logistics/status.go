package logistics

import (
	"fmt"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
)

// transitions is the allow-list of recommended status moves. reserved→offered
// and paid→reserved are intentional escape hatches. Terminal states have no
// recommended moves out.
var transitions = map[domain.Status][]domain.Status{
	domain.StatusOffered:    {domain.StatusReserved, domain.StatusCancelled},
	domain.StatusReserved:   {domain.StatusPaid, domain.StatusOffered, domain.StatusCancelled},
	domain.StatusPaid:       {domain.StatusInProgress, domain.StatusReserved, domain.StatusCancelled},
	domain.StatusInProgress: {domain.StatusCompleted, domain.StatusCancelled},
	domain.StatusCompleted:  {},
	domain.StatusCancelled:  {},
}

// NextStatuses returns the recommended targets from s.
func NextStatuses(s domain.Status) []domain.Status {
	next := transitions[s]
	out := make([]domain.Status, len(next))
	copy(out, next)
	return out
}

// IsRecommended reports whether from→to is in the allow-list.
func IsRecommended(from, to domain.Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Verdict is the data-layer answer for a status move. The table never blocks:
// a move outside the allow-list is Allowed with a Warning so an operator can
// force an out-of-band correction.
type Verdict struct {
	From        domain.Status
	To          domain.Status
	Allowed     bool
	Recommended bool
	NoOp        bool
	Warning     string
}

// CheckTransition consults the transition table. Unknown statuses are not
// allowed; same-state moves are a no-op.
func CheckTransition(from, to domain.Status) Verdict {
	v := Verdict{From: from, To: to}
	switch {
	case !to.Valid():
		v.Warning = fmt.Sprintf("estado desconocido %q", to)
	case from == to:
		v.Allowed, v.Recommended, v.NoOp = true, true, true
	case IsRecommended(from, to):
		v.Allowed, v.Recommended = true, true
	default:
		v.Allowed = true
		v.Warning = fmt.Sprintf("Transición no recomendada: %s → %s", from.Label(), to.Label())
	}
	return v
}

// IsDraggable is the interaction-layer guard: completed and cancelled
// reservations cannot be moved through the board, even though the table
// itself does not forbid leaving them.
func IsDraggable(s domain.Status) bool {
	return !s.Terminal()
}

// DragDecision is the interaction-layer answer for a Kanban move.
type DragDecision struct {
	Verdict
	// Blocked is set when the source card is not draggable.
	Blocked bool
	// NeedsConfirmation is set for a non-recommended move; the board only
	// performs it when the operator forces it.
	NeedsConfirmation bool
}

// CheckDrag combines the interaction guard with the transition table.
func CheckDrag(from, to domain.Status) DragDecision {
	d := DragDecision{Verdict: CheckTransition(from, to)}
	if !IsDraggable(from) && from != to {
		d.Blocked = true
		d.Allowed = false
		d.Warning = fmt.Sprintf("Una reserva %s no se puede mover", from.Label())
		return d
	}
	if !d.Allowed {
		d.Blocked = true
		return d
	}
	d.NeedsConfirmation = !d.Recommended
	return d
}
