package domain

import "fmt"

// Status is the lifecycle state of a Reservation.
type Status string

const (
	StatusOffered    Status = "offered"
	StatusReserved   Status = "reserved"
	StatusPaid       Status = "paid"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every status in lifecycle order. Kanban columns follow it.
var Statuses = []Status{
	StatusOffered,
	StatusReserved,
	StatusPaid,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

// Valid reports whether s is one of the six defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOffered, StatusReserved, StatusPaid, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s has no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Label is the operator-facing name of the status.
func (s Status) Label() string {
	switch s {
	case StatusOffered:
		return "Ofertado"
	case StatusReserved:
		return "Reservado"
	case StatusPaid:
		return "Pagado"
	case StatusInProgress:
		return "En curso"
	case StatusCompleted:
		return "Completado"
	case StatusCancelled:
		return "Cancelado"
	}
	return string(s)
}

// ParseStatus converts raw input into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
	}
	return st, nil
}
