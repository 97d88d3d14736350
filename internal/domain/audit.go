package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction classifies an audit entry.
type AuditAction string

const (
	ActionStatusChanged AuditAction = "status_changed"
	ActionUpdated       AuditAction = "updated"
)

// AuditLogEntry is one field-level change on a reservation. Entries are
// append-only. Old and new values are stored as strings whatever the source type.
type AuditLogEntry struct {
	ID            int64
	ReservationID int64
	AgentID       uuid.UUID
	AgentName     string
	Action        AuditAction
	FieldChanged  string
	OldValue      string
	NewValue      string
	CreatedAt     time.Time
}
