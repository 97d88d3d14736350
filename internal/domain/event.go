package domain

import (
	"time"

	"github.com/google/uuid"
)

// StatusChangedEvent is emitted after a reservation's status is persisted.
type StatusChangedEvent struct {
	ReservationID int64     `json:"reservation_id"`
	From          Status    `json:"from"`
	To            Status    `json:"to"`
	AgentID       uuid.UUID `json:"agent_id"`
	ChangedAt     time.Time `json:"changed_at"`
}
