package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
)

// AuditRepo is the append-only change history of reservations.
type AuditRepo interface {
	// InsertBatch appends entries in one round trip. An empty slice is a no-op.
	InsertBatch(ctx context.Context, entries []domain.AuditLogEntry) error

	// ListByReservation returns one page of entries, newest first, and the
	// total count for the reservation.
	ListByReservation(ctx context.Context, reservationID int64, p domain.PaginationParams) ([]domain.AuditLogEntry, int64, error)
}

type pgAuditRepo struct {
	db db
}

// NewAuditRepo constructs an AuditRepo backed by the provided db connection.
func NewAuditRepo(db db) AuditRepo {
	return &pgAuditRepo{db: db}
}

func (r *pgAuditRepo) InsertBatch(ctx context.Context, entries []domain.AuditLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	const q = `
		INSERT INTO audit_log (reservation_id, agent_id, agent_name, action, field_changed, old_value, new_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	b := &pgx.Batch{}
	for _, e := range entries {
		b.Queue(q, e.ReservationID, e.AgentID, e.AgentName, string(e.Action),
			e.FieldChanged, e.OldValue, e.NewValue)
	}

	br := r.db.SendBatch(ctx, b)
	for range entries {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return writeErr("repo.AuditRepo.InsertBatch", err)
		}
	}
	if err := br.Close(); err != nil {
		return writeErr("repo.AuditRepo.InsertBatch", err)
	}
	return nil
}

func (r *pgAuditRepo) ListByReservation(ctx context.Context, reservationID int64, p domain.PaginationParams) ([]domain.AuditLogEntry, int64, error) {
	const q = `
		SELECT id, reservation_id, agent_id, agent_name, action, field_changed,
		       old_value, new_value, created_at, count(*) OVER ()
		FROM audit_log
		WHERE reservation_id = @reservation_id
		ORDER BY created_at DESC, id DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"reservation_id": reservationID,
		"limit":          p.Limit,
		"offset":         p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.AuditRepo.ListByReservation: %w", err)
	}
	defer rows.Close()

	var total int64
	out := []domain.AuditLogEntry{}
	for rows.Next() {
		var (
			e      domain.AuditLogEntry
			action string
		)
		if err := rows.Scan(&e.ID, &e.ReservationID, &e.AgentID, &e.AgentName, &action,
			&e.FieldChanged, &e.OldValue, &e.NewValue, &e.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("repo.AuditRepo.ListByReservation: scan: %w", err)
		}
		e.Action = domain.AuditAction(action)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.AuditRepo.ListByReservation: rows: %w", err)
	}
	return out, total, nil
}
