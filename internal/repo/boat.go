package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
)

// BoatRepo defines the persistence operations for Boats.
type BoatRepo interface {
	// Create inserts a new boat and returns the persisted record.
	Create(ctx context.Context, boat domain.Boat) (domain.Boat, error)

	// GetByID retrieves a boat. Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (domain.Boat, error)

	// List returns boats ordered by name. A non-empty status filters by it.
	List(ctx context.Context, status domain.BoatStatus) ([]domain.Boat, error)

	// Update overwrites the mutable fields of a boat.
	// Returns domain.ErrNotFound if no boat with that ID exists.
	Update(ctx context.Context, boat domain.Boat) (domain.Boat, error)

	// Delete removes a boat. Deletion is hard: reservations keep the dangling id.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error
}

type pgBoatRepo struct {
	db db
}

// NewBoatRepo constructs a BoatRepo backed by the provided db connection.
func NewBoatRepo(db db) BoatRepo {
	return &pgBoatRepo{db: db}
}

const boatColumns = `id, name, capacity, status, created_at`

func (r *pgBoatRepo) Create(ctx context.Context, boat domain.Boat) (domain.Boat, error) {
	const q = `
		INSERT INTO boats (name, capacity, status)
		VALUES (@name, @capacity, @status)
		RETURNING ` + boatColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"name":     boat.Name,
		"capacity": boat.Capacity,
		"status":   string(boat.Status),
	})
	result, err := scanBoat(row)
	if err != nil {
		return domain.Boat{}, writeErr("repo.BoatRepo.Create", err)
	}
	return result, nil
}

func (r *pgBoatRepo) GetByID(ctx context.Context, id int64) (domain.Boat, error) {
	const q = `SELECT ` + boatColumns + ` FROM boats WHERE id = @id`

	result, err := scanBoat(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Boat{}, fmt.Errorf("repo.BoatRepo.GetByID: %w", notFound(err))
	}
	return result, nil
}

func (r *pgBoatRepo) List(ctx context.Context, status domain.BoatStatus) ([]domain.Boat, error) {
	const q = `
		SELECT ` + boatColumns + `
		FROM boats
		WHERE @status = '' OR status = @status
		ORDER BY name, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"status": string(status)})
	if err != nil {
		return nil, fmt.Errorf("repo.BoatRepo.List: %w", err)
	}
	defer rows.Close()

	boats := []domain.Boat{}
	for rows.Next() {
		b, err := scanBoat(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BoatRepo.List: scan: %w", err)
		}
		boats = append(boats, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BoatRepo.List: rows: %w", err)
	}
	return boats, nil
}

func (r *pgBoatRepo) Update(ctx context.Context, boat domain.Boat) (domain.Boat, error) {
	const q = `
		UPDATE boats
		SET name     = @name,
		    capacity = @capacity,
		    status   = @status
		WHERE id = @id
		RETURNING ` + boatColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":       boat.ID,
		"name":     boat.Name,
		"capacity": boat.Capacity,
		"status":   string(boat.Status),
	})
	result, err := scanBoat(row)
	if err != nil {
		return domain.Boat{}, writeErr("repo.BoatRepo.Update", err)
	}
	return result, nil
}

func (r *pgBoatRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM boats WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return writeErr("repo.BoatRepo.Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BoatRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanBoat(s scanner) (domain.Boat, error) {
	var (
		b      domain.Boat
		status string
	)
	if err := s.Scan(&b.ID, &b.Name, &b.Capacity, &status, &b.CreatedAt); err != nil {
		return domain.Boat{}, err
	}
	b.Status = domain.BoatStatus(status)
	return b, nil
}
