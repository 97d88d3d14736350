package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
)

// StaffFilter narrows a staff listing. Zero values match everything.
type StaffFilter struct {
	Role       domain.StaffRole
	ActiveOnly bool
}

// StaffRepo defines the persistence operations for drivers and guides.
type StaffRepo interface {
	Create(ctx context.Context, s domain.Staff) (domain.Staff, error)

	// GetByID returns domain.ErrNotFound if no member with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Staff, error)

	// List returns members ordered by name.
	List(ctx context.Context, f StaffFilter) ([]domain.Staff, error)

	Update(ctx context.Context, s domain.Staff) (domain.Staff, error)

	// SetActive flips the soft-delete flag.
	SetActive(ctx context.Context, id int64, active bool) error
}

type pgStaffRepo struct {
	db db
}

// NewStaffRepo constructs a StaffRepo backed by the provided db connection.
func NewStaffRepo(db db) StaffRepo {
	return &pgStaffRepo{db: db}
}

const staffColumns = `id, name, role, phone, active, notes, created_at`

func (r *pgStaffRepo) Create(ctx context.Context, s domain.Staff) (domain.Staff, error) {
	const q = `
		INSERT INTO staff (name, role, phone, active, notes)
		VALUES (@name, @role, @phone, @active, @notes)
		RETURNING ` + staffColumns

	result, err := scanStaff(r.db.QueryRow(ctx, q, staffArgs(s)))
	if err != nil {
		return domain.Staff{}, writeErr("repo.StaffRepo.Create", err)
	}
	return result, nil
}

func (r *pgStaffRepo) GetByID(ctx context.Context, id int64) (domain.Staff, error) {
	const q = `SELECT ` + staffColumns + ` FROM staff WHERE id = @id`

	result, err := scanStaff(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Staff{}, fmt.Errorf("repo.StaffRepo.GetByID: %w", notFound(err))
	}
	return result, nil
}

func (r *pgStaffRepo) List(ctx context.Context, f StaffFilter) ([]domain.Staff, error) {
	const q = `
		SELECT ` + staffColumns + `
		FROM staff
		WHERE (@role = '' OR role = @role)
		  AND (NOT @active_only OR active)
		ORDER BY name, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"role": string(f.Role), "active_only": f.ActiveOnly})
	if err != nil {
		return nil, fmt.Errorf("repo.StaffRepo.List: %w", err)
	}
	defer rows.Close()

	out := []domain.Staff{}
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.StaffRepo.List: scan: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.StaffRepo.List: rows: %w", err)
	}
	return out, nil
}

func (r *pgStaffRepo) Update(ctx context.Context, s domain.Staff) (domain.Staff, error) {
	const q = `
		UPDATE staff
		SET name   = @name,
		    role   = @role,
		    phone  = @phone,
		    active = @active,
		    notes  = @notes
		WHERE id = @id
		RETURNING ` + staffColumns

	args := staffArgs(s)
	args["id"] = s.ID
	result, err := scanStaff(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Staff{}, writeErr("repo.StaffRepo.Update", err)
	}
	return result, nil
}

func (r *pgStaffRepo) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE staff SET active = @active WHERE id = @id`,
		pgx.NamedArgs{"id": id, "active": active})
	if err != nil {
		return writeErr("repo.StaffRepo.SetActive", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.StaffRepo.SetActive: %w", domain.ErrNotFound)
	}
	return nil
}

func staffArgs(s domain.Staff) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":   s.Name,
		"role":   string(s.Role),
		"phone":  s.Phone,
		"active": s.Active,
		"notes":  s.Notes,
	}
}

func scanStaff(sc scanner) (domain.Staff, error) {
	var (
		s    domain.Staff
		role string
	)
	if err := sc.Scan(&s.ID, &s.Name, &role, &s.Phone, &s.Active, &s.Notes, &s.CreatedAt); err != nil {
		return domain.Staff{}, err
	}
	s.Role = domain.StaffRole(role)
	return s, nil
}
