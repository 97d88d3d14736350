package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
)

// SupplierFilter narrows a supplier listing. Zero values match everything.
type SupplierFilter struct {
	Category   domain.SupplierCategory
	ActiveOnly bool
}

// SupplierRepo defines the persistence operations for Suppliers.
type SupplierRepo interface {
	Create(ctx context.Context, s domain.Supplier) (domain.Supplier, error)
	GetByID(ctx context.Context, id int64) (domain.Supplier, error)

	// ListPaged returns one page of suppliers ordered by name and the total count.
	ListPaged(ctx context.Context, f SupplierFilter, p domain.PaginationParams) ([]domain.Supplier, int64, error)

	Update(ctx context.Context, s domain.Supplier) (domain.Supplier, error)
	Delete(ctx context.Context, id int64) error
}

type pgSupplierRepo struct {
	db db
}

// NewSupplierRepo constructs a SupplierRepo backed by the provided db connection.
func NewSupplierRepo(db db) SupplierRepo {
	return &pgSupplierRepo{db: db}
}

const supplierColumns = `id, name, category, phone, email, website, instagram, notes, active, created_at`

func (r *pgSupplierRepo) Create(ctx context.Context, s domain.Supplier) (domain.Supplier, error) {
	const q = `
		INSERT INTO suppliers (name, category, phone, email, website, instagram, notes, active)
		VALUES (@name, @category, @phone, @email, @website, @instagram, @notes, @active)
		RETURNING ` + supplierColumns

	result, err := scanSupplier(r.db.QueryRow(ctx, q, supplierArgs(s)))
	if err != nil {
		return domain.Supplier{}, writeErr("repo.SupplierRepo.Create", err)
	}
	return result, nil
}

func (r *pgSupplierRepo) GetByID(ctx context.Context, id int64) (domain.Supplier, error) {
	const q = `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = @id`

	result, err := scanSupplier(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Supplier{}, fmt.Errorf("repo.SupplierRepo.GetByID: %w", notFound(err))
	}
	return result, nil
}

// ListPaged uses a window function so the page and the total come back in
// one round trip.
func (r *pgSupplierRepo) ListPaged(ctx context.Context, f SupplierFilter, p domain.PaginationParams) ([]domain.Supplier, int64, error) {
	const q = `
		SELECT ` + supplierColumns + `, count(*) OVER ()
		FROM suppliers
		WHERE (@category = '' OR category = @category)
		  AND (NOT @active_only OR active)
		ORDER BY name, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"category":    string(f.Category),
		"active_only": f.ActiveOnly,
		"limit":       p.Limit,
		"offset":      p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.SupplierRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	var total int64
	out := []domain.Supplier{}
	for rows.Next() {
		var (
			s        domain.Supplier
			category string
		)
		if err := rows.Scan(&s.ID, &s.Name, &category, &s.Phone, &s.Email, &s.Website,
			&s.Instagram, &s.Notes, &s.Active, &s.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("repo.SupplierRepo.ListPaged: scan: %w", err)
		}
		s.Category = domain.SupplierCategory(category)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.SupplierRepo.ListPaged: rows: %w", err)
	}
	return out, total, nil
}

func (r *pgSupplierRepo) Update(ctx context.Context, s domain.Supplier) (domain.Supplier, error) {
	const q = `
		UPDATE suppliers
		SET name      = @name,
		    category  = @category,
		    phone     = @phone,
		    email     = @email,
		    website   = @website,
		    instagram = @instagram,
		    notes     = @notes,
		    active    = @active
		WHERE id = @id
		RETURNING ` + supplierColumns

	args := supplierArgs(s)
	args["id"] = s.ID
	result, err := scanSupplier(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Supplier{}, writeErr("repo.SupplierRepo.Update", err)
	}
	return result, nil
}

func (r *pgSupplierRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return writeErr("repo.SupplierRepo.Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.SupplierRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func supplierArgs(s domain.Supplier) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":      s.Name,
		"category":  string(s.Category),
		"phone":     s.Phone,
		"email":     s.Email,
		"website":   s.Website,
		"instagram": s.Instagram,
		"notes":     s.Notes,
		"active":    s.Active,
	}
}

func scanSupplier(sc scanner) (domain.Supplier, error) {
	var (
		s        domain.Supplier
		category string
	)
	err := sc.Scan(&s.ID, &s.Name, &category, &s.Phone, &s.Email, &s.Website,
		&s.Instagram, &s.Notes, &s.Active, &s.CreatedAt)
	if err != nil {
		return domain.Supplier{}, err
	}
	s.Category = domain.SupplierCategory(category)
	return s, nil
}
