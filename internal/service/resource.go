package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/repo"
)

// BoatService implements the boat side of the resource registry.
type BoatService struct {
	repo repo.BoatRepo
}

// NewBoatService constructs a BoatService backed by the provided BoatRepo.
func NewBoatService(r repo.BoatRepo) *BoatService {
	return &BoatService{repo: r}
}

// Create validates and persists a new boat. Status defaults to active.
func (s *BoatService) Create(ctx context.Context, b domain.Boat) (domain.Boat, error) {
	if b.Status == "" {
		b.Status = domain.BoatActive
	}
	if err := validateBoat(b); err != nil {
		return domain.Boat{}, err
	}
	result, err := s.repo.Create(ctx, b)
	if err != nil {
		return domain.Boat{}, fmt.Errorf("service.BoatService.Create: %w", err)
	}
	return result, nil
}

// Get returns domain.ErrNotFound if the boat does not exist.
func (s *BoatService) Get(ctx context.Context, id int64) (domain.Boat, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Boat{}, fmt.Errorf("service.BoatService.Get: %w", err)
	}
	return result, nil
}

// List returns boats, optionally filtered by status.
func (s *BoatService) List(ctx context.Context, status domain.BoatStatus) ([]domain.Boat, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown boat status %q", domain.ErrValidation, status)
	}
	boats, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("service.BoatService.List: %w", err)
	}
	return boats, nil
}

// Update validates and persists changes to an existing boat.
func (s *BoatService) Update(ctx context.Context, b domain.Boat) (domain.Boat, error) {
	if err := validateBoat(b); err != nil {
		return domain.Boat{}, err
	}
	result, err := s.repo.Update(ctx, b)
	if err != nil {
		return domain.Boat{}, fmt.Errorf("service.BoatService.Update: %w", err)
	}
	return result, nil
}

// Delete hard-deletes a boat. Reservations keep the dangling id.
func (s *BoatService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.BoatService.Delete: %w", err)
	}
	return nil
}

func validateBoat(b domain.Boat) error {
	switch {
	case strings.TrimSpace(b.Name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	case b.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive", domain.ErrValidation)
	case !b.Status.Valid():
		return fmt.Errorf("%w: unknown boat status %q", domain.ErrValidation, b.Status)
	}
	return nil
}

// StaffService implements the driver and guide side of the resource registry.
type StaffService struct {
	repo repo.StaffRepo
}

// NewStaffService constructs a StaffService backed by the provided StaffRepo.
func NewStaffService(r repo.StaffRepo) *StaffService {
	return &StaffService{repo: r}
}

// Create validates and persists a new staff member. New members are active.
func (s *StaffService) Create(ctx context.Context, st domain.Staff) (domain.Staff, error) {
	st.Active = true
	if err := validateStaff(st); err != nil {
		return domain.Staff{}, err
	}
	result, err := s.repo.Create(ctx, st)
	if err != nil {
		return domain.Staff{}, fmt.Errorf("service.StaffService.Create: %w", err)
	}
	return result, nil
}

// Get returns domain.ErrNotFound if the member does not exist.
func (s *StaffService) Get(ctx context.Context, id int64) (domain.Staff, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Staff{}, fmt.Errorf("service.StaffService.Get: %w", err)
	}
	return result, nil
}

// List returns staff, optionally filtered by role and active flag.
func (s *StaffService) List(ctx context.Context, f repo.StaffFilter) ([]domain.Staff, error) {
	if f.Role != "" && !f.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, f.Role)
	}
	out, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service.StaffService.List: %w", err)
	}
	return out, nil
}

// Pickers returns the members selectable for a new assignment in role's pool:
// active ones only. Drivers and guides never mix.
func (s *StaffService) Pickers(ctx context.Context, role domain.StaffRole) ([]domain.Staff, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}
	return s.List(ctx, repo.StaffFilter{Role: role, ActiveOnly: true})
}

// Update validates and persists changes to an existing member.
func (s *StaffService) Update(ctx context.Context, st domain.Staff) (domain.Staff, error) {
	if err := validateStaff(st); err != nil {
		return domain.Staff{}, err
	}
	result, err := s.repo.Update(ctx, st)
	if err != nil {
		return domain.Staff{}, fmt.Errorf("service.StaffService.Update: %w", err)
	}
	return result, nil
}

// Deactivate is the staff delete: the row stays so past assignments resolve.
func (s *StaffService) Deactivate(ctx context.Context, id int64) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("service.StaffService.Deactivate: %w", err)
	}
	return nil
}

func validateStaff(st domain.Staff) error {
	switch {
	case strings.TrimSpace(st.Name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	case !st.Role.Valid():
		return fmt.Errorf("%w: role must be %s or %s", domain.ErrValidation, domain.RoleDriver, domain.RoleGuide)
	}
	return nil
}

// SupplierService implements the supplier directory.
type SupplierService struct {
	repo repo.SupplierRepo
}

// NewSupplierService constructs a SupplierService backed by the provided SupplierRepo.
func NewSupplierService(r repo.SupplierRepo) *SupplierService {
	return &SupplierService{repo: r}
}

// Create validates and persists a new supplier. New suppliers are active.
func (s *SupplierService) Create(ctx context.Context, sp domain.Supplier) (domain.Supplier, error) {
	sp.Active = true
	if err := validateSupplier(sp); err != nil {
		return domain.Supplier{}, err
	}
	result, err := s.repo.Create(ctx, sp)
	if err != nil {
		return domain.Supplier{}, fmt.Errorf("service.SupplierService.Create: %w", err)
	}
	return result, nil
}

// Get returns domain.ErrNotFound if the supplier does not exist.
func (s *SupplierService) Get(ctx context.Context, id int64) (domain.Supplier, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Supplier{}, fmt.Errorf("service.SupplierService.Get: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of suppliers and the total count.
func (s *SupplierService) ListPaged(ctx context.Context, f repo.SupplierFilter, p domain.PaginationParams) ([]domain.Supplier, int64, error) {
	if f.Category != "" && !f.Category.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, f.Category)
	}
	out, total, err := s.repo.ListPaged(ctx, f, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.SupplierService.ListPaged: %w", err)
	}
	return out, total, nil
}

// Update validates and persists changes to an existing supplier.
func (s *SupplierService) Update(ctx context.Context, sp domain.Supplier) (domain.Supplier, error) {
	if err := validateSupplier(sp); err != nil {
		return domain.Supplier{}, err
	}
	result, err := s.repo.Update(ctx, sp)
	if err != nil {
		return domain.Supplier{}, fmt.Errorf("service.SupplierService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a supplier.
func (s *SupplierService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.SupplierService.Delete: %w", err)
	}
	return nil
}

func validateSupplier(sp domain.Supplier) error {
	switch {
	case strings.TrimSpace(sp.Name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	case !sp.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, sp.Category)
	}
	if sp.Email != "" {
		if _, err := mail.ParseAddress(sp.Email); err != nil {
			return fmt.Errorf("%w: email is not valid", domain.ErrValidation)
		}
	}
	return nil
}
