package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/repo"
)

// ---- mock repos ------------------------------------------------------------

// mockReservationRepo is a hand-written test double for repo.ReservationRepo.
type mockReservationRepo struct {
	create  func(ctx context.Context, r domain.Reservation) (domain.Reservation, error)
	getByID func(ctx context.Context, id int64) (domain.Reservation, error)
	list    func(ctx context.Context, f repo.ReservationFilter) ([]domain.Reservation, error)
	update  func(ctx context.Context, id int64, p domain.ReservationPatch) (domain.Reservation, error)
}

func (m *mockReservationRepo) Create(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	return m.create(ctx, r)
}
func (m *mockReservationRepo) GetByID(ctx context.Context, id int64) (domain.Reservation, error) {
	return m.getByID(ctx, id)
}
func (m *mockReservationRepo) List(ctx context.Context, f repo.ReservationFilter) ([]domain.Reservation, error) {
	return m.list(ctx, f)
}
func (m *mockReservationRepo) Update(ctx context.Context, id int64, p domain.ReservationPatch) (domain.Reservation, error) {
	return m.update(ctx, id, p)
}

var _ repo.ReservationRepo = (*mockReservationRepo)(nil)

// memReservationRepo keeps reservations in a map so update sequences can be
// exercised end to end.
type memReservationRepo struct {
	mu      sync.Mutex
	rows    map[int64]domain.Reservation
	updates int
}

func newMemReservationRepo(rs ...domain.Reservation) *memReservationRepo {
	m := &memReservationRepo{rows: make(map[int64]domain.Reservation)}
	for _, r := range rs {
		m.rows[r.ID] = r
	}
	return m
}

func (m *memReservationRepo) Create(_ context.Context, r domain.Reservation) (domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = int64(len(m.rows) + 1)
	m.rows[r.ID] = r
	return r, nil
}

func (m *memReservationRepo) GetByID(_ context.Context, id int64) (domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return domain.Reservation{}, domain.ErrNotFound
	}
	return r, nil
}

func (m *memReservationRepo) List(_ context.Context, f repo.ReservationFilter) ([]domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Reservation{}
	for _, r := range m.rows {
		if r.TourDate.Before(f.From) || r.TourDate.After(f.To) {
			continue
		}
		if f.ExcludeCancelled && r.Status == domain.StatusCancelled {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memReservationRepo) Update(_ context.Context, id int64, p domain.ReservationPatch) (domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return domain.Reservation{}, domain.ErrNotFound
	}
	r = p.Apply(r)
	m.rows[id] = r
	m.updates++
	return r, nil
}

var _ repo.ReservationRepo = (*memReservationRepo)(nil)

// mockAuditRepo records inserted entries and can be made to fail.
type mockAuditRepo struct {
	mu       sync.Mutex
	inserted []domain.AuditLogEntry
	calls    int
	err      error
	list     func(ctx context.Context, id int64, p domain.PaginationParams) ([]domain.AuditLogEntry, int64, error)
}

func (m *mockAuditRepo) InsertBatch(_ context.Context, entries []domain.AuditLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.inserted = append(m.inserted, entries...)
	return nil
}
func (m *mockAuditRepo) ListByReservation(ctx context.Context, id int64, p domain.PaginationParams) ([]domain.AuditLogEntry, int64, error) {
	return m.list(ctx, id, p)
}

var _ repo.AuditRepo = (*mockAuditRepo)(nil)

// mockBoatRepo is a hand-written test double for repo.BoatRepo.
type mockBoatRepo struct {
	create  func(ctx context.Context, b domain.Boat) (domain.Boat, error)
	getByID func(ctx context.Context, id int64) (domain.Boat, error)
	list    func(ctx context.Context, status domain.BoatStatus) ([]domain.Boat, error)
	update  func(ctx context.Context, b domain.Boat) (domain.Boat, error)
	delete  func(ctx context.Context, id int64) error
}

func (m *mockBoatRepo) Create(ctx context.Context, b domain.Boat) (domain.Boat, error) {
	return m.create(ctx, b)
}
func (m *mockBoatRepo) GetByID(ctx context.Context, id int64) (domain.Boat, error) {
	return m.getByID(ctx, id)
}
func (m *mockBoatRepo) List(ctx context.Context, status domain.BoatStatus) ([]domain.Boat, error) {
	return m.list(ctx, status)
}
func (m *mockBoatRepo) Update(ctx context.Context, b domain.Boat) (domain.Boat, error) {
	return m.update(ctx, b)
}
func (m *mockBoatRepo) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}

var _ repo.BoatRepo = (*mockBoatRepo)(nil)

// mockStaffRepo is a hand-written test double for repo.StaffRepo.
type mockStaffRepo struct {
	create    func(ctx context.Context, s domain.Staff) (domain.Staff, error)
	getByID   func(ctx context.Context, id int64) (domain.Staff, error)
	list      func(ctx context.Context, f repo.StaffFilter) ([]domain.Staff, error)
	update    func(ctx context.Context, s domain.Staff) (domain.Staff, error)
	setActive func(ctx context.Context, id int64, active bool) error
}

func (m *mockStaffRepo) Create(ctx context.Context, s domain.Staff) (domain.Staff, error) {
	return m.create(ctx, s)
}
func (m *mockStaffRepo) GetByID(ctx context.Context, id int64) (domain.Staff, error) {
	return m.getByID(ctx, id)
}
func (m *mockStaffRepo) List(ctx context.Context, f repo.StaffFilter) ([]domain.Staff, error) {
	return m.list(ctx, f)
}
func (m *mockStaffRepo) Update(ctx context.Context, s domain.Staff) (domain.Staff, error) {
	return m.update(ctx, s)
}
func (m *mockStaffRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return m.setActive(ctx, id, active)
}

var _ repo.StaffRepo = (*mockStaffRepo)(nil)

// mockSupplierRepo is a hand-written test double for repo.SupplierRepo.
type mockSupplierRepo struct {
	create    func(ctx context.Context, s domain.Supplier) (domain.Supplier, error)
	getByID   func(ctx context.Context, id int64) (domain.Supplier, error)
	listPaged func(ctx context.Context, f repo.SupplierFilter, p domain.PaginationParams) ([]domain.Supplier, int64, error)
	update    func(ctx context.Context, s domain.Supplier) (domain.Supplier, error)
	delete    func(ctx context.Context, id int64) error
}

func (m *mockSupplierRepo) Create(ctx context.Context, s domain.Supplier) (domain.Supplier, error) {
	return m.create(ctx, s)
}
func (m *mockSupplierRepo) GetByID(ctx context.Context, id int64) (domain.Supplier, error) {
	return m.getByID(ctx, id)
}
func (m *mockSupplierRepo) ListPaged(ctx context.Context, f repo.SupplierFilter, p domain.PaginationParams) ([]domain.Supplier, int64, error) {
	return m.listPaged(ctx, f, p)
}
func (m *mockSupplierRepo) Update(ctx context.Context, s domain.Supplier) (domain.Supplier, error) {
	return m.update(ctx, s)
}
func (m *mockSupplierRepo) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}

var _ repo.SupplierRepo = (*mockSupplierRepo)(nil)

// memDailyNoteRepo is a map-backed repo.DailyNoteRepo. When gate is set,
// Upsert signals started and then blocks until gate is closed.
type memDailyNoteRepo struct {
	mu      sync.Mutex
	notes   map[string]domain.DailyNote
	upserts []string

	started chan struct{}
	gate    chan struct{}
}

func newMemDailyNoteRepo() *memDailyNoteRepo {
	return &memDailyNoteRepo{notes: make(map[string]domain.DailyNote)}
}

func (m *memDailyNoteRepo) Get(_ context.Context, date time.Time) (domain.DailyNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[date.Format(domain.DateLayout)]
	if !ok {
		return domain.DailyNote{}, domain.ErrNotFound
	}
	return n, nil
}

func (m *memDailyNoteRepo) Upsert(_ context.Context, n domain.DailyNote) (domain.DailyNote, error) {
	if m.gate != nil {
		m.started <- struct{}{}
		<-m.gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n.UpdatedAt = time.Now()
	m.notes[n.Date.Format(domain.DateLayout)] = n
	m.upserts = append(m.upserts, n.Content)
	return n, nil
}

func (m *memDailyNoteRepo) saved() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.upserts...)
}

var _ repo.DailyNoteRepo = (*memDailyNoteRepo)(nil)

// mockAgentRepo counts upserts.
type mockAgentRepo struct {
	mu      sync.Mutex
	upserts []domain.Agent
	err     error
	getByID func(ctx context.Context, id uuid.UUID) (domain.Agent, error)
}

func (m *mockAgentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Agent, error) {
	return m.getByID(ctx, id)
}

func (m *mockAgentRepo) Upsert(_ context.Context, a domain.Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.upserts = append(m.upserts, a)
	return nil
}

var _ repo.AgentRepo = (*mockAgentRepo)(nil)
