package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/handler"
	"github.com/DPR2204/atiexg-sub001/internal/logistics"
	"github.com/DPR2204/atiexg-sub001/internal/middleware"
	"github.com/DPR2204/atiexg-sub001/internal/repo"
	"github.com/DPR2204/atiexg-sub001/internal/service"
)

// ---- mocks -----------------------------------------------------------------
// Set only the method fields your test needs.

type mockReservationServicer struct {
	create     func(ctx context.Context, r domain.Reservation, agent domain.Agent) (domain.Reservation, error)
	get        func(ctx context.Context, id int64) (domain.Reservation, error)
	update     func(ctx context.Context, id int64, p domain.ReservationPatch, agent domain.Agent) (service.UpdateResult, error)
	auditTrail func(ctx context.Context, id int64, p domain.PaginationParams) ([]domain.AuditLogEntry, int64, error)
}

func (m *mockReservationServicer) Create(ctx context.Context, r domain.Reservation, agent domain.Agent) (domain.Reservation, error) {
	return m.create(ctx, r, agent)
}
func (m *mockReservationServicer) Get(ctx context.Context, id int64) (domain.Reservation, error) {
	return m.get(ctx, id)
}
func (m *mockReservationServicer) Update(ctx context.Context, id int64, p domain.ReservationPatch, agent domain.Agent) (service.UpdateResult, error) {
	return m.update(ctx, id, p, agent)
}
func (m *mockReservationServicer) AuditTrail(ctx context.Context, id int64, p domain.PaginationParams) ([]domain.AuditLogEntry, int64, error) {
	return m.auditTrail(ctx, id, p)
}

type mockLogisticsServicer struct {
	day func(ctx context.Context, date time.Time) (service.DayView, error)
}

func (m *mockLogisticsServicer) Day(ctx context.Context, date time.Time) (service.DayView, error) {
	return m.day(ctx, date)
}

type mockDashboardServicer struct {
	summary func(ctx context.Context, p logistics.Period) (service.Dashboard, error)
}

func (m *mockDashboardServicer) Summary(ctx context.Context, p logistics.Period) (service.Dashboard, error) {
	return m.summary(ctx, p)
}

type mockBoatServicer struct {
	create func(ctx context.Context, b domain.Boat) (domain.Boat, error)
	get    func(ctx context.Context, id int64) (domain.Boat, error)
	list   func(ctx context.Context, status domain.BoatStatus) ([]domain.Boat, error)
	update func(ctx context.Context, b domain.Boat) (domain.Boat, error)
	delete func(ctx context.Context, id int64) error
}

func (m *mockBoatServicer) Create(ctx context.Context, b domain.Boat) (domain.Boat, error) {
	return m.create(ctx, b)
}
func (m *mockBoatServicer) Get(ctx context.Context, id int64) (domain.Boat, error) {
	return m.get(ctx, id)
}
func (m *mockBoatServicer) List(ctx context.Context, status domain.BoatStatus) ([]domain.Boat, error) {
	return m.list(ctx, status)
}
func (m *mockBoatServicer) Update(ctx context.Context, b domain.Boat) (domain.Boat, error) {
	return m.update(ctx, b)
}
func (m *mockBoatServicer) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}

type mockStaffServicer struct {
	create     func(ctx context.Context, st domain.Staff) (domain.Staff, error)
	get        func(ctx context.Context, id int64) (domain.Staff, error)
	list       func(ctx context.Context, f repo.StaffFilter) ([]domain.Staff, error)
	update     func(ctx context.Context, st domain.Staff) (domain.Staff, error)
	deactivate func(ctx context.Context, id int64) error
}

func (m *mockStaffServicer) Create(ctx context.Context, st domain.Staff) (domain.Staff, error) {
	return m.create(ctx, st)
}
func (m *mockStaffServicer) Get(ctx context.Context, id int64) (domain.Staff, error) {
	return m.get(ctx, id)
}
func (m *mockStaffServicer) List(ctx context.Context, f repo.StaffFilter) ([]domain.Staff, error) {
	return m.list(ctx, f)
}
func (m *mockStaffServicer) Update(ctx context.Context, st domain.Staff) (domain.Staff, error) {
	return m.update(ctx, st)
}
func (m *mockStaffServicer) Deactivate(ctx context.Context, id int64) error {
	return m.deactivate(ctx, id)
}

type mockSupplierServicer struct {
	create    func(ctx context.Context, sp domain.Supplier) (domain.Supplier, error)
	get       func(ctx context.Context, id int64) (domain.Supplier, error)
	listPaged func(ctx context.Context, f repo.SupplierFilter, p domain.PaginationParams) ([]domain.Supplier, int64, error)
	update    func(ctx context.Context, sp domain.Supplier) (domain.Supplier, error)
	delete    func(ctx context.Context, id int64) error
}

func (m *mockSupplierServicer) Create(ctx context.Context, sp domain.Supplier) (domain.Supplier, error) {
	return m.create(ctx, sp)
}
func (m *mockSupplierServicer) Get(ctx context.Context, id int64) (domain.Supplier, error) {
	return m.get(ctx, id)
}
func (m *mockSupplierServicer) ListPaged(ctx context.Context, f repo.SupplierFilter, p domain.PaginationParams) ([]domain.Supplier, int64, error) {
	return m.listPaged(ctx, f, p)
}
func (m *mockSupplierServicer) Update(ctx context.Context, sp domain.Supplier) (domain.Supplier, error) {
	return m.update(ctx, sp)
}
func (m *mockSupplierServicer) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}

type mockNoteServicer struct {
	get  func(ctx context.Context, date time.Time) (domain.DailyNote, error)
	save func(ctx context.Context, date time.Time, content string, agent domain.Agent) (domain.DailyNote, error)
}

func (m *mockNoteServicer) Get(ctx context.Context, date time.Time) (domain.DailyNote, error) {
	return m.get(ctx, date)
}
func (m *mockNoteServicer) Save(ctx context.Context, date time.Time, content string, agent domain.Agent) (domain.DailyNote, error) {
	return m.save(ctx, date, content, agent)
}

type mockNoteDrafter struct {
	edit func(date time.Time, content string, agent domain.Agent)
}

func (m *mockNoteDrafter) Edit(date time.Time, content string, agent domain.Agent) {
	m.edit(date, content, agent)
}

// loaderFunc and updaterFunc back a real board.Set in move tests.
type loaderFunc func(ctx context.Context, date time.Time) ([]domain.Reservation, error)

func (f loaderFunc) ListByDate(ctx context.Context, date time.Time) ([]domain.Reservation, error) {
	return f(ctx, date)
}

type updaterFunc func(ctx context.Context, id int64, p domain.ReservationPatch, agent domain.Agent) (service.UpdateResult, error)

func (f updaterFunc) Update(ctx context.Context, id int64, p domain.ReservationPatch, agent domain.Agent) (service.UpdateResult, error) {
	return f(ctx, id, p, agent)
}

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.ReservationServicer = (*mockReservationServicer)(nil)
	_ handler.LogisticsServicer   = (*mockLogisticsServicer)(nil)
	_ handler.DashboardServicer   = (*mockDashboardServicer)(nil)
	_ handler.BoatServicer        = (*mockBoatServicer)(nil)
	_ handler.StaffServicer       = (*mockStaffServicer)(nil)
	_ handler.SupplierServicer    = (*mockSupplierServicer)(nil)
	_ handler.NoteServicer        = (*mockNoteServicer)(nil)
	_ handler.NoteDrafter         = (*mockNoteDrafter)(nil)
)

// ---- helpers ---------------------------------------------------------------

var (
	june1 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	agent = domain.Agent{ID: uuid.MustParse("7d1c7a52-3c7e-4f3e-9d7c-0a4b1e2f3a4b"), Name: "Ana López"}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newHTTPHandler wires a Server behind the agent middleware, the way main.go
// mounts it in production.
func newHTTPHandler(svc handler.Services) http.Handler {
	srv := handler.NewServer(svc, discardLogger(), time.UTC)
	r := chi.NewRouter()
	r.Use(middleware.Agent)
	r.Mount("/", handler.Handler(srv))
	return r
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// do sends a request, optionally as the test agent.
func do(h http.Handler, method, target string, body io.Reader, asAgent bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if asAgent {
		req.Header.Set(middleware.AgentIDHeader, agent.ID.String())
		req.Header.Set(middleware.AgentNameHeader, agent.Name)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func reservationFixture() domain.Reservation {
	boat := int64(1)
	return domain.Reservation{
		ID:          42,
		TourName:    "Atitlán Clásico",
		TourDate:    june1,
		StartTime:   "08:30",
		PaxCount:    4,
		Status:      domain.StatusOffered,
		BoatID:      &boat,
		Boat:        &domain.Boat{ID: 1, Name: "Lancha Quetzal", Capacity: 12, Status: domain.BoatActive},
		AgentID:     agent.ID,
		AgentName:   agent.Name,
		TotalAmount: 400,
		PaidAmount:  100,
	}
}
