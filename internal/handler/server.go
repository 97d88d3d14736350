// Package handler implements the JSON HTTP surface of the back-office.
// Handlers are methods on Server, split into domain-specific files
// (reservation.go, logistics.go, etc.). Every handler delegates to a service;
// none computes anything itself.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DPR2204/atiexg-sub001/internal/board"
	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/logistics"
	"github.com/DPR2204/atiexg-sub001/internal/repo"
	"github.com/DPR2204/atiexg-sub001/internal/service"
)

// ReservationServicer defines the reservation operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type ReservationServicer interface {
	Create(ctx context.Context, r domain.Reservation, agent domain.Agent) (domain.Reservation, error)
	Get(ctx context.Context, id int64) (domain.Reservation, error)
	Update(ctx context.Context, id int64, p domain.ReservationPatch, agent domain.Agent) (service.UpdateResult, error)
	AuditTrail(ctx context.Context, id int64, p domain.PaginationParams) ([]domain.AuditLogEntry, int64, error)
}

// LogisticsServicer builds the operational picture of one date.
type LogisticsServicer interface {
	Day(ctx context.Context, date time.Time) (service.DayView, error)
}

// Boards opens Kanban boards by date.
type Boards interface {
	Open(ctx context.Context, date time.Time) (*board.Board, error)
	Refresh(ctx context.Context) error
}

// DashboardServicer computes KPI summaries.
type DashboardServicer interface {
	Summary(ctx context.Context, p logistics.Period) (service.Dashboard, error)
}

// BoatServicer is the boat registry.
type BoatServicer interface {
	Create(ctx context.Context, b domain.Boat) (domain.Boat, error)
	Get(ctx context.Context, id int64) (domain.Boat, error)
	List(ctx context.Context, status domain.BoatStatus) ([]domain.Boat, error)
	Update(ctx context.Context, b domain.Boat) (domain.Boat, error)
	Delete(ctx context.Context, id int64) error
}

// StaffServicer is the driver and guide registry.
type StaffServicer interface {
	Create(ctx context.Context, st domain.Staff) (domain.Staff, error)
	Get(ctx context.Context, id int64) (domain.Staff, error)
	List(ctx context.Context, f repo.StaffFilter) ([]domain.Staff, error)
	Update(ctx context.Context, st domain.Staff) (domain.Staff, error)
	Deactivate(ctx context.Context, id int64) error
}

// SupplierServicer is the supplier directory.
type SupplierServicer interface {
	Create(ctx context.Context, sp domain.Supplier) (domain.Supplier, error)
	Get(ctx context.Context, id int64) (domain.Supplier, error)
	ListPaged(ctx context.Context, f repo.SupplierFilter, p domain.PaginationParams) ([]domain.Supplier, int64, error)
	Update(ctx context.Context, sp domain.Supplier) (domain.Supplier, error)
	Delete(ctx context.Context, id int64) error
}

// NoteServicer reads and writes daily notes.
type NoteServicer interface {
	Get(ctx context.Context, date time.Time) (domain.DailyNote, error)
	Save(ctx context.Context, date time.Time, content string, agent domain.Agent) (domain.DailyNote, error)
}

// NoteDrafter accepts in-progress note text and saves it after a pause.
type NoteDrafter interface {
	Edit(date time.Time, content string, agent domain.Agent)
}

// Services bundles the Server's dependencies.
type Services struct {
	Reservations ReservationServicer
	Logistics    LogisticsServicer
	Boards       Boards
	Dashboard    DashboardServicer
	Boats        BoatServicer
	Staff        StaffServicer
	Suppliers    SupplierServicer
	Notes        NoteServicer
	Drafts       NoteDrafter
}

// Server holds the handler dependencies. Mount it with Handler.
type Server struct {
	svc Services
	log *slog.Logger
	// today resolves the current calendar date for date-less requests.
	today func() time.Time
}

// NewServer constructs the Server. loc is the timezone "today" is taken in.
func NewServer(svc Services, log *slog.Logger, loc *time.Location) *Server {
	if loc == nil {
		loc = time.UTC
	}
	return &Server{
		svc:   svc,
		log:   log,
		today: func() time.Time { return domain.DateOnly(time.Now().In(loc)) },
	}
}

// Handler returns a chi router serving every route of s.
func Handler(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Get("/logistics/{date}", s.GetLogisticsDay)
	r.Get("/board/{date}", s.GetBoard)
	r.Get("/dashboard", s.GetDashboard)

	r.Route("/reservations", func(r chi.Router) {
		r.Post("/", s.CreateReservation)
		r.Get("/{id}", s.GetReservation)
		r.Patch("/{id}", s.UpdateReservation)
		r.Post("/{id}/move", s.MoveReservation)
		r.Get("/{id}/audit", s.ListReservationAudit)
	})

	r.Route("/boats", func(r chi.Router) {
		r.Get("/", s.ListBoats)
		r.Post("/", s.CreateBoat)
		r.Get("/{id}", s.GetBoat)
		r.Put("/{id}", s.UpdateBoat)
		r.Delete("/{id}", s.DeleteBoat)
	})

	r.Route("/staff", func(r chi.Router) {
		r.Get("/", s.ListStaff)
		r.Post("/", s.CreateStaff)
		r.Get("/{id}", s.GetStaff)
		r.Put("/{id}", s.UpdateStaff)
		r.Delete("/{id}", s.DeactivateStaff)
	})

	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", s.ListSuppliers)
		r.Post("/", s.CreateSupplier)
		r.Get("/{id}", s.GetSupplier)
		r.Put("/{id}", s.UpdateSupplier)
		r.Delete("/{id}", s.DeleteSupplier)
	})

	r.Get("/notes/{date}", s.GetNote)
	r.Put("/notes/{date}", s.SaveNote)
	r.Patch("/notes/{date}", s.DraftNote)

	return r
}
