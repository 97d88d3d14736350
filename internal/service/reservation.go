// Package service contains the business logic for the back-office.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/logistics"
	"github.com/DPR2204/atiexg-sub001/internal/repo"
)

// StatusPublisher announces persisted status changes to other systems.
type StatusPublisher interface {
	PublishStatusChanged(ctx context.Context, e domain.StatusChangedEvent) error
}

// UpdateResult describes the outcome of an audited update.
type UpdateResult struct {
	Reservation domain.Reservation
	// Changes holds one entry per audited field whose value changed.
	Changes []domain.FieldChange
	// NoOp is set when nothing differed and nothing was written.
	NoOp bool
	// Warning is set when the status moved along a non-recommended transition.
	Warning string
}

// ReservationService implements business logic for Reservation operations.
// It is the only writer of reservations: every mutation goes through Update.
type ReservationService struct {
	reservations repo.ReservationRepo
	audit        repo.AuditRepo
	publisher    StatusPublisher
	log          *slog.Logger
	now          func() time.Time
}

// NewReservationService constructs a ReservationService backed by the provided repos.
func NewReservationService(reservations repo.ReservationRepo, audit repo.AuditRepo, log *slog.Logger) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		audit:        audit,
		log:          log,
		now:          time.Now,
	}
}

// WithPublisher sets the publisher notified after status changes.
func (s *ReservationService) WithPublisher(p StatusPublisher) *ReservationService {
	s.publisher = p
	return s
}

// Create validates and persists a new reservation owned by agent.
// Status defaults to offered.
func (s *ReservationService) Create(ctx context.Context, r domain.Reservation, agent domain.Agent) (domain.Reservation, error) {
	if r.Status == "" {
		r.Status = domain.StatusOffered
	}
	r.AgentID = agent.ID
	r.TourDate = domain.DateOnly(r.TourDate)
	if err := validateReservation(r); err != nil {
		return domain.Reservation{}, err
	}

	created, err := s.reservations.Create(ctx, r)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Create: %w", err)
	}
	s.log.InfoContext(ctx, "reservation created",
		"reservation_id", created.ID, "tour_date", created.TourDate.Format(domain.DateLayout), "agent_id", agent.ID)
	return created, nil
}

// Get returns one expanded reservation.
// Returns domain.ErrNotFound if it does not exist.
func (s *ReservationService) Get(ctx context.Context, id int64) (domain.Reservation, error) {
	r, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Get: %w", err)
	}
	return r, nil
}

// ListByDate returns the day's reservations, cancelled ones included, since
// the board still shows them in their own column.
func (s *ReservationService) ListByDate(ctx context.Context, date time.Time) ([]domain.Reservation, error) {
	rs, err := s.reservations.List(ctx, repo.ReservationFilter{From: date, To: date})
	if err != nil {
		return nil, fmt.Errorf("service.ReservationService.ListByDate: %w", err)
	}
	return rs, nil
}

// AuditTrail returns one page of a reservation's audit entries, newest first.
func (s *ReservationService) AuditTrail(ctx context.Context, id int64, p domain.PaginationParams) ([]domain.AuditLogEntry, int64, error) {
	if _, err := s.reservations.GetByID(ctx, id); err != nil {
		return nil, 0, fmt.Errorf("service.ReservationService.AuditTrail: %w", err)
	}
	entries, total, err := s.audit.ListByReservation(ctx, id, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ReservationService.AuditTrail: %w", err)
	}
	return entries, total, nil
}

// Update is the audited update operation:
//  1. fetch the current row (domain.ErrNotFound if absent);
//  2. diff the audited fields as strings, null equal to empty;
//  3. return a no-op without writing when nothing differs;
//  4. persist, then append one audit entry per changed field.
//
// A failed audit write is logged and swallowed: the reservation update stands.
// A status change runs the same policy as a board move: a terminal source is
// domain.ErrDragBlocked and a move outside the recommended table is
// domain.ErrConfirmationRequired unless p.Force is set.
func (s *ReservationService) Update(ctx context.Context, id int64, p domain.ReservationPatch, agent domain.Agent) (UpdateResult, error) {
	if err := validatePatch(p); err != nil {
		return UpdateResult{}, err
	}

	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("service.ReservationService.Update: %w", err)
	}

	changes := domain.Diff(current, p)
	if len(changes) == 0 && !unauditedChanged(current, p) {
		return UpdateResult{Reservation: current, Changes: []domain.FieldChange{}, NoOp: true}, nil
	}

	var result UpdateResult
	statusChanged := p.Status != nil && *p.Status != current.Status
	if statusChanged {
		d := logistics.CheckDrag(current.Status, *p.Status)
		switch {
		case d.Blocked:
			return UpdateResult{}, fmt.Errorf("service.ReservationService.Update: %w: %s", domain.ErrDragBlocked, d.Warning)
		case d.NeedsConfirmation && !p.Force:
			return UpdateResult{}, fmt.Errorf("service.ReservationService.Update: %w: %s", domain.ErrConfirmationRequired, d.Warning)
		case d.Warning != "":
			result.Warning = d.Warning
			s.log.WarnContext(ctx, "non-recommended status transition",
				"reservation_id", id, "from", current.Status, "to", *p.Status, "agent_id", agent.ID)
		}
	}

	updated, err := s.reservations.Update(ctx, id, p)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("service.ReservationService.Update: %w", err)
	}
	result.Reservation = updated
	result.Changes = changes

	s.writeAudit(ctx, id, agent, changes)

	if statusChanged {
		s.publishStatus(ctx, domain.StatusChangedEvent{
			ReservationID: id,
			From:          current.Status,
			To:            *p.Status,
			AgentID:       agent.ID,
			ChangedAt:     s.now().UTC(),
		})
	}
	return result, nil
}

// unauditedChanged reports whether a field outside the allow-list differs.
func unauditedChanged(current domain.Reservation, p domain.ReservationPatch) bool {
	switch {
	case p.PaidAmount != nil && *p.PaidAmount != current.PaidAmount:
		return true
	case p.CustomStops != nil && !slices.Equal(p.CustomStops, current.CustomStops):
		return true
	case p.MealSchedules != nil && !slices.Equal(p.MealSchedules, current.MealSchedules):
		return true
	case p.Passengers != nil && !slices.EqualFunc(p.Passengers, current.Passengers, samePassenger):
		return true
	}
	return false
}

func samePassenger(a, b domain.Passenger) bool {
	sameAge := (a.Age == nil) == (b.Age == nil) && (a.Age == nil || *a.Age == *b.Age)
	return a.FullName == b.FullName && a.IDDocument == b.IDDocument && sameAge &&
		slices.Equal(a.Meals, b.Meals)
}

func (s *ReservationService) writeAudit(ctx context.Context, id int64, agent domain.Agent, changes []domain.FieldChange) {
	if len(changes) == 0 {
		return
	}
	entries := make([]domain.AuditLogEntry, 0, len(changes))
	for _, c := range changes {
		entries = append(entries, domain.AuditLogEntry{
			ReservationID: id,
			AgentID:       agent.ID,
			AgentName:     agent.Name,
			Action:        c.Action(),
			FieldChanged:  c.Field,
			OldValue:      c.OldValue,
			NewValue:      c.NewValue,
		})
	}
	if err := s.audit.InsertBatch(ctx, entries); err != nil {
		s.log.ErrorContext(ctx, "audit insert failed; reservation update kept",
			"reservation_id", id, "entries", len(entries), "error", err)
	}
}

func (s *ReservationService) publishStatus(ctx context.Context, e domain.StatusChangedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishStatusChanged(ctx, e); err != nil {
		s.log.WarnContext(ctx, "status change event not published",
			"reservation_id", e.ReservationID, "error", err)
	}
}

// validateReservation enforces the rules a new reservation must satisfy.
func validateReservation(r domain.Reservation) error {
	switch {
	case strings.TrimSpace(r.TourName) == "":
		return fmt.Errorf("%w: tour_name is required", domain.ErrValidation)
	case r.TourDate.IsZero():
		return fmt.Errorf("%w: tour_date is required", domain.ErrValidation)
	case r.PaxCount <= 0:
		return fmt.Errorf("%w: pax_count must be positive", domain.ErrValidation)
	case !r.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, r.Status)
	case r.TotalAmount < 0 || r.PaidAmount < 0:
		return fmt.Errorf("%w: amounts must not be negative", domain.ErrValidation)
	case r.AgentID == uuid.Nil:
		return fmt.Errorf("%w: agent is required", domain.ErrValidation)
	}
	if err := validateStartTime(r.StartTime); err != nil {
		return err
	}
	if err := validatePassengers(r.Passengers); err != nil {
		return err
	}
	return validateMeals(r.MealSchedules)
}

func validatePassengers(ps []domain.Passenger) error {
	for i, p := range ps {
		if strings.TrimSpace(p.FullName) == "" {
			return fmt.Errorf("%w: passengers[%d].full_name is required", domain.ErrValidation, i)
		}
		if p.Age != nil && *p.Age < 0 {
			return fmt.Errorf("%w: passengers[%d].age must not be negative", domain.ErrValidation, i)
		}
	}
	return nil
}

func validateMeals(ms []domain.MealSchedule) error {
	for i, m := range ms {
		if m.PaxCount < 0 {
			return fmt.Errorf("%w: meal_schedules[%d].pax_count must not be negative", domain.ErrValidation, i)
		}
	}
	return nil
}

// validatePatch checks only the fields the patch carries.
func validatePatch(p domain.ReservationPatch) error {
	if p.Empty() {
		return fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}
	if p.TourDate != nil && p.TourDate.IsZero() {
		return fmt.Errorf("%w: tour_date must not be empty", domain.ErrValidation)
	}
	if p.PaxCount != nil && *p.PaxCount <= 0 {
		return fmt.Errorf("%w: pax_count must be positive", domain.ErrValidation)
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *p.Status)
	}
	if p.TotalAmount != nil && *p.TotalAmount < 0 {
		return fmt.Errorf("%w: total_amount must not be negative", domain.ErrValidation)
	}
	if p.PaidAmount != nil && *p.PaidAmount < 0 {
		return fmt.Errorf("%w: paid_amount must not be negative", domain.ErrValidation)
	}
	if p.StartTime != nil {
		if err := validateStartTime(*p.StartTime); err != nil {
			return err
		}
	}
	if err := validatePassengers(p.Passengers); err != nil {
		return err
	}
	return validateMeals(p.MealSchedules)
}

func validateStartTime(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("%w: start_time must be HH:MM", domain.ErrValidation)
	}
	return nil
}
