package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/DPR2204/atiexg-sub001/internal/board"
	"github.com/DPR2204/atiexg-sub001/internal/domain"
)

// Reservation is the wire form of a domain.Reservation.
type Reservation struct {
	ID                    int64                 `json:"id"`
	TourName              string                `json:"tour_name"`
	TourDate              openapi_types.Date    `json:"tour_date"`
	StartTime             string                `json:"start_time,omitempty"`
	PaxCount              int                   `json:"pax_count"`
	Status                domain.Status         `json:"status"`
	StatusLabel           string                `json:"status_label"`
	BoatID                *int64                `json:"boat_id"`
	DriverID              *int64                `json:"driver_id"`
	GuideID               *int64                `json:"guide_id"`
	AgentID               uuid.UUID             `json:"agent_id"`
	AgentName             string                `json:"agent_name,omitempty"`
	TotalAmount           float64               `json:"total_amount"`
	PaidAmount            float64               `json:"paid_amount"`
	Balance               float64               `json:"balance"`
	EmergencyContactName  string                `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string                `json:"emergency_contact_phone,omitempty"`
	CustomStops           []string              `json:"custom_stops"`
	MealSchedules         []domain.MealSchedule `json:"meal_schedules"`
	Passengers            []domain.Passenger    `json:"passengers"`
	Notes                 string                `json:"notes,omitempty"`
	Boat                  *Boat                 `json:"boat,omitempty"`
	Driver                *Staff                `json:"driver,omitempty"`
	Guide                 *Staff                `json:"guide,omitempty"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
}

// CreateReservationRequest is the body of POST /reservations.
type CreateReservationRequest struct {
	TourName              string                `json:"tour_name"`
	TourDate              openapi_types.Date    `json:"tour_date"`
	StartTime             string                `json:"start_time"`
	PaxCount              int                   `json:"pax_count"`
	Status                domain.Status         `json:"status"`
	BoatID                *int64                `json:"boat_id"`
	DriverID              *int64                `json:"driver_id"`
	GuideID               *int64                `json:"guide_id"`
	TotalAmount           float64               `json:"total_amount"`
	PaidAmount            float64               `json:"paid_amount"`
	EmergencyContactName  string                `json:"emergency_contact_name"`
	EmergencyContactPhone string                `json:"emergency_contact_phone"`
	CustomStops           []string              `json:"custom_stops"`
	MealSchedules         []domain.MealSchedule `json:"meal_schedules"`
	Passengers            []domain.Passenger    `json:"passengers"`
	Notes                 string                `json:"notes"`
}

// UpdateReservationRequest is the body of PATCH /reservations/{id}. Absent
// fields are left untouched; an explicit null on boat_id, driver_id or
// guide_id clears the assignment. passengers and meal_schedules replace the
// whole list. force confirms a status change outside the recommended flow.
type UpdateReservationRequest struct {
	TourDate              *openapi_types.Date   `json:"tour_date"`
	StartTime             *string               `json:"start_time"`
	PaxCount              *int                  `json:"pax_count"`
	Status                *domain.Status        `json:"status"`
	TotalAmount           *float64              `json:"total_amount"`
	PaidAmount            *float64              `json:"paid_amount"`
	BoatID                nullableID            `json:"boat_id"`
	DriverID              nullableID            `json:"driver_id"`
	GuideID               nullableID            `json:"guide_id"`
	Notes                 *string               `json:"notes"`
	EmergencyContactName  *string               `json:"emergency_contact_name"`
	EmergencyContactPhone *string               `json:"emergency_contact_phone"`
	CustomStops           []string              `json:"custom_stops"`
	MealSchedules         []domain.MealSchedule `json:"meal_schedules"`
	Passengers            []domain.Passenger    `json:"passengers"`
	Force                 bool                  `json:"force"`
}

// FieldChange is one audited difference in an update response.
type FieldChange struct {
	Field    string             `json:"field"`
	OldValue string             `json:"old_value"`
	NewValue string             `json:"new_value"`
	Action   domain.AuditAction `json:"action"`
}

// UpdateReservationResponse is returned by PATCH /reservations/{id}.
type UpdateReservationResponse struct {
	Reservation Reservation   `json:"reservation"`
	Changes     []FieldChange `json:"changes"`
	NoOp        bool          `json:"no_op"`
	Warning     string        `json:"warning,omitempty"`
}

// MoveReservationRequest is the body of POST /reservations/{id}/move.
type MoveReservationRequest struct {
	To    domain.Status `json:"to"`
	Force bool          `json:"force"`
}

// MoveReservationResponse is returned by a successful board move.
type MoveReservationResponse struct {
	Reservation Reservation   `json:"reservation"`
	From        domain.Status `json:"from"`
	NoOp        bool          `json:"no_op"`
	Warning     string        `json:"warning,omitempty"`
}

// AuditEntry is the wire form of a domain.AuditLogEntry.
type AuditEntry struct {
	ID           int64              `json:"id"`
	AgentID      uuid.UUID          `json:"agent_id"`
	AgentName    string             `json:"agent_name"`
	Action       domain.AuditAction `json:"action"`
	FieldChanged string             `json:"field_changed"`
	OldValue     string             `json:"old_value"`
	NewValue     string             `json:"new_value"`
	CreatedAt    time.Time          `json:"created_at"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// AuditPage is returned by GET /reservations/{id}/audit.
type AuditPage struct {
	Data       []AuditEntry `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

// nullableID tells an absent JSON field apart from an explicit null.
type nullableID struct {
	Set   bool
	Value *int64
}

func (n *nullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var id int64
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

func (n nullableID) assignment() *domain.Assignment {
	switch {
	case !n.Set:
		return nil
	case n.Value == nil:
		return domain.Unassign()
	default:
		return domain.Assign(*n.Value)
	}
}

// CreateReservation handles POST /reservations.
func (s *Server) CreateReservation(w http.ResponseWriter, r *http.Request) {
	agent, ok := requireAgent(w, r)
	if !ok {
		return
	}
	var body CreateReservationRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	created, err := s.svc.Reservations.Create(r.Context(), requestToReservation(body), agent)
	if err != nil {
		s.fail(w, r, msgCreateReservation, "reservation", err)
		return
	}
	writeJSON(w, http.StatusCreated, reservationToResponse(created))
}

// GetReservation handles GET /reservations/{id}.
func (s *Server) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := s.svc.Reservations.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, msgLoadReservation, "reservation", err)
		return
	}
	writeJSON(w, http.StatusOK, reservationToResponse(res))
}

// UpdateReservation handles PATCH /reservations/{id}: the audited update.
func (s *Server) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	agent, ok := requireAgent(w, r)
	if !ok {
		return
	}
	var body UpdateReservationRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	res, err := s.svc.Reservations.Update(r.Context(), id, requestToPatch(body), agent)
	if err != nil {
		s.fail(w, r, msgUpdateReservation, "reservation", err)
		return
	}

	changes := make([]FieldChange, len(res.Changes))
	for i, c := range res.Changes {
		changes[i] = FieldChange{Field: c.Field, OldValue: c.OldValue, NewValue: c.NewValue, Action: c.Action()}
	}
	writeJSON(w, http.StatusOK, UpdateReservationResponse{
		Reservation: reservationToResponse(res.Reservation),
		Changes:     changes,
		NoOp:        res.NoOp,
		Warning:     res.Warning,
	})
}

// MoveReservation handles POST /reservations/{id}/move: a Kanban drag.
// The board of the reservation's date is opened (or reused) and refreshed
// once if it does not hold the card yet.
func (s *Server) MoveReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	agent, ok := requireAgent(w, r)
	if !ok {
		return
	}
	var body MoveReservationRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	ctx := r.Context()
	current, err := s.svc.Reservations.Get(ctx, id)
	if err != nil {
		s.fail(w, r, board.MoveFailed, "reservation", err)
		return
	}
	b, err := s.svc.Boards.Open(ctx, current.TourDate)
	if err != nil {
		s.fail(w, r, board.MoveFailed, "reservation", err)
		return
	}
	if _, ok := b.Get(id); !ok {
		if err := s.svc.Boards.Refresh(ctx); err != nil {
			s.fail(w, r, board.MoveFailed, "reservation", err)
			return
		}
	}

	res, err := b.Move(ctx, id, body.To, body.Force, agent)
	if err != nil {
		s.fail(w, r, board.MoveFailed, "reservation", err)
		return
	}
	writeJSON(w, http.StatusOK, MoveReservationResponse{
		Reservation: reservationToResponse(res.Reservation),
		From:        res.From,
		NoOp:        res.NoOp,
		Warning:     res.Warning,
	})
}

// ListReservationAudit handles GET /reservations/{id}/audit.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=50, max=100).
func (s *Server) ListReservationAudit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	params, ok := pagination(w, r)
	if !ok {
		return
	}

	entries, total, err := s.svc.Reservations.AuditTrail(r.Context(), id, params)
	if err != nil {
		s.fail(w, r, msgLoadAudit, "reservation", err)
		return
	}

	data := make([]AuditEntry, len(entries))
	for i, e := range entries {
		data[i] = AuditEntry{
			ID:           e.ID,
			AgentID:      e.AgentID,
			AgentName:    e.AgentName,
			Action:       e.Action,
			FieldChanged: e.FieldChanged,
			OldValue:     e.OldValue,
			NewValue:     e.NewValue,
			CreatedAt:    e.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, AuditPage{
		Data:       data,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: int(total)},
	})
}

// --- mapping helpers --------------------------------------------------------

func requestToReservation(body CreateReservationRequest) domain.Reservation {
	return domain.Reservation{
		TourName:              body.TourName,
		TourDate:              domain.DateOnly(body.TourDate.Time),
		StartTime:             body.StartTime,
		PaxCount:              body.PaxCount,
		Status:                body.Status,
		BoatID:                body.BoatID,
		DriverID:              body.DriverID,
		GuideID:               body.GuideID,
		TotalAmount:           body.TotalAmount,
		PaidAmount:            body.PaidAmount,
		EmergencyContactName:  body.EmergencyContactName,
		EmergencyContactPhone: body.EmergencyContactPhone,
		CustomStops:           body.CustomStops,
		MealSchedules:         body.MealSchedules,
		Passengers:            body.Passengers,
		Notes:                 body.Notes,
	}
}

func requestToPatch(body UpdateReservationRequest) domain.ReservationPatch {
	p := domain.ReservationPatch{
		StartTime:             body.StartTime,
		PaxCount:              body.PaxCount,
		Status:                body.Status,
		TotalAmount:           body.TotalAmount,
		BoatID:                body.BoatID.assignment(),
		DriverID:              body.DriverID.assignment(),
		GuideID:               body.GuideID.assignment(),
		Notes:                 body.Notes,
		EmergencyContactName:  body.EmergencyContactName,
		EmergencyContactPhone: body.EmergencyContactPhone,
		PaidAmount:            body.PaidAmount,
		CustomStops:           body.CustomStops,
		MealSchedules:         body.MealSchedules,
		Passengers:            body.Passengers,
		Force:                 body.Force,
	}
	if body.TourDate != nil {
		d := domain.DateOnly(body.TourDate.Time)
		p.TourDate = &d
	}
	return p
}

func reservationToResponse(r domain.Reservation) Reservation {
	resp := Reservation{
		ID:                    r.ID,
		TourName:              r.TourName,
		TourDate:              date(r.TourDate),
		StartTime:             r.StartTime,
		PaxCount:              r.PaxCount,
		Status:                r.Status,
		StatusLabel:           r.Status.Label(),
		BoatID:                r.BoatID,
		DriverID:              r.DriverID,
		GuideID:               r.GuideID,
		AgentID:               r.AgentID,
		AgentName:             r.AgentName,
		TotalAmount:           r.TotalAmount,
		PaidAmount:            r.PaidAmount,
		Balance:               r.Balance(),
		EmergencyContactName:  r.EmergencyContactName,
		EmergencyContactPhone: r.EmergencyContactPhone,
		CustomStops:           nonNil(r.CustomStops),
		MealSchedules:         nonNil(r.MealSchedules),
		Passengers:            nonNil(r.Passengers),
		Notes:                 r.Notes,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
	if r.Boat != nil {
		b := boatToResponse(*r.Boat)
		resp.Boat = &b
	}
	if r.Driver != nil {
		d := staffToResponse(*r.Driver)
		resp.Driver = &d
	}
	if r.Guide != nil {
		g := staffToResponse(*r.Guide)
		resp.Guide = &g
	}
	return resp
}

func reservationsToResponse(rs []domain.Reservation) []Reservation {
	out := make([]Reservation, len(rs))
	for i, r := range rs {
		out[i] = reservationToResponse(r)
	}
	return out
}

// nonNil keeps empty lists rendering as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
