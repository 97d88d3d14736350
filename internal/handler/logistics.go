package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/logistics"
)

// Conflict is one resource shared by two or more reservations.
type Conflict struct {
	Key            string  `json:"key"`
	ReservationIDs []int64 `json:"reservation_ids"`
}

// BoatLoad is the capacity picture of one boat.
type BoatLoad struct {
	BoatID         int64                 `json:"boat_id"`
	BoatName       string                `json:"boat_name"`
	Pax            int                   `json:"pax"`
	Capacity       int                   `json:"capacity"`
	Ratio          float64               `json:"ratio"`
	Utilization    logistics.Utilization `json:"utilization"`
	ReservationIDs []int64               `json:"reservation_ids"`
}

// KitchenVisit is one reservation's stop on a kitchen ticket.
type KitchenVisit struct {
	ReservationID int64  `json:"reservation_id"`
	TourName      string `json:"tour_name"`
	ArrivalTime   string `json:"arrival_time"`
	PaxCount      int    `json:"pax_count"`
}

// FoodOrder is one passenger order on a kitchen ticket.
type FoodOrder struct {
	ReservationID int64  `json:"reservation_id"`
	TourName      string `json:"tour_name"`
	Passenger     string `json:"passenger"`
	FoodOrder     string `json:"food_order"`
	DietaryNotes  string `json:"dietary_notes,omitempty"`
}

// MealBucket groups a ticket's orders by meal type.
type MealBucket struct {
	MealType string      `json:"meal_type"`
	Orders   []FoodOrder `json:"orders"`
}

// DietaryAlert flags a passenger restriction on a ticket.
type DietaryAlert struct {
	ReservationID int64  `json:"reservation_id"`
	TourName      string `json:"tour_name"`
	Passenger     string `json:"passenger"`
	MealType      string `json:"meal_type"`
	Notes         string `json:"notes"`
}

// KitchenTicket is one printable kitchen group.
type KitchenTicket struct {
	Key        string         `json:"key"`
	Name       string         `json:"name"`
	Known      bool           `json:"known"`
	TotalPax   int            `json:"total_pax"`
	OrderCount int            `json:"order_count"`
	Visits     []KitchenVisit `json:"visits"`
	Buckets    []MealBucket   `json:"buckets"`
	Alerts     []DietaryAlert `json:"alerts"`
}

// AssignmentWarning flags a slot holding an unusable resource.
type AssignmentWarning struct {
	ReservationID int64                  `json:"reservation_id"`
	Kind          logistics.ResourceKind `json:"kind"`
	ResourceID    int64                  `json:"resource_id"`
	Message       string                 `json:"message"`
}

// DailyNote is the wire form of a domain.DailyNote.
type DailyNote struct {
	Date      openapi_types.Date `json:"date"`
	Content   string             `json:"content"`
	UpdatedBy string             `json:"updated_by,omitempty"`
	UpdatedAt *time.Time         `json:"updated_at,omitempty"`
}

// LogisticsDay is returned by GET /logistics/{date}.
type LogisticsDay struct {
	Date         openapi_types.Date                 `json:"date"`
	Reservations []Reservation                      `json:"reservations"`
	Conflicts    []Conflict                         `json:"conflicts"`
	Explanations map[int64][]string                 `json:"explanations"`
	Loads        []BoatLoad                         `json:"loads"`
	Kitchens     []KitchenTicket                    `json:"kitchens"`
	Unassigned   map[int64][]logistics.ResourceKind `json:"unassigned"`
	Warnings     []AssignmentWarning                `json:"warnings"`
	Note         DailyNote                          `json:"note"`
}

// BoardColumn is one Kanban column.
type BoardColumn struct {
	Status domain.Status `json:"status"`
	Label  string        `json:"label"`
	Cards  []Reservation `json:"cards"`
}

// BoardResponse is returned by GET /board/{date}.
type BoardResponse struct {
	Date    openapi_types.Date `json:"date"`
	Columns []BoardColumn      `json:"columns"`
}

// GetLogisticsDay handles GET /logistics/{date}. The date may be "today".
func (s *Server) GetLogisticsDay(w http.ResponseWriter, r *http.Request) {
	d, ok := s.pathDate(w, r)
	if !ok {
		return
	}
	view, err := s.svc.Logistics.Day(r.Context(), d)
	if err != nil {
		s.fail(w, r, msgLoadLogistics, "day", err)
		return
	}

	resp := LogisticsDay{
		Date:         date(view.Date),
		Reservations: reservationsToResponse(view.Reservations),
		Conflicts:    []Conflict{},
		Explanations: view.Explanations,
		Loads:        make([]BoatLoad, len(view.Loads)),
		Kitchens:     make([]KitchenTicket, len(view.Kitchens)),
		Unassigned:   view.Unassigned,
		Warnings:     make([]AssignmentWarning, len(view.Warnings)),
		Note:         noteToResponse(view.Note),
	}
	if resp.Explanations == nil {
		resp.Explanations = map[int64][]string{}
	}
	if resp.Unassigned == nil {
		resp.Unassigned = map[int64][]logistics.ResourceKind{}
	}
	for _, k := range view.Conflicts.Keys() {
		resp.Conflicts = append(resp.Conflicts, Conflict{Key: k, ReservationIDs: view.Conflicts.Conflicts[k]})
	}
	for i, l := range view.Loads {
		resp.Loads[i] = BoatLoad{
			BoatID:         l.BoatID,
			BoatName:       l.BoatName,
			Pax:            l.Pax,
			Capacity:       l.Capacity,
			Ratio:          l.Ratio,
			Utilization:    l.Utilization,
			ReservationIDs: nonNil(l.ReservationIDs),
		}
	}
	for i, g := range view.Kitchens {
		resp.Kitchens[i] = kitchenToResponse(g)
	}
	for i, wr := range view.Warnings {
		resp.Warnings[i] = AssignmentWarning{
			ReservationID: wr.ReservationID,
			Kind:          wr.Kind,
			ResourceID:    wr.ResourceID,
			Message:       wr.Message,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetBoard handles GET /board/{date}. The date may be "today".
func (s *Server) GetBoard(w http.ResponseWriter, r *http.Request) {
	d, ok := s.pathDate(w, r)
	if !ok {
		return
	}
	b, err := s.svc.Boards.Open(r.Context(), d)
	if err != nil {
		s.fail(w, r, msgLoadBoard, "board", err)
		return
	}

	cols := b.Columns()
	resp := BoardResponse{Date: date(b.Date()), Columns: make([]BoardColumn, len(cols))}
	for i, c := range cols {
		resp.Columns[i] = BoardColumn{Status: c.Status, Label: c.Label, Cards: reservationsToResponse(c.Cards)}
	}
	writeJSON(w, http.StatusOK, resp)
}

func kitchenToResponse(g logistics.KitchenGroup) KitchenTicket {
	t := KitchenTicket{
		Key:        g.Key,
		Name:       g.Name,
		Known:      g.Known,
		TotalPax:   g.TotalPax,
		OrderCount: g.OrderCount(),
		Visits:     make([]KitchenVisit, len(g.Visits)),
		Buckets:    make([]MealBucket, len(g.Buckets)),
		Alerts:     make([]DietaryAlert, len(g.Alerts)),
	}
	for i, v := range g.Visits {
		t.Visits[i] = KitchenVisit(v)
	}
	for i, b := range g.Buckets {
		orders := make([]FoodOrder, len(b.Orders))
		for j, o := range b.Orders {
			orders[j] = FoodOrder(o)
		}
		t.Buckets[i] = MealBucket{MealType: b.MealType, Orders: orders}
	}
	for i, a := range g.Alerts {
		t.Alerts[i] = DietaryAlert(a)
	}
	return t
}

func noteToResponse(n domain.DailyNote) DailyNote {
	resp := DailyNote{Date: date(n.Date), Content: n.Content, UpdatedBy: n.UpdatedBy}
	if !n.UpdatedAt.IsZero() {
		at := n.UpdatedAt
		resp.UpdatedAt = &at
	}
	return resp
}
