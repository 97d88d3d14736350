// Package domain contains the core data types for the lake-tour back-office.
// This package depends only on uuid and is imported by every other internal
// package (logistics, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire and audit format for calendar dates.
const DateLayout = "2006-01-02"

// Reservation is one tour booking for one date. It is the aggregate root of
// the day's operational picture. Reservations are never deleted: cancellation
// is a status value.
//
// Boat, Driver, Guide and AgentName are populated by the expanded fetches.
// A dangling assignment id (resource deleted later) expands to nil.
type Reservation struct {
	ID        int64
	TourName  string
	TourDate  time.Time // midnight UTC, no time of day
	StartTime string    // "HH:MM", empty when not scheduled
	PaxCount  int
	Status    Status

	BoatID   *int64
	DriverID *int64
	GuideID  *int64
	AgentID  uuid.UUID

	TotalAmount float64
	PaidAmount  float64

	EmergencyContactName  string
	EmergencyContactPhone string

	CustomStops   []string
	MealSchedules []MealSchedule
	Passengers    []Passenger
	Notes         string

	CreatedAt time.Time
	UpdatedAt time.Time

	Boat      *Boat
	Driver    *Staff
	Guide     *Staff
	AgentName string
}

// Balance is the amount still owed on the reservation.
func (r Reservation) Balance() float64 {
	if r.PaidAmount >= r.TotalAmount {
		return 0
	}
	return r.TotalAmount - r.PaidAmount
}

// MealSchedule is a planned stop at a kitchen during the tour.
// MealType is optional; when set, passenger orders of the same meal type are
// routed to this schedule.
type MealSchedule struct {
	RestaurantName string `json:"restaurant_name"`
	ArrivalTime    string `json:"arrival_time"`
	PaxCount       int    `json:"pax_count"`
	MealType       string `json:"meal_type,omitempty"`
}

// Passenger is one traveller on a reservation.
type Passenger struct {
	FullName   string          `json:"full_name"`
	Age        *int            `json:"age,omitempty"`
	IDDocument string          `json:"id_document,omitempty"`
	Meals      []PassengerMeal `json:"meals,omitempty"`
}

// PassengerMeal is a single food order for a passenger.
type PassengerMeal struct {
	MealType     string `json:"meal_type"`
	FoodOrder    string `json:"food_order"`
	DietaryNotes string `json:"dietary_notes,omitempty"`
}

// Agent is the acting back-office user. Name is copied into audit entries at
// write time so history survives a later rename.
type Agent struct {
	ID   uuid.UUID
	Name string
}

// DateOnly truncates t to a calendar date at midnight UTC, keeping the
// year/month/day as seen in t's own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "2006-01-02" calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
