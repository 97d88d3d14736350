package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func reservationFixture() domain.Reservation {
	boat := int64(7)
	return domain.Reservation{
		ID:          1,
		TourName:    "Tour Tres Pueblos",
		TourDate:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime:   "08:00",
		PaxCount:    6,
		Status:      domain.StatusPaid,
		BoatID:      &boat,
		TotalAmount: 150,
		Notes:       "",
	}
}

func TestDiff_NoChanges(t *testing.T) {
	r := reservationFixture()

	changes := domain.Diff(r, domain.ReservationPatch{
		Status:      ptr(domain.StatusPaid),
		PaxCount:    ptr(6),
		TotalAmount: ptr(150.00),
		BoatID:      domain.Assign(7),
		Notes:       ptr(""),
		TourDate:    ptr(time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)),
	})

	assert.Empty(t, changes)
}

func TestDiff_NullAndEmptyCompareEqual(t *testing.T) {
	r := reservationFixture()
	r.GuideID = nil

	changes := domain.Diff(r, domain.ReservationPatch{GuideID: domain.Unassign()})

	assert.Empty(t, changes)
}

func TestDiff_ReportsChangedFieldsAsStrings(t *testing.T) {
	r := reservationFixture()

	changes := domain.Diff(r, domain.ReservationPatch{
		Status:   ptr(domain.StatusInProgress),
		BoatID:   domain.Unassign(),
		DriverID: domain.Assign(3),
		PaxCount: ptr(8),
	})

	require.Len(t, changes, 4)
	assert.Equal(t, domain.FieldChange{Field: "pax_count", OldValue: "6", NewValue: "8"}, changes[0])
	assert.Equal(t, domain.FieldChange{Field: "status", OldValue: "paid", NewValue: "in_progress"}, changes[1])
	assert.Equal(t, domain.FieldChange{Field: "boat_id", OldValue: "7", NewValue: ""}, changes[2])
	assert.Equal(t, domain.FieldChange{Field: "driver_id", OldValue: "", NewValue: "3"}, changes[3])
	assert.Equal(t, domain.ActionStatusChanged, changes[1].Action())
	assert.Equal(t, domain.ActionUpdated, changes[0].Action())
}

func TestDiff_CustomStopsAreNotAudited(t *testing.T) {
	r := reservationFixture()

	changes := domain.Diff(r, domain.ReservationPatch{CustomStops: []string{"Panajachel"}})

	assert.Empty(t, changes)
}

func TestReservationPatch_Apply(t *testing.T) {
	r := reservationFixture()

	got := domain.ReservationPatch{
		BoatID:      domain.Unassign(),
		GuideID:     domain.Assign(4),
		Notes:       ptr("llevar chalecos"),
		CustomStops: []string{"San Marcos"},
	}.Apply(r)

	assert.Nil(t, got.BoatID)
	require.NotNil(t, got.GuideID)
	assert.Equal(t, int64(4), *got.GuideID)
	assert.Equal(t, "llevar chalecos", got.Notes)
	assert.Equal(t, []string{"San Marcos"}, got.CustomStops)
	// The original is untouched.
	assert.NotNil(t, r.BoatID)
}

func TestReservationPatch_Empty(t *testing.T) {
	assert.True(t, domain.ReservationPatch{}.Empty())
	assert.True(t, domain.ReservationPatch{Force: true}.Empty())
	assert.False(t, domain.ReservationPatch{Notes: ptr("")}.Empty())
	assert.False(t, domain.ReservationPatch{Passengers: []domain.Passenger{}}.Empty())
}

func TestReservationPatch_PaymentAndOrdersAreNotAudited(t *testing.T) {
	r := reservationFixture()
	p := domain.ReservationPatch{
		PaidAmount:    ptr(75.0),
		MealSchedules: []domain.MealSchedule{{RestaurantName: "Casa Sakura", ArrivalTime: "12:30", PaxCount: 2}},
		Passengers: []domain.Passenger{{
			FullName: "Lucía Pérez",
			Meals:    []domain.PassengerMeal{{MealType: "almuerzo", FoodOrder: "Pescado", DietaryNotes: "sin gluten"}},
		}},
	}

	assert.Empty(t, domain.Diff(r, p))
	assert.True(t, p.Unaudited())
	assert.False(t, domain.ReservationPatch{Notes: ptr("x")}.Unaudited())

	got := p.Apply(r)
	assert.InDelta(t, 75.0, got.PaidAmount, 0.0001)
	require.Len(t, got.MealSchedules, 1)
	assert.Equal(t, "Casa Sakura", got.MealSchedules[0].RestaurantName)
	require.Len(t, got.Passengers, 1)
	assert.Equal(t, "sin gluten", got.Passengers[0].Meals[0].DietaryNotes)
}

func TestReservation_Balance(t *testing.T) {
	r := reservationFixture()
	r.PaidAmount = 100
	assert.InDelta(t, 50.0, r.Balance(), 0.0001)

	r.PaidAmount = 200
	assert.Zero(t, r.Balance())
}
