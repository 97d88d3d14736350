package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/repo"
	"github.com/DPR2204/atiexg-sub001/testutil"
)

var june1 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

type reservationFixture struct {
	reservations repo.ReservationRepo
	boats        repo.BoatRepo
	staff        repo.StaffRepo
	agents       repo.AgentRepo
	agent        domain.Agent
}

func newReservationFixture(t *testing.T) reservationFixture {
	t.Helper()
	tx := testutil.NewTx(t)

	f := reservationFixture{
		reservations: repo.NewReservationRepo(tx),
		boats:        repo.NewBoatRepo(tx),
		staff:        repo.NewStaffRepo(tx),
		agents:       repo.NewAgentRepo(tx),
		agent:        domain.Agent{ID: uuid.New(), Name: "Ana López"},
	}
	require.NoError(t, f.agents.Upsert(context.Background(), f.agent))
	return f
}

func (f reservationFixture) reservation() domain.Reservation {
	age := 34
	return domain.Reservation{
		TourName:  "Tour Pueblos del Lago",
		TourDate:  june1,
		StartTime: "08:30",
		PaxCount:  4,
		Status:    domain.StatusReserved,
		AgentID:   f.agent.ID,

		TotalAmount: 1200,
		PaidAmount:  300,

		EmergencyContactName:  "María",
		EmergencyContactPhone: "+502 5555 0000",
		CustomStops:           []string{"San Juan La Laguna", "Santiago Atitlán"},
		MealSchedules: []domain.MealSchedule{
			{RestaurantName: "Atitlán Central", ArrivalTime: "12:30", PaxCount: 4, MealType: "almuerzo"},
		},
		Passengers: []domain.Passenger{
			{FullName: "Juan Pérez", Age: &age, Meals: []domain.PassengerMeal{
				{MealType: "almuerzo", FoodOrder: "Pepián", DietaryNotes: "sin gluten"},
			}},
			{FullName: "Lucía Pérez"},
		},
	}
}

func TestReservationRepo_Create_Expanded(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	boat, err := f.boats.Create(ctx, domain.Boat{Name: "Lancha 7", Capacity: 10, Status: domain.BoatActive})
	require.NoError(t, err)
	driver, err := f.staff.Create(ctx, domain.Staff{Name: "Pedro", Role: domain.RoleDriver, Active: true})
	require.NoError(t, err)

	in := f.reservation()
	in.BoatID = &boat.ID
	in.DriverID = &driver.ID

	got, err := f.reservations.Create(ctx, in)

	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.True(t, got.TourDate.Equal(june1))
	assert.Equal(t, domain.StatusReserved, got.Status)
	assert.Equal(t, []string{"San Juan La Laguna", "Santiago Atitlán"}, got.CustomStops)
	assert.Equal(t, in.MealSchedules, got.MealSchedules)
	assert.InDelta(t, 1200, got.TotalAmount, 0.001)
	assert.Equal(t, "Ana López", got.AgentName)

	require.NotNil(t, got.Boat)
	assert.Equal(t, "Lancha 7", got.Boat.Name)
	require.NotNil(t, got.Driver)
	assert.Equal(t, "Pedro", got.Driver.Name)
	assert.Nil(t, got.Guide)

	require.Len(t, got.Passengers, 2)
	assert.Equal(t, "Juan Pérez", got.Passengers[0].FullName)
	require.NotNil(t, got.Passengers[0].Age)
	assert.Equal(t, 34, *got.Passengers[0].Age)
	assert.Equal(t, "sin gluten", got.Passengers[0].Meals[0].DietaryNotes)
	assert.Nil(t, got.Passengers[1].Age)
}

func TestReservationRepo_GetByID_NotFound(t *testing.T) {
	f := newReservationFixture(t)

	_, err := f.reservations.GetByID(context.Background(), 999999999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReservationRepo_DanglingBoatExpandsToNil(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	boat, err := f.boats.Create(ctx, domain.Boat{Name: "Lancha 3", Capacity: 8, Status: domain.BoatActive})
	require.NoError(t, err)
	in := f.reservation()
	in.BoatID = &boat.ID
	created, err := f.reservations.Create(ctx, in)
	require.NoError(t, err)

	require.NoError(t, f.boats.Delete(ctx, boat.ID))

	got, err := f.reservations.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.BoatID, "the id survives the delete")
	assert.Nil(t, got.Boat)
}

func TestReservationRepo_List(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	early := f.reservation()
	early.StartTime = "07:00"
	late := f.reservation()
	late.StartTime = "10:00"
	cancelled := f.reservation()
	cancelled.Status = domain.StatusCancelled
	nextDay := f.reservation()
	nextDay.TourDate = june1.AddDate(0, 0, 1)

	for _, r := range []domain.Reservation{late, cancelled, early, nextDay} {
		_, err := f.reservations.Create(ctx, r)
		require.NoError(t, err)
	}

	t.Run("single day ordered by start time", func(t *testing.T) {
		got, err := f.reservations.List(ctx, repo.ReservationFilter{From: june1, To: june1, ExcludeCancelled: true})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "07:00", got[0].StartTime)
		assert.Equal(t, "10:00", got[1].StartTime)
	})

	t.Run("range includes cancelled unless excluded", func(t *testing.T) {
		got, err := f.reservations.List(ctx, repo.ReservationFilter{From: june1, To: june1.AddDate(0, 0, 1)})
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("status filter", func(t *testing.T) {
		got, err := f.reservations.List(ctx, repo.ReservationFilter{
			From: june1, To: june1, Statuses: []domain.Status{domain.StatusCancelled},
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, domain.StatusCancelled, got[0].Status)
	})
}

func TestReservationRepo_Update(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	created, err := f.reservations.Create(ctx, f.reservation())
	require.NoError(t, err)
	boat, err := f.boats.Create(ctx, domain.Boat{Name: "Lancha 1", Capacity: 12, Status: domain.BoatActive})
	require.NoError(t, err)

	status := domain.StatusPaid
	pax := 6
	got, err := f.reservations.Update(ctx, created.ID, domain.ReservationPatch{
		Status:   &status,
		PaxCount: &pax,
		BoatID:   domain.Assign(boat.ID),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, got.Status)
	assert.Equal(t, 6, got.PaxCount)
	require.NotNil(t, got.Boat)
	assert.Equal(t, "Lancha 1", got.Boat.Name)
	assert.Equal(t, created.Notes, got.Notes, "untouched fields keep their value")

	cleared, err := f.reservations.Update(ctx, created.ID, domain.ReservationPatch{BoatID: domain.Unassign()})
	require.NoError(t, err)
	assert.Nil(t, cleared.BoatID)
	assert.Nil(t, cleared.Boat)
}

func TestReservationRepo_Update_PaymentAndPassengers(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	created, err := f.reservations.Create(ctx, f.reservation())
	require.NoError(t, err)
	require.Len(t, created.Passengers, 2)

	paid := 1200.0
	got, err := f.reservations.Update(ctx, created.ID, domain.ReservationPatch{
		PaidAmount: &paid,
		MealSchedules: []domain.MealSchedule{
			{RestaurantName: "Casa Sakura", ArrivalTime: "13:00", PaxCount: 3},
		},
		Passengers: []domain.Passenger{
			{FullName: "Lucía Pérez", Meals: []domain.PassengerMeal{{MealType: "almuerzo", FoodOrder: "Pescado"}}},
		},
	})

	require.NoError(t, err)
	assert.InDelta(t, 1200.0, got.PaidAmount, 0.001)
	require.Len(t, got.MealSchedules, 1)
	assert.Equal(t, "Casa Sakura", got.MealSchedules[0].RestaurantName)
	require.Len(t, got.Passengers, 1, "the passenger list is replaced")
	assert.Equal(t, "Lucía Pérez", got.Passengers[0].FullName)
	assert.Equal(t, "Pescado", got.Passengers[0].Meals[0].FoodOrder)

	cleared, err := f.reservations.Update(ctx, created.ID, domain.ReservationPatch{Passengers: []domain.Passenger{}})
	require.NoError(t, err)
	assert.Empty(t, cleared.Passengers)
	assert.InDelta(t, 1200.0, cleared.PaidAmount, 0.001, "untouched fields keep their value")
}

func TestReservationRepo_Update_NotFound(t *testing.T) {
	f := newReservationFixture(t)
	notes := "x"

	_, err := f.reservations.Update(context.Background(), 999999999, domain.ReservationPatch{Notes: &notes})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReservationRepo_Update_RejectedIsPersistenceError(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	created, err := f.reservations.Create(ctx, f.reservation())
	require.NoError(t, err)

	pax := 0 // violates the pax_count CHECK constraint
	_, err = f.reservations.Update(ctx, created.ID, domain.ReservationPatch{PaxCount: &pax})

	assert.ErrorIs(t, err, domain.ErrPersistence)
}
