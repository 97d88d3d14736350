package logistics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/logistics"
)

func groupByKey(groups []logistics.KitchenGroup) map[string]logistics.KitchenGroup {
	out := make(map[string]logistics.KitchenGroup, len(groups))
	for _, g := range groups {
		out[g.Key] = g
	}
	return out
}

func TestGroupKitchens_KnownKitchensAlwaysPresent(t *testing.T) {
	groups := logistics.GroupKitchens(nil)

	require.Len(t, groups, len(logistics.KnownKitchens))
	for i, name := range logistics.KnownKitchens {
		assert.Equal(t, name, groups[i].Name)
		assert.True(t, groups[i].Known)
		assert.Zero(t, groups[i].OrderCount())
	}
}

func TestGroupKitchens_NameVariationsCollapse(t *testing.T) {
	a := res(1, "Tour A", nil, nil, nil)
	a.MealSchedules = []domain.MealSchedule{{RestaurantName: "Atitlán Central", ArrivalTime: "12:30", PaxCount: 4}}
	b := res(2, "Tour B", nil, nil, nil)
	b.MealSchedules = []domain.MealSchedule{{RestaurantName: " atitlán central ", ArrivalTime: "12:00", PaxCount: 3}}

	groups := logistics.GroupKitchens([]domain.Reservation{a, b})

	require.Len(t, groups, len(logistics.KnownKitchens))
	g := groupByKey(groups)["atitlán central"]
	assert.Equal(t, "Atitlán Central", g.Name)
	require.Len(t, g.Visits, 2)
	assert.Equal(t, int64(2), g.Visits[0].ReservationID, "visits ordered by arrival time")
	assert.Equal(t, 7, g.TotalPax)
}

func TestGroupKitchens_AdHocKitchenAppended(t *testing.T) {
	a := res(1, "Tour A", nil, nil, nil)
	a.MealSchedules = []domain.MealSchedule{{RestaurantName: "Café Zoe", ArrivalTime: "13:00"}}
	b := res(2, "Tour B", nil, nil, nil)
	b.MealSchedules = []domain.MealSchedule{{RestaurantName: "CAFÉ ZOE "}}

	groups := logistics.GroupKitchens([]domain.Reservation{a, b})

	require.Len(t, groups, len(logistics.KnownKitchens)+1)
	last := groups[len(groups)-1]
	assert.Equal(t, "café zoe", last.Key)
	assert.Equal(t, "Café Zoe", last.Name)
	assert.False(t, last.Known)
	assert.Equal(t, 8, last.TotalPax, "missing schedule pax falls back to reservation pax")
}

func TestGroupKitchens_BucketsAndAlerts(t *testing.T) {
	r := res(1, "Tour A", nil, nil, nil)
	r.MealSchedules = []domain.MealSchedule{
		{RestaurantName: "Atitlán Central", MealType: "almuerzo"},
		{RestaurantName: "San Juan La Laguna", MealType: "desayuno"},
	}
	r.Passengers = []domain.Passenger{
		{FullName: "Ana", Meals: []domain.PassengerMeal{
			{MealType: "Almuerzo", FoodOrder: "Pescado"},
			{MealType: "desayuno", FoodOrder: "Panqueques", DietaryNotes: "sin gluten"},
		}},
		{FullName: "Luis", Meals: []domain.PassengerMeal{
			{MealType: "", FoodOrder: "Pollo", DietaryNotes: "alergia al maní"},
		}},
	}

	g := groupByKey(logistics.GroupKitchens([]domain.Reservation{r}))

	central := g["atitlán central"]
	require.Len(t, central.Buckets, 2)
	assert.Equal(t, "almuerzo", central.Buckets[0].MealType)
	assert.Equal(t, "Pescado", central.Buckets[0].Orders[0].FoodOrder)
	assert.Equal(t, logistics.GeneralMealType, central.Buckets[1].MealType, "unknown meal type falls back to general")
	assert.Equal(t, "Pollo", central.Buckets[1].Orders[0].FoodOrder)
	require.Len(t, central.Alerts, 1)
	assert.Equal(t, "Luis", central.Alerts[0].Passenger)
	assert.Equal(t, "alergia al maní", central.Alerts[0].Notes)

	sanJuan := g["san juan la laguna"]
	assert.Equal(t, 1, sanJuan.OrderCount())
	require.Len(t, sanJuan.Alerts, 1)
	assert.Equal(t, "sin gluten", sanJuan.Alerts[0].Notes)
}

func TestGroupKitchens_OrdersWithoutScheduleAreNotDropped(t *testing.T) {
	r := res(1, "Tour A", nil, nil, nil)
	r.Passengers = []domain.Passenger{
		{FullName: "Ana", Meals: []domain.PassengerMeal{{MealType: "cena", FoodOrder: "Sopa"}}},
	}

	groups := logistics.GroupKitchens([]domain.Reservation{r})

	g := groupByKey(groups)[logistics.NormalizeKitchen(logistics.UnassignedKitchen)]
	assert.Equal(t, 1, g.OrderCount())
}

func TestGroupKitchens_SkipsCancelled(t *testing.T) {
	r := res(1, "Tour A", nil, nil, nil)
	r.Status = domain.StatusCancelled
	r.MealSchedules = []domain.MealSchedule{{RestaurantName: "Nuevo Lugar"}}

	groups := logistics.GroupKitchens([]domain.Reservation{r})

	assert.Len(t, groups, len(logistics.KnownKitchens))
}
