package logistics

import (
	"sort"
	"strings"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
)

// KnownKitchens are the fixed kitchen locations. They always appear on the
// daily checklist, with or without orders, in this order.
var KnownKitchens = []string{
	"Atitlán Central",
	"San Juan La Laguna",
	"Santiago Atitlán",
	"San Pedro La Laguna",
}

// GeneralMealType buckets orders with no recognised meal type.
const GeneralMealType = "general"

// UnassignedKitchen collects passenger orders on reservations that have no
// meal schedule to route them to.
const UnassignedKitchen = "Sin restaurante asignado"

// NormalizeKitchen is the grouping key of a restaurant name.
func NormalizeKitchen(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func normalizeMealType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return GeneralMealType
	}
	return t
}

// KitchenVisit is one reservation's planned stop at a kitchen.
type KitchenVisit struct {
	ReservationID int64
	TourName      string
	ArrivalTime   string
	PaxCount      int
}

// FoodOrder is one passenger's order as printed on a ticket.
type FoodOrder struct {
	ReservationID int64
	TourName      string
	Passenger     string
	FoodOrder     string
	DietaryNotes  string
}

// MealBucket groups the orders of one meal type.
type MealBucket struct {
	MealType string
	Orders   []FoodOrder
}

// DietaryAlert flags a passenger with allergies or restrictions. Alerts are
// safety-relevant and collected regardless of meal type.
type DietaryAlert struct {
	ReservationID int64
	TourName      string
	Passenger     string
	MealType      string
	Notes         string
}

// KitchenGroup is one printable kitchen ticket.
type KitchenGroup struct {
	Key      string
	Name     string
	Known    bool
	Visits   []KitchenVisit
	TotalPax int
	Buckets  []MealBucket
	Alerts   []DietaryAlert
}

// OrderCount is the number of passenger orders on the ticket.
func (g KitchenGroup) OrderCount() int {
	n := 0
	for _, b := range g.Buckets {
		n += len(b.Orders)
	}
	return n
}

type groupBuilder struct {
	group   KitchenGroup
	buckets map[string]*MealBucket
}

func (b *groupBuilder) addOrder(mealType string, o FoodOrder) {
	mt := normalizeMealType(mealType)
	bucket, ok := b.buckets[mt]
	if !ok {
		bucket = &MealBucket{MealType: mt}
		b.buckets[mt] = bucket
	}
	bucket.Orders = append(bucket.Orders, o)
	if strings.TrimSpace(o.DietaryNotes) != "" {
		b.group.Alerts = append(b.group.Alerts, DietaryAlert{
			ReservationID: o.ReservationID,
			TourName:      o.TourName,
			Passenger:     o.Passenger,
			MealType:      mt,
			Notes:         strings.TrimSpace(o.DietaryNotes),
		})
	}
}

// GroupKitchens builds one ticket per kitchen for the given reservations.
// Restaurant names that differ only in case or surrounding space collapse into
// one group. Known kitchens come first in fixed order, then ad-hoc kitchens
// sorted by key. Cancelled reservations are skipped.
//
// A passenger order is routed to the reservation's meal schedule with the
// same meal type, else to the reservation's first schedule, else to the
// UnassignedKitchen group. Orders are never dropped.
func GroupKitchens(rs []domain.Reservation) []KitchenGroup {
	sorted := make([]domain.Reservation, len(rs))
	copy(sorted, rs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	builders := make(map[string]*groupBuilder)
	get := func(name string) *groupBuilder {
		key := NormalizeKitchen(name)
		b, ok := builders[key]
		if !ok {
			b = &groupBuilder{
				group:   KitchenGroup{Key: key, Name: strings.TrimSpace(name)},
				buckets: make(map[string]*MealBucket),
			}
			builders[key] = b
		}
		return b
	}
	for _, name := range KnownKitchens {
		get(name).group.Known = true
	}

	for _, r := range sorted {
		if r.Status == domain.StatusCancelled {
			continue
		}
		var schedules []domain.MealSchedule
		for _, ms := range r.MealSchedules {
			if NormalizeKitchen(ms.RestaurantName) == "" {
				continue
			}
			schedules = append(schedules, ms)
			b := get(ms.RestaurantName)
			pax := ms.PaxCount
			if pax <= 0 {
				pax = r.PaxCount
			}
			b.group.Visits = append(b.group.Visits, KitchenVisit{
				ReservationID: r.ID,
				TourName:      r.TourName,
				ArrivalTime:   ms.ArrivalTime,
				PaxCount:      pax,
			})
			b.group.TotalPax += pax
		}

		for _, p := range r.Passengers {
			for _, m := range p.Meals {
				if strings.TrimSpace(m.FoodOrder) == "" && strings.TrimSpace(m.DietaryNotes) == "" {
					continue
				}
				target := routeMeal(m.MealType, schedules)
				b := get(target)
				b.addOrder(m.MealType, FoodOrder{
					ReservationID: r.ID,
					TourName:      r.TourName,
					Passenger:     p.FullName,
					FoodOrder:     strings.TrimSpace(m.FoodOrder),
					DietaryNotes:  strings.TrimSpace(m.DietaryNotes),
				})
			}
		}
	}

	out := make([]KitchenGroup, 0, len(builders))
	seen := make(map[string]bool)
	for _, name := range KnownKitchens {
		key := NormalizeKitchen(name)
		out = append(out, builders[key].finish())
		seen[key] = true
	}
	var extra []string
	for key := range builders {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		out = append(out, builders[key].finish())
	}
	return out
}

// routeMeal picks the restaurant name an order belongs to.
func routeMeal(mealType string, schedules []domain.MealSchedule) string {
	if len(schedules) == 0 {
		return UnassignedKitchen
	}
	mt := normalizeMealType(mealType)
	for _, s := range schedules {
		if strings.TrimSpace(s.MealType) != "" && normalizeMealType(s.MealType) == mt {
			return s.RestaurantName
		}
	}
	return schedules[0].RestaurantName
}

func (b *groupBuilder) finish() KitchenGroup {
	g := b.group
	sort.SliceStable(g.Visits, func(i, j int) bool {
		if g.Visits[i].ArrivalTime != g.Visits[j].ArrivalTime {
			return g.Visits[i].ArrivalTime < g.Visits[j].ArrivalTime
		}
		return g.Visits[i].ReservationID < g.Visits[j].ReservationID
	})
	keys := make([]string, 0, len(b.buckets))
	for k := range b.buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	g.Buckets = make([]MealBucket, 0, len(keys))
	for _, k := range keys {
		g.Buckets = append(g.Buckets, *b.buckets[k])
	}
	return g
}
