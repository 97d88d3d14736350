package logistics

import (
	"sort"
	"time"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
)

// DefaultBoatCapacity is used when a boat record has no usable capacity.
const DefaultBoatCapacity = 10

const (
	warningRatio = 0.8
	overRatio    = 1.0
)

// Utilization classifies a boat's load for a day.
type Utilization string

const (
	UtilizationNormal  Utilization = "normal"
	UtilizationWarning Utilization = "warning"
	UtilizationOver    Utilization = "over"
)

// Classify maps a load ratio to a Utilization. Both boundaries are inclusive:
// exactly 0.8 is a warning and exactly 1.0 is over.
func Classify(ratio float64) Utilization {
	switch {
	case ratio >= overRatio:
		return UtilizationOver
	case ratio >= warningRatio:
		return UtilizationWarning
	default:
		return UtilizationNormal
	}
}

// Ratio returns pax / capacity, substituting fallback when capacity is not
// positive. A non-positive fallback is replaced by DefaultBoatCapacity.
func Ratio(pax, capacity, fallback int) float64 {
	if fallback <= 0 {
		fallback = DefaultBoatCapacity
	}
	if capacity <= 0 {
		capacity = fallback
	}
	if pax < 0 {
		pax = 0
	}
	return float64(pax) / float64(capacity)
}

// BoatLoad is the capacity picture of one boat on one day.
type BoatLoad struct {
	BoatID         int64
	BoatName       string
	Pax            int
	Capacity       int
	Ratio          float64
	Utilization    Utilization
	ReservationIDs []int64
}

// CapacityEngine computes boat loads from a snapshot.
type CapacityEngine struct {
	// DefaultCapacity replaces a missing or non-positive boat capacity.
	DefaultCapacity int
}

// NewCapacityEngine returns an engine with the given fallback capacity.
func NewCapacityEngine(defaultCapacity int) CapacityEngine {
	if defaultCapacity <= 0 {
		defaultCapacity = DefaultBoatCapacity
	}
	return CapacityEngine{DefaultCapacity: defaultCapacity}
}

// Load computes the utilization of boat on date over rs. Reservations on other
// dates, assigned to other boats, or cancelled are ignored.
func (e CapacityEngine) Load(boat domain.Boat, date time.Time, rs []domain.Reservation) BoatLoad {
	day := domain.DateOnly(date)
	load := BoatLoad{
		BoatID:         boat.ID,
		BoatName:       boat.Name,
		Capacity:       boat.Capacity,
		ReservationIDs: []int64{},
	}
	if load.Capacity <= 0 {
		load.Capacity = e.fallback()
	}
	for _, r := range rs {
		if r.BoatID == nil || *r.BoatID != boat.ID || r.Status == domain.StatusCancelled {
			continue
		}
		if !domain.DateOnly(r.TourDate).Equal(day) {
			continue
		}
		load.Pax += r.PaxCount
		load.ReservationIDs = append(load.ReservationIDs, r.ID)
	}
	sort.Slice(load.ReservationIDs, func(i, j int) bool { return load.ReservationIDs[i] < load.ReservationIDs[j] })
	load.Ratio = Ratio(load.Pax, load.Capacity, e.fallback())
	load.Utilization = Classify(load.Ratio)
	return load
}

// Loads computes a BoatLoad for every boat that is either active or has at
// least one reservation on date. Result is ordered by boat name, then id.
// Reservations pointing at a boat missing from boats are not counted: a
// deleted boat resolves to "no boat".
func (e CapacityEngine) Loads(boats []domain.Boat, date time.Time, rs []domain.Reservation) []BoatLoad {
	out := make([]BoatLoad, 0, len(boats))
	for _, b := range boats {
		load := e.Load(b, date, rs)
		if b.Status != domain.BoatActive && len(load.ReservationIDs) == 0 {
			continue
		}
		out = append(out, load)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BoatName != out[j].BoatName {
			return out[i].BoatName < out[j].BoatName
		}
		return out[i].BoatID < out[j].BoatID
	})
	return out
}

func (e CapacityEngine) fallback() int {
	if e.DefaultCapacity <= 0 {
		return DefaultBoatCapacity
	}
	return e.DefaultCapacity
}
