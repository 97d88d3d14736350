package domain

import "time"

// Assignment is a nullable resource reference inside a ReservationPatch.
// A zero Assignment clears the slot.
type Assignment struct {
	ID    int64
	Valid bool
}

// Assign returns an Assignment pointing at id.
func Assign(id int64) *Assignment {
	return &Assignment{ID: id, Valid: true}
}

// Unassign returns an Assignment that clears the slot.
func Unassign() *Assignment {
	return &Assignment{}
}

// Ptr returns the assignment as a nullable id.
func (a Assignment) Ptr() *int64 {
	if !a.Valid {
		return nil
	}
	id := a.ID
	return &id
}

// ReservationPatch is a partial update. Nil fields are left untouched.
// PaidAmount, CustomStops, MealSchedules and Passengers are written but not
// audited; every other field is in the audited allow-list. A non-nil empty
// slice clears the list.
type ReservationPatch struct {
	TourDate              *time.Time
	StartTime             *string
	PaxCount              *int
	Status                *Status
	TotalAmount           *float64
	BoatID                *Assignment
	DriverID              *Assignment
	GuideID               *Assignment
	Notes                 *string
	EmergencyContactName  *string
	EmergencyContactPhone *string

	PaidAmount    *float64
	CustomStops   []string
	MealSchedules []MealSchedule
	Passengers    []Passenger

	// Force confirms a status move outside the recommended transitions.
	Force bool
}

// Empty reports whether the patch carries no field at all.
func (p ReservationPatch) Empty() bool {
	return p.TourDate == nil && p.StartTime == nil && p.PaxCount == nil &&
		p.Status == nil && p.TotalAmount == nil && p.BoatID == nil &&
		p.DriverID == nil && p.GuideID == nil && p.Notes == nil &&
		p.EmergencyContactName == nil && p.EmergencyContactPhone == nil &&
		p.PaidAmount == nil && p.CustomStops == nil && p.MealSchedules == nil &&
		p.Passengers == nil
}

// Unaudited reports whether the patch carries a field outside the audited
// allow-list.
func (p ReservationPatch) Unaudited() bool {
	return p.PaidAmount != nil || p.CustomStops != nil || p.MealSchedules != nil ||
		p.Passengers != nil
}

// Apply returns a copy of r with the patch applied. Expanded relations are
// left as they were; callers refetch when they need them.
func (p ReservationPatch) Apply(r Reservation) Reservation {
	if p.TourDate != nil {
		r.TourDate = DateOnly(*p.TourDate)
	}
	if p.StartTime != nil {
		r.StartTime = *p.StartTime
	}
	if p.PaxCount != nil {
		r.PaxCount = *p.PaxCount
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.TotalAmount != nil {
		r.TotalAmount = *p.TotalAmount
	}
	if p.BoatID != nil {
		r.BoatID = p.BoatID.Ptr()
	}
	if p.DriverID != nil {
		r.DriverID = p.DriverID.Ptr()
	}
	if p.GuideID != nil {
		r.GuideID = p.GuideID.Ptr()
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	if p.EmergencyContactName != nil {
		r.EmergencyContactName = *p.EmergencyContactName
	}
	if p.EmergencyContactPhone != nil {
		r.EmergencyContactPhone = *p.EmergencyContactPhone
	}
	if p.PaidAmount != nil {
		r.PaidAmount = *p.PaidAmount
	}
	if p.CustomStops != nil {
		r.CustomStops = p.CustomStops
	}
	if p.MealSchedules != nil {
		r.MealSchedules = p.MealSchedules
	}
	if p.Passengers != nil {
		r.Passengers = p.Passengers
	}
	return r
}
