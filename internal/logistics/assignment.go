package logistics

import (
	"fmt"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
)

// Registry is the resource snapshot assignments are checked against.
type Registry struct {
	Boats []domain.Boat
	Staff []domain.Staff
}

// AssignmentWarning flags a slot referencing a resource that new assignments
// could not pick: inactive, unknown, or from the wrong staff pool. These are
// warnings only; historical reservations keep their leftovers visible.
type AssignmentWarning struct {
	ReservationID int64
	Kind          ResourceKind
	ResourceID    int64
	Message       string
}

// CheckAssignments reports soft-invariant violations for r.
func (reg Registry) CheckAssignments(r domain.Reservation) []AssignmentWarning {
	var out []AssignmentWarning
	warn := func(kind ResourceKind, id int64, msg string) {
		out = append(out, AssignmentWarning{ReservationID: r.ID, Kind: kind, ResourceID: id, Message: msg})
	}

	if id, ok := assignment(r, KindBoat); ok {
		b, found := reg.boat(id)
		switch {
		case !found:
			warn(KindBoat, id, fmt.Sprintf("lancha #%d no existe", id))
		case b.Status != domain.BoatActive:
			warn(KindBoat, id, fmt.Sprintf("lancha %s no está activa (%s)", b.Name, b.Status))
		}
	}
	for _, slot := range []struct {
		kind ResourceKind
		role domain.StaffRole
	}{{KindDriver, domain.RoleDriver}, {KindGuide, domain.RoleGuide}} {
		id, ok := assignment(r, slot.kind)
		if !ok {
			continue
		}
		s, found := reg.staff(id)
		switch {
		case !found:
			warn(slot.kind, id, fmt.Sprintf("personal #%d no existe", id))
		case s.Role != slot.role:
			warn(slot.kind, id, fmt.Sprintf("%s no es %s", s.Name, slot.role))
		case !s.Active:
			warn(slot.kind, id, fmt.Sprintf("%s está inactivo", s.Name))
		}
	}
	return out
}

// Resolve returns copies of rs where every assignment pointing at a resource
// missing from the registry is cleared, so a deleted boat or staff member
// reads as "no assignment". rs itself is not modified.
func (reg Registry) Resolve(rs []domain.Reservation) []domain.Reservation {
	out := make([]domain.Reservation, len(rs))
	for i, r := range rs {
		if r.BoatID != nil {
			if _, ok := reg.boat(*r.BoatID); !ok {
				r.BoatID, r.Boat = nil, nil
			}
		}
		if r.DriverID != nil {
			if _, ok := reg.staff(*r.DriverID); !ok {
				r.DriverID, r.Driver = nil, nil
			}
		}
		if r.GuideID != nil {
			if _, ok := reg.staff(*r.GuideID); !ok {
				r.GuideID, r.Guide = nil, nil
			}
		}
		out[i] = r
	}
	return out
}

// Unassigned returns the slots of r that have no assignment.
func Unassigned(r domain.Reservation) []ResourceKind {
	var out []ResourceKind
	for _, kind := range resourceKinds {
		if _, ok := assignment(r, kind); !ok {
			out = append(out, kind)
		}
	}
	return out
}

func (reg Registry) boat(id int64) (domain.Boat, bool) {
	for _, b := range reg.Boats {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Boat{}, false
}

func (reg Registry) staff(id int64) (domain.Staff, bool) {
	for _, s := range reg.Staff {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Staff{}, false
}
