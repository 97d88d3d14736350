// Package logistics holds the pure computations behind the daily logistics
// board: conflict detection, boat capacity, the reservation status machine,
// kitchen coordination and dashboard rollups.
//
// Nothing here performs I/O or returns an error. Every function is total over
// its input: a missing assignment is "no assignment", never a failure.
package logistics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
)

// ResourceKind names an assignable slot on a reservation.
type ResourceKind string

const (
	KindBoat   ResourceKind = "boat"
	KindDriver ResourceKind = "driver"
	KindGuide  ResourceKind = "guide"
)

// resourceKinds fixes the order in which slots are inspected.
var resourceKinds = []ResourceKind{KindBoat, KindDriver, KindGuide}

// ConflictKey formats the "{type}-{id}" key of a shared resource.
func ConflictKey(kind ResourceKind, id int64) string {
	return fmt.Sprintf("%s-%d", kind, id)
}

// assignment returns the id held in the given slot, if any.
func assignment(r domain.Reservation, kind ResourceKind) (int64, bool) {
	var p *int64
	switch kind {
	case KindBoat:
		p = r.BoatID
	case KindDriver:
		p = r.DriverID
	case KindGuide:
		p = r.GuideID
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// ConflictReport is the result of DetectConflicts.
type ConflictReport struct {
	// Conflicts maps a conflict key to the ids of every reservation sharing
	// that resource, in ascending order. Only keys with two or more ids appear.
	Conflicts map[string][]int64

	// Affected holds every reservation id touched by at least one conflict.
	Affected map[int64]bool
}

// HasConflict reports whether the reservation participates in any conflict.
func (c ConflictReport) HasConflict(id int64) bool {
	return c.Affected[id]
}

// Keys returns the conflict keys in sorted order.
func (c ConflictReport) Keys() []string {
	keys := make([]string, 0, len(c.Conflicts))
	for k := range c.Conflicts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DetectConflicts finds boats, drivers and guides assigned to two or more
// reservations of the same day. The caller passes one day's reservations.
// Cancelled reservations hold no resources and are ignored. Ids are taken as
// given: pass the reservations through Registry.Resolve first so that a
// deleted resource is not reported as shared.
//
// The result does not depend on the order of rs, and duplicated entries of
// the same reservation count once.
func DetectConflicts(rs []domain.Reservation) ConflictReport {
	holders := make(map[string]map[int64]struct{})
	for _, r := range rs {
		if r.Status == domain.StatusCancelled {
			continue
		}
		for _, kind := range resourceKinds {
			id, ok := assignment(r, kind)
			if !ok {
				continue
			}
			key := ConflictKey(kind, id)
			if holders[key] == nil {
				holders[key] = make(map[int64]struct{})
			}
			holders[key][r.ID] = struct{}{}
		}
	}

	report := ConflictReport{
		Conflicts: make(map[string][]int64),
		Affected:  make(map[int64]bool),
	}
	for key, set := range holders {
		if len(set) < 2 {
			continue
		}
		ids := make([]int64, 0, len(set))
		for id := range set {
			ids = append(ids, id)
			report.Affected[id] = true
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		report.Conflicts[key] = ids
	}
	return report
}

// slotLabel is the operator-facing prefix of an explanation line.
func slotLabel(kind ResourceKind) string {
	switch kind {
	case KindBoat:
		return "Lancha compartida con"
	case KindDriver:
		return "Lanchero compartido con"
	default:
		return "Guía compartido con"
	}
}

// Explain returns one line per conflicting slot of r, naming the other
// reservations that share it. all is the day's reservation set used to
// resolve tour names; ids missing from it are shown as "#id".
func (c ConflictReport) Explain(r domain.Reservation, all []domain.Reservation) []string {
	if !c.Affected[r.ID] {
		return nil
	}
	names := make(map[int64]string, len(all))
	for _, o := range all {
		names[o.ID] = o.TourName
	}

	var lines []string
	for _, kind := range resourceKinds {
		id, ok := assignment(r, kind)
		if !ok {
			continue
		}
		ids, ok := c.Conflicts[ConflictKey(kind, id)]
		if !ok {
			continue
		}
		var others []string
		for _, other := range ids {
			if other == r.ID {
				continue
			}
			name := names[other]
			if strings.TrimSpace(name) == "" {
				name = fmt.Sprintf("#%d", other)
			}
			others = append(others, name)
		}
		if len(others) == 0 {
			continue
		}
		lines = append(lines, slotLabel(kind)+": "+strings.Join(others, ", "))
	}
	return lines
}

// ExplainAll builds explanations for every affected reservation in rs.
func (c ConflictReport) ExplainAll(rs []domain.Reservation) map[int64][]string {
	out := make(map[int64][]string, len(c.Affected))
	for _, r := range rs {
		if lines := c.Explain(r, rs); len(lines) > 0 {
			out[r.ID] = lines
		}
	}
	return out
}
