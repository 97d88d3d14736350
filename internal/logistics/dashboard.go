package logistics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
)

// Period is an inclusive range of calendar dates.
type Period struct {
	From time.Time
	To   time.Time
}

// NewPeriod normalizes both ends to calendar dates and swaps them when
// reversed.
func NewPeriod(from, to time.Time) Period {
	f, t := domain.DateOnly(from), domain.DateOnly(to)
	if t.Before(f) {
		f, t = t, f
	}
	return Period{From: f, To: t}
}

// Days is the number of calendar days covered, at least 1.
func (p Period) Days() int {
	return int(p.To.Sub(p.From).Hours()/24) + 1
}

// Previous returns the period of equal length ending the day before From.
func (p Period) Previous() Period {
	days := p.Days()
	to := p.From.AddDate(0, 0, -1)
	return Period{From: to.AddDate(0, 0, -(days - 1)), To: to}
}

// Contains reports whether the calendar date of t falls in the period.
func (p Period) Contains(t time.Time) bool {
	d := domain.DateOnly(t)
	return !d.Before(p.From) && !d.After(p.To)
}

// String renders the period as "from..to".
func (p Period) String() string {
	return p.From.Format(domain.DateLayout) + ".." + p.To.Format(domain.DateLayout)
}

// KPIs are the counts and money of a set of reservations.
type KPIs struct {
	Total     int
	Pending   int // offered + reserved
	Confirmed int // paid + in_progress + completed
	Pax       int
	Revenue   float64 // sum of paid_amount: realized cash, not booked value
	Booked    float64 // sum of total_amount
	Balance   float64 // sum of outstanding balances
}

// AverageTicket is revenue per confirmed reservation, 0 when none.
func (k KPIs) AverageTicket() float64 {
	if k.Confirmed == 0 {
		return 0
	}
	return k.Revenue / float64(k.Confirmed)
}

// Rollup computes KPIs over rs. Cancelled reservations are excluded.
func Rollup(rs []domain.Reservation) KPIs {
	var k KPIs
	for _, r := range rs {
		switch r.Status {
		case domain.StatusCancelled:
			continue
		case domain.StatusOffered, domain.StatusReserved:
			k.Pending++
		case domain.StatusPaid, domain.StatusInProgress, domain.StatusCompleted:
			k.Confirmed++
		}
		k.Total++
		k.Pax += r.PaxCount
		k.Revenue += r.PaidAmount
		k.Booked += r.TotalAmount
		k.Balance += r.Balance()
	}
	return k
}

// Trend is a period-over-period change rendered for display.
type Trend struct {
	Value string
	Up    bool
}

// ComputeTrend returns the percentage change from previous to current.
// A previous value of 0 yields "+100%" when current is positive and "0%"
// otherwise, avoiding division by zero.
func ComputeTrend(current, previous float64) Trend {
	if previous == 0 {
		if current > 0 {
			return Trend{Value: "+100%", Up: true}
		}
		return Trend{Value: "0%", Up: true}
	}
	change := (current - previous) / math.Abs(previous) * 100
	return Trend{Value: fmt.Sprintf("%+.1f%%", change), Up: change >= 0}
}

// TourRank is a tour's position in the bookings ranking.
type TourRank struct {
	TourName string
	Count    int
	Pax      int
}

// TopTours ranks tours by reservation count, descending. Ties keep first
// appearance order. limit <= 0 returns all.
func TopTours(rs []domain.Reservation, limit int) []TourRank {
	idx := make(map[string]int)
	var out []TourRank
	for _, r := range rs {
		if r.Status == domain.StatusCancelled {
			continue
		}
		i, ok := idx[r.TourName]
		if !ok {
			i = len(out)
			idx[r.TourName] = i
			out = append(out, TourRank{TourName: r.TourName})
		}
		out[i].Count++
		out[i].Pax += r.PaxCount
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return truncate(out, limit)
}

// AgentRank is an agent's position in the sales ranking.
type AgentRank struct {
	AgentID   uuid.UUID
	AgentName string
	Count     int
	Revenue   float64
}

// TopAgents ranks agents by revenue, then by count, descending. Ties keep
// first appearance order. limit <= 0 returns all.
func TopAgents(rs []domain.Reservation, limit int) []AgentRank {
	idx := make(map[uuid.UUID]int)
	var out []AgentRank
	for _, r := range rs {
		if r.Status == domain.StatusCancelled {
			continue
		}
		i, ok := idx[r.AgentID]
		if !ok {
			i = len(out)
			idx[r.AgentID] = i
			out = append(out, AgentRank{AgentID: r.AgentID, AgentName: r.AgentName})
		}
		out[i].Count++
		out[i].Revenue += r.PaidAmount
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Count > out[j].Count
	})
	return truncate(out, limit)
}

func truncate[T any](s []T, limit int) []T {
	if s == nil {
		s = []T{}
	}
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
