package logistics_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/logistics"
)

func id(v int64) *int64 { return &v }

var june1 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func res(rid int64, name string, boat, driver, guide *int64) domain.Reservation {
	return domain.Reservation{
		ID:       rid,
		TourName: name,
		TourDate: june1,
		PaxCount: 4,
		Status:   domain.StatusReserved,
		BoatID:   boat,
		DriverID: driver,
		GuideID:  guide,
	}
}

func TestDetectConflicts_SharedBoat(t *testing.T) {
	a := res(10, "Tour A", id(7), nil, nil)
	b := res(11, "Tour B", id(7), nil, nil)

	report := logistics.DetectConflicts([]domain.Reservation{a, b})

	require.Contains(t, report.Conflicts, "boat-7")
	assert.Equal(t, []int64{10, 11}, report.Conflicts["boat-7"])
	assert.True(t, report.HasConflict(10))
	assert.True(t, report.HasConflict(11))

	all := []domain.Reservation{a, b}
	explainA := report.Explain(a, all)
	explainB := report.Explain(b, all)
	require.Len(t, explainA, 1)
	require.Len(t, explainB, 1)
	assert.Contains(t, explainA[0], "Tour B")
	assert.Contains(t, explainB[0], "Tour A")
}

func TestDetectConflicts_NilAssignmentsNeverCollide(t *testing.T) {
	rs := []domain.Reservation{
		res(1, "A", nil, nil, nil),
		res(2, "B", nil, nil, nil),
		res(3, "C", nil, nil, nil),
	}

	report := logistics.DetectConflicts(rs)

	assert.Empty(t, report.Conflicts)
	assert.Empty(t, report.Affected)
	assert.Nil(t, report.Explain(rs[0], rs))
}

func TestDetectConflicts_DriverAndGuideAreSeparatePools(t *testing.T) {
	// Same numeric id in driver and guide slots is two different resources.
	rs := []domain.Reservation{
		res(1, "A", nil, id(5), nil),
		res(2, "B", nil, nil, id(5)),
	}

	report := logistics.DetectConflicts(rs)

	assert.Empty(t, report.Conflicts)
}

func TestDetectConflicts_MultipleSlots(t *testing.T) {
	rs := []domain.Reservation{
		res(1, "A", id(1), id(20), id(30)),
		res(2, "B", id(1), id(21), id(30)),
		res(3, "C", id(2), id(20), nil),
	}

	report := logistics.DetectConflicts(rs)

	assert.Equal(t, []string{"boat-1", "driver-20", "guide-30"}, report.Keys())
	assert.Equal(t, []int64{1, 3}, report.Conflicts["driver-20"])

	lines := report.Explain(rs[0], rs)
	require.Len(t, lines, 3)
	assert.Equal(t, "Lancha compartida con: B", lines[0])
	assert.Equal(t, "Lanchero compartido con: C", lines[1])
	assert.Equal(t, "Guía compartido con: B", lines[2])

	all := report.ExplainAll(rs)
	assert.Len(t, all, 3)
}

func TestDetectConflicts_CancelledHoldsNothing(t *testing.T) {
	a := res(1, "A", id(7), nil, nil)
	b := res(2, "B", id(7), nil, nil)
	b.Status = domain.StatusCancelled

	report := logistics.DetectConflicts([]domain.Reservation{a, b})

	assert.Empty(t, report.Conflicts)
}

func TestDetectConflicts_DuplicateEntriesCountOnce(t *testing.T) {
	a := res(1, "A", id(7), nil, nil)

	report := logistics.DetectConflicts([]domain.Reservation{a, a})

	assert.Empty(t, report.Conflicts)
}

func TestDetectConflicts_OrderIndependent(t *testing.T) {
	rs := []domain.Reservation{
		res(1, "A", id(1), id(20), id(30)),
		res(2, "B", id(1), id(21), id(31)),
		res(3, "C", id(2), id(20), id(30)),
		res(4, "D", id(2), id(22), nil),
		res(5, "E", nil, id(21), id(31)),
		res(6, "F", id(3), nil, nil),
	}
	want := logistics.DetectConflicts(rs)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := make([]domain.Reservation, len(rs))
		copy(shuffled, rs)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := logistics.DetectConflicts(shuffled)

		assert.Equal(t, want, got)
	}
}

func TestExplain_UnknownOtherFallsBackToID(t *testing.T) {
	a := res(1, "A", id(7), nil, nil)
	b := res(2, "", id(7), nil, nil)
	report := logistics.DetectConflicts([]domain.Reservation{a, b})

	lines := report.Explain(a, []domain.Reservation{a})

	require.Len(t, lines, 1)
	assert.Equal(t, "Lancha compartida con: #2", lines[0])
}
