package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/logistics"
	"github.com/DPR2204/atiexg-sub001/internal/repo"
)

// DayView is the derived operational picture of one date.
type DayView struct {
	Date         time.Time
	Reservations []domain.Reservation
	Conflicts    logistics.ConflictReport
	// Explanations maps a reservation id to its conflict explanation lines.
	Explanations map[int64][]string
	Loads        []logistics.BoatLoad
	Kitchens     []logistics.KitchenGroup
	// Unassigned maps a reservation id to the slots it still lacks.
	Unassigned map[int64][]logistics.ResourceKind
	Warnings   []logistics.AssignmentWarning
	Note       domain.DailyNote
}

// LogisticsService fetches a day's snapshot and runs the pure computations
// over it. It performs no writes.
type LogisticsService struct {
	reservations repo.ReservationRepo
	boats        repo.BoatRepo
	staff        repo.StaffRepo
	notes        *DailyNoteService
	capacity     logistics.CapacityEngine
}

// NewLogisticsService constructs a LogisticsService. defaultCapacity is used
// for boats without a usable capacity.
func NewLogisticsService(reservations repo.ReservationRepo, boats repo.BoatRepo, staff repo.StaffRepo,
	notes *DailyNoteService, defaultCapacity int) *LogisticsService {
	return &LogisticsService{
		reservations: reservations,
		boats:        boats,
		staff:        staff,
		notes:        notes,
		capacity:     logistics.NewCapacityEngine(defaultCapacity),
	}
}

// Day builds the DayView for date. Cancelled reservations are left out.
// The four reads run concurrently; the first failure cancels the rest.
func (s *LogisticsService) Day(ctx context.Context, date time.Time) (DayView, error) {
	date = domain.DateOnly(date)

	var (
		rs    []domain.Reservation
		boats []domain.Boat
		staff []domain.Staff
		note  domain.DailyNote
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rs, err = s.reservations.List(gctx, repo.ReservationFilter{From: date, To: date, ExcludeCancelled: true})
		return err
	})
	g.Go(func() error {
		var err error
		boats, err = s.boats.List(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		staff, err = s.staff.List(gctx, repo.StaffFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		note, err = s.notes.Get(gctx, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return DayView{}, fmt.Errorf("service.LogisticsService.Day: %w", err)
	}

	return s.Compute(date, rs, logistics.Registry{Boats: boats, Staff: staff}, note), nil
}

// Compute derives a DayView from an in-memory snapshot. Assignments to
// resources missing from reg count as unassigned for conflicts and for the
// unassigned list; they still surface as assignment warnings.
func (s *LogisticsService) Compute(date time.Time, rs []domain.Reservation, reg logistics.Registry, note domain.DailyNote) DayView {
	resolved := reg.Resolve(rs)
	conflicts := logistics.DetectConflicts(resolved)

	v := DayView{
		Date:         date,
		Reservations: rs,
		Conflicts:    conflicts,
		Explanations: conflicts.ExplainAll(resolved),
		Loads:        s.capacity.Loads(reg.Boats, date, rs),
		Kitchens:     logistics.GroupKitchens(rs),
		Unassigned:   make(map[int64][]logistics.ResourceKind),
		Warnings:     []logistics.AssignmentWarning{},
		Note:         note,
	}
	for i, r := range rs {
		if r.Status == domain.StatusCancelled {
			continue
		}
		if missing := logistics.Unassigned(resolved[i]); len(missing) > 0 {
			v.Unassigned[r.ID] = missing
		}
		v.Warnings = append(v.Warnings, reg.CheckAssignments(r)...)
	}
	return v
}
