package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/logistics"
	"github.com/DPR2204/atiexg-sub001/internal/repo"
)

// rankingLimit is the length of the top-tours and top-agents lists.
const rankingLimit = 5

// Cache stores computed dashboards. A miss returns false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// Trends compares the current period against the previous one.
type Trends struct {
	Total     logistics.Trend `json:"total"`
	Revenue   logistics.Trend `json:"revenue"`
	Pending   logistics.Trend `json:"pending"`
	Confirmed logistics.Trend `json:"confirmed"`
}

// Dashboard is the KPI rollup of a period with its comparison.
type Dashboard struct {
	Period        logistics.Period      `json:"period"`
	Previous      logistics.Period      `json:"previous"`
	Current       logistics.KPIs        `json:"current"`
	Prior         logistics.KPIs        `json:"prior"`
	AverageTicket float64               `json:"average_ticket"`
	Trends        Trends                `json:"trends"`
	TopTours      []logistics.TourRank  `json:"top_tours"`
	TopAgents     []logistics.AgentRank `json:"top_agents"`
}

// DashboardService computes period KPIs over the reservation store.
type DashboardService struct {
	reservations repo.ReservationRepo
	cache        Cache
	log          *slog.Logger
}

// NewDashboardService constructs a DashboardService. cache may be nil.
func NewDashboardService(reservations repo.ReservationRepo, cache Cache, log *slog.Logger) *DashboardService {
	return &DashboardService{reservations: reservations, cache: cache, log: log}
}

// Summary returns the dashboard for p. Cancelled reservations are excluded
// from every figure. The previous period of equal length is fetched
// concurrently for the trends.
func (s *DashboardService) Summary(ctx context.Context, p logistics.Period) (Dashboard, error) {
	key := "dashboard:" + p.String()
	if s.cache != nil {
		var cached Dashboard
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.WarnContext(ctx, "dashboard cache read failed", "key", key, "error", err)
		}
		if hit {
			return cached, nil
		}
	}

	prev := p.Previous()
	var current, previous []domain.Reservation

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.reservations.List(gctx, repo.ReservationFilter{From: p.From, To: p.To, ExcludeCancelled: true})
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = s.reservations.List(gctx, repo.ReservationFilter{From: prev.From, To: prev.To, ExcludeCancelled: true})
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, fmt.Errorf("service.DashboardService.Summary: %w", err)
	}

	d := Build(p, current, previous)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, d); err != nil {
			s.log.WarnContext(ctx, "dashboard cache write failed", "key", key, "error", err)
		}
	}
	return d, nil
}

// Build computes a Dashboard from already-fetched reservations.
func Build(p logistics.Period, current, previous []domain.Reservation) Dashboard {
	cur := logistics.Rollup(current)
	prior := logistics.Rollup(previous)
	return Dashboard{
		Period:        p,
		Previous:      p.Previous(),
		Current:       cur,
		Prior:         prior,
		AverageTicket: cur.AverageTicket(),
		Trends: Trends{
			Total:     logistics.ComputeTrend(float64(cur.Total), float64(prior.Total)),
			Revenue:   logistics.ComputeTrend(cur.Revenue, prior.Revenue),
			Pending:   logistics.ComputeTrend(float64(cur.Pending), float64(prior.Pending)),
			Confirmed: logistics.ComputeTrend(float64(cur.Confirmed), float64(prior.Confirmed)),
		},
		TopTours:  logistics.TopTours(current, rankingLimit),
		TopAgents: logistics.TopAgents(current, rankingLimit),
	}
}
