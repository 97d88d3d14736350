package service_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/logistics"
	"github.com/DPR2204/atiexg-sub001/internal/service"
)

// mapCache is an in-memory service.Cache that stores JSON like the Redis one.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func (c *mapCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *mapCache) Set(_ context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = b
	return nil
}

var _ service.Cache = (*mapCache)(nil)

func booking(id int64, date time.Time, status domain.Status, paid float64) domain.Reservation {
	return domain.Reservation{
		ID: id, TourName: "Tour Pueblos", TourDate: date, PaxCount: 2,
		Status: status, AgentID: agent.ID, AgentName: agent.Name,
		TotalAmount: 500, PaidAmount: paid,
	}
}

func TestDashboardService_Summary_TrendsAgainstPreviousPeriod(t *testing.T) {
	period := logistics.NewPeriod(june1, june1.AddDate(0, 0, 6)) // June 1-7
	may := june1.AddDate(0, 0, -3)                                // in May 25-31

	var rs []domain.Reservation
	for i := range 5 {
		rs = append(rs, booking(int64(i+1), june1, domain.StatusPaid, 500))
	}
	for i := range 10 {
		rs = append(rs, booking(int64(100+i), may, domain.StatusReserved, 0))
	}
	rs = append(rs, booking(200, june1, domain.StatusCancelled, 500))

	svc := service.NewDashboardService(newMemReservationRepo(rs...), nil, discardLogger())

	d, err := svc.Summary(context.Background(), period)

	require.NoError(t, err)
	assert.Equal(t, 5, d.Current.Total, "cancelled excluded")
	assert.Equal(t, 10, d.Prior.Total)
	assert.Equal(t, logistics.Trend{Value: "-50.0%", Up: false}, d.Trends.Total)
	assert.Equal(t, logistics.Trend{Value: "+100%", Up: true}, d.Trends.Revenue)
	assert.InDelta(t, 2500, d.Current.Revenue, 0.001)
	assert.InDelta(t, 500, d.AverageTicket, 0.001)
	require.Len(t, d.TopAgents, 1)
	assert.Equal(t, agent.Name, d.TopAgents[0].AgentName)
}

func TestDashboardService_Summary_UsesCache(t *testing.T) {
	period := logistics.NewPeriod(june1, june1)
	cache := &mapCache{entries: map[string][]byte{}}
	reservations := newMemReservationRepo(booking(1, june1, domain.StatusPaid, 500))
	svc := service.NewDashboardService(reservations, cache, discardLogger())

	first, err := svc.Summary(context.Background(), period)
	require.NoError(t, err)
	require.Contains(t, cache.entries, "dashboard:"+period.String())

	// A write the cache has not been told about stays invisible until invalidated.
	_, _ = reservations.Create(context.Background(), booking(0, june1, domain.StatusPaid, 500))

	second, err := svc.Summary(context.Background(), period)
	require.NoError(t, err)
	assert.Equal(t, first.Current.Total, second.Current.Total)
}
