package handler

import (
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/DPR2204/atiexg-sub001/internal/logistics"
)

// Period is an inclusive date range.
type Period struct {
	From openapi_types.Date `json:"from"`
	To   openapi_types.Date `json:"to"`
}

// KPIs are the rollup of one period.
type KPIs struct {
	Total     int     `json:"total"`
	Pending   int     `json:"pending"`
	Confirmed int     `json:"confirmed"`
	Pax       int     `json:"pax"`
	Revenue   float64 `json:"revenue"`
	Booked    float64 `json:"booked"`
	Balance   float64 `json:"balance"`
}

// Trend is a period-over-period change.
type Trend struct {
	Value string `json:"value"`
	Up    bool   `json:"up"`
}

// Trends groups the dashboard's trend indicators.
type Trends struct {
	Total     Trend `json:"total"`
	Revenue   Trend `json:"revenue"`
	Pending   Trend `json:"pending"`
	Confirmed Trend `json:"confirmed"`
}

// TourRank is a row of the top tours list.
type TourRank struct {
	TourName string `json:"tour_name"`
	Count    int    `json:"count"`
	Pax      int    `json:"pax"`
}

// AgentRank is a row of the top agents list.
type AgentRank struct {
	AgentID   uuid.UUID `json:"agent_id"`
	AgentName string    `json:"agent_name"`
	Count     int       `json:"count"`
	Revenue   float64   `json:"revenue"`
}

// DashboardResponse is returned by GET /dashboard.
type DashboardResponse struct {
	Period        Period      `json:"period"`
	Previous      Period      `json:"previous"`
	Current       KPIs        `json:"current"`
	Prior         KPIs        `json:"prior"`
	AverageTicket float64     `json:"average_ticket"`
	Trends        Trends      `json:"trends"`
	TopTours      []TourRank  `json:"top_tours"`
	TopAgents     []AgentRank `json:"top_agents"`
}

// GetDashboard handles GET /dashboard?from=YYYY-MM-DD&to=YYYY-MM-DD.
// A missing bound defaults to today, so no parameters means today only.
func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	from, err := queryDate(r, "from")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	today := s.today()
	if from == nil {
		from = &today
	}
	if to == nil {
		to = &today
	}

	d, err := s.svc.Dashboard.Summary(r.Context(), logistics.NewPeriod(*from, *to))
	if err != nil {
		s.fail(w, r, msgLoadDashboard, "dashboard", err)
		return
	}

	resp := DashboardResponse{
		Period:        periodToResponse(d.Period),
		Previous:      periodToResponse(d.Previous),
		Current:       kpisToResponse(d.Current),
		Prior:         kpisToResponse(d.Prior),
		AverageTicket: d.AverageTicket,
		Trends: Trends{
			Total:     Trend(d.Trends.Total),
			Revenue:   Trend(d.Trends.Revenue),
			Pending:   Trend(d.Trends.Pending),
			Confirmed: Trend(d.Trends.Confirmed),
		},
		TopTours:  make([]TourRank, len(d.TopTours)),
		TopAgents: make([]AgentRank, len(d.TopAgents)),
	}
	for i, t := range d.TopTours {
		resp.TopTours[i] = TourRank(t)
	}
	for i, a := range d.TopAgents {
		resp.TopAgents[i] = AgentRank(a)
	}
	writeJSON(w, http.StatusOK, resp)
}

func periodToResponse(p logistics.Period) Period {
	return Period{From: date(p.From), To: date(p.To)}
}

func kpisToResponse(k logistics.KPIs) KPIs {
	return KPIs(k)
}
