package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/DPR2204/atiexg-sub001/internal/handler"
	"github.com/DPR2204/atiexg-sub001/internal/middleware"
)

// Handler builds the HTTP surface over the application context.
//
// Middleware is applied in order: RequestID → RealIP → Agent → TrackAgents →
// Logger → Recoverer → CORS → MaxBodySize. Agent runs before the logger so
// every request line carries the acting agent.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Agent)
	r.Use(middleware.TrackAgents(a.Agents, a.Log))
	r.Use(middleware.NewSlogLogger(a.Log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(a.Config.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(a.Config.MaxBodyBytes))

	srv := handler.NewServer(handler.Services{
		Reservations: a.Reservations,
		Logistics:    a.Logistics,
		Boards:       a.Boards,
		Dashboard:    a.Dashboard,
		Boats:        a.Boats,
		Staff:        a.Staff,
		Suppliers:    a.Suppliers,
		Notes:        a.Notes,
		Drafts:       a.Autosaver,
	}, a.Log, a.Config.TourLocation)
	r.Mount("/", handler.Handler(srv))
	return r
}
