package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/middleware"
)

// pathID binds the {id} path parameter. On failure it writes a 400 and
// returns false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil || id <= 0 {
		badRequest(w, "invalid format for parameter id")
		return 0, false
	}
	return id, true
}

// pathDate binds the {date} path parameter. "today" resolves in the
// configured tour timezone.
func (s *Server) pathDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := chi.URLParam(r, "date")
	if raw == "today" {
		return s.today(), true
	}
	d, err := parseDate(raw)
	if err != nil {
		badRequest(w, "invalid format for parameter date: expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}

// queryDate reads an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := parseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid format for parameter %s: expected YYYY-MM-DD", name)
	}
	return &d, nil
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(openapi_types.DateFormat, raw)
	if err != nil {
		return time.Time{}, err
	}
	return domain.DateOnly(t), nil
}

// pagination binds the optional ?page= and ?limit= parameters.
func pagination(w http.ResponseWriter, r *http.Request) (domain.PaginationParams, bool) {
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		badRequest(w, "invalid format for parameter page")
		return domain.PaginationParams{}, false
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		badRequest(w, "invalid format for parameter limit")
		return domain.PaginationParams{}, false
	}
	return domain.NewPaginationParams(page, limit), true
}

// queryBool reads an optional boolean query parameter.
func queryBool(w http.ResponseWriter, r *http.Request, name string) (bool, bool) {
	var v *bool
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		badRequest(w, "invalid format for parameter "+name)
		return false, false
	}
	return v != nil && *v, true
}

// requireAgent returns the acting agent. Writes are refused without one.
func requireAgent(w http.ResponseWriter, r *http.Request) (domain.Agent, bool) {
	agent, ok := middleware.AgentFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized", "missing "+middleware.AgentIDHeader+" header"))
		return domain.Agent{}, false
	}
	return agent, true
}

func date(t time.Time) openapi_types.Date {
	return openapi_types.Date{Time: t}
}
