package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
)

// Headers carrying the acting back-office user. Authentication happens
// upstream; these are trusted as given.
const (
	AgentIDHeader   = "X-Agent-ID"
	AgentNameHeader = "X-Agent-Name"
)

type agentKey struct{}

// Agent reads the agent identity headers into the request context. Requests
// without X-Agent-ID pass through anonymous; a malformed id is a 400.
func Agent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(AgentIDHeader))
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid "+AgentIDHeader, http.StatusBadRequest)
			return
		}
		agent := domain.Agent{ID: id, Name: strings.TrimSpace(r.Header.Get(AgentNameHeader))}
		next.ServeHTTP(w, r.WithContext(WithAgent(r.Context(), agent)))
	})
}

// WithAgent returns a copy of ctx carrying agent.
func WithAgent(ctx context.Context, agent domain.Agent) context.Context {
	return context.WithValue(ctx, agentKey{}, agent)
}

// AgentFrom returns the agent stored in ctx, if any.
func AgentFrom(ctx context.Context) (domain.Agent, bool) {
	a, ok := ctx.Value(agentKey{}).(domain.Agent)
	return a, ok
}

// AgentTracker records the agents seen on requests.
type AgentTracker interface {
	Touch(ctx context.Context, agent domain.Agent) error
}

// TrackAgents passes every identified agent to t. A failure is logged and the
// request continues. Wire it after Agent.
func TrackAgents(t AgentTracker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if agent, ok := AgentFrom(r.Context()); ok {
				if err := t.Touch(r.Context(), agent); err != nil {
					log.WarnContext(r.Context(), "agent not recorded", "agent_id", agent.ID.String(), "error", err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
