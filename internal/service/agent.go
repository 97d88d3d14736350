package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/repo"
)

// AgentService mirrors the acting agents into the agents table so expanded
// reservation fetches can show who booked what. Each (id, name) pair is
// written once per process.
type AgentService struct {
	repo repo.AgentRepo

	mu   sync.Mutex
	seen map[uuid.UUID]string
}

// NewAgentService constructs an AgentService.
func NewAgentService(r repo.AgentRepo) *AgentService {
	return &AgentService{repo: r, seen: make(map[uuid.UUID]string)}
}

// Touch records agent unless the same name was already recorded.
func (s *AgentService) Touch(ctx context.Context, agent domain.Agent) error {
	if agent.ID == uuid.Nil {
		return fmt.Errorf("service.AgentService.Touch: %w: agent id is required", domain.ErrValidation)
	}

	s.mu.Lock()
	name, ok := s.seen[agent.ID]
	s.mu.Unlock()
	if ok && name == agent.Name {
		return nil
	}

	if err := s.repo.Upsert(ctx, agent); err != nil {
		return fmt.Errorf("service.AgentService.Touch: %w", err)
	}

	s.mu.Lock()
	s.seen[agent.ID] = agent.Name
	s.mu.Unlock()
	return nil
}

// Get returns the stored agent.
func (s *AgentService) Get(ctx context.Context, id uuid.UUID) (domain.Agent, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Agent{}, fmt.Errorf("service.AgentService.Get: %w", err)
	}
	return a, nil
}
