package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
)

// AgentRepo resolves back-office agents. Agents are provisioned by the
// authentication collaborator; this repo only reads and mirrors names.
type AgentRepo interface {
	// GetByID returns domain.ErrNotFound for an unknown agent.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Agent, error)

	// Upsert records the agent's current display name.
	Upsert(ctx context.Context, a domain.Agent) error
}

type pgAgentRepo struct {
	db db
}

// NewAgentRepo constructs an AgentRepo backed by the provided db connection.
func NewAgentRepo(db db) AgentRepo {
	return &pgAgentRepo{db: db}
}

func (r *pgAgentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Agent, error) {
	var a domain.Agent
	err := r.db.QueryRow(ctx, `SELECT id, full_name FROM agents WHERE id = @id`,
		pgx.NamedArgs{"id": id}).Scan(&a.ID, &a.Name)
	if err != nil {
		return domain.Agent{}, fmt.Errorf("repo.AgentRepo.GetByID: %w", notFound(err))
	}
	return a, nil
}

func (r *pgAgentRepo) Upsert(ctx context.Context, a domain.Agent) error {
	const q = `
		INSERT INTO agents (id, full_name)
		VALUES (@id, @name)
		ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": a.ID, "name": a.Name}); err != nil {
		return writeErr("repo.AgentRepo.Upsert", err)
	}
	return nil
}
