package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
)

// DailyNoteRepo stores one bulletin note per calendar date.
type DailyNoteRepo interface {
	// Get returns domain.ErrNotFound when no note exists for date.
	Get(ctx context.Context, date time.Time) (domain.DailyNote, error)

	// Upsert writes the note for its date. Last writer wins.
	Upsert(ctx context.Context, note domain.DailyNote) (domain.DailyNote, error)
}

type pgDailyNoteRepo struct {
	db db
}

// NewDailyNoteRepo constructs a DailyNoteRepo backed by the provided db connection.
func NewDailyNoteRepo(db db) DailyNoteRepo {
	return &pgDailyNoteRepo{db: db}
}

func (r *pgDailyNoteRepo) Get(ctx context.Context, date time.Time) (domain.DailyNote, error) {
	const q = `
		SELECT note_date, content, updated_by, updated_at
		FROM daily_notes
		WHERE note_date = @date`

	n, err := scanDailyNote(r.db.QueryRow(ctx, q, pgx.NamedArgs{"date": domain.DateOnly(date)}))
	if err != nil {
		return domain.DailyNote{}, fmt.Errorf("repo.DailyNoteRepo.Get: %w", notFound(err))
	}
	return n, nil
}

func (r *pgDailyNoteRepo) Upsert(ctx context.Context, note domain.DailyNote) (domain.DailyNote, error) {
	const q = `
		INSERT INTO daily_notes (note_date, content, updated_by, updated_at)
		VALUES (@date, @content, @updated_by, now())
		ON CONFLICT (note_date) DO UPDATE
		SET content    = EXCLUDED.content,
		    updated_by = EXCLUDED.updated_by,
		    updated_at = now()
		RETURNING note_date, content, updated_by, updated_at`

	n, err := scanDailyNote(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"date":       domain.DateOnly(note.Date),
		"content":    note.Content,
		"updated_by": note.UpdatedBy,
	}))
	if err != nil {
		return domain.DailyNote{}, writeErr("repo.DailyNoteRepo.Upsert", err)
	}
	return n, nil
}

func scanDailyNote(s scanner) (domain.DailyNote, error) {
	var (
		n    domain.DailyNote
		date pgtype.Date
	)
	if err := s.Scan(&date, &n.Content, &n.UpdatedBy, &n.UpdatedAt); err != nil {
		return domain.DailyNote{}, err
	}
	n.Date = date.Time
	return n, nil
}
