// Package board is the Kanban view of a day's reservations. Status moves are
// applied locally first, persisted second, and on failure only the moved card
// is rolled back, so concurrent local changes to other cards survive.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/logistics"
	"github.com/DPR2204/atiexg-sub001/internal/notify"
	"github.com/DPR2204/atiexg-sub001/internal/service"
)

// MoveFailed is the toast raised when a move cannot be persisted.
const MoveFailed = "Error al mover reserva"

// Updater persists a reservation patch through the audited update.
type Updater interface {
	Update(ctx context.Context, id int64, p domain.ReservationPatch, agent domain.Agent) (service.UpdateResult, error)
}

// Column is one status lane.
type Column struct {
	Status domain.Status
	Label  string
	Cards  []domain.Reservation
}

// MoveResult reports what a Move did.
type MoveResult struct {
	Reservation domain.Reservation
	From        domain.Status
	NoOp        bool
	// Warning carries the non-recommended transition message of a forced move.
	Warning string
}

// Board holds the local snapshot of one date.
type Board struct {
	date     time.Time
	store    Updater
	notifier notify.Notifier
	log      *slog.Logger

	mu    sync.Mutex
	cards map[int64]domain.Reservation
	order []int64
}

// New returns an empty board for date.
func New(date time.Time, store Updater, n notify.Notifier, log *slog.Logger) *Board {
	return &Board{
		date:     domain.DateOnly(date),
		store:    store,
		notifier: n,
		log:      log,
		cards:    make(map[int64]domain.Reservation),
	}
}

// Date is the calendar date the board shows.
func (b *Board) Date() time.Time {
	return b.date
}

// Replace installs a freshly fetched snapshot, discarding local state.
func (b *Board) Replace(rs []domain.Reservation) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cards = make(map[int64]domain.Reservation, len(rs))
	b.order = b.order[:0]
	for _, r := range rs {
		if _, dup := b.cards[r.ID]; !dup {
			b.order = append(b.order, r.ID)
		}
		b.cards[r.ID] = r
	}
}

// Get returns the local copy of a card.
func (b *Board) Get(id int64) (domain.Reservation, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.cards[id]
	return r, ok
}

// Columns groups the cards by status in lifecycle order. Every status has a
// column, empty or not.
func (b *Board) Columns() []Column {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := make(map[domain.Status]int, len(domain.Statuses))
	cols := make([]Column, len(domain.Statuses))
	for i, s := range domain.Statuses {
		idx[s] = i
		cols[i] = Column{Status: s, Label: s.Label(), Cards: []domain.Reservation{}}
	}
	for _, id := range b.order {
		r := b.cards[id]
		if i, ok := idx[r.Status]; ok {
			cols[i].Cards = append(cols[i].Cards, r)
		}
	}
	return cols
}

// Move drags card id to status to.
//
// Terminal cards are never moved (domain.ErrDragBlocked). A non-recommended
// move needs force, otherwise domain.ErrConfirmationRequired. An accepted move
// is applied locally, then persisted; if persisting fails the card is restored
// to its previous status, provided nothing else changed it meanwhile, and a
// MoveFailed toast is raised.
func (b *Board) Move(ctx context.Context, id int64, to domain.Status, force bool, agent domain.Agent) (MoveResult, error) {
	b.mu.Lock()
	card, ok := b.cards[id]
	if !ok {
		b.mu.Unlock()
		return MoveResult{}, fmt.Errorf("board.Board.Move: reservation %d: %w", id, domain.ErrNotFound)
	}
	from := card.Status
	d := logistics.CheckDrag(from, to)
	switch {
	case d.NoOp:
		b.mu.Unlock()
		return MoveResult{Reservation: card, From: from, NoOp: true}, nil
	case d.Blocked:
		b.mu.Unlock()
		if !to.Valid() {
			return MoveResult{}, fmt.Errorf("board.Board.Move: %w: %s", domain.ErrValidation, d.Warning)
		}
		b.notifier.Notify(ctx, notify.Warning(d.Warning))
		return MoveResult{}, fmt.Errorf("board.Board.Move: %w: %s", domain.ErrDragBlocked, d.Warning)
	case d.NeedsConfirmation && !force:
		b.mu.Unlock()
		return MoveResult{}, fmt.Errorf("board.Board.Move: %w: %s", domain.ErrConfirmationRequired, d.Warning)
	}

	card.Status = to
	b.cards[id] = card
	b.mu.Unlock()

	res, err := b.store.Update(ctx, id, domain.ReservationPatch{Status: &to, Force: force}, agent)
	if err != nil {
		b.rollback(id, from, to)
		b.log.ErrorContext(ctx, "reservation move failed",
			"reservation_id", id, "from", from, "to", to, "error", err)
		b.notifier.Notify(ctx, notify.Error(MoveFailed))
		return MoveResult{}, fmt.Errorf("board.Board.Move: %w", err)
	}

	b.mu.Lock()
	if cur, ok := b.cards[id]; ok && cur.Status == to {
		b.cards[id] = res.Reservation
	}
	b.mu.Unlock()

	return MoveResult{Reservation: res.Reservation, From: from, Warning: d.Warning}, nil
}

// rollback restores the previous status of one card if it still shows the
// optimistic value.
func (b *Board) rollback(id int64, from, to domain.Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cur, ok := b.cards[id]; ok && cur.Status == to {
		cur.Status = from
		b.cards[id] = cur
	}
}
