package board

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/notify"
)

// Loader fetches the snapshot a board shows.
type Loader interface {
	ListByDate(ctx context.Context, date time.Time) ([]domain.Reservation, error)
}

// DefaultIdleTimeout is how long a board stays open without being opened again.
const DefaultIdleTimeout = 30 * time.Minute

// Set keeps one board per open date and refreshes them all on demand. Boards
// not opened within the idle timeout are dropped on the next Refresh.
type Set struct {
	loader   Loader
	store    Updater
	notifier notify.Notifier
	log      *slog.Logger
	idle     time.Duration

	mu       sync.Mutex
	boards   map[string]*Board
	lastOpen map[string]time.Time
}

// NewSet builds an empty Set.
func NewSet(loader Loader, store Updater, n notify.Notifier, log *slog.Logger) *Set {
	return &Set{
		loader:   loader,
		store:    store,
		notifier: n,
		log:      log,
		idle:     DefaultIdleTimeout,
		boards:   make(map[string]*Board),
		lastOpen: make(map[string]time.Time),
	}
}

// WithIdleTimeout sets how long an unopened board is kept.
func (s *Set) WithIdleTimeout(d time.Duration) *Set {
	s.idle = d
	return s
}

// Open returns the board for date, loading its snapshot the first time.
func (s *Set) Open(ctx context.Context, date time.Time) (*Board, error) {
	key := domain.DateOnly(date).Format(domain.DateLayout)

	s.mu.Lock()
	b, ok := s.boards[key]
	if ok {
		s.lastOpen[key] = time.Now()
	}
	s.mu.Unlock()
	if ok {
		return b, nil
	}

	rs, err := s.loader.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("board.Set.Open: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.boards[key]; ok {
		return b, nil
	}
	b = New(date, s.store, s.notifier, s.log)
	b.Replace(rs)
	s.boards[key] = b
	s.lastOpen[key] = time.Now()
	return b, nil
}

// Refresh drops idle boards, then refetches the snapshot of every board still
// open. A failed refetch keeps that board's current snapshot; the first error
// is returned.
func (s *Set) Refresh(ctx context.Context) error {
	cutoff := time.Now().Add(-s.idle)

	s.mu.Lock()
	boards := make([]*Board, 0, len(s.boards))
	for key, b := range s.boards {
		if s.lastOpen[key].Before(cutoff) {
			delete(s.boards, key)
			delete(s.lastOpen, key)
			continue
		}
		boards = append(boards, b)
	}
	s.mu.Unlock()

	var first error
	for _, b := range boards {
		rs, err := s.loader.ListByDate(ctx, b.Date())
		if err != nil {
			s.log.WarnContext(ctx, "board refresh failed", "date", b.Date().Format(domain.DateLayout), "error", err)
			if first == nil {
				first = fmt.Errorf("board.Set.Refresh: %w", err)
			}
			continue
		}
		b.Replace(rs)
	}
	return first
}

// Len is the number of open boards.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.boards)
}
