package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DPR2204/atiexg-sub001/internal/debounce"
	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/repo"
)

// DailyNoteService reads and writes the per-date operational bulletin.
type DailyNoteService struct {
	repo repo.DailyNoteRepo
}

// NewDailyNoteService constructs a DailyNoteService backed by the provided repo.
func NewDailyNoteService(r repo.DailyNoteRepo) *DailyNoteService {
	return &DailyNoteService{repo: r}
}

// Get returns the note for date, or an empty note when none was written yet.
func (s *DailyNoteService) Get(ctx context.Context, date time.Time) (domain.DailyNote, error) {
	n, err := s.repo.Get(ctx, date)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DailyNote{Date: domain.DateOnly(date)}, nil
	}
	if err != nil {
		return domain.DailyNote{}, fmt.Errorf("service.DailyNoteService.Get: %w", err)
	}
	return n, nil
}

// Save upserts the note for date. The last writer wins.
func (s *DailyNoteService) Save(ctx context.Context, date time.Time, content string, agent domain.Agent) (domain.DailyNote, error) {
	if date.IsZero() {
		return domain.DailyNote{}, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	n, err := s.repo.Upsert(ctx, domain.DailyNote{
		Date:      domain.DateOnly(date),
		Content:   content,
		UpdatedBy: agent.Name,
	})
	if err != nil {
		return domain.DailyNote{}, fmt.Errorf("service.DailyNoteService.Save: %w", err)
	}
	return n, nil
}

// Autosaver persists note edits after a pause in typing. Each date has its own
// debouncer: an edit cancels and reschedules the pending save for that date,
// so only the final text is written.
type Autosaver struct {
	notes *DailyNoteService
	delay time.Duration
	log   *slog.Logger

	mu      sync.Mutex
	pending map[string]*debounce.Debouncer
	closed  bool
}

// NewAutosaver builds an Autosaver that waits delay after the last edit.
func NewAutosaver(notes *DailyNoteService, delay time.Duration, log *slog.Logger) *Autosaver {
	return &Autosaver{
		notes:   notes,
		delay:   delay,
		log:     log,
		pending: make(map[string]*debounce.Debouncer),
	}
}

// Edit records the latest text for date. Edits after Close are dropped.
func (a *Autosaver) Edit(date time.Time, content string, agent domain.Agent) {
	key := domain.DateOnly(date).Format(domain.DateLayout)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	d, ok := a.pending[key]
	if !ok {
		d = debounce.New(a.delay)
		a.pending[key] = d
	}
	d.Trigger(func() {
		if _, err := a.notes.Save(context.Background(), date, content, agent); err != nil {
			a.log.Error("daily note autosave failed", "date", key, "error", err)
		}
		a.evict(key, d)
	})
}

// evict forgets the debouncer of a date once it has nothing left to save.
func (a *Autosaver) evict(key string, d *debounce.Debouncer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if cur, ok := a.pending[key]; ok && cur == d && !d.Pending() {
		delete(a.pending, key)
	}
}

// Len is the number of dates with a live debouncer.
func (a *Autosaver) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

// Flush writes every pending edit now.
func (a *Autosaver) Flush() {
	a.mu.Lock()
	ds := make([]*debounce.Debouncer, 0, len(a.pending))
	for _, d := range a.pending {
		ds = append(ds, d)
	}
	a.mu.Unlock()

	for _, d := range ds {
		d.Flush()
	}
}

// Close flushes pending edits, stops accepting new ones and waits for saves
// already in flight.
func (a *Autosaver) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	a.Flush()

	a.mu.Lock()
	ds := make([]*debounce.Debouncer, 0, len(a.pending))
	for _, d := range a.pending {
		d.Stop()
		ds = append(ds, d)
	}
	a.mu.Unlock()

	for _, d := range ds {
		d.Wait()
	}
}
