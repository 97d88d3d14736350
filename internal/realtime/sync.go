package realtime

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/DPR2204/atiexg-sub001/internal/debounce"
)

// DefaultDebounce is the quiet window for tables without their own.
const DefaultDebounce = 3 * time.Second

// Subscription watches one table. Empty Events means every event type.
// Delay overrides the Syncer default; urgent tables use a shorter one.
type Subscription struct {
	Table  string
	Events []string
	Delay  time.Duration
}

func (s Subscription) matches(c Change) bool {
	if c.Table != s.Table {
		return false
	}
	if len(s.Events) == 0 {
		return true
	}
	return slices.ContainsFunc(s.Events, func(e string) bool { return strings.EqualFold(e, c.Event) })
}

// Handler reacts to a settled burst of changes on table.
type Handler func(ctx context.Context, table string)

// Syncer debounces changes per table and then runs every handler: a burst of
// writes within the window yields one refetch.
type Syncer struct {
	feed         Feed
	defaultDelay time.Duration
	log          *slog.Logger

	mu       sync.Mutex
	subs     []Subscription
	handlers []Handler
	timers   map[string]*debounce.Debouncer

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSyncer builds a Syncer over feed. A non-positive defaultDelay falls back
// to DefaultDebounce.
func NewSyncer(feed Feed, defaultDelay time.Duration, log *slog.Logger) *Syncer {
	if defaultDelay <= 0 {
		defaultDelay = DefaultDebounce
	}
	return &Syncer{
		feed:         feed,
		defaultDelay: defaultDelay,
		log:          log,
		timers:       make(map[string]*debounce.Debouncer),
	}
}

// Subscribe adds a watched table. Call it before Start.
func (s *Syncer) Subscribe(sub Subscription) {
	if sub.Delay <= 0 {
		sub.Delay = s.defaultDelay
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
	s.timers[sub.Table] = debounce.New(sub.Delay)
}

// OnChange registers a handler. Call it before Start.
func (s *Syncer) OnChange(h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, h)
}

// Start begins listening in the background. Close stops it.
func (s *Syncer) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		if err := s.feed.Listen(s.ctx, s.handle); err != nil {
			s.log.Error("realtime feed stopped", "error", err)
		}
	}()
}

// handle schedules the table's refetch, replacing one still pending.
func (s *Syncer) handle(c Change) {
	s.mu.Lock()
	var d *debounce.Debouncer
	for _, sub := range s.subs {
		if sub.matches(c) {
			d = s.timers[sub.Table]
			break
		}
	}
	s.mu.Unlock()
	if d == nil {
		return
	}
	d.Trigger(func() { s.fire(c.Table) })
}

func (s *Syncer) fire(table string) {
	s.mu.Lock()
	ctx := s.ctx
	handlers := slices.Clone(s.handlers)
	s.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}

	s.log.DebugContext(ctx, "realtime refetch", "table", table)
	for _, h := range handlers {
		h(ctx, table)
	}
}

// Close stops listening, drops pending refetches and waits for the listener
// to exit. It is safe to call more than once.
func (s *Syncer) Close() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	for _, d := range s.timers {
		d.Stop()
	}
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
