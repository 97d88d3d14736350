// Package notify carries user-visible, dismissible notifications (toasts).
// A notification names the attempted action; the underlying error detail goes
// to the diagnostic log, never to the end user.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Level is the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Toast is one transient notification.
type Toast struct {
	Level   Level
	Message string
}

// Error returns an error toast for a failed action, e.g. "Error al mover reserva".
func Error(action string) Toast {
	return Toast{Level: LevelError, Message: action}
}

// Warning returns a warning toast.
func Warning(msg string) Toast {
	return Toast{Level: LevelWarning, Message: msg}
}

// Notifier delivers toasts to the operator.
type Notifier interface {
	Notify(ctx context.Context, t Toast)
}

// Func adapts a function to a Notifier.
type Func func(ctx context.Context, t Toast)

// Notify calls f.
func (f Func) Notify(ctx context.Context, t Toast) { f(ctx, t) }

// Log writes toasts to a logger. It is the default when no UI is attached.
type Log struct {
	Logger *slog.Logger
}

// Notify logs the toast at a level matching its severity.
func (l Log) Notify(ctx context.Context, t Toast) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	switch t.Level {
	case LevelWarning:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	}
	logger.Log(ctx, level, "notification", "message", t.Message)
}

// Recorder keeps every toast it receives until drained.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

// Notify records t.
func (r *Recorder) Notify(_ context.Context, t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

// Drain returns and clears the recorded toasts.
func (r *Recorder) Drain() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.toasts
	r.toasts = nil
	return out
}
