// Package notify carries user-facing notifications out of the data layer.
// The store converts every failure into exactly one notification at the
// point of detection instead of letting errors escape into unrelated code
// paths; front ends decide how to render them.
package notify

import (
	"context"
	"sync"

	"moneytrack/internal/log"
)

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

type (
	Level string

	Notification struct {
		Level   Level
		Message string
	}

	// Notifier is the sink the movement store reports through.
	Notifier interface {
		Notify(ctx context.Context, n Notification)
	}
)

// LogNotifier renders notifications as structured log records. It is the
// default sink for the CLI, which prints log output to the terminal.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.WithComponent(log.ComponentCLI)}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) {
	switch n.Level {
	case LevelError:
		l.logger.ErrorContext(ctx, n.Message)
	case LevelWarn:
		l.logger.WarnContext(ctx, n.Message)
	default:
		l.logger.InfoContext(ctx, n.Message)
	}
}

// Recorder collects notifications in memory. Tests use it to assert that a
// failure was reported exactly once.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

// All returns a copy of the recorded notifications in arrival order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = nil
}
