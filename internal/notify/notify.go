// Package notify provides sinks for user-facing cart messages.
package notify

import (
	"context"
	"slices"
	"sync"

	"github.com/nikolayk812/cartstate/internal/domain"
	"github.com/nikolayk812/cartstate/internal/port"
	"github.com/sirupsen/logrus"
)

// Logger writes notifications to a logrus logger.
type Logger struct {
	log logrus.FieldLogger
}

func NewLogger(log logrus.FieldLogger) *Logger {
	return &Logger{log: log}
}

func (l *Logger) Notify(_ context.Context, n domain.Notification) {
	entry := l.log.WithFields(logrus.Fields{
		"notification_id": n.ID.String(),
		"created_at":      n.CreatedAt,
	})

	switch n.Level {
	case domain.LevelError:
		entry.Error(n.Message)
	default:
		entry.Info(n.Message)
	}
}

// Recorder keeps notifications in memory until drained.
type Recorder struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(_ context.Context, n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications = append(r.notifications, n)
}

func (r *Recorder) Notifications() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.notifications)
}

// Messages returns the recorded message texts in emission order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.notifications))
	for _, n := range r.notifications {
		out = append(out, n.Message)
	}

	return out
}

// Drain returns and forgets everything recorded so far.
func (r *Recorder) Drain() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.notifications
	r.notifications = nil

	return out
}

// Fanout forwards each notification to every sink.
type Fanout []port.Notifier

func (f Fanout) Notify(ctx context.Context, n domain.Notification) {
	for _, sink := range f {
		sink.Notify(ctx, n)
	}
}
