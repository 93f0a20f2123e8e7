package suggest

import (
	"context"
	"errors"
	"net"
	"sync/atomic"

	"github.com/sasha-s/go-deadlock"
	log "github.com/sirupsen/logrus"
)

// ErrCanceled is returned by a canceled Task.
var ErrCanceled = errors.New("suggestion canceled")

// Task runs one suggestion. Once canceled it reports nothing.
type Task struct {
	canceled atomic.Bool
	mu       deadlock.Mutex
	cancel   context.CancelFunc
}

// Cancel stops the running request and silences the task.
func (t *Task) Cancel() {
	t.canceled.Store(true)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
}

// Canceled reports whether Cancel was called.
func (t *Task) Canceled() bool {
	return t.canceled.Load()
}

// Run calls Suggest and logs the outcome unless the task was canceled.
func (t *Task) Run(ctx context.Context, svc Service, source, target, text, key string) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()

	out, err := Suggest(ctx, svc, source, target, text, key)
	if t.Canceled() {
		return "", ErrCanceled
	}

	entry := log.WithField("key", key)
	var netErr net.Error
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, ErrNoTranslation):
		entry.Info("no translation found")
	case errors.As(err, &netErr):
		entry.Warnf("communication error, check your internet connection and proxy settings: %s", err)
	default:
		entry.Errorf("translation error: %s", err)
	}
	return "", err
}
