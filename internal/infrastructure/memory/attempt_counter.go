package memory

import (
	"context"
	"sync"
	"time"
)

type attempt struct {
	n       int64
	expires time.Time
}

// AttemptCounter is a single-process stand-in for the redis counter.
type AttemptCounter struct {
	mu  sync.Mutex
	m   map[string]attempt
	Now func() time.Time
}

func NewAttemptCounter() *AttemptCounter {
	return &AttemptCounter{m: map[string]attempt{}, Now: time.Now}
}

func (a *AttemptCounter) live(key string) attempt {
	at, ok := a.m[key]
	if !ok || !a.Now().Before(at.expires) {
		delete(a.m, key)
		return attempt{}
	}
	return at
}

func (a *AttemptCounter) Count(_ context.Context, key string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live(key).n, nil
}

func (a *AttemptCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	at := a.live(key)
	if at.n == 0 {
		at.expires = a.Now().Add(window)
	}
	at.n++
	a.m[key] = at
	return at.n, nil
}

func (a *AttemptCounter) Reset(_ context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.m, key)
	return nil
}
