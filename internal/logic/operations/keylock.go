package operations

import (
	"context"
	"slices"
	"sync"
)

// keyLock serializes work per target key. Multiple keys are acquired in sorted
// order so bulk operations cannot deadlock with each other.
type keyLock struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{slots: make(map[string]*slot)}
}

// Lock acquires every key or none. The returned func releases them.
func (l *keyLock) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = slices.Clone(keys)
	slices.Sort(keys)
	keys = slices.Compact(keys)

	acquired := make([]string, 0, len(keys))
	release := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			l.unlock(acquired[i])
		}
	}

	for _, key := range keys {
		if err := l.lock(ctx, key); err != nil {
			release()

			return nil, err
		}

		acquired = append(acquired, key)
	}

	return release, nil
}

func (l *keyLock) lock(ctx context.Context, key string) error {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.release(key, s)

		return ctx.Err()
	}
}

func (l *keyLock) unlock(key string) {
	l.mu.Lock()
	s := l.slots[key]
	l.mu.Unlock()

	<-s.ch
	l.release(key, s)
}

func (l *keyLock) release(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
