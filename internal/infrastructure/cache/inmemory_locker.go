package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
)

type lockEntry struct {
	token     uint64
	expiresAt time.Time
}

// InMemoryLocker implements shared.Locker within one process.
// Suitable for single-instance deployments and testing.
type InMemoryLocker struct {
	mu      sync.Mutex
	entries map[string]lockEntry
	next    uint64
}

// NewInMemoryLocker creates a new in-memory locker
func NewInMemoryLocker() *InMemoryLocker {
	return &InMemoryLocker{entries: make(map[string]lockEntry)}
}

// Acquire takes key unless it is held and not yet expired
func (l *InMemoryLocker) Acquire(_ context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if e, held := l.entries[key]; held && now.Before(e.expiresAt) {
		return nil, shared.ErrLockNotAcquired
	}

	l.next++
	token := l.next
	l.entries[key] = lockEntry{token: token, expiresAt: now.Add(ttl)}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if e, held := l.entries[key]; held && e.token == token {
				delete(l.entries, key)
			}
		})
	}, nil
}

// Close drops all locks
func (l *InMemoryLocker) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[string]lockEntry)
	return nil
}

// Size returns the number of held or expired-but-unreleased locks
func (l *InMemoryLocker) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

var _ shared.Locker = (*InMemoryLocker)(nil)
