package lock

import (
	"context"
	"fmt"
	"sync"
)

// MemoryLocker блокировки по ключу внутри одного процесса.
// Используется, когда Redis не настроен (одна реплика сервиса).
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

// NewMemoryLocker создает in-process locker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*keyLock)}
}

// WithLock выполняет fn, удерживая блокировку key
// Ожидание прерывается отменой контекста
func (m *MemoryLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l := m.ref(key)

	select {
	case l.ch <- struct{}{}:
	case <-ctx.Done():
		m.unref(key, l)
		return fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, ctx.Err())
	}

	defer func() {
		<-l.ch
		m.unref(key, l)
	}()

	return fn(ctx)
}

func (m *MemoryLocker) ref(key string) *keyLock {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.locks[key]
	if !ok {
		l = &keyLock{ch: make(chan struct{}, 1)}
		m.locks[key] = l
	}
	l.refs++
	return l
}

func (m *MemoryLocker) unref(key string, l *keyLock) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(m.locks, key)
	}
}
