// Package cache holds the in-process caches and the janitor that sweeps
// their expired entries.
package cache

import (
	"sync"
	"time"

	"labdesk/internal/log"
)

// Cache is the behaviour shared by the caches in this package.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Len() int
}

// Cleaner is a cache that can drop its expired entries on demand.
type Cleaner interface {
	CleanExpired() int
}

type namedCleaner struct {
	name string
	c    Cleaner
}

// Manager periodically sweeps the registered caches.
type Manager struct {
	logger *log.Logger

	mu      sync.Mutex
	caches  []namedCleaner
	onSweep func(removed int)

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	started  bool
}

func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Discard()
	}
	return &Manager{
		logger: logger.WithComponent(log.ComponentCache),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (m *Manager) Register(name string, c Cleaner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caches = append(m.caches, namedCleaner{name: name, c: c})
}

// OnSweep sets a callback run after every sweep that removed entries.
func (m *Manager) OnSweep(fn func(removed int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSweep = fn
}

// Sweep runs one cleanup pass over every registered cache and returns the
// total number of entries removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	caches := append([]namedCleaner(nil), m.caches...)
	onSweep := m.onSweep
	m.mu.Unlock()

	total := 0
	for _, nc := range caches {
		n := nc.c.CleanExpired()
		if n > 0 {
			m.logger.Debug("Expired cache entries removed", "cache", nc.name, "removed", n)
		}
		total += n
	}
	if total > 0 && onSweep != nil {
		onSweep(total)
	}
	return total
}

// StartCleanup sweeps every interval until Stop is called.
func (m *Manager) StartCleanup(interval time.Duration) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Sweep()
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop ends the cleanup loop and waits for it to exit. It is safe to call
// more than once, and before StartCleanup.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
		m.mu.Lock()
		started := m.started
		m.mu.Unlock()
		if started {
			<-m.done
		}
	})
}
