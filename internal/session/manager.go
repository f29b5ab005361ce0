// Package session caches finished conversion runs in memory so the download
// and preview endpoints can re-read a result after the convert request
// completes. Nothing here touches durable storage; results live for a short
// TTL and are evicted by the cleanup loop.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/file2md/backend/internal/models"
)

// MaxResults bounds how many finished runs are held at once; the oldest are
// evicted first when the cap is reached.
const MaxResults = 100

// DefaultTTL is how long a result stays retrievable after conversion.
const DefaultTTL = 15 * time.Minute

type entry struct {
	result   *models.ConversionResult
	storedAt time.Time
}

// Manager holds completed conversion results keyed by run ID.
type Manager struct {
	mu      sync.RWMutex
	results map[string]*entry
	ttl     time.Duration
}

// NewManager creates a result store with the given TTL; ttl <= 0 selects
// DefaultTTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		results: make(map[string]*entry),
		ttl:     ttl,
	}
}

// Put stores a finished result under a fresh run ID and returns the ID.
func (m *Manager) Put(result *models.ConversionResult) string {
	id := uuid.New().String()
	result.ID = id

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.results) >= MaxResults {
		m.evictOldestLocked()
	}
	m.results[id] = &entry{result: result, storedAt: time.Now()}
	return id
}

// Get returns the result for id, or false when it never existed or expired.
func (m *Manager) Get(id string) (*models.ConversionResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.results[id]
	if !ok || time.Since(e.storedAt) > m.ttl {
		return nil, false
	}
	return e.result, true
}

// Delete discards a result. Unknown IDs are a no-op.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.results, id)
}

// Len reports how many results are currently held, expired or not.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.results)
}

// CleanupExpired drops results older than the TTL and returns how many were
// removed. The server runs this on a ticker.
func (m *Manager) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.ttl)
	removed := 0
	for id, e := range m.results {
		if e.storedAt.Before(cutoff) {
			delete(m.results, id)
			removed++
		}
	}
	return removed
}

func (m *Manager) evictOldestLocked() {
	var (
		oldestID string
		oldestAt time.Time
	)
	for id, e := range m.results {
		if oldestID == "" || e.storedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = e.storedAt
		}
	}
	if oldestID != "" {
		delete(m.results, oldestID)
	}
}
