// Package cache memoizes calculation results. Calculations are cheap and
// deterministic, so a cache miss or failure only costs recomputation.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iwvelando/loan-calculator/pkg/constants"
)

// Cache stores serialized results by key.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
}

// Key builds a cache key from a calculation mode and its numeric inputs.
// Floats are written with full precision so distinct inputs never collide.
func Key(mode string, values ...float64) string {
	parts := make([]string, 0, len(values)+2)
	parts = append(parts, constants.CacheKeyPrefix, mode)
	for _, v := range values {
		parts = append(parts, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return strings.Join(parts, ":")
}

// KeyWithTerms extends Key with a list of term lengths, in order.
func KeyWithTerms(mode string, terms []int, values ...float64) string {
	termParts := make([]string, len(terms))
	for i, term := range terms {
		termParts[i] = strconv.Itoa(term)
	}
	return fmt.Sprintf("%s:%s", Key(mode, values...), strings.Join(termParts, ","))
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryCache is an in-process Cache with optional expiry.
type MemoryCache struct {
	mu   sync.RWMutex
	ttl  time.Duration
	data map[string]memoryEntry
	now  func() time.Time
}

// NewMemoryCache creates a MemoryCache. A zero ttl keeps entries forever.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:  ttl,
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

// Get returns the value stored under key, if present and not expired.
func (m *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if !entry.expires.IsZero() && m.now().After(entry.expires) {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return "", false, nil
	}
	return entry.value, true, nil
}

// Set stores value under key.
func (m *MemoryCache) Set(_ context.Context, key string, value string) error {
	entry := memoryEntry{value: value}
	if m.ttl > 0 {
		entry.expires = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.data[key] = entry
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
