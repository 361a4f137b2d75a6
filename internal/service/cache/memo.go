package cache

import (
	"encoding/json"
	"sync"
	"time"

	"SectorPulse/internal/domain/models"
	"SectorPulse/internal/services/analysis"
	pkgcache "SectorPulse/pkg/cache"
)

type entry struct {
	v   any
	exp time.Time
}

// TTLCache is a small in-process map with per-entry expiry.
type TTLCache struct {
	mu sync.RWMutex
	m  map[string]entry
}

func NewTTLCache() *TTLCache {
	return &TTLCache{m: make(map[string]entry)}
}

func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.v, true
}

func (c *TTLCache) Set(key string, v any, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = entry{v: v, exp: exp}
	c.mu.Unlock()
}

// TableMemo memoizes formatted analysis tables keyed by a fingerprint of the
// input matrix. Invalidation is purely time-based, with the TTL stated by the
// caller at construction; a changed matrix changes the fingerprint and
// naturally misses.
type TableMemo struct {
	cache *TTLCache
	ttl   time.Duration
}

func NewTableMemo(ttl time.Duration) *TableMemo {
	return &TableMemo{cache: NewTTLCache(), ttl: ttl}
}

// Fingerprint derives the memo key from the matrix content.
func (m *TableMemo) Fingerprint(matrix models.ReturnMatrix) string {
	b, err := json.Marshal(matrix)
	if err != nil {
		return ""
	}
	return pkgcache.HashKey(string(b))
}

func (m *TableMemo) Get(fingerprint string) (analysis.FormattedTable, bool) {
	if fingerprint == "" {
		return analysis.FormattedTable{}, false
	}
	v, ok := m.cache.Get(fingerprint)
	if !ok {
		return analysis.FormattedTable{}, false
	}
	t, ok := v.(analysis.FormattedTable)
	return t, ok
}

func (m *TableMemo) Put(fingerprint string, t analysis.FormattedTable) {
	if fingerprint == "" {
		return
	}
	m.cache.Set(fingerprint, t, m.ttl)
}
