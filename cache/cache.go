/*
Package cache stores rendered payroll summaries.

PURPOSE:
  Summaries are deterministic for a given organization, period and data
  set, so a rendered summary can be served again until the organization's
  employees or shifts change. Entries expire after a TTL; writes through
  the API invalidate every entry of the organization.

IMPLEMENTATIONS:
  Memory: in-process map, used when no redis address is configured
  Redis:  go-redis client, shared between server instances

KEYS:
  payroll:summary:{org}:{start}:{end}   cached value
  payroll:keys:{org}                    set of the org's summary keys (redis)
*/
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Cache is a byte cache scoped by organization.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, orgID, key string, value []byte) error
	InvalidateOrg(ctx context.Context, orgID string) error
	Clear(ctx context.Context) error
	Close() error
}

// SummaryKey is the cache key of a summary for an inclusive date range.
func SummaryKey(orgID, start, end string) string {
	return fmt.Sprintf("payroll:summary:%s:%s:%s", orgID, start, end)
}

// =============================================================================
// MEMORY
// =============================================================================

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is an in-process Cache. A zero TTL keeps entries until invalidated.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	byOrg   map[string]map[string]struct{}
	now     func() time.Time
}

var _ Cache = (*Memory)(nil)

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]entry),
		byOrg:   make(map[string]map[string]struct{}),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, orgID, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{value: append([]byte(nil), value...)}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.entries[key] = e
	if m.byOrg[orgID] == nil {
		m.byOrg[orgID] = make(map[string]struct{})
	}
	m.byOrg[orgID][key] = struct{}{}
	return nil
}

func (m *Memory) InvalidateOrg(_ context.Context, orgID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.byOrg[orgID] {
		delete(m.entries, key)
	}
	delete(m.byOrg, orgID)
	return nil
}

// Clear drops every entry.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]entry)
	m.byOrg = make(map[string]map[string]struct{})
	return nil
}

func (m *Memory) Close() error { return nil }

// SetClock replaces the time source (tests).
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}
