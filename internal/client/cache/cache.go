// Package cache holds derived view data of the CLI (medication lists,
// taken-date sets) keyed by (kind, scope, range).
//
// Readers share entries. Only the orchestrating services invalidate them,
// after a write settles.
package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/medkeeper/internal/dates"
)

// Kind names the entity a cached value is derived from.
type Kind string

const (
	KindMedications Kind = "medications"
	KindToday       Kind = "today"
	KindMonth       Kind = "month"
	KindWindow      Kind = "window"
	KindProfile     Kind = "profile"
)

// Key identifies a cache entry. Scope is the user id; Range describes the
// dates covered, empty when not applicable.
type Key struct {
	Kind  Kind
	Scope string
	Range string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Kind, k.Scope, k.Range)
}

func MedicationsKey(userID string) Key {
	return Key{Kind: KindMedications, Scope: userID}
}

func ProfileKey(userID string) Key {
	return Key{Kind: KindProfile, Scope: userID}
}

// TodayKey covers the logs of a single day.
func TodayKey(userID string, day dates.Date) Key {
	return Key{Kind: KindToday, Scope: userID, Range: day.String()}
}

func MonthKey(userID string, year, month int) Key {
	return Key{Kind: KindMonth, Scope: userID, Range: fmt.Sprintf("%04d-%02d", year, month)}
}

func WindowKey(userID string, start, end dates.Date) Key {
	return Key{Kind: KindWindow, Scope: userID, Range: start.String() + ".." + end.String()}
}

// Cache is safe for concurrent use. The zero value is not usable; call New.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]any
	// gen counts invalidations per key; the range-less key of a kind and
	// scope counts InvalidateKind calls. A load that started before a bump
	// does not store its result.
	gen map[Key]uint64
}

func New() *Cache {
	return &Cache{entries: map[Key]any{}, gen: map[Key]uint64{}}
}

func (c *Cache) Get(k Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[k]
	return v, ok
}

func (c *Cache) Set(k Key, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[k] = v
}

// Invalidate drops the given keys.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.gen[k]++
	}
}

// InvalidateKind drops every entry of kind within scope, whatever its range.
func (c *Cache) InvalidateKind(kind Kind, scope string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Kind == kind && k.Scope == scope {
			delete(c.entries, k)
		}
	}
	c.gen[Key{Kind: kind, Scope: scope}]++
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) stamp(k Key) (uint64, uint64) {
	return c.gen[k], c.gen[Key{Kind: k.Kind, Scope: k.Scope}]
}

// Load returns the cached value under k or calls fetch and caches its
// result. fetch runs without the lock held. When k is invalidated while
// fetch is in flight the result is returned but not stored.
func Load[T any](ctx context.Context, c *Cache, k Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	if cached, ok := c.entries[k]; ok {
		c.mu.Unlock()
		if v, ok := cached.(T); ok {
			return v, nil
		}
		var zero T
		return zero, fmt.Errorf("cache: %s holds %T", k, cached)
	}
	g1, g2 := c.stamp(k)
	c.mu.Unlock()

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	if n1, n2 := c.stamp(k); n1 == g1 && n2 == g2 {
		c.entries[k] = v
	}
	c.mu.Unlock()
	return v, nil
}
