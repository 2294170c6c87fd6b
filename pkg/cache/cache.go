package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Cache lookups by result.",
	}, []string{"cache", "result"})

	evictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "cache",
		Name:      "evictions_total",
		Help:      "Entries dropped by reason.",
	}, []string{"cache", "reason"})
)

const defaultJanitorInterval = 2 * time.Minute

type entry struct {
	key       string
	version   int64
	value     []byte
	expiresAt time.Time
}

// LRUCache is a byte cache bounded by entry count. Entries also expire ttl
// after their last write; expired entries are dropped on read and by the
// janitor. Every value carries the version of the record it encodes, and a
// live entry is never replaced by an older version.
type LRUCache struct {
	name     string
	capacity int
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time

	mu    sync.Mutex
	order *list.List
	items map[string]*list.Element
}

type Option func(*LRUCache)

func WithJanitorInterval(d time.Duration) Option {
	return func(c *LRUCache) { c.interval = d }
}

func WithClock(now func() time.Time) Option {
	return func(c *LRUCache) { c.now = now }
}

// NewLRUCache creates a cache; name labels its metrics.
func NewLRUCache(name string, capacity int, ttl time.Duration, opts ...Option) *LRUCache {
	c := &LRUCache{
		name:     name,
		capacity: capacity,
		ttl:      ttl,
		interval: defaultJanitorInterval,
		now:      time.Now,
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *LRUCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		lookups.WithLabelValues(c.name, "miss").Inc()
		return nil, false
	}

	ent := el.Value.(*entry)
	if c.now().After(ent.expiresAt) {
		c.remove(el, "expired")
		lookups.WithLabelValues(c.name, "miss").Inc()
		return nil, false
	}

	c.order.MoveToFront(el)
	lookups.WithLabelValues(c.name, "hit").Inc()
	return ent.value, true
}

// Set stores value under key and reports whether it did. It refuses when the
// cache holds an unexpired value with a higher version.
func (c *LRUCache) Set(key string, version int64, value []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expiresAt := now.Add(c.ttl)
	if el, ok := c.items[key]; ok {
		ent := el.Value.(*entry)
		if ent.version > version && !now.After(ent.expiresAt) {
			return false
		}
		ent.version, ent.value, ent.expiresAt = version, value, expiresAt
		c.order.MoveToFront(el)
		return true
	}

	c.items[key] = c.order.PushFront(&entry{key: key, version: version, value: value, expiresAt: expiresAt})
	for c.order.Len() > c.capacity {
		c.remove(c.order.Back(), "capacity")
	}
	return true
}

// Delete drops key if present, whatever version it holds.
func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.remove(el, "invalidated")
	}
}

func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Start launches the janitor, which stops when ctx is done.
func (c *LRUCache) Start(ctx context.Context) error {
	go c.janitor(ctx)
	return nil
}

func (c *LRUCache) janitor(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.purgeExpired()
		case <-ctx.Done():
			return
		}
	}
}

// purgeExpired walks from the least recently used end and returns the
// number of entries dropped.
func (c *LRUCache) purgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	purged := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if now.After(el.Value.(*entry).expiresAt) {
			c.remove(el, "expired")
			purged++
		}
		el = prev
	}
	return purged
}

func (c *LRUCache) remove(el *list.Element, reason string) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).key)
	evictions.WithLabelValues(c.name, reason).Inc()
}
