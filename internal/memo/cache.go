// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package memo

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidMaxEntries = errors.New("max entries must be positive")
	ErrUnknownPolicy     = errors.New("unknown eviction policy")
	ErrNilProducer       = errors.New("producer must not be nil")
)

// Producer computes the value for one set of Args.
type Producer[V any] func(ctx context.Context, args Args) (V, error)

type entry[V any] struct {
	key   Key
	value V
	seq   uint64
	uses  uint64
}

func (e *entry[V]) rank() (uint64, uint64) {
	return e.uses, e.seq
}

// Cache memoizes the results of a Producer, holding at most MaxEntries of
// them.
type Cache[V any] struct {
	name       string
	producer   Producer[V]
	maxEntries int
	policy     Policy
	metrics    *Metrics

	mu      sync.Mutex
	entries map[Key]*list.Element
	order   *list.List // front is most recently used
	seq     uint64
	stats   Stats

	flights singleflight.Group
}

// New builds a Cache in front of producer.
func New[V any](producer Producer[V], opts ...Option) (*Cache[V], error) {
	if producer == nil {
		return nil, ErrNilProducer
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.maxEntries <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxEntries, o.maxEntries)
	}
	if !o.policy.valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownPolicy, o.policy)
	}

	c := &Cache[V]{
		name:       o.name,
		producer:   producer,
		maxEntries: o.maxEntries,
		policy:     o.policy,
		metrics:    o.metrics,
		entries:    make(map[Key]*list.Element, o.maxEntries+1),
		order:      list.New(),
	}
	c.metrics.UpdateEntries(c.name, 0)

	log.WithFields(log.Fields{
		"cache":  c.name,
		"max":    c.maxEntries,
		"policy": c.policy,
	}).Debug("cache created")

	return c, nil
}

// Call returns the stored result for args, running the producer only when
// no result is stored. A producer error is returned unchanged and nothing is
// stored.
func (c *Cache[V]) Call(ctx context.Context, args Args) (V, error) {
	key := KeyOf(args)

	if v, ok := c.hit(key); ok {
		c.metrics.RecordRequest(c.name, "hit")
		return v, nil
	}

	leader := false
	res, err, _ := c.flights.Do(string(key), func() (any, error) {
		leader = true

		// Another flight for this key may have finished between the lookup
		// above and this one starting.
		if v, ok := c.hit(key); ok {
			c.metrics.RecordRequest(c.name, "hit")
			return v, nil
		}

		c.metrics.RecordRequest(c.name, "miss")
		return c.produce(ctx, key, args)
	})

	if !leader {
		c.mu.Lock()
		c.stats.Coalesced++
		c.mu.Unlock()
		c.metrics.RecordRequest(c.name, "coalesced")
	}

	if err != nil {
		var zero V
		return zero, err
	}

	v, _ := res.(V)
	return v, nil
}

func (c *Cache[V]) produce(ctx context.Context, key Key, args Args) (V, error) {
	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()

	logger := log.WithFields(log.Fields{"cache": c.name, "key": key.Short()})
	logger.Debug("miss")

	start := time.Now()
	v, err := c.producer(ctx, args)
	c.metrics.RecordProducer(c.name, err == nil, time.Since(start))

	if err != nil {
		c.mu.Lock()
		c.stats.Failures++
		c.mu.Unlock()
		logger.WithError(err).Debug("producer failed")
		var zero V
		return zero, err
	}

	return c.insert(key, v), nil
}

// hit returns the stored value for key, refreshing its recency and, when the
// policy counts hits, its usage counter.
func (c *Cache[V]) hit(key Key) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}

	e := el.Value.(*entry[V])
	c.order.MoveToFront(el)
	if c.policy.countsHits() {
		e.uses++
	}
	c.stats.Hits++

	log.WithFields(log.Fields{
		"cache": c.name,
		"key":   key.Short(),
		"uses":  e.uses,
	}).Debug("hit")

	return e.value, true
}

// insert stores v under key and evicts one entry if that pushed the cache
// over capacity. It returns the stored value.
func (c *Cache[V]) insert(key Key, v V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		return el.Value.(*entry[V]).value
	}

	c.seq++
	e := &entry[V]{key: key, value: v, seq: c.seq, uses: 1}
	el := c.order.PushFront(e)
	c.entries[key] = el

	if len(c.entries) > c.maxEntries {
		c.evict(el)
	}
	c.metrics.UpdateEntries(c.name, len(c.entries))

	return v
}

// evict removes exactly one entry other than keep. Must be called with c.mu
// held.
func (c *Cache[V]) evict(keep *list.Element) {
	el := c.policy.victim(c.order, keep)
	if el == nil {
		return
	}

	e := c.order.Remove(el).(*entry[V])
	delete(c.entries, e.key)
	c.stats.Evictions++
	c.metrics.RecordEviction(c.name)

	log.WithFields(log.Fields{
		"cache":  c.name,
		"key":    e.key.Short(),
		"uses":   e.uses,
		"seq":    e.seq,
		"policy": c.policy,
	}).Debug("evicted")
}

// Contains reports whether a result for args is stored. It does not count as
// a use of the entry.
func (c *Cache[V]) Contains(args Args) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[KeyOf(args)]
	return ok
}

// Keys returns the stored keys, most recently used first.
func (c *Cache[V]) Keys() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]Key, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry[V]).key)
	}
	return keys
}

// Len is the number of stored results.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[V]) MaxEntries() int { return c.maxEntries }

func (c *Cache[V]) Policy() Policy { return c.policy }

func (c *Cache[V]) Name() string { return c.name }

// Stats returns a snapshot of the cache counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = len(c.entries)
	return s
}

// Purge drops every stored result. Counters are kept.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]*list.Element, c.maxEntries+1)
	c.order.Init()
	c.metrics.UpdateEntries(c.name, 0)
}
