// Package ratelimit is an in-process fixed window rate limiter. Counters live in
// FNV-1a hashed shards and a counter whose window has ended is replaced on the next
// attempt, so idle identities cost nothing after their window.
package ratelimit

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

const shardCount = 256

// Limit is the number of attempts allowed per window.
type Limit struct {
	Max    int
	Window time.Duration
}

type counter struct {
	count    int
	resetsAt time.Time
}

type shard struct {
	sync.Mutex
	counters map[string]*counter
}

// Limiter applies a Limit per operation, counted per identity.
type Limiter struct {
	shards   [shardCount]*shard
	limits   map[string]Limit
	fallback Limit
	clock    func() time.Time
}

// New builds a limiter. Operations missing from limits use fallback.
func New(fallback Limit, limits map[string]Limit, clock func() time.Time) *Limiter {
	if clock == nil {
		clock = time.Now
	}
	l := &Limiter{limits: limits, fallback: fallback, clock: clock}
	for i := range l.shards {
		l.shards[i] = &shard{counters: make(map[string]*counter)}
	}
	return l
}

func (l *Limiter) Allow(_ context.Context, identity, operation string) (bool, time.Duration, error) {
	limit := l.limitFor(operation)
	key := operation + ":" + identity
	now := l.clock()

	s := l.shardFor(key)
	s.Lock()
	defer s.Unlock()

	c, ok := s.counters[key]
	if !ok || !now.Before(c.resetsAt) {
		c = &counter{resetsAt: now.Add(limit.Window)}
		s.counters[key] = c
	}

	if c.count >= limit.Max {
		return false, c.resetsAt.Sub(now), nil
	}
	c.count++
	return true, 0, nil
}

// Sweep drops counters whose window has ended.
func (l *Limiter) Sweep(now time.Time) int {
	removed := 0
	for _, s := range l.shards {
		s.Lock()
		for key, c := range s.counters {
			if !now.Before(c.resetsAt) {
				delete(s.counters, key)
				removed++
			}
		}
		s.Unlock()
	}
	return removed
}

func (l *Limiter) limitFor(operation string) Limit {
	if limit, ok := l.limits[operation]; ok {
		return limit
	}
	return l.fallback
}

func (l *Limiter) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return l.shards[h.Sum32()%shardCount]
}
