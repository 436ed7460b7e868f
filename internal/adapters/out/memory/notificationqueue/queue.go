// Package notificationqueue buffers order status notifications per recipient in
// process memory. Recipients are spread over FNV-1a hashed shards, each with its own
// lock, so publishers and pollers of different recipients rarely contend.
package notificationqueue

import (
	"context"
	"hash/fnv"
	"slices"
	"sync"
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/notification"
)

const (
	shardCount = 64

	DefaultCapacity = 50
	DefaultTTL      = 5 * time.Minute
)

type shard struct {
	sync.Mutex
	events map[string][]notification.Event
}

// Queue is a bounded, expiring event list per recipient.
type Queue struct {
	shards   [shardCount]*shard
	capacity int
	ttl      time.Duration
	clock    func() time.Time
}

type Option func(*Queue)

// WithCapacity bounds the number of events kept per recipient.
func WithCapacity(capacity int) Option {
	return func(q *Queue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithTTL sets how long non-persistent events stay visible.
func WithTTL(ttl time.Duration) Option {
	return func(q *Queue) {
		if ttl > 0 {
			q.ttl = ttl
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(q *Queue) {
		q.clock = clock
	}
}

// New creates a queue with DefaultCapacity and DefaultTTL unless opts override them.
func New(opts ...Option) *Queue {
	q := &Queue{capacity: DefaultCapacity, ttl: DefaultTTL, clock: time.Now}
	for i := range q.shards {
		q.shards[i] = &shard{events: make(map[string][]notification.Event)}
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Publish appends the event. A full list first evicts its oldest non-persistent event
// and only then its oldest event overall.
func (q *Queue) Publish(_ context.Context, event notification.Event) error {
	if err := event.Recipient().Validate(); err != nil {
		return err
	}

	key := event.Recipient().String()
	s := q.shardFor(key)
	s.Lock()
	defer s.Unlock()

	events := q.compact(s.events[key], q.clock())
	for len(events) >= q.capacity {
		victim := slices.IndexFunc(events, func(e notification.Event) bool { return !e.IsPersistent() })
		if victim < 0 {
			victim = 0
		}
		events = slices.Delete(events, victim, victim+1)
	}
	s.events[key] = append(events, event)
	return nil
}

// Poll returns the visible events oldest first. Expired and dismissed events are
// dropped from the recipient's list on the way.
func (q *Queue) Poll(_ context.Context, recipient kernel.Phone) ([]notification.Event, error) {
	key := recipient.String()
	s := q.shardFor(key)
	s.Lock()
	defer s.Unlock()

	events := q.compact(s.events[key], q.clock())
	if len(events) == 0 {
		delete(s.events, key)
		return []notification.Event{}, nil
	}
	s.events[key] = events
	return slices.Clone(events), nil
}

func (q *Queue) Dismiss(_ context.Context, recipient kernel.Phone, orderID kernel.UUID) error {
	key := recipient.String()
	s := q.shardFor(key)
	s.Lock()
	defer s.Unlock()

	events := s.events[key]
	for i := range events {
		if events[i].OrderID().IsEqual(orderID) {
			events[i] = events[i].Dismissed()
		}
	}
	return nil
}

func (q *Queue) Purge(_ context.Context, now time.Time) (int, error) {
	removed := 0
	for _, s := range q.shards {
		s.Lock()
		for key, events := range s.events {
			kept := q.compact(events, now)
			removed += len(events) - len(kept)
			if len(kept) == 0 {
				delete(s.events, key)
				continue
			}
			s.events[key] = kept
		}
		s.Unlock()
	}
	return removed, nil
}

// compact keeps the visible events. The input slice is reused.
func (q *Queue) compact(events []notification.Event, now time.Time) []notification.Event {
	return slices.DeleteFunc(events, func(e notification.Event) bool {
		return !e.IsVisible(now, q.ttl)
	})
}

func (q *Queue) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return q.shards[h.Sum32()%shardCount]
}
