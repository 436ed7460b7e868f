// Package keylock provides mutual exclusion per string key without a global lock.
//
// Keys are hashed with FNV-1a onto a fixed set of mutex shards. Two keys may share a
// shard, which only costs some unrelated contention; a single key always maps to the
// same shard, so operations on it are linearized.
package keylock

import (
	"hash/fnv"
	"slices"
	"sync"
)

const shardCount = 256

// Locker hands out per-key locks. The zero value is ready to use.
type Locker struct {
	shards [shardCount]sync.Mutex
}

// New returns an empty Locker.
func New() *Locker {
	return &Locker{}
}

// Lock blocks until key is held and returns the function releasing it.
func (l *Locker) Lock(key string) func() {
	m := &l.shards[shardIndex(key)]
	m.Lock()
	return m.Unlock
}

// LockMany acquires every key at once. Shards are taken in ascending order and each
// shard at most once, so concurrent LockMany calls over overlapping keys cannot deadlock.
func (l *Locker) LockMany(keys ...string) func() {
	idx := make([]uint32, 0, len(keys))
	for _, k := range keys {
		idx = append(idx, shardIndex(k))
	}
	slices.Sort(idx)
	idx = slices.Compact(idx)

	for _, i := range idx {
		l.shards[i].Lock()
	}

	return func() {
		for i := len(idx) - 1; i >= 0; i-- {
			l.shards[idx[i]].Unlock()
		}
	}
}

func shardIndex(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % shardCount
}
