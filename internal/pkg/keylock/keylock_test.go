package keylock_test

import (
	"sync"
	"testing"
	"time"

	"canteen/internal/pkg/keylock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_LinearizesSameKey(t *testing.T) {
	l := keylock.New()
	counter := 0

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("product-1")
			defer unlock()
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestLocker_LockManyWithDuplicateKeys(t *testing.T) {
	l := keylock.New()

	done := make(chan struct{})
	go func() {
		unlock := l.LockMany("a", "b", "a", "c")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "LockMany deadlocked on duplicate keys")
	}
}

func TestLocker_LockManyOverlappingDoesNotDeadlock(t *testing.T) {
	l := keylock.New()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			keys := []string{"x", "y", "z"}
			if i%2 == 0 {
				keys = []string{"z", "y", "x"}
			}
			unlock := l.LockMany(keys...)
			unlock()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "overlapping LockMany calls deadlocked")
	}
}

func TestLocker_KeyReleasedAfterUnlock(t *testing.T) {
	l := keylock.New()

	unlock := l.Lock("order-1")
	unlock()

	acquired := make(chan struct{})
	go func() {
		u := l.Lock("order-1")
		u()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		require.FailNow(t, "lock was not released")
	}
}
