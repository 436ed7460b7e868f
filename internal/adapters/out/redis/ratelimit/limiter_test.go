package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var checkout = map[string]Limit{"checkout": {Max: 2, Window: time.Minute}}

func TestAllow_FirstAttemptStartsWindow(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := New(db, Limit{Max: 10, Window: time.Second}, checkout)

	key := "canteen:ratelimit:checkout:+919876543210"
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectPExpire(key, time.Minute).SetVal(true)

	ok, retryAfter, err := limiter.Allow(context.Background(), "+919876543210", "checkout")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, retryAfter)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAllow_WithinLimitDoesNotTouchExpiry(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := New(db, Limit{Max: 10, Window: time.Second}, checkout)

	mock.ExpectIncr("canteen:ratelimit:checkout:a").SetVal(2)

	ok, _, err := limiter.Allow(context.Background(), "a", "checkout")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAllow_OverLimitReportsRetryAfter(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := New(db, Limit{Max: 10, Window: time.Second}, checkout)

	key := "canteen:ratelimit:checkout:a"
	mock.ExpectIncr(key).SetVal(3)
	mock.ExpectPTTL(key).SetVal(42 * time.Second)

	ok, retryAfter, err := limiter.Allow(context.Background(), "a", "checkout")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 42*time.Second, retryAfter)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAllow_RepairsKeyWithoutExpiry(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := New(db, Limit{Max: 10, Window: time.Second}, checkout)

	key := "canteen:ratelimit:checkout:a"
	mock.ExpectIncr(key).SetVal(5)
	mock.ExpectPTTL(key).SetVal(-1)
	mock.ExpectPExpire(key, time.Minute).SetVal(true)

	ok, retryAfter, err := limiter.Allow(context.Background(), "a", "checkout")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retryAfter)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAllow_UnknownOperationUsesFallback(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := New(db, Limit{Max: 1, Window: time.Second}, checkout)

	key := "canteen:ratelimit:status_update:staff-1"
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectPExpire(key, time.Second).SetVal(true)
	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectPTTL(key).SetVal(800 * time.Millisecond)

	ok, _, err := limiter.Allow(context.Background(), "staff-1", "status_update")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, retryAfter, err := limiter.Allow(context.Background(), "staff-1", "status_update")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 800*time.Millisecond, retryAfter)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAllow_RedisErrorIsReturned(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := New(db, Limit{Max: 1, Window: time.Second}, nil)

	mock.ExpectIncr("canteen:ratelimit:checkout:a").SetErr(errors.New("connection refused"))

	ok, _, err := limiter.Allow(context.Background(), "a", "checkout")
	require.ErrorContains(t, err, "connection refused")
	assert.False(t, ok)
}
