package errs_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"canteen/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	storage := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{
			name:     "object not found",
			err:      errs.NewObjectNotFoundError("order", "7d1c"),
			sentinel: errs.ErrObjectNotFound,
			message:  "object not found: 7d1c",
		},
		{
			name:     "object not found with cause",
			err:      errs.NewObjectNotFoundErrorWithCause("product", "9a2e", storage),
			sentinel: errs.ErrObjectNotFound,
			message:  "object not found: param is: product, ID is: 9a2e (cause: connection reset)",
		},
		{
			name:     "object exists",
			err:      errs.NewObjectExistsError("order", "7d1c"),
			sentinel: errs.ErrObjectExists,
			message:  "object already exists: order 7d1c",
		},
		{
			name:     "object exists with cause",
			err:      errs.NewObjectExistsErrorWithCause("product", "9a2e", storage),
			sentinel: errs.ErrObjectExists,
			message:  "object already exists: product 9a2e (cause: connection reset)",
		},
		{
			name:     "value is invalid",
			err:      errs.NewValueIsInvalidError("phone"),
			sentinel: errs.ErrValueIsInvalid,
			message:  "value is invalid: phone",
		},
		{
			name:     "value is invalid with cause",
			err:      errs.NewValueIsInvalidErrorWithCause("trigger", errors.New(`"bake" is not a valid trigger`)),
			sentinel: errs.ErrValueIsInvalid,
			message:  `value is invalid: trigger (cause: "bake" is not a valid trigger)`,
		},
		{
			name:     "value is out of range",
			err:      errs.NewValueIsOutOfRangeError("estimated ready minutes", 300, 0, 240),
			sentinel: errs.ErrValueIsOutOfRange,
			message:  "value is invalid: 300 is estimated ready minutes, min value is 0, max value is 240",
		},
		{
			name:     "value is out of range with cause",
			err:      errs.NewValueIsOutOfRangeErrorWithCause("stock count", -1, 0, 10, storage),
			sentinel: errs.ErrValueIsOutOfRange,
			message:  "value is invalid: -1 is stock count, min value is 0, max value is 10 (cause: connection reset)",
		},
		{
			name:     "value is required",
			err:      errs.NewValueIsRequiredError("session"),
			sentinel: errs.ErrValueIsRequired,
			message:  "value is required: session",
		},
		{
			name:     "value is required with cause",
			err:      errs.NewValueIsRequiredErrorWithCause("facility", errors.New("blank")),
			sentinel: errs.ErrValueIsRequired,
			message:  "value is required: facility (cause: blank)",
		},
		{
			name:     "version is invalid",
			err:      errs.NewVersionIsInvalidError("product"),
			sentinel: errs.ErrVersionIsInvalid,
			message:  "version is invalid: product",
		},
		{
			name:     "version is invalid with cause",
			err:      errs.NewVersionIsInvalidErrorWithCause("product", errors.New("stored version 4, write based on 3")),
			sentinel: errs.ErrVersionIsInvalid,
			message:  "version is invalid: product (cause: stored version 4, write based on 3)",
		},
		{
			name:     "permission denied",
			err:      errs.NewPermissionDeniedError("order belongs to another facility"),
			sentinel: errs.ErrPermissionDenied,
			message:  "permission denied: order belongs to another facility",
		},
		{
			name:     "rate limited",
			err:      errs.NewRateLimitedError("checkout", 30*time.Second),
			sentinel: errs.ErrRateLimited,
			message:  "rate limit exceeded: checkout, retry after 30s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			require.ErrorIs(t, tt.err, tt.sentinel)
			require.ErrorIs(t, fmt.Errorf("place order: %w", tt.err), tt.sentinel)
		})
	}
}

func TestErrorsKeepTheirDetails(t *testing.T) {
	wrapped := fmt.Errorf("staff transition: %w", errs.NewValueIsOutOfRangeError("eta", 0, 1, 240))

	var outOfRange *errs.ValueIsOutOfRangeError
	require.ErrorAs(t, wrapped, &outOfRange)
	assert.Equal(t, "eta", outOfRange.ParamName)
	assert.Equal(t, 240, outOfRange.Max)

	var limited *errs.RateLimitedError
	require.ErrorAs(t, fmt.Errorf("admit: %w", errs.NewRateLimitedError("status_update", time.Minute)), &limited)
	assert.Equal(t, "status_update", limited.Operation)
	assert.Equal(t, time.Minute, limited.RetryAfter)
}

func TestErrorsDoNotMatchOtherSentinels(t *testing.T) {
	err := errs.NewObjectNotFoundError("order", "7d1c")

	require.NotErrorIs(t, err, errs.ErrValueIsInvalid)
	require.NotErrorIs(t, err, errs.ErrPermissionDenied)
	require.NotErrorIs(t, errs.NewValueIsOutOfRangeError("x", 1, 2, 3), errs.ErrValueIsInvalid)
}

func TestMessagesStayOnOneLine(t *testing.T) {
	err := errs.NewValueIsOutOfRangeError("customer name", "Asha\r\nDrop table", 1, 80)

	assert.NotContains(t, err.Error(), "\n")
	assert.NotContains(t, err.Error(), "\r")
	assert.Contains(t, err.Error(), "Asha Drop table")
}

func TestSentinelMessages(t *testing.T) {
	assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
	assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
	assert.Equal(t, "permission denied", errs.ErrPermissionDenied.Error())
	assert.Equal(t, "rate limit exceeded", errs.ErrRateLimited.Error())
}
