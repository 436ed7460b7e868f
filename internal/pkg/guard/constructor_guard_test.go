package guard_test

import (
	"errors"
	"testing"

	"canteen/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errQueryIsNotConstructed = errors.New("GetMenuQuery must be created via NewGetMenuQuery constructor")

type menuQuery struct {
	facility string
	guard    guard.ConstructorGuard
}

func newMenuQuery(facility string) menuQuery {
	return menuQuery{facility: facility, guard: guard.NewConstructorGuard()}
}

func (q menuQuery) Validate() error {
	return q.guard.Validate(errQueryIsNotConstructed)
}

func TestConstructorGuard(t *testing.T) {
	tests := []struct {
		name    string
		guard   guard.ConstructorGuard
		reason  error
		wantErr error
	}{
		{name: "constructed", guard: guard.NewConstructorGuard(), reason: errQueryIsNotConstructed},
		{name: "constructed without reason", guard: guard.NewConstructorGuard()},
		{name: "zero value", reason: errQueryIsNotConstructed, wantErr: errQueryIsNotConstructed},
		{name: "zero value without reason", wantErr: guard.ErrDefaultConstructorGuard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.guard.Validate(tt.reason)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConstructorGuard_EmbeddedInQuery(t *testing.T) {
	require.NoError(t, newMenuQuery("north-block").Validate())

	var zero menuQuery
	require.ErrorIs(t, zero.Validate(), errQueryIsNotConstructed)
}

func TestConstructorGuard_SurvivesCopies(t *testing.T) {
	q := newMenuQuery("north-block")
	copied := q
	copied.facility = "south-block"

	require.NoError(t, copied.Validate())
	assert.Equal(t, "north-block", q.facility)
}

func TestDefaultConstructorGuardMessage(t *testing.T) {
	assert.Equal(t, "object must be created via its constructor", guard.ErrDefaultConstructorGuard.Error())
}
