package kernel_test

import (
	"testing"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhone(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "plain ten digits", raw: "9876543210", want: "+919876543210"},
		{name: "formatted", raw: "98765-43210", want: "+919876543210"},
		{name: "with country code", raw: "+91 98765 43210", want: "+919876543210"},
		{name: "country code without plus", raw: "919876543210", want: "+919876543210"},
		{name: "empty", raw: "  ", wantErr: errs.ErrValueIsRequired},
		{name: "starts with 5", raw: "5876543210", wantErr: errs.ErrValueIsInvalid},
		{name: "too short", raw: "98765", wantErr: errs.ErrValueIsInvalid},
		{name: "letters only", raw: "abc", wantErr: errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := kernel.NewPhone(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.String())
			require.NoError(t, p.Validate())
		})
	}
}

func TestPhone_IsEqualAfterNormalization(t *testing.T) {
	assert.True(t, kernel.MustPhone("9876543210").IsEqual(kernel.MustPhone("+91-98765-43210")))
}
