package sapi_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/soundwave-io/sapi-client/pkg/sapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := &sapi.TransportError{Err: cause}

	assert.Contains(t, err.Error(), "connection refused")
	require.ErrorIs(t, err, cause)
	assert.True(t, sapi.IsTransport(err))
	assert.True(t, sapi.IsTransport(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, sapi.IsTransport(cause))
}

func TestDecodeError(t *testing.T) {
	t.Parallel()

	err := &sapi.DecodeError{Err: sapi.ErrEmptyResponseBody}

	require.ErrorIs(t, err, sapi.ErrEmptyResponseBody)
	assert.Contains(t, err.Error(), "response body is empty")
}

func TestAPIError(t *testing.T) {
	t.Parallel()

	err := &sapi.APIError{Status: 404, Code: "not_found", Message: "track not found"}
	assert.Equal(t, "track not found (status: 404)", err.Error())

	bare := &sapi.APIError{Status: 503}
	assert.Equal(t, "API error (status: 503)", bare.Error())
}

func TestAuthError(t *testing.T) {
	t.Parallel()

	cause := errors.New("refresh endpoint unreachable")
	err := &sapi.AuthError{Status: 401, Err: cause}

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "authorization expired")
}

func TestStatusHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		err          error
		unauthorized bool
		notFound     bool
	}{
		{
			name:         "401 API error",
			err:          &sapi.APIError{Status: 401},
			unauthorized: true,
		},
		{
			name:         "auth error",
			err:          &sapi.AuthError{Status: 401},
			unauthorized: true,
		},
		{
			name:     "404 API error",
			err:      &sapi.APIError{Status: 404},
			notFound: true,
		},
		{
			name: "other status",
			err:  &sapi.APIError{Status: 500},
		},
		{
			name: "unrelated error",
			err:  errors.New("boom"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.unauthorized, sapi.IsUnauthorized(tt.err))
			assert.Equal(t, tt.notFound, sapi.IsNotFound(tt.err))
		})
	}
}
