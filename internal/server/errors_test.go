package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/talent-query/internal/tables"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "query", Message: "invalid format"}
	assert.Equal(t, "validation error: query - invalid format", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestErrCurationUnavailable(t *testing.T) {
	err := &ErrCurationUnavailable{}
	assert.Equal(t, "curation store is not configured", err.Error())
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "ErrValidation",
			err:      &ErrValidation{Field: "queries", Message: "too many"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "ErrCurationUnavailable",
			err:      &ErrCurationUnavailable{},
			expected: http.StatusServiceUnavailable,
		},
		{
			name:     "tables ConfigError",
			err:      &tables.ConfigError{File: "locations.json", Message: "invalid"},
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "Unknown error",
			err:      assert.AnError,
			expected: http.StatusInternalServerError,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
