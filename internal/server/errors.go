// Package server provides the HTTP API for the talent query parser.
package server

import (
	"fmt"
	"net/http"

	"github.com/jonathan/talent-query/internal/tables"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrCurationUnavailable indicates the curation store is not configured
type ErrCurationUnavailable struct{}

func (e *ErrCurationUnavailable) Error() string {
	return "curation store is not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrCurationUnavailable:
		return http.StatusServiceUnavailable
	case *tables.ConfigError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
