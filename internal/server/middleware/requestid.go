package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// requestIDKey is the context key for the per-request identifier.
const requestIDKey ContextKey = "requestID"

// RequestIDHeader is the header carrying the request identifier on both
// requests and responses.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns each request a UUID unless the client supplied one, echoes
// it on the response, and stores it in the request context for log correlation.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request identifier from the request context.
// Returns an empty string if the RequestID middleware did not run.
func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}
