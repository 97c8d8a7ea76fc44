package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-query/internal/config"
	"github.com/jonathan/talent-query/internal/server/middleware"
	"github.com/jonathan/talent-query/internal/types"
)

// newTestServer builds a server with embedded tables and no external
// collaborators (no database, no LLM).
func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHandleParse(t *testing.T) {
	s := newTestServer(t, Config{})

	w := postJSON(t, s.httpServer.Handler, "/api/parse", parseRequest{
		Query: "Find Python developers with 5 years experience and sql knowledge, located in Bangalore",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var env types.ParseEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Contains(t, env.Parsed.Skills, "Python")
	assert.Contains(t, env.Parsed.Skills, "SQL")
	assert.Equal(t, []string{"Bangalore"}, env.Parsed.Locations)
	require.NotNil(t, env.Parsed.MinYearsExperience)
	assert.Equal(t, 5.0, *env.Parsed.MinYearsExperience)
}

func TestHandleParse_EmptyQuery(t *testing.T) {
	s := newTestServer(t, Config{})

	w := postJSON(t, s.httpServer.Handler, "/api/parse", parseRequest{Query: ""})
	require.Equal(t, http.StatusOK, w.Code)

	var env types.ParseEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Empty(t, env.Parsed.Skills)
	assert.NotNil(t, env.Parsed.Skills, "empty lists must encode as [], not null")
	assert.Zero(t, env.SkillsFound)
}

func TestHandleParse_InvalidJSON(t *testing.T) {
	s := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/parse", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation error")
}

func TestHandleParseBatch(t *testing.T) {
	s := newTestServer(t, Config{})

	queries := []string{
		"Python developer in Bangalore",
		"",
		"Need 3 years of Java",
	}
	w := postJSON(t, s.httpServer.Handler, "/api/parse/batch", batchRequest{Queries: queries})
	require.Equal(t, http.StatusOK, w.Code)

	var resp batchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 3)

	// Results keep input order
	assert.Equal(t, queries[0], resp.Results[0].OriginalQuery)
	assert.Contains(t, resp.Results[0].Parsed.Skills, "Python")
	assert.Empty(t, resp.Results[1].Parsed.Skills)
	assert.Contains(t, resp.Results[2].Parsed.Skills, "Java")
}

func TestHandleParseBatch_Validation(t *testing.T) {
	s := newTestServer(t, Config{})

	w := postJSON(t, s.httpServer.Handler, "/api/parse/batch", batchRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	tooMany := make([]string, maxBatchSize+1)
	for i := range tooMany {
		tooMany[i] = "python"
	}
	w = postJSON(t, s.httpServer.Handler, "/api/parse/batch", batchRequest{Queries: tooMany})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "too many queries")
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}

func TestHandleTableStats(t *testing.T) {
	s := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/tables/stats", nil)
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Greater(t, stats["technologies"], 0)
	assert.Greater(t, stats["locations"], 0)
}

func TestHandleTableReload_NoAuthConfigured(t *testing.T) {
	s := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/tables/reload", nil)
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reloaded")
}

func TestHandleTableReload_RequiresToken(t *testing.T) {
	jwtCfg := &config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		ExpirationHours: 1,
	}
	s := newTestServer(t, Config{JWT: jwtCfg})

	// No token
	req := httptest.NewRequest(http.MethodPost, "/api/tables/reload", nil)
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token
	token, err := s.jwtService.GenerateToken(uuid.New())
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/api/tables/reload", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleCurationTerms_Unavailable(t *testing.T) {
	s := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/curation/terms", nil)
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "curation store is not configured")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})

	// One parse so counters exist
	postJSON(t, s.httpServer.Handler, "/api/parse", parseRequest{Query: "python"})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "talentquery_parses_total")
}

func TestRateLimitExceeded(t *testing.T) {
	s := newTestServer(t, Config{RateLimit: 1})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Burst of one, so the immediate second request is rejected
	w = httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestResponseCarriesRequestID(t *testing.T) {
	s := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)

	id := w.Header().Get(middleware.RequestIDHeader)
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodOptions, "/api/parse", nil)
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
