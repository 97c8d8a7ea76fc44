package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talent-query/internal/types"
)

const (
	maxBatchSize     = 50
	batchConcurrency = 8
)

type parseRequest struct {
	Query string `json:"query"`
}

type batchRequest struct {
	Queries []string `json:"queries"`
}

type batchResponse struct {
	Results []*types.ParseEnvelope `json:"results"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleParse parses one query into a requirement envelope. An empty query is
// not an error; it yields an empty envelope.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		verr := &ErrValidation{Field: "body", Message: "invalid JSON"}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}

	env := s.parser.Parse(r.Context(), req.Query)
	s.jsonResponse(w, http.StatusOK, env)
}

// handleParseBatch parses up to maxBatchSize queries concurrently. Results
// keep the order of the input queries.
func (s *Server) handleParseBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		verr := &ErrValidation{Field: "body", Message: "invalid JSON"}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}
	if len(req.Queries) == 0 {
		verr := &ErrValidation{Field: "queries", Message: "must not be empty"}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}
	if len(req.Queries) > maxBatchSize {
		verr := &ErrValidation{Field: "queries", Message: "too many queries (max " + strconv.Itoa(maxBatchSize) + ")"}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}

	results := make([]*types.ParseEnvelope, len(req.Queries))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(batchConcurrency)
	for i, q := range req.Queries {
		g.Go(func() error {
			results[i] = s.parser.Parse(ctx, q)
			return nil
		})
	}
	// Parse never returns an error; the group exists for concurrency control.
	_ = g.Wait()

	s.jsonResponse(w, http.StatusOK, batchResponse{Results: results})
}

// handleTableStats reports counts for the active table snapshot.
func (s *Server) handleTableStats(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.store.Get().Stats())
}

// handleTableReload swaps in a fresh table snapshot from disk. On failure the
// previous snapshot stays active and the offending file is reported.
func (s *Server) handleTableReload(w http.ResponseWriter, _ *http.Request) {
	tbl, err := s.store.Reload()
	s.metrics.ObserveReload(err)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status": "reloaded",
		"stats":  tbl.Stats(),
	})
}

// handleCurationTerms lists unrecognized terms ordered by hit count.
func (s *Server) handleCurationTerms(w http.ResponseWriter, r *http.Request) {
	if s.curation == nil {
		err := &ErrCurationUnavailable{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			verr := &ErrValidation{Field: "limit", Message: "must be a positive integer"}
			s.errorResponse(w, HTTPStatus(verr), verr.Error())
			return
		}
		limit = n
	}

	terms, err := s.curation.ListTerms(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "failed to list curation terms")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"terms": terms})
}
