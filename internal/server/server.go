package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/talent-query/internal/config"
	"github.com/jonathan/talent-query/internal/curation"
	"github.com/jonathan/talent-query/internal/observability"
	"github.com/jonathan/talent-query/internal/parser"
	"github.com/jonathan/talent-query/internal/server/middleware"
	"github.com/jonathan/talent-query/internal/server/ratelimit"
	"github.com/jonathan/talent-query/internal/tables"
	"github.com/jonathan/talent-query/internal/tagger"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       *tables.Store
	parser      *parser.Parser
	curation    *curation.Store    // nil when no database is configured
	recorder    *curation.Recorder // nil when no database is configured
	llm         *tagger.Gemini     // nil when no API key is configured
	metrics     *observability.Metrics
	registry    *prometheus.Registry
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService // nil when auth is disabled
	watchTables bool
}

// Config holds server configuration
type Config struct {
	Port         int
	TablesDir    string
	WatchTables  bool
	RateLimit    int // Requests per second per client; 0 disables limiting
	DatabaseURL  string
	GeminiAPIKey string
	GeminiModel  string
	JWT          *config.JWTConfig // nil leaves admin endpoints unauthenticated
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	store, err := tables.NewStore(cfg.TablesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load tables: %w", err)
	}

	s := &Server{
		store:       store,
		registry:    prometheus.NewRegistry(),
		watchTables: cfg.WatchTables,
	}
	s.metrics = observability.NewMetrics(s.registry)

	// Optional curation store for unrecognized terms
	if cfg.DatabaseURL != "" {
		cur, err := curation.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := cur.EnsureSchema(context.Background()); err != nil {
			cur.Close()
			return nil, fmt.Errorf("failed to prepare curation schema: %w", err)
		}
		s.curation = cur
		s.recorder = curation.NewRecorder(cur, 0)
	}

	// Optional LLM tagger; the parser falls back to keyword tagging without it
	if cfg.GeminiAPIKey != "" {
		llm, err := tagger.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM tagger: %w", err)
		}
		s.llm = llm
	}

	parserCfg := parser.Config{
		Store:   store,
		Metrics: s.metrics,
	}
	if s.llm != nil {
		parserCfg.LLM = s.llm
	}
	if s.recorder != nil {
		parserCfg.Curator = s.recorder
	}
	s.parser = parser.New(parserCfg)

	s.rateLimiter = ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:         cfg.RateLimit > 0,
		RequestsPerSec:  cfg.RateLimit,
		CleanupInterval: 5 * time.Minute,
	})

	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
	}

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/parse", s.handleParse)
	mux.HandleFunc("POST /api/parse/batch", s.handleParseBatch)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/tables/stats", s.handleTableStats)
	mux.Handle("POST /api/tables/reload", s.protected(http.HandlerFunc(s.handleTableReload)))
	mux.Handle("GET /api/curation/terms", s.protected(http.HandlerFunc(s.handleCurationTerms)))
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(middleware.RequestID(mux)))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// protected wraps h with JWT validation when auth is configured.
func (s *Server) protected(h http.Handler) http.Handler {
	if s.jwtService == nil {
		return h
	}
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h)
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	if s.watchTables && s.store.Dir() != "" {
		go func() {
			if err := s.store.Watch(watchCtx, tables.DefaultDebounce, s.metrics.ObserveReload); err != nil {
				log.Printf("Table watcher stopped: %v", err)
			}
		}()
	}

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	cancelWatch()
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.recorder != nil {
		s.recorder.Close()
	}
	if s.curation != nil {
		s.curation.Close()
	}
	if s.llm != nil {
		if err := s.llm.Close(); err != nil {
			log.Printf("Error closing LLM client: %v", err)
		}
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
// In the future, this could use X-Forwarded-For header (only from trusted proxies).
func (s *Server) extractClientID(r *http.Request) string {
	// Get IP from RemoteAddr (format: "IP:port")
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
