// Package server exposes the aggregate read endpoint and the theme view
// over HTTP. Consumers always receive a well-formed JSON envelope;
// upstream failures surface as an error field, not a broken response.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/novai/newswire/internal/aggregate"
	"github.com/novai/newswire/internal/config"
	"github.com/novai/newswire/internal/themes"
)

type Server struct {
	cfg     config.ServerConfig
	agg     *aggregate.Service
	themes  *themes.Service
	log     *zap.SugaredLogger
	limiter *rate.Limiter
}

func New(cfg config.ServerConfig, agg *aggregate.Service, th *themes.Service, log *zap.SugaredLogger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 30
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = int(cfg.RateLimit)
			if burst < 1 {
				burst = 1
			}
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return &Server{cfg: cfg, agg: agg, themes: th, log: log, limiter: limiter}
}

// Handler builds the route table wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/feed", s.handleFeed)
	mux.HandleFunc("/api/themes", s.handleThemes)
	mux.HandleFunc("/healthz", s.handleHealth)
	return s.withLogging(s.withRateLimit(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("http server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type feedResponse struct {
	aggregate.Result
	Error string `json:"error,omitempty"`
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	category := r.URL.Query().Get("category")
	limit := s.cfg.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	res, err := s.agg.Get(r.Context(), category, limit)
	resp := feedResponse{Result: res}
	if err != nil {
		// Zero data and a failed refresh: still a 200 with an empty
		// list so clients can render a "no data yet" state.
		resp.Error = err.Error()
		s.log.Warnw("feed request served empty", "error", err)
	}
	writeJSON(w, http.StatusOK, resp)
}

type themesResponse struct {
	themes.Result
	Error string `json:"error,omitempty"`
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	res, err := s.themes.Get(r.Context())
	resp := themesResponse{Result: res}
	if err != nil {
		resp.Error = err.Error()
		s.log.Warnw("themes request served empty", "error", err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
