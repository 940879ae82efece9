package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomoemon/emil/pkg/config"
	"github.com/tomoemon/emil/pkg/health"
	"github.com/tomoemon/emil/pkg/logging"
	"github.com/tomoemon/emil/pkg/telemetry"
)

// Server is the HTTP driver over pkg/rule, pkg/graph, and
// pkg/automaton.
type Server struct {
	cfg        config.ServerConfig
	ruleCfg    config.RuleConfig
	runtimeCfg config.RuntimeConfig
	http       *http.Server
	health     *health.Checker
	telemetry  *telemetry.Provider
	logger     *logging.Logger

	rules      *ruleRegistry
	automatons *automatonRegistry

	stopEviction chan struct{}
}

// New creates a Server wired with fresh rule/automaton registries,
// health checks, and telemetry.
func New(cfg config.ServerConfig, ruleCfg config.RuleConfig, runtimeCfg config.RuntimeConfig, logger *logging.Logger) (*Server, error) {
	logger = logger.OrNop()

	telemetryProvider, err := telemetry.NewProvider(context.Background(), telemetry.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("create telemetry provider: %w", err)
	}

	healthChecker := health.NewChecker("emil-typing-automaton", "0.1.0")
	healthChecker.RegisterCheck("server", func(ctx context.Context) error {
		return nil
	}, 5*time.Second, true)

	s := &Server{
		cfg:          cfg,
		ruleCfg:      ruleCfg,
		runtimeCfg:   runtimeCfg,
		health:       healthChecker,
		telemetry:    telemetryProvider,
		logger:       logger,
		rules:        newRuleRegistry(),
		automatons:   newAutomatonRegistry(cfg.AutomatonTTL),
		stopEviction: make(chan struct{}),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.http = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.recoveryMiddleware(s.loggingMiddleware(mux)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go s.evictionLoop()
	return s, nil
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/rules", s.handleCreateRulePack)
	mux.HandleFunc("POST /api/v1/rules/{ruleID}/automatons", s.handleBuildAutomaton)
	mux.HandleFunc("POST /api/v1/automatons/{id}/input", s.handleInput)
	mux.HandleFunc("POST /api/v1/automatons/{id}/test", s.handleTest)
	mux.HandleFunc("POST /api/v1/automatons/{id}/reset", s.handleReset)
	mux.HandleFunc("GET /api/v1/automatons/{id}/graphviz", s.handleGraphviz)

	mux.HandleFunc("/health", s.health.HTTPHandler())
	mux.HandleFunc("/health/live", s.health.LivenessHandler())
	mux.HandleFunc("/health/ready", s.health.ReadinessHandler())
	mux.Handle("/metrics", promhttp.Handler())
}

func (s *Server) evictionLoop() {
	interval := s.cfg.AutomatonTTL / 4
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			if n := s.automatons.evictExpired(now); n > 0 {
				s.logger.Debug("evicted expired automatons", "count", n)
			}
		case <-s.stopEviction:
			return
		}
	}
}

// Start blocks serving HTTP until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting server", "address", s.cfg.Address)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server and its telemetry provider.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stopEviction)
	s.logger.Info("shutting down server")
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := s.telemetry.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown telemetry: %w", err)
	}
	return nil
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "path", r.URL.Path, "error", fmt.Sprintf("%v", rec))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
