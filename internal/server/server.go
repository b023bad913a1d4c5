// Package server exposes the copilot over a local HTTP API so a task pane
// add-in or an editor can call it.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/josephgoksu/officekit/internal/history"
	"github.com/josephgoksu/officekit/internal/pipeline"
	"github.com/josephgoksu/officekit/internal/samples"
	"github.com/josephgoksu/officekit/internal/spec"
)

// Copilot runs copilot turns.
type Copilot interface {
	Run(ctx context.Context, s *spec.Spec) (*pipeline.Outcome, error)
	Breakdown(ctx context.Context, s *spec.Spec) (*spec.BreakdownResult, error)
}

// SampleCatalog lists reference samples.
type SampleCatalog interface {
	All(host string) []samples.Sample
	Get(id string) (samples.Sample, bool)
	Relevant(ctx context.Context, q samples.Query) ([]samples.Match, error)
}

// TurnReader reads recorded turns.
type TurnReader interface {
	Get(ctx context.Context, id string) (*history.Turn, error)
	List(ctx context.Context, opts history.ListOptions) ([]history.TurnSummary, error)
}

// Options configures a Server. Samples and History are optional; their
// routes answer 503 when unset.
type Options struct {
	Copilot        Copilot
	Samples        SampleCatalog
	History        TurnReader
	AllowedOrigins []string
	RequestTimeout time.Duration
	Version        string
	Logger         *zap.Logger
}

// Server is the officekit HTTP API.
type Server struct {
	copilot Copilot
	samples SampleCatalog
	history TurnReader
	origins map[string]struct{}
	version string
	timeout time.Duration
	log     *zap.Logger
	router  chi.Router
}

// New builds the server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Copilot == nil {
		return nil, errors.New("server: copilot is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	s := &Server{
		copilot: opts.Copilot,
		samples: opts.Samples,
		history: opts.History,
		origins: make(map[string]struct{}, len(opts.AllowedOrigins)),
		version: opts.Version,
		timeout: timeout,
		log:     log,
	}
	for _, o := range opts.AllowedOrigins {
		s.origins[o] = struct{}{}
	}
	s.router = s.buildRouter()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)
	r.Use(middleware.Timeout(s.timeout))

	r.Route("/api", func(r chi.Router) {
		r.Post("/breakdown", s.handleBreakdown)
		r.Post("/generate", s.handleGenerate)
		r.Get("/samples", s.handleListSamples)
		r.Get("/samples/{id}", s.handleGetSample)
		r.Post("/samples/search", s.handleSearchSamples)
		r.Get("/turns", s.handleListTurns)
		r.Get("/turns/{id}", s.handleGetTurn)
	})

	r.Get("/health", s.handleHealth)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then drains in-flight
// requests for up to 10 seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.log.Info("server stopped")
		return nil
	})
	return g.Wait()
}
