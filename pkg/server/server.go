package server

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grafana/symcache/pkg/symbols"
)

// Config configures the symbol proxy server.
type Config struct {
	ListenAddress           string        `yaml:"listen_address"`
	GracefulShutdownTimeout time.Duration `yaml:"graceful_shutdown_timeout" category:"advanced"`
}

func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	f.StringVar(&cfg.ListenAddress, "server.listen-address", ":4070", "Address the symbol proxy listens on.")
	f.DurationVar(&cfg.GracefulShutdownTimeout, "server.graceful-shutdown-timeout", 30*time.Second, "How long to wait for in-flight requests when shutting down.")
}

// SymbolSource resolves symbol files for modules. *symbols.Supplier
// implements it.
type SymbolSource interface {
	LookupData(ctx context.Context, m symbols.Module) (string, []byte, symbols.Result)
}

// Server is a caching symbol proxy: it serves Breakpad symbol files
// over the same path layout the local cache uses, filling the cache
// from the upstream symbol server on demand.
type Server struct {
	cfg      Config
	logger   log.Logger
	source   SymbolSource
	handler  http.Handler
	registry *prometheus.Registry
}

func New(logger log.Logger, cfg Config, source SymbolSource, registry *prometheus.Registry) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		source:   source,
		registry: registry,
	}

	r := mux.NewRouter()
	r.HandleFunc("/symbols/{debugFile}/{identifier}/{symbolFile}", s.serveSymbolFile).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.ready).Methods(http.MethodGet)
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	s.handler = r

	return s
}

// Handler exposes the route table, mostly for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddress,
		Handler:           s.handler,
		ReadHeaderTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	level.Info(s.logger).Log("msg", "symbol proxy listening", "address", s.cfg.ListenAddress)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// serveSymbolFile answers GET /symbols/<debugFile>/<identifier>/<stem>.sym
// with the symbol file contents, resolving through the supplier so a
// cache miss triggers the fetch-and-convert pipeline.
func (s *Server) serveSymbolFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	module := symbols.Module{
		CodeFile:        vars["debugFile"],
		DebugFile:       vars["debugFile"],
		DebugIdentifier: vars["identifier"],
	}

	path, data, result := s.source.LookupData(r.Context(), module)
	switch result {
	case symbols.ResultFound:
	case symbols.ResultInterrupt:
		http.Error(w, "symbol lookup interrupted", http.StatusInternalServerError)
		return
	default:
		http.NotFound(w, r)
		return
	}

	// the requested file name must match the canonical one the module
	// derives to
	if filepath.Base(path) != vars["symbolFile"] {
		level.Debug(s.logger).Log("msg", "requested symbol file name does not match canonical name", "requested", vars["symbolFile"], "canonical", filepath.Base(path))
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) ready(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
