package symbols

import (
	"context"
	"flag"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/grafana/dskit/flagext"
	"github.com/grafana/dskit/multierror"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

// Config configures a Supplier.
type Config struct {
	SearchRoots  flagext.StringSliceCSV   `yaml:"search_roots"`
	SymbolServer SymbolServerClientConfig `yaml:"symbol_server"`
	Converter    DumpSymsConfig           `yaml:"converter"`
}

func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	f.Var(&cfg.SearchRoots, "symbols.search-roots", "Comma-separated list of local directories searched for symbol files, in order. Fetched symbols are cached into the root being searched.")
	cfg.SymbolServer.RegisterFlagsWithPrefix("symbols.", f)
	cfg.Converter.RegisterFlagsWithPrefix("symbols.", f)
}

func (cfg *Config) Validate() error {
	errs := multierror.New()
	errs.Add(cfg.SymbolServer.Validate())
	errs.Add(cfg.Converter.Validate())
	return errs.Err()
}

// Supplier resolves Breakpad symbol files for crash-report modules.
// Lookups are cache-first: each search root is probed for an existing
// symbol file before the native debug file is fetched from the symbol
// server and converted in place.
type Supplier struct {
	logger    log.Logger
	cfg       Config
	store     Store
	client    SymbolServerClient
	converter Converter
	metrics   *metrics
	registry  *bufferRegistry

	// collapses concurrent cache fills for the same symbol file
	fill singleflight.Group
}

// New wires a Supplier from configuration: a disk store over the OS
// filesystem, an HTTP symbol server client and the external converter.
func New(logger log.Logger, cfg Config, reg prometheus.Registerer) (*Supplier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := NewSymbolServerClient(logger, cfg.SymbolServer, reg)
	if err != nil {
		return nil, err
	}

	converter, err := NewDumpSymsConverter(logger, cfg.Converter, reg)
	if err != nil {
		return nil, err
	}

	m := newMetrics(reg)
	return &Supplier{
		logger:    logger,
		cfg:       cfg,
		store:     NewDiskStore(nil),
		client:    client,
		converter: converter,
		metrics:   m,
		registry:  newBufferRegistry(logger, m),
	}, nil
}

// Lookup returns the path of the symbol file for m. Roots are tried in
// order and the first root with a symbol file wins; a root without one
// gets a single fetch-and-convert attempt before the lookup moves on.
// Pipeline failures are absorbed after logging, so a broken fetch or
// conversion degrades into ResultNotFound. A canceled or expired
// context interrupts the lookup.
func (s *Supplier) Lookup(ctx context.Context, m Module) (string, Result) {
	start := time.Now()
	result := ResultNotFound
	defer func() {
		s.metrics.lookupDuration.WithLabelValues(result.String()).Observe(time.Since(start).Seconds())
	}()

	if m.CodeFile == "" {
		level.Warn(s.logger).Log("msg", "refusing lookup for module without a code file")
		return "", result
	}

	for _, root := range s.cfg.SearchRoots {
		paths, err := derivePaths(root, m)
		if err != nil {
			level.Warn(s.logger).Log("msg", "skipping search root", "root", root, "code_file", m.CodeFile, "err", err)
			continue
		}

		if s.store.Exists(paths.symbolFile) {
			s.metrics.storeLookups.WithLabelValues("hit").Inc()
			result = ResultFound
			return paths.symbolFile, result
		}
		s.metrics.storeLookups.WithLabelValues("miss").Inc()

		s.fillCache(ctx, paths)

		if ctx.Err() != nil {
			result = ResultInterrupt
			return "", result
		}

		if s.store.Exists(paths.symbolFile) {
			result = ResultFound
			return paths.symbolFile, result
		}
	}

	return "", result
}

// LookupData resolves m and returns the symbol file contents along
// with its path. A read failure after the file was found is a local
// resource fault and reported as ResultInterrupt.
func (s *Supplier) LookupData(ctx context.Context, m Module) (string, []byte, Result) {
	path, result := s.Lookup(ctx, m)
	if result != ResultFound {
		return path, nil, result
	}

	data, err := s.store.ReadFile(path)
	if err != nil {
		level.Error(s.logger).Log("msg", "failed to read symbol file", "path", path, "err", err)
		return path, nil, ResultInterrupt
	}
	return path, data, ResultFound
}

// LookupBuffer resolves m and hands back a NUL-terminated copy of the
// symbol data, registered under the module's code file. The buffer
// stays live until released through the handle or with ReleaseBuffer.
// Looking up the same module again releases the earlier buffer.
func (s *Supplier) LookupBuffer(ctx context.Context, m Module) (string, *OwnedBuffer, Result) {
	path, data, result := s.LookupData(ctx, m)
	if result != ResultFound {
		return path, nil, result
	}
	return path, s.registry.register(m.CodeFile, data), ResultFound
}

// ReleaseBuffer releases the buffer registered for m's code file.
// Releasing a module with nothing registered is a no-op.
func (s *Supplier) ReleaseBuffer(m Module) {
	if !s.registry.releaseModule(m.CodeFile) {
		level.Debug(s.logger).Log("msg", "no symbol data buffer to release", "code_file", m.CodeFile)
	}
}

// fillCache downloads the native debug file for paths and converts it
// into the symbol file, deduplicating concurrent fills of the same
// path. Failures are logged and absorbed: a miss stays a miss.
func (s *Supplier) fillCache(ctx context.Context, paths modulePaths) {
	_, _, _ = s.fill.Do(paths.symbolFile, func() (interface{}, error) {
		if err := s.fetchAndConvert(ctx, paths); err != nil {
			logLine := level.Warn(s.logger)
			if isSymbolNotFoundError(err) {
				logLine = level.Debug(s.logger)
			}
			logLine.Log("msg", "no symbol file produced", "path", paths.symbolFile, "err", err)
		}
		return nil, nil
	})
}

func (s *Supplier) fetchAndConvert(ctx context.Context, paths modulePaths) error {
	// nothing is written on a failed fetch
	data, err := s.client.FetchDebugFile(ctx, paths.urlSuffix)
	if err != nil {
		return err
	}

	if err := s.store.EnsureDir(paths.nativeFile); err != nil {
		return err
	}
	if err := s.store.WriteFile(paths.nativeFile, data); err != nil {
		return err
	}

	// a failed conversion leaves the native file in place
	if err := s.converter.Convert(ctx, paths.nativeFile, paths.symbolFile); err != nil {
		return err
	}

	// the native file is transient scratch once the symbol file exists
	if err := s.store.Remove(paths.nativeFile); err != nil {
		level.Warn(s.logger).Log("msg", "failed to remove native debug file", "path", paths.nativeFile, "err", err)
	}
	return nil
}
