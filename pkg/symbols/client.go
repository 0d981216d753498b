package symbols

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/grafana/dskit/multierror"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultSymbolServerURL is where Microsoft publishes native debug
	// files for Windows system modules.
	DefaultSymbolServerURL = "https://msdl.microsoft.com/download/symbols"

	// DefaultSymbolServerUserAgent is sent with every fetch. Public
	// symbol servers vary their responses by client signature; this is
	// the signature of the stock symsrv client and changing it can
	// turn working fetches into 404s.
	DefaultSymbolServerUserAgent = "Microsoft-Symbol-Server/6.2.9200.16384"
)

// SymbolServerClient fetches native debug files from a symbol server.
// The suffix is the /-separated path below the server root, e.g.
// /app.pdb/ABC123/app.pdb.
type SymbolServerClient interface {
	FetchDebugFile(ctx context.Context, suffix string) ([]byte, error)
}

// SymbolServerClientConfig holds configuration for the symbol server
// client.
type SymbolServerClientConfig struct {
	URL               string        `yaml:"url"`
	UserAgent         string        `yaml:"user_agent"`
	Timeout           time.Duration `yaml:"timeout"`
	NotFoundCacheSize int           `yaml:"not_found_cache_size" category:"advanced"`

	// HTTPClient overrides the default HTTP client when set. Used in
	// tests.
	HTTPClient *http.Client `yaml:"-"`
}

func (cfg *SymbolServerClientConfig) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.URL, prefix+"symbol-server.url", DefaultSymbolServerURL, "URL of the upstream symbol server native debug files are fetched from.")
	f.StringVar(&cfg.UserAgent, prefix+"symbol-server.user-agent", DefaultSymbolServerUserAgent, "User-Agent header sent to the symbol server.")
	f.DurationVar(&cfg.Timeout, prefix+"symbol-server.timeout", 2*time.Minute, "Maximum duration of a single fetch from the symbol server.")
	f.IntVar(&cfg.NotFoundCacheSize, prefix+"symbol-server.not-found-cache-size", 4096, "Number of known-absent files to remember so they are not fetched again.")
}

func (cfg *SymbolServerClientConfig) Validate() error {
	errs := multierror.New()
	if cfg.URL == "" {
		errs.Add(errors.New("symbol server URL is required"))
	}
	if cfg.Timeout <= 0 {
		errs.Add(errors.New("symbol server timeout must be positive"))
	}
	if cfg.NotFoundCacheSize <= 0 {
		errs.Add(errors.New("symbol server not-found cache size must be positive"))
	}
	return errs.Err()
}

// SymbolServerHTTPClient implements the SymbolServerClient interface
// over HTTP.
type SymbolServerHTTPClient struct {
	cfg     SymbolServerClientConfig
	client  *http.Client
	metrics *metrics
	logger  log.Logger

	// Remembers files the server answered 404 for, so repeated lookups
	// of modules with no published symbols stay local.
	notFoundCache *lru.Cache[string, bool]
}

// NewSymbolServerClient creates a client for fetching native debug
// files from a symbol server.
func NewSymbolServerClient(logger log.Logger, cfg SymbolServerClientConfig, reg prometheus.Registerer) (*SymbolServerHTTPClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		transport := &http.Transport{
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		}

		httpClient = &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		}
	}

	notFoundCache, err := lru.New[string, bool](cfg.NotFoundCacheSize)
	if err != nil {
		return nil, err
	}

	return &SymbolServerHTTPClient{
		cfg:           cfg,
		client:        httpClient,
		metrics:       newMetrics(reg),
		logger:        logger,
		notFoundCache: notFoundCache,
	}, nil
}

// FetchDebugFile performs a single GET of the file at suffix. There
// are no retries: a failed fetch is reported to the caller, which
// treats it as the file being unavailable. A 200 response with an
// empty body is a legitimate zero-byte payload.
func (c *SymbolServerHTTPClient) FetchDebugFile(ctx context.Context, suffix string) ([]byte, error) {
	start := time.Now()
	status := statusSuccess
	defer func() {
		c.metrics.serverRequestDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}()

	if hit, _ := c.notFoundCache.Get(suffix); hit {
		c.metrics.notFoundCacheHits.Inc()
		status = statusErrorNotFound
		return nil, symbolNotFoundError{suffix: suffix}
	}

	data, err := c.doRequest(ctx, suffix)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			status = statusErrorCanceled
		case errors.Is(err, context.DeadlineExceeded):
			status = statusErrorTimeout
		case isSymbolNotFoundError(err):
			status = statusErrorNotFound
		default:
			if statusCode, ok := isHTTPStatusError(err); ok {
				status = categorizeHTTPStatusCode(statusCode)
			} else {
				status = statusErrorOther
			}
		}
		return nil, err
	}

	c.metrics.serverDownloadSize.Observe(float64(len(data)))
	level.Debug(c.logger).Log("msg", "fetched native debug file", "suffix", suffix, "size", humanize.Bytes(uint64(len(data))))
	return data, nil
}

// doRequest performs one HTTP request and returns the response body.
func (c *SymbolServerHTTPClient) doRequest(ctx context.Context, suffix string) ([]byte, error) {
	url := c.cfg.URL + suffix

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		c.notFoundCache.Add(suffix, true)
		return nil, symbolNotFoundError{suffix: suffix}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httpStatusError{
			statusCode: resp.StatusCode,
			status:     http.StatusText(resp.StatusCode),
		}
	}

	return data, nil
}

// categorizeHTTPStatusCode maps HTTP status codes to metric status
// strings.
func categorizeHTTPStatusCode(statusCode int) string {
	switch {
	case statusCode == http.StatusNotFound:
		return statusErrorNotFound
	case statusCode >= 400 && statusCode < 500:
		return statusErrorClientError
	case statusCode >= 500:
		return statusErrorServerError
	default:
		return statusErrorOther
	}
}
