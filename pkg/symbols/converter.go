package symbols

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/grafana/dskit/flagext"
	"github.com/grafana/dskit/multierror"
	"github.com/prometheus/client_golang/prometheus"
)

// Converter turns a native debug file into a Breakpad symbol file at
// symbolFile. On error no usable output may remain at symbolFile.
type Converter interface {
	Convert(ctx context.Context, nativeFile, symbolFile string) error
}

// DumpSymsConfig configures the external converter invocation.
type DumpSymsConfig struct {
	Command string                 `yaml:"command"`
	Args    flagext.StringSliceCSV `yaml:"args"`
	Timeout time.Duration          `yaml:"timeout"`
}

func (cfg *DumpSymsConfig) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.Command, prefix+"converter.command", "dump_syms", "Converter executable that writes Breakpad symbol text to its standard output.")
	f.Var(&cfg.Args, prefix+"converter.args", "Comma-separated arguments passed to the converter before the native debug file path. Useful for wrappers such as wine.")
	f.DurationVar(&cfg.Timeout, prefix+"converter.timeout", 5*time.Minute, "Maximum duration of a single conversion.")
}

func (cfg *DumpSymsConfig) Validate() error {
	errs := multierror.New()
	if cfg.Command == "" {
		errs.Add(errors.New("converter command is required"))
	}
	if cfg.Timeout <= 0 {
		errs.Add(errors.New("converter timeout must be positive"))
	}
	return errs.Err()
}

// DumpSymsConverter runs an external converter binary and captures its
// standard output into the symbol file. The native file is read by the
// converter process directly, so both paths must be on the real
// filesystem.
type DumpSymsConverter struct {
	cfg     DumpSymsConfig
	logger  log.Logger
	metrics *metrics
}

func NewDumpSymsConverter(logger log.Logger, cfg DumpSymsConfig, reg prometheus.Registerer) (*DumpSymsConverter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &DumpSymsConverter{
		cfg:     cfg,
		logger:  logger,
		metrics: newMetrics(reg),
	}, nil
}

// Convert runs the converter with nativeFile appended to the configured
// arguments. The process exit status is the only success signal; the
// output is never inspected. On failure any partial output at
// symbolFile is removed. nativeFile is left alone either way.
func (c *DumpSymsConverter) Convert(ctx context.Context, nativeFile, symbolFile string) error {
	start := time.Now()
	status := statusSuccess
	defer func() {
		c.metrics.conversionDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}()

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	out, err := os.Create(symbolFile)
	if err != nil {
		status = statusErrorOther
		return fmt.Errorf("creating symbol file: %w", err)
	}

	args := append(append([]string{}, c.cfg.Args...), nativeFile)
	cmd := exec.CommandContext(ctx, c.cfg.Command, args...)
	cmd.Stdout = out
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if closeErr := out.Close(); runErr == nil {
		runErr = closeErr
	}
	if runErr == nil {
		return nil
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		status = statusErrorTimeout
	case errors.Is(ctx.Err(), context.Canceled):
		status = statusErrorCanceled
	default:
		status = statusErrorOther
	}

	if removeErr := os.Remove(symbolFile); removeErr != nil {
		level.Warn(c.logger).Log("msg", "failed to remove partial symbol file", "path", symbolFile, "err", removeErr)
	}

	return conversionError{
		command: c.cfg.Command,
		stderr:  truncate(stderr.String(), 1000),
		err:     runErr,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "... [truncated]"
}
