package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/grafana/symcache/pkg/symbols"
)

var errNotFound = errors.New("no symbol file found")

// supplierParams are the flags shared by every command that needs a
// symbol supplier.
type supplierParams struct {
	searchRoots       []string
	serverURL         string
	userAgent         string
	fetchTimeout      time.Duration
	notFoundCacheSize int
	converterCommand  string
	converterArgs     []string
	converterTimeout  time.Duration
}

func addSupplierParams(cmd *kingpin.CmdClause) *supplierParams {
	params := &supplierParams{}
	cmd.Flag("search-root", "Local symbol cache directory. Repeat for multiple roots searched in order.").Required().StringsVar(&params.searchRoots)
	cmd.Flag("server-url", "URL of the upstream symbol server.").Default(symbols.DefaultSymbolServerURL).StringVar(&params.serverURL)
	cmd.Flag("user-agent", "User-Agent header sent to the symbol server.").Default(symbols.DefaultSymbolServerUserAgent).StringVar(&params.userAgent)
	cmd.Flag("fetch-timeout", "Maximum duration of a single fetch from the symbol server.").Default("2m").DurationVar(&params.fetchTimeout)
	cmd.Flag("not-found-cache-size", "Number of known-absent files to remember.").Default("4096").IntVar(&params.notFoundCacheSize)
	cmd.Flag("converter-command", "Converter executable that writes Breakpad symbol text to stdout.").Default("dump_syms").StringVar(&params.converterCommand)
	cmd.Flag("converter-arg", "Argument passed to the converter before the native debug file path. Repeatable.").StringsVar(&params.converterArgs)
	cmd.Flag("converter-timeout", "Maximum duration of a single conversion.").Default("5m").DurationVar(&params.converterTimeout)
	return params
}

func (p *supplierParams) config() symbols.Config {
	return symbols.Config{
		SearchRoots: p.searchRoots,
		SymbolServer: symbols.SymbolServerClientConfig{
			URL:               p.serverURL,
			UserAgent:         p.userAgent,
			Timeout:           p.fetchTimeout,
			NotFoundCacheSize: p.notFoundCacheSize,
		},
		Converter: symbols.DumpSymsConfig{
			Command: p.converterCommand,
			Args:    p.converterArgs,
			Timeout: p.converterTimeout,
		},
	}
}

type resolveParams struct {
	*supplierParams

	codeFile      string
	debugFile     string
	debugID       string
	moduleVersion string
	print         bool
}

func addResolveParams(cmd *kingpin.CmdClause) *resolveParams {
	params := &resolveParams{supplierParams: addSupplierParams(cmd)}
	cmd.Flag("code-file", "Module code file as recorded in the crash report.").Required().StringVar(&params.codeFile)
	cmd.Flag("debug-file", "Module debug file name.").StringVar(&params.debugFile)
	cmd.Flag("debug-id", "Module debug identifier.").StringVar(&params.debugID)
	cmd.Flag("module-version", "Module version string.").StringVar(&params.moduleVersion)
	cmd.Flag("print", "Print the symbol file contents instead of its path.").BoolVar(&params.print)
	return params
}

func resolve(ctx context.Context, params *resolveParams) error {
	supplier, err := symbols.New(logger, params.config(), nil)
	if err != nil {
		return err
	}

	module := symbols.Module{
		CodeFile:        params.codeFile,
		DebugFile:       params.debugFile,
		DebugIdentifier: params.debugID,
		Version:         params.moduleVersion,
	}

	if params.print {
		_, data, result := supplier.LookupData(ctx, module)
		if err := resultError(result); err != nil {
			return err
		}
		_, err := output(ctx).Write(data)
		return err
	}

	path, result := supplier.Lookup(ctx, module)
	if err := resultError(result); err != nil {
		return err
	}
	fmt.Fprintln(output(ctx), path)
	return nil
}

func resultError(result symbols.Result) error {
	switch result {
	case symbols.ResultFound:
		return nil
	case symbols.ResultInterrupt:
		return errors.New("symbol lookup interrupted")
	default:
		return errNotFound
	}
}
