package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/grafana/symcache/pkg/server"
	"github.com/grafana/symcache/pkg/symbols"
)

type serverParams struct {
	*supplierParams

	listenAddress           string
	gracefulShutdownTimeout time.Duration
}

func addServerParams(cmd *kingpin.CmdClause) *serverParams {
	params := &serverParams{supplierParams: addSupplierParams(cmd)}
	cmd.Flag("listen-address", "Address the symbol proxy listens on.").Default(":4070").StringVar(&params.listenAddress)
	cmd.Flag("graceful-shutdown-timeout", "How long to wait for in-flight requests when shutting down.").Default("30s").DurationVar(&params.gracefulShutdownTimeout)
	return params
}

func runServer(ctx context.Context, params *serverParams) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	supplier, err := symbols.New(logger, params.config(), registry)
	if err != nil {
		return err
	}

	srv := server.New(logger, server.Config{
		ListenAddress:           params.listenAddress,
		GracefulShutdownTimeout: params.gracefulShutdownTimeout,
	}, supplier, registry)

	return srv.Run(ctx)
}
