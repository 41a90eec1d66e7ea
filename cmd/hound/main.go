// Hound checks whether the artifacts in a list exist in an artifact store.
//
// Usage:
//
//	hound --input packages.csv --output results.csv --base-url https://example.jfrog.io/artifactory
//	hound info --base-url https://example.jfrog.io/artifactory npm @angular/core
//
// The input is a CSV file with a header row, then one artifact per row: a
// path and an ecosystem (maven, npm, python, nuget, terraform, docker).
//
// The info command prints the store's package details for a canonical
// package name, from the first candidate repository that has them.
//
// Exit codes are 0 on success, 1 on a run failure, 2 for bad usage or
// configuration, and 3 if the store could not be reached or its repositories
// could not be listed.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/quay/claircore/toolkit/log"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/quay/hound"
	"github.com/quay/hound/artifactory"
	"github.com/quay/hound/config"
	"github.com/quay/hound/libhound"
	"github.com/quay/hound/report"
)

const (
	exitFailure = 1
	exitUsage   = 2
	exitSetup   = 3
)

func main() {
	var exit int
	defer func() {
		if exit != 0 {
			os.Exit(exit)
		}
	}()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "info" {
		exit = infoMain(ctx, args[1:])
		return
	}
	exit = runMain(ctx, args)
}

func runMain(ctx context.Context, args []string) int {
	cfg, fs, err := config.Parse("hound", args, os.Getenv)
	switch {
	case errors.Is(err, pflag.ErrHelp):
		return 0
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fs.Usage()
		return exitUsage
	}
	done, err := setup(ctx, cfg)
	if err != nil {
		return exitUsage
	}
	defer done()

	if err := run(ctx, cfg); err != nil {
		slog.ErrorContext(ctx, "run failed", "reason", err)
		return exitCode(err)
	}
	return 0
}

func infoMain(ctx context.Context, args []string) int {
	cfg, q, fs, err := config.ParseInfo("hound info", args, os.Getenv)
	switch {
	case errors.Is(err, pflag.ErrHelp):
		return 0
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "usage: hound info [flags] ecosystem name [repository]")
		fs.PrintDefaults()
		return exitUsage
	}
	if err := cfg.ValidateStore(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	done, err := setup(ctx, cfg)
	if err != nil {
		return exitUsage
	}
	defer done()

	if err := info(ctx, cfg, q, os.Stdout); err != nil {
		slog.ErrorContext(ctx, "info failed", "reason", err)
		return exitCode(err)
	}
	return 0
}

// Setup installs logging, tracing, and the metrics dump. The returned
// function flushes them.
func setup(ctx context.Context, cfg *config.Config) (func(), error) {
	setupLogging(cfg)
	var fns []func()
	if cfg.OTLPEndpoint != "" {
		shutdown, err := setupTracing(ctx, cfg.OTLPEndpoint)
		if err != nil {
			slog.ErrorContext(ctx, "unable to set up tracing", "reason", err)
			return nil, err
		}
		fns = append(fns, shutdown)
	}
	if cfg.MetricsFile != "" {
		fns = append(fns, func() {
			if err := prometheus.WriteToTextfile(cfg.MetricsFile, prometheus.DefaultGatherer); err != nil {
				slog.ErrorContext(ctx, "unable to write metrics", "file", cfg.MetricsFile, "reason", err)
			}
		})
	}
	return func() {
		for i := len(fns) - 1; i >= 0; i-- {
			fns[i]()
		}
	}, nil
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, libhound.ErrConnect), errors.Is(err, libhound.ErrCatalog):
		return exitSetup
	case errors.Is(err, hound.ErrInvalid):
		return exitUsage
	default:
		return exitFailure
	}
}

func newClient(cfg *config.Config) (*artifactory.Client, error) {
	return artifactory.New(&artifactory.Options{
		BaseURL:  cfg.BaseURL,
		APIKey:   cfg.APIKey,
		Token:    cfg.Token,
		Timeout:  time.Duration(cfg.Timeout),
		Rate:     cfg.Rate,
		CAFile:   cfg.CAFile,
		Insecure: cfg.Insecure,
	})
}

func run(ctx context.Context, cfg *config.Config) error {
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	overrides, err := cfg.Overrides()
	if err != nil {
		return err
	}
	sum, err := libhound.Run(ctx, &libhound.Options{
		Store:        client,
		Repositories: overrides,
		Workers:      cfg.Workers,
	}, cfg.Input, cfg.Output, report.Format(cfg.Format))
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "done",
		"run", sum.Run,
		"total", sum.Total,
		"found", sum.Found,
		"missing", sum.Total-sum.Found)
	return nil
}

// Info prints the package details for the query as JSON.
func info(ctx context.Context, cfg *config.Config, q *config.Query, out io.Writer) error {
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	overrides, err := cfg.Overrides()
	if err != nil {
		return err
	}
	l, err := libhound.New(ctx, &libhound.Options{
		Store:        client,
		Repositories: overrides,
		Workers:      cfg.Workers,
	})
	if err != nil {
		return err
	}
	i, err := l.PackageInfo(ctx, q.Ecosystem, q.Name, q.Repository)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(i)
}

func setupLogging(cfg *config.Config) {
	lvl, _ := cfg.Level()
	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	switch cfg.LogFormat {
	case "json":
		h = slog.NewJSONHandler(os.Stderr, opts)
	default:
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(log.WrapHandler(h)))
}

func setupTracing(ctx context.Context, endpoint string) (func(), error) {
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		slog.WarnContext(ctx, "otel error", "reason", err)
	}))
	exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp), sdktrace.WithSampler(sdktrace.AlwaysSample()))
	otel.SetTracerProvider(tp)
	return func() {
		ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := tp.Shutdown(ctx); err != nil {
			slog.WarnContext(ctx, "unable to flush traces", "reason", err)
		}
	}, nil
}
