package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	annotationmetrics "kycflow/internal/annotation/metrics"
	casehandler "kycflow/internal/cases/handler"
	casemetrics "kycflow/internal/cases/metrics"
	caseservice "kycflow/internal/cases/service"
	casestore "kycflow/internal/cases/store"
	"kycflow/internal/documents/filestore"
	dochandler "kycflow/internal/documents/handler"
	docmetrics "kycflow/internal/documents/metrics"
	docservice "kycflow/internal/documents/service"
	"kycflow/internal/fixtures"
	"kycflow/internal/platform/config"
	"kycflow/internal/platform/httpserver"
	"kycflow/internal/platform/logger"
	"kycflow/internal/platform/metrics"
	redisclient "kycflow/internal/platform/redis"
	"kycflow/internal/policy"
	policyhandler "kycflow/internal/policy/handler"
	httptransport "kycflow/internal/transport/http"
	workflowhandler "kycflow/internal/workflow/handler"
)

// main wires the in-memory stores, the annotation chain and the HTTP router,
// then serves until SIGINT or SIGTERM. Environment variables (and .env) set
// the configuration; flags override them.
func main() {
	cfg := config.FromEnv()
	flagSet := pflag.NewFlagSet("kycflow", pflag.ContinueOnError)
	config.BindFlags(flagSet, &cfg)
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New(cfg.Log)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	seed, err := fixtures.Load()
	if err != nil {
		return err
	}

	rdb, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		// The cache is optional.
		log.Warn("redis unavailable, annotation cache disabled", "error", err)
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	annotator, closeAnnotator, err := buildAnnotator(ctx, cfg, log, rdb, annotationmetrics.New())
	if err != nil {
		return err
	}
	defer closeAnnotator()

	files, err := filestore.New(cfg.Uploads.Dir)
	if err != nil {
		return err
	}

	cases := caseservice.New(casestore.New(seed.Cases),
		caseservice.WithLogger(log),
		caseservice.WithMetrics(casemetrics.New()),
	)
	documents := docservice.New(cases, annotator, files,
		docservice.WithLogger(log),
		docservice.WithMetrics(docmetrics.New()),
		docservice.WithMaxUploadBytes(cfg.Uploads.MaxBytes),
	)

	router := httptransport.NewRouter(httptransport.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log,
		Metrics:        metrics.New(),
		Gatherer:       prometheus.DefaultGatherer,
	},
		casehandler.New(cases, log),
		dochandler.New(documents, log),
		policyhandler.New(policy.NewLibrary(seed.Policies), log),
		workflowhandler.New(seed.Workflow),
	)

	srv := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting kycflow",
			"addr", cfg.Addr,
			"env", cfg.Environment,
			"upload_dir", files.Root(),
			"vertex", cfg.Annotation.VertexEnabled(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
