package main

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/storage"

	"kycflow/internal/annotation"
	annotationmetrics "kycflow/internal/annotation/metrics"
	"kycflow/internal/platform/config"
	redisclient "kycflow/internal/platform/redis"
	"kycflow/pkg/platform/circuit"
)

// buildAnnotator assembles the annotation chain. Without a GCP project the
// filename annotator answers everything. With one, Vertex is primary behind a
// breaker that falls back to filenames, with the Redis cache (when reachable)
// in front of Vertex only.
func buildAnnotator(ctx context.Context, cfg config.Server, log *slog.Logger, rdb *redisclient.Client, m *annotationmetrics.Metrics) (annotation.Annotator, func(), error) {
	static := annotation.NewStaticAnnotator()
	if !cfg.Annotation.VertexEnabled() {
		log.Info("vertex not configured, using filename annotator")
		return annotation.NewInstrumented(static, m, log), func() {}, nil
	}

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	client, err := annotation.NewVertexClient(ctx, cfg.Annotation)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, func() { _ = client.Close() })

	var stager annotation.Stager = annotation.InlineStager{}
	if bucket := cfg.Annotation.StagingBucket; bucket != "" {
		gcs, err := storage.NewClient(ctx)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("storage.NewClient: %w", err)
		}
		closers = append(closers, func() { _ = gcs.Close() })
		stager = annotation.NewGCSStager(gcs, bucket, cfg.Annotation.SignedURLTTL)
	}

	breaker := circuit.New("vertex",
		circuit.WithFailureThreshold(cfg.Annotation.BreakerFailureThreshold),
		circuit.WithSuccessThreshold(cfg.Annotation.BreakerSuccessThreshold),
	)
	chainCfg := annotation.ChainConfig{
		FallbackOptions: []annotation.FallbackOption{
			annotation.WithFallbackLogger(log),
			annotation.WithBreakerObserver(m.SetBreakerOpen),
		},
	}
	if rdb != nil {
		chainCfg.Cache = annotation.NewRedisResultCache(rdb.Cmdable())
		chainCfg.CacheTTL = cfg.Annotation.CacheTTL
		chainCfg.CacheOptions = []annotation.CacheOption{
			annotation.WithCacheLogger(log),
			annotation.WithCacheObserver(m.ObserveCacheLookup),
		}
	}
	chain := annotation.NewResilientAnnotator(
		annotation.NewVertexAnnotator(client, cfg.Annotation.Model, stager, log),
		static,
		breaker,
		chainCfg,
	)

	log.Info("vertex annotation enabled",
		"model", cfg.Annotation.Model,
		"region", cfg.Annotation.Region,
		"staging_bucket", cfg.Annotation.StagingBucket,
		"cache", rdb != nil,
	)
	return annotation.NewInstrumented(chain, m, log), closeAll, nil
}
