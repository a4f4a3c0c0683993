package annotation

import (
	"time"

	"kycflow/pkg/platform/circuit"
)

// ChainConfig tunes NewResilientAnnotator. A nil Cache leaves the primary
// uncached.
type ChainConfig struct {
	Cache           ResultCache
	CacheTTL        time.Duration
	CacheOptions    []CacheOption
	FallbackOptions []FallbackOption
}

// NewResilientAnnotator puts the result cache directly around primary and the
// breaker-guarded fallback outside it. Only primary answers are ever stored,
// so a label produced during an outage is not served after recovery.
func NewResilientAnnotator(primary, fallback Annotator, breaker *circuit.Breaker, cfg ChainConfig) *FallbackAnnotator {
	if cfg.Cache != nil {
		primary = NewCachingAnnotator(primary, cfg.Cache, cfg.CacheTTL, cfg.CacheOptions...)
	}
	return NewFallbackAnnotator(primary, fallback, breaker, cfg.FallbackOptions...)
}
