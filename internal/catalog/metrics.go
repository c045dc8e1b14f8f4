package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelbox_catalog_cache_hits_total",
		Help: "Synopsis lookups answered from the catalog cache.",
	}, []string{"strategy"})
	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelbox_catalog_cache_misses_total",
		Help: "Synopsis lookups that had to read the backing store.",
	}, []string{"strategy"})
	cacheEvictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelbox_catalog_cache_evictions_total",
		Help: "Entries dropped from the catalog cache by eviction or invalidation.",
	}, []string{"strategy"})
)
