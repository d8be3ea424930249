// Package metrics holds Prometheus instruments that are used across the
// theme-tag layer.  All collectors are registered with the global registry,
// so importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ResolveTotal counts tag resolutions by kind ("js", "css", "asset",
	// "output", or "dir" for directory kinds such as img).
	ResolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "theme_tag_resolve_total",
			Help: "Cumulative number of theme tag resolutions.",
		}, []string{"kind"})

	// ManifestLookupTotal counts version-manifest lookups.  result is one
	// of "hit", "miss", or "absent".
	ManifestLookupTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "theme_manifest_lookup_total",
			Help: "Cumulative number of version-manifest lookups.",
		}, []string{"manifest", "result"})

	StoreCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "theme_store_cache_total",
			Help: "Cached file-store reads by result (hit or miss).",
		}, []string{"result"})

	ActiveThemes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_themes",
			Help: "Number of host themes currently loaded in memory.",
		})

	ThemeLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "theme_load_total",
			Help: "Cumulative number of host themes successfully loaded.",
		})

	ThemeLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "theme_load_errors_total",
			Help: "Cumulative number of host theme load errors.",
		})

	ThemeEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "theme_evict_total",
			Help: "Cumulative number of host themes evicted from the cache.",
		})
)

func init() {
	prometheus.MustRegister(
		ResolveTotal,
		ManifestLookupTotal,
		StoreCacheTotal,
		ActiveThemes,
		ThemeLoadTotal,
		ThemeLoadErrorsTotal,
		ThemeEvictTotal,
	)
}
