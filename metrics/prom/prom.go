// Package prom exports entity cache statistics to Prometheus.
//
// One Adapter is created per cache; the catalog client takes two, one for
// channels and one for playlists:
//
//	reg := prometheus.NewRegistry()
//	svc := catalog.New(base, t, catalog.WithMetrics(
//		prom.New(reg, "catalog", "channel_cache", nil),
//		prom.New(reg, "catalog", "playlist_cache", nil),
//	))
package prom

import (
	"github.com/core-ts/video/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Adapter implements cache.Metrics on Prometheus collectors.
// All Prometheus metric types are goroutine-safe, and so is Adapter.
type Adapter struct {
	hits   prometheus.Counter
	misses prometheus.Counter
	evicts *prometheus.CounterVec
	size   prometheus.Gauge
}

var _ cache.Metrics = (*Adapter)(nil)

// New registers the collectors of one entity cache on reg
// (prometheus.DefaultRegisterer when nil) under ns_sub_*. It panics if the
// same ns/sub pair is registered twice on reg.
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	counter := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{Namespace: ns, Subsystem: sub, Name: name, Help: help, ConstLabels: constLabels}
	}
	return &Adapter{
		hits:   f.NewCounter(counter("hits_total", "Lookups answered from the cache.")),
		misses: f.NewCounter(counter("misses_total", "Lookups that had to ask the catalog.")),
		evicts: f.NewCounterVec(counter("evictions_total", "Entries removed, by reason."), []string{"reason"}),
		size: f.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "entries",
			Help:        "Resident entries.",
			ConstLabels: constLabels,
		}),
	}
}

func (a *Adapter) Hit()  { a.hits.Inc() }
func (a *Adapter) Miss() { a.misses.Inc() }

func (a *Adapter) Evict(r cache.EvictReason) {
	label := "capacity"
	if r == cache.EvictReplace {
		label = "replace"
	}
	a.evicts.WithLabelValues(label).Inc()
}

func (a *Adapter) Size(entries int) { a.size.Set(float64(entries)) }
