package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/quester/pkg/game"
	"github.com/aretw0/quester/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics holds the collectors fed by NewMetricsMiddleware.
type StoreMetrics struct {
	Calls   *prometheus.CounterVec
	Latency *prometheus.HistogramVec
}

// NewStoreMetrics creates the store collectors and registers them with reg.
// driver is attached as a constant label so several stores can share a registry.
func NewStoreMetrics(reg prometheus.Registerer, driver string) (*StoreMetrics, error) {
	labels := prometheus.Labels{"driver": driver}
	m := &StoreMetrics{
		Calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "quester_store_calls_total",
				Help:        "Game store calls by method and result",
				ConstLabels: labels,
			},
			[]string{"method", "result"},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "quester_store_call_duration_seconds",
				Help:        "Duration of game store calls",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: labels,
			},
			[]string{"method"},
		),
	}
	if err := reg.Register(m.Calls); err != nil {
		return nil, err
	}
	if err := reg.Register(m.Latency); err != nil {
		return nil, err
	}
	return m, nil
}

type metricsMiddleware struct {
	next ports.GameStore
	m    *StoreMetrics
}

// NewMetricsMiddleware records every store call in m.
func NewMetricsMiddleware(m *StoreMetrics) Middleware {
	return func(next ports.GameStore) ports.GameStore {
		return &metricsMiddleware{next: next, m: m}
	}
}

func (s *metricsMiddleware) observe(method string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	s.m.Calls.WithLabelValues(method, result).Inc()
	s.m.Latency.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func (s *metricsMiddleware) Save(ctx context.Context, g *game.Game) error {
	start := time.Now()
	err := s.next.Save(ctx, g)
	s.observe("save", start, err)
	return err
}

func (s *metricsMiddleware) Load(ctx context.Context, id string) (*game.Game, error) {
	start := time.Now()
	g, err := s.next.Load(ctx, id)
	s.observe("load", start, err)
	return g, err
}

func (s *metricsMiddleware) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.observe("delete", start, err)
	return err
}

func (s *metricsMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := s.next.List(ctx)
	s.observe("list", start, err)
	return ids, err
}
