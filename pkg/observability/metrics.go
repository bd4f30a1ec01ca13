package observability

import (
	"context"
	"errors"

	"github.com/aretw0/quester/pkg/domain"
	"github.com/aretw0/quester/pkg/game"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports editor events as Prometheus series.
type Metrics struct {
	NodeMutations   *prometheus.CounterVec
	MutationLatency *prometheus.HistogramVec
	CascadeRemoved  prometheus.Counter
	GameChanges     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		NodeMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quester_node_mutations_total",
				Help: "Node mutations by operation, node type and result",
			},
			[]string{"op", "type", "result"},
		),
		MutationLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quester_node_mutation_duration_seconds",
				Help:    "Duration of node mutations including load and save",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		CascadeRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quester_cascade_removed_total",
			Help: "Condition nodes removed because their flag was deleted",
		}),
		GameChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quester_game_changes_total",
				Help: "Game level changes by operation and result",
			},
			[]string{"op", "result"},
		),
	}
	for _, c := range []prometheus.Collector{m.NodeMutations, m.MutationLatency, m.CascadeRemoved, m.GameChanges} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns hooks feeding the collectors.
func (m *Metrics) Hooks() Hooks {
	node := func(_ context.Context, e *NodeEvent) {
		t := string(e.NodeType)
		if t == "" {
			t = "unknown"
		}
		m.NodeMutations.WithLabelValues(string(e.Op), t, Result(e.Err)).Inc()
		m.MutationLatency.WithLabelValues(string(e.Op)).Observe(e.Duration.Seconds())
		if len(e.Cascaded) > 0 {
			m.CascadeRemoved.Add(float64(len(e.Cascaded)))
		}
	}
	return Hooks{
		OnNodeAdded:   node,
		OnNodeEdited:  node,
		OnNodeDeleted: node,
		OnGameChanged: func(_ context.Context, e *GameEvent) {
			m.GameChanges.WithLabelValues(string(e.Op), Result(e.Err)).Inc()
		},
	}
}

// Result classifies err into a low-cardinality label value.
func Result(err error) string {
	var ne *domain.NodeError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, game.ErrForbidden), errors.Is(err, domain.ErrRootNodeDeleting):
		return "forbidden"
	case errors.Is(err, game.ErrGameNotFound), errors.Is(err, domain.ErrNodeNotFound):
		return "not_found"
	case errors.As(err, &ne), errors.Is(err, game.ErrNotRootNode), errors.Is(err, game.ErrIllegalRootType), errors.Is(err, game.ErrRootNotExists):
		return "invalid"
	default:
		return "error"
	}
}
