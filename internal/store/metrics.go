package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments store actions
type Metrics struct {
	actions         *prometheus.CounterVec
	subscribers     prometheus.Gauge
	activeTickers   prometheus.Gauge
	ticks           prometheus.Counter
	persistDuration *prometheus.HistogramVec
}

// NewMetrics registers the store metrics with reg. A nil registerer builds
// unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		actions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hope_store_actions_total",
				Help: "Store actions by name and result",
			},
			[]string{"action", "result"},
		),
		subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hope_store_subscribers",
			Help: "Currently registered store listeners",
		}),
		activeTickers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hope_store_active_tickers",
			Help: "Live metric tickers currently running",
		}),
		ticks: factory.NewCounter(prometheus.CounterOpts{
			Name: "hope_store_ticks_total",
			Help: "Live metric ticks applied",
		}),
		persistDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hope_store_persist_duration_seconds",
				Help:    "Time spent writing the persisted projection",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) action(name string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.actions.WithLabelValues(name, result).Inc()
}
