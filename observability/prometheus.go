package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// PromObserver counts events by type and severity in Prometheus metrics.
// Register it alongside a SlogObserver via MultiObserver to get counters
// without touching subsystem code.
type PromObserver struct {
	events *prometheus.CounterVec
}

// NewPromObserver creates a PromObserver and registers its collectors with
// the given registerer.
func NewPromObserver(reg prometheus.Registerer) (*PromObserver, error) {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sahayak",
		Name:      "events_total",
		Help:      "Observability events by type and severity.",
	}, []string{"type", "level"})

	if err := reg.Register(events); err != nil {
		return nil, err
	}

	return &PromObserver{events: events}, nil
}

func (o *PromObserver) OnEvent(_ context.Context, event Event) {
	o.events.WithLabelValues(string(event.Type), event.Level.String()).Inc()
}
