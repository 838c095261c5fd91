package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/platosha5/parkrun-service/internal/infra/config"
)

// Provider holds the service-level Prometheus collectors.
type Provider struct {
	decisions *prometheus.CounterVec
}

// Attach registers the engine decision collectors and returns a provider handle.
func Attach(cfg *config.AppConfig) (*Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	decisions := promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crew",
		Subsystem: "engine",
		Name:      "assign_decisions_total",
		Help:      "Total number of assignment engine decisions partitioned by outcome.",
	}, []string{"outcome"})

	return &Provider{decisions: decisions}, nil
}

// RecordDecision counts one engine decision by outcome label
// ("accepted" or the decline reason).
func (p *Provider) RecordDecision(outcome string) {
	if p == nil || p.decisions == nil {
		return
	}
	p.decisions.WithLabelValues(outcome).Inc()
}
