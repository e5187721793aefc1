package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// GatewayMetrics records settlement and quoting activity.
type GatewayMetrics struct {
	submissions *prometheus.CounterVec
	failures    *prometheus.CounterVec
	quotes      *prometheus.CounterVec
}

// NewGatewayMetrics registers the gateway metrics on the provided registerer.
func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	if reg == nil {
		return &GatewayMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_submissions_total",
		Help: "Ledger submissions by settlement kind and mode.",
	}, []string{"kind", "mode"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_failures_total",
		Help: "Failed ledger submissions by settlement kind.",
	}, []string{"kind"})
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fee_quotes_total",
		Help: "Fee quotes served by payment type.",
	}, []string{"type"})
	reg.MustRegister(submissions, failures, quotes)
	return &GatewayMetrics{
		submissions: submissions,
		failures:    failures,
		quotes:      quotes,
	}
}

// IncSubmission increments the submission counter for the given kind and mode.
func (g *GatewayMetrics) IncSubmission(kind, mode string) {
	if g == nil || g.submissions == nil {
		return
	}
	g.submissions.WithLabelValues(normalizeLabel(kind), normalizeLabel(mode)).Inc()
}

// IncFailure increments the failure counter for the given kind.
func (g *GatewayMetrics) IncFailure(kind string) {
	if g == nil || g.failures == nil {
		return
	}
	g.failures.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncQuote increments the quote counter for the given payment type.
func (g *GatewayMetrics) IncQuote(paymentType string) {
	if g == nil || g.quotes == nil {
		return
	}
	g.quotes.WithLabelValues(normalizeLabel(paymentType)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
