// Package observability provides application metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service counters. A nil *Metrics is valid and records
// nothing, so Lambda entrypoints that do not expose a scrape endpoint can
// leave it out.
type Metrics struct {
	quotesCreated prometheus.Counter
	pagesRendered *prometheus.CounterVec
}

// NewMetrics registers the service counters with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		quotesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "quotes_created_total",
			Help: "Number of quotes successfully stored.",
		}),
		pagesRendered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pages_rendered_total",
			Help: "Number of static artifacts rendered, by artifact kind.",
		}, []string{"artifact"}),
	}
}

// RecordQuoteCreated counts one successful quote write.
func (m *Metrics) RecordQuoteCreated() {
	if m == nil {
		return
	}
	m.quotesCreated.Inc()
}

// RecordPageRendered counts one rendered artifact (quote, seo, sitemap).
func (m *Metrics) RecordPageRendered(artifact string) {
	if m == nil {
		return
	}
	m.pagesRendered.WithLabelValues(artifact).Inc()
}
