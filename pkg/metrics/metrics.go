package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var HistogramBuckets = []float64{
	// fast path, pure reductions and single-document reads
	5, 10, 25, 50, 75, 100, 150, 200, 300, 500,

	// store writes and remote provider calls
	750, 1000, 1500, 2000, 3000, 5000, 10000,
}

// Metric is a definition for the name, description, type, and
// prometheus.Collector type (i.e. CounterVec, Summary, etc) of each metric
type Metric struct {
	MetricCollector prometheus.Collector
	ID              string
	Name            string
	Description     string
	Type            string
	Args            []string
}

// NewMetric associates prometheus.Collector based on Metric.Type
func NewMetric(m *Metric, subsystem string) prometheus.Collector {
	var metric prometheus.Collector
	switch m.Type {
	case "counter_vec":
		metric = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
			m.Args,
		)
	case "histogram_vec":
		metric = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
				Buckets:   HistogramBuckets,
			},
			m.Args,
		)
	case "summary_vec":
		metric = prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
			m.Args,
		)
	}
	return metric
}

var MetricsBusinessProcess = &Metric{
	ID:          "bpDur",
	Name:        "bp_dur",
	Description: "process latency in milliseconds",
	Type:        "histogram_vec",
	Args:        []string{"type", "subtype"},
}

var MetricsWebhookAlerts = &Metric{
	ID:          "webhookAlerts",
	Name:        "webhook_alerts_total",
	Description: "Provider webhook alerts, partitioned by alert name and handling result.",
	Type:        "counter_vec",
	Args:        []string{"alert_name", "result"},
}

var MetricsHydrations = &Metric{
	ID:          "hydrations",
	Name:        "hydrations_total",
	Description: "Hydration calls, partitioned by entry point and outcome.",
	Type:        "counter_vec",
	Args:        []string{"kind", "result"},
}

const (
	RefererKey = "X-Referer"
)

// Domain holds the business collectors. A nil *Domain is valid and records nothing.
type Domain struct {
	process    *prometheus.HistogramVec
	webhooks   *prometheus.CounterVec
	hydrations *prometheus.CounterVec
}

// NewDomain creates the business collectors and registers them on reg. Collectors
// already registered on reg are reused.
func NewDomain(reg prometheus.Registerer, subsystem string) *Domain {
	d := &Domain{}
	d.process = register(reg, MetricsBusinessProcess, subsystem).(*prometheus.HistogramVec)
	d.webhooks = register(reg, MetricsWebhookAlerts, subsystem).(*prometheus.CounterVec)
	d.hydrations = register(reg, MetricsHydrations, subsystem).(*prometheus.CounterVec)
	return d
}

func register(reg prometheus.Registerer, m *Metric, subsystem string) prometheus.Collector {
	c := NewMetric(m, subsystem)
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
	}
	return c
}

func (d *Domain) ObserveProcess(typ, subtype string, start time.Time) {
	if d == nil {
		return
	}
	d.process.WithLabelValues(typ, subtype).Observe(MillisecondsSince(start))
}

func (d *Domain) ObserveWebhook(alertName, result string) {
	if d == nil {
		return
	}
	d.webhooks.WithLabelValues(alertName, result).Inc()
}

func (d *Domain) ObserveHydration(kind, result string) {
	if d == nil {
		return
	}
	d.hydrations.WithLabelValues(kind, result).Inc()
}

func MillisecondsSince(t time.Time) float64 {
	return float64(time.Since(t)) / float64(time.Millisecond)
}
