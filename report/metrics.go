package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/launchdarkly/js-browser-tests/framework"
)

const metricsNamespace = "jstest"

// Metrics is a TestLogger that counts step outcomes in a private Prometheus registry. The
// harness has no metrics endpoint, so the registry is written out as a node_exporter textfile
// when the run ends.
type Metrics struct {
	registry        *prometheus.Registry
	steps           *prometheus.CounterVec
	stepDuration    *prometheus.HistogramVec
	assertions      *prometheus.CounterVec
	skippedSteps    prometheus.Counter
	skippedBrowsers prometheus.Counter
	success         prometheus.Gauge
}

func NewMetrics(runName string) *Metrics {
	labels := prometheus.Labels{"run": runName}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "steps_total",
			Help:        "Steps run, by browser and outcome (passed, failed, timeout).",
			ConstLabels: labels,
		}, []string{"browser", "outcome"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   metricsNamespace,
			Name:        "step_duration_seconds",
			Help:        "Time from the start of a step until its result or timeout.",
			ConstLabels: labels,
			Buckets:     []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"browser"}),
		assertions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "assertions_total",
			Help:        "Assertions reported by test pages, by browser.",
			ConstLabels: labels,
		}, []string{"browser"}),
		skippedSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "skipped_steps_total",
			Help:        "Steps excluded by filters.",
			ConstLabels: labels,
		}),
		skippedBrowsers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "skipped_browsers_total",
			Help:        "Browsers skipped because they are not supported on this host.",
			ConstLabels: labels,
		}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "run_success",
			Help:        "1 if the last run passed, 0 otherwise.",
			ConstLabels: labels,
		}),
	}
	m.registry.MustRegister(m.steps, m.stepDuration, m.assertions, m.skippedSteps, m.skippedBrowsers, m.success)
	return m
}

func (m *Metrics) StepStarted(framework.StepID) {}

func (m *Metrics) StepError(framework.StepID, error) {}

func (m *Metrics) StepFinished(id framework.StepID, result framework.StepResult, failed bool, _ framework.CapturedOutput) {
	outcome := "passed"
	switch {
	case result.TimedOut:
		outcome = "timeout"
	case failed:
		outcome = "failed"
	}
	m.steps.WithLabelValues(id.Browser, outcome).Inc()
	m.stepDuration.WithLabelValues(id.Browser).Observe(result.Duration.Seconds())
	if result.Counters != nil {
		m.assertions.WithLabelValues(id.Browser).Add(float64(result.Counters.Assertions))
	}
}

func (m *Metrics) StepSkipped(framework.StepID, string) {
	m.skippedSteps.Inc()
}

func (m *Metrics) BrowserSkipped(string, string) {
	m.skippedBrowsers.Inc()
}

func (m *Metrics) SetSuccess(success bool) {
	if success {
		m.success.Set(1)
	} else {
		m.success.Set(0)
	}
}

// Gatherer exposes the run's private registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes all metrics in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Gatherer()); err != nil {
		return fmt.Errorf("could not write metrics: %w", err)
	}
	return nil
}
