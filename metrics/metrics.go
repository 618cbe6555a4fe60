// Package metrics records the outcome of each pipeline run as Prometheus gauges. Runs are short
// lived, so the metrics are written to a node_exporter textfile rather than served.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/healthsheets/health-sheets/delta"
)

type Metrics struct {
	registry *prometheus.Registry
	lastRun  *prometheus.GaugeVec
	appended *prometheus.GaugeVec
	rows     *prometheus.GaugeVec
	updated  *prometheus.GaugeVec
}

func New() *Metrics {
	m := Metrics{
		registry: prometheus.NewRegistry(),
		lastRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "health_sheets",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix timestamp of the most recent pipeline run.",
		}, []string{"pipeline"}),
		appended: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "health_sheets",
			Name:      "rows_appended",
			Help:      "Number of rows appended to the masterfile by the most recent run.",
		}, []string{"pipeline"}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "health_sheets",
			Name:      "masterfile_rows",
			Help:      "Number of rows in the masterfile after the most recent run.",
		}, []string{"pipeline"}),
		updated: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "health_sheets",
			Name:      "last_run_updated",
			Help:      "1 if the most recent run added new data, 0 otherwise.",
		}, []string{"pipeline"}),
	}

	m.registry.MustRegister(m.lastRun, m.appended, m.rows, m.updated)

	return &m
}

// RecordRun updates the gauges for a completed pipeline run. A nil Metrics is a no-op.
func (m *Metrics) RecordRun(pipeline string, ts time.Time, status delta.Status, appended, rows int) {
	if m == nil {
		return
	}

	m.lastRun.WithLabelValues(pipeline).Set(float64(ts.Unix()))
	m.appended.WithLabelValues(pipeline).Set(float64(appended))
	m.rows.WithLabelValues(pipeline).Set(float64(rows))

	if status == delta.Updated {
		m.updated.WithLabelValues(pipeline).Set(1)
	} else {
		m.updated.WithLabelValues(pipeline).Set(0)
	}
}

// Write writes the metrics to a node_exporter textfile. An empty file name is a no-op.
func (m *Metrics) Write(file string) error {
	if m == nil || file == "" {
		return nil
	}

	return prometheus.WriteToTextfile(file, m.registry)
}
