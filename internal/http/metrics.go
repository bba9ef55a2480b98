// Package http provides the operational HTTP server for the gas price bot.
package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the bot.
type Metrics struct {
	// Cycle metrics
	UpdateCyclesTotal *prometheus.CounterVec
	CycleDuration     *prometheus.HistogramVec

	// Post metrics
	LastPostTimestamp prometheus.Gauge
	CurrentPriceUSD   *prometheus.GaugeVec
}

// NewMetrics creates and registers Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		UpdateCyclesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gaspricebot_update_cycles_total",
				Help: "Total number of update cycles by origin and status",
			},
			[]string{"origin", "status"},
		),
		CycleDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gaspricebot_cycle_duration_seconds",
				Help:    "Update cycle duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"origin"},
		),
		LastPostTimestamp: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "gaspricebot_last_post_timestamp",
				Help: "Timestamp of the last successful scheduled post",
			},
		),
		CurrentPriceUSD: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gaspricebot_current_price_usd",
				Help: "Current gas price in USD per gallon",
			},
			[]string{"fuel_type"},
		),
	}
}

// RecordCycle records one finished update cycle.
func (m *Metrics) RecordCycle(origin, status string, duration float64) {
	m.UpdateCyclesTotal.WithLabelValues(origin, status).Inc()
	m.CycleDuration.WithLabelValues(origin).Observe(duration)
}

// RecordPrice records the current price for a fuel type.
func (m *Metrics) RecordPrice(fuelType string, price float64) {
	m.CurrentPriceUSD.WithLabelValues(fuelType).Set(price)
}

// RecordLastPost records the last successful scheduled post timestamp.
func (m *Metrics) RecordLastPost(timestamp float64) {
	m.LastPostTimestamp.Set(timestamp)
}
