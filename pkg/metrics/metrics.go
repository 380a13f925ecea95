package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec

	BookingsCreated   prometheus.Counter
	BookingsDecisions *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests.",
				ConstLabels: constLabels,
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request latency.",
				ConstLabels: constLabels,
				Buckets:     prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "db_query_duration_seconds",
				Help:        "Database query latency by statement kind.",
				ConstLabels: constLabels,
				Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"},
		),
		DBQueryErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "db_query_errors_total",
				Help:        "Failed database queries by statement kind.",
				ConstLabels: constLabels,
			},
			[]string{"operation"},
		),
		DBOpenConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "db_connections",
				Help:        "Database connection pool state.",
				ConstLabels: constLabels,
			},
			[]string{"state"},
		),
		BookingsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name:        "bookings_created_total",
				Help:        "Bookings created.",
				ConstLabels: constLabels,
			},
		),
		BookingsDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "booking_decisions_total",
				Help:        "Owner decisions on bookings by resulting status.",
				ConstLabels: constLabels,
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.BookingsCreated,
		m.BookingsDecisions,
	)

	return m
}

// BookingCreated увеличивает счетчик созданных бронирований
func (m *Metrics) BookingCreated() {
	m.BookingsCreated.Inc()
}

// BookingDecided увеличивает счетчик решений владельцев
func (m *Metrics) BookingDecided(status string) {
	m.BookingsDecisions.WithLabelValues(status).Inc()
}
