package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  prometheus.Gauge
	DBInUseConnections prometheus.Gauge
	DBIdleConnections  prometheus.Gauge
	DBWaitCount        prometheus.Gauge

	// Бизнес-метрики
	AppointmentsCreated   *prometheus.CounterVec
	AppointmentsRejected  *prometheus.CounterVec
	AppointmentsCancelled *prometheus.CounterVec
	RatingsSubmitted      *prometheus.CounterVec
	NotificationsFailed   *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: labels,
		}),

		DBInUseConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: labels,
		}),

		DBIdleConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: labels,
		}),

		DBWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}),

		AppointmentsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointments_created_total",
			Help:        "Number of created appointments",
			ConstLabels: labels,
		}, []string{"service_type"}),

		AppointmentsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_requests_rejected_total",
			Help:        "Number of appointment requests rejected by validation",
			ConstLabels: labels,
		}, []string{"reason"}),

		AppointmentsCancelled: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointments_cancelled_total",
			Help:        "Number of appointments cancelled by users",
			ConstLabels: labels,
		}, []string{"reason"}),

		RatingsSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "ratings_submitted_total",
			Help:        "Number of submitted technician ratings",
			ConstLabels: labels,
		}, []string{"kind"}),

		NotificationsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_failed_total",
			Help:        "Number of notifications that failed to send",
			ConstLabels: labels,
		}, []string{"type"}),
	}
}

// Recorder бизнес-метрики для usecase-слоя
// Безопасен для nil: если метрики выключены, вызовы ничего не делают
type Recorder struct {
	m *Metrics
}

// NewRecorder создает Recorder. m может быть nil
func NewRecorder(m *Metrics) *Recorder {
	return &Recorder{m: m}
}

func (r *Recorder) AppointmentCreated(serviceType string) {
	if r == nil || r.m == nil {
		return
	}
	r.m.AppointmentsCreated.WithLabelValues(serviceType).Inc()
}

func (r *Recorder) AppointmentRejected(reason string) {
	if r == nil || r.m == nil {
		return
	}
	r.m.AppointmentsRejected.WithLabelValues(reason).Inc()
}

func (r *Recorder) AppointmentCancelled(reason string) {
	if r == nil || r.m == nil {
		return
	}
	r.m.AppointmentsCancelled.WithLabelValues(reason).Inc()
}

func (r *Recorder) RatingSubmitted(kind string) {
	if r == nil || r.m == nil {
		return
	}
	r.m.RatingsSubmitted.WithLabelValues(kind).Inc()
}

func (r *Recorder) NotificationFailed(notificationType string) {
	if r == nil || r.m == nil {
		return
	}
	r.m.NotificationsFailed.WithLabelValues(notificationType).Inc()
}
