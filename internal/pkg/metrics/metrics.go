package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ChartGenerationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chart_generation_total",
		Help: "Количество генераций натальных карт по итоговому статусу",
	}, []string{"status"})

	ChartGenerationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "chart_generation_duration_seconds",
		Help:    "Длительность полной генерации карты",
		Buckets: []float64{.25, .5, 1, 2, 3, 5, 8, 13, 21, 34, 60},
	})

	UpstreamRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Длительность запросов к внешним сервисам",
		Buckets: prometheus.DefBuckets,
	}, []string{"component", "operation", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Количество HTTP запросов к сервису",
	}, []string{"method", "route", "status"})

	StaleGenerationsReaped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stale_generations_reaped_total",
		Help: "Зависшие генерации, помеченные как failed",
	})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		ChartGenerationTotal,
		ChartGenerationDuration,
		UpstreamRequestDuration,
		HTTPRequestsTotal,
		StaleGenerationsReaped,
	)
}

// ObserveUpstream записывает длительность и статус запроса к внешнему сервису.
func ObserveUpstream(component, operation string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	UpstreamRequestDuration.WithLabelValues(component, operation, status).Observe(time.Since(start).Seconds())
}

// ObserveGeneration фиксирует итог генерации: ready, failed, conflict, invalid.
func ObserveGeneration(status string, duration time.Duration) {
	ChartGenerationTotal.WithLabelValues(status).Inc()
	if status == "ready" || status == "failed" {
		ChartGenerationDuration.Observe(duration.Seconds())
	}
}

// IncHTTPRequest считает HTTP запрос по шаблону маршрута.
func IncHTTPRequest(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
