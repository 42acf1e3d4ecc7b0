package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for request handling and the
// spreadsheet import pipeline.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ImportRows      *prometheus.CounterVec
	ImportDuration  prometheus.Histogram
}

// NewMetrics creates a Metrics instance registered with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "elms_http_requests_total",
			Help: "Total HTTP requests handled, by method, route, and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "elms_http_request_duration_seconds",
			Help:    "Duration of HTTP request handling.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ImportRows: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "elms_import_rows_total",
			Help: "Total spreadsheet import rows processed, by outcome.",
		}, []string{"outcome"}), // outcome: 'created', 'failed'
		ImportDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "elms_import_duration_seconds",
			Help:    "Duration of a full spreadsheet import batch.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}

// ObserveImport records the outcome counts and duration of one import batch.
func (m *Metrics) ObserveImport(created, failed int, elapsed time.Duration) {
	m.ImportRows.WithLabelValues("created").Add(float64(created))
	m.ImportRows.WithLabelValues("failed").Add(float64(failed))
	m.ImportDuration.Observe(elapsed.Seconds())
}

// Middleware instruments every request with count and duration.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			m.Requests.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
