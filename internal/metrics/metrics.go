// Package metrics exposes the Prometheus collectors for authentication,
// authorization and request latency.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "neighborconnect/internal/errors"
)

var (
	// Logins counts credential checks.
	// Labels:
	//   - kind: "member", "admin"
	//   - outcome: "success", "invalid", "forbidden", "throttled", "error"
	Logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"kind", "outcome"},
	)

	// AuthRejections counts requests stopped by the authentication or CSRF
	// middleware.
	// Labels:
	//   - stage: "authenticate", "csrf"
	//   - reason: "missing", "invalid", "unknown_user", "mismatch"
	AuthRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Total number of requests rejected before reaching a handler",
		},
		[]string{"stage", "reason"},
	)

	// AuthzDenied counts failed authorization checks by rule.
	AuthzDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_denied_total",
			Help: "Total number of authorization denials",
		},
		[]string{"rule"},
	)

	// RequestDuration measures handler latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status"},
	)
)

// Middleware records RequestDuration for every request. The route label is
// the registered path template so ids do not explode cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				// the error handler has not written the response yet
				status = apperrors.MapErrorToHTTP(err).StatusCode
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			RequestDuration.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the default registry.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
