package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
)

const namespace = "danusan"

// Recorder owns a private registry with the storefront counters.
type Recorder struct {
	registry *prometheus.Registry

	checkouts       *prometheus.CounterVec
	verifications   *prometheus.CounterVec
	fulfillments    *prometheus.CounterVec
	trackingLookups *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Checkouts by result.",
		}, []string{"result"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_verifications_total",
			Help:      "Payment verifications by decision and result.",
		}, []string{"decision", "result"}),
		fulfillments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_completed_total",
			Help:      "Fulfillment attempts by result.",
		}, []string{"result"}),
		trackingLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracking_lookups_total",
			Help:      "Tracking code lookups by result.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "endpoint", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.checkouts,
		r.verifications,
		r.fulfillments,
		r.trackingLookups,
		r.httpRequests,
		r.httpDuration,
	)
	return r
}

// Result maps a workflow error onto a bounded label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domainErrors.ErrValidation):
		return "validation"
	case errors.Is(err, domainErrors.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domainErrors.ErrProofRequired):
		return "proof_required"
	case errors.Is(err, domainErrors.ErrIllegalTransition):
		return "illegal_transition"
	case errors.Is(err, domainErrors.ErrPaymentExists):
		return "payment_exists"
	case errors.Is(err, domainErrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, domainErrors.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domainErrors.ErrStorageUnavailable):
		return "storage_unavailable"
	default:
		return "error"
	}
}

func (r *Recorder) ObserveCheckout(err error) {
	r.checkouts.WithLabelValues(Result(err)).Inc()
}

func (r *Recorder) ObserveVerification(decision string, err error) {
	r.verifications.WithLabelValues(decision, Result(err)).Inc()
}

func (r *Recorder) ObserveFulfillment(err error) {
	r.fulfillments.WithLabelValues(Result(err)).Inc()
}

func (r *Recorder) ObserveTrackingLookup(err error) {
	result := "found"
	if err != nil {
		result = Result(err)
	}
	r.trackingLookups.WithLabelValues(result).Inc()
}

// Middleware records request count and latency per route template.
func (r *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		r.httpRequests.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		r.httpDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
