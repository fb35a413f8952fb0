// Package metrics exposes Prometheus instrumentation for the Privy client.
//
// Collectors are registered on a caller-supplied registerer rather than the
// global default so several clients can share or isolate their metrics. A nil
// *Collector is valid and records nothing.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "privy_client"

// Export outcomes.
const (
	OutcomeSuccess        = "success"
	OutcomeKeygenError    = "keygen_error"
	OutcomeSigningError   = "signing_error"
	OutcomeTransportError = "transport_error"
	OutcomeResponseError  = "response_error"
	OutcomeDecryptError   = "decrypt_error"
)

// Signature sources.
const (
	SignaturePrecomputed = "precomputed"
	SignatureKey         = "key"
	SignatureNone        = "none"
)

// Collector records client-side request, export and signing metrics.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	exportsTotal    *prometheus.CounterVec
	signaturesTotal *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it on reg. Collectors that
// are already registered under the same names are reused.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of API requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		exportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wallet_exports_total",
				Help:      "Total number of wallet export attempts by outcome",
			},
			[]string{"outcome"},
		),
		signaturesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "authorization_signatures_total",
				Help:      "Total number of signed requests by signature source",
			},
			[]string{"source"},
		),
	}

	if reg == nil {
		return c, nil
	}

	var err error
	if c.requestsTotal, err = register(reg, c.requestsTotal); err != nil {
		return nil, err
	}
	if c.requestDuration, err = register(reg, c.requestDuration); err != nil {
		return nil, err
	}
	if c.exportsTotal, err = register(reg, c.exportsTotal); err != nil {
		return nil, err
	}
	if c.signaturesTotal, err = register(reg, c.signaturesTotal); err != nil {
		return nil, err
	}
	return c, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, col T) (T, error) {
	if err := reg.Register(col); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return col, err
	}
	return col, nil
}

// ObserveRequest records one completed API request. status is 0 when the
// request failed before a response was received.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	c.requestsTotal.WithLabelValues(method, route, code).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ExportOutcome records the result of one wallet export.
func (c *Collector) ExportOutcome(outcome string) {
	if c == nil {
		return
	}
	c.exportsTotal.WithLabelValues(outcome).Inc()
}

// SignatureSource records how a request's authorization signature was produced.
func (c *Collector) SignatureSource(source string) {
	if c == nil {
		return
	}
	c.signaturesTotal.WithLabelValues(source).Inc()
}
