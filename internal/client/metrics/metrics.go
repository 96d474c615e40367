// Package metrics exposes Prometheus counters for the session client.
// All methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "scgn_client"

// Logout reasons.
const (
	ReasonUser       = "user"
	ReasonInactivity = "inactivity"
	ReasonExpired    = "expired"
	ReasonDeleted    = "account_deleted"
)

// Metrics groups the client counters.
type Metrics struct {
	requests     *prometheus.CounterVec
	refreshes    *prometheus.CounterVec
	refreshJoins prometheus.Counter
	logouts      *prometheus.CounterVec
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by method and status code (\"error\" when no response was received).",
		}, []string{"method", "code"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refreshes_total",
			Help:      "Calls to the token refresh endpoint by result.",
		}, []string{"result"}),
		refreshJoins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refresh_joins_total",
			Help:      "Callers that waited on an already pending refresh instead of starting one.",
		}),
		logouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_logouts_total",
			Help:      "Session terminations by reason.",
		}, []string{"reason"}),
	}

	if reg != nil {
		reg.MustRegister(m.requests, m.refreshes, m.refreshJoins, m.logouts)
	}
	return m
}

// ObserveRequest counts one HTTP round trip. code 0 means no response.
func (m *Metrics) ObserveRequest(method string, code int) {
	if m == nil {
		return
	}
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	m.requests.WithLabelValues(method, label).Inc()
}

// ObserveRefresh counts one call to the refresh endpoint.
func (m *Metrics) ObserveRefresh(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.refreshes.WithLabelValues(result).Inc()
}

// ObserveRefreshJoin counts a caller that reused a pending refresh.
func (m *Metrics) ObserveRefreshJoin() {
	if m == nil {
		return
	}
	m.refreshJoins.Inc()
}

// ObserveLogout counts a session termination.
func (m *Metrics) ObserveLogout(reason string) {
	if m == nil {
		return
	}
	m.logouts.WithLabelValues(reason).Inc()
}
