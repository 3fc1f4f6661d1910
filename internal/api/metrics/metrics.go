// Package metrics defines the platform's custom Prometheus metrics. HTTP
// request metrics come from echoprometheus; everything here is domain level.
//
// All metrics register with the default registry at package init through
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "postblog"

// ── User service ─────────────────────────────────────────────────────────────

// UsersCreatedTotal counts successful signups.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created.",
	},
)

// AuthAttemptsTotal counts credential checks made by the auth filter.
// Labels:
//   - scheme: "basic" or "bearer"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by scheme and result.",
	},
	[]string{"scheme", "result"},
)

// SessionTransitionsTotal counts login/logout attempts.
// Labels:
//   - transition: "login" or "logout"
//   - result: "ok" or the HTTP status the attempt failed with
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions attempted.",
	},
	[]string{"transition", "result"},
)

// TokensIssuedTotal counts bearer tokens handed out.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued.",
	},
)

// ── Post service ─────────────────────────────────────────────────────────────

// ContentCreatedTotal counts new posts and comments.
// Label:
//   - kind: "post" or "comment"
var ContentCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_created_total",
		Help:      "Total number of posts and comments created.",
	},
	[]string{"kind"},
)

// ── Gateway ──────────────────────────────────────────────────────────────────

// UpstreamRequestsTotal counts relayed requests.
// Labels:
//   - upstream: "users" or "posts"
//   - outcome: "relayed", "transport_error" or "unavailable"
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests relayed to upstream services.",
	},
	[]string{"upstream", "outcome"},
)

// UpstreamDuration measures round-trip time to an upstream.
var UpstreamDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of relayed upstream requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"upstream"},
)

// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
var CircuitBreakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_state",
		Help:      "Current circuit breaker state per upstream (0 closed, 1 half-open, 2 open).",
	},
	[]string{"upstream"},
)
