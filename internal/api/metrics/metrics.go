// Package metrics defines and registers the custom Prometheus metrics of the
// contract farming API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "farming"

// ── Account metrics ───────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful signups.
// Label:
//   - role: "farmer" or "buyer"
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "rejected"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// CropsCreatedTotal counts newly stored crop listings (replays excluded).
var CropsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "crops_created_total",
		Help:      "Total number of crop listings created.",
	},
)

// UploadsRejectedTotal counts images refused before they were persisted.
// Label:
//   - reason: "unsupported_type", "too_large" or "storage"
var UploadsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_rejected_total",
		Help:      "Total number of crop images rejected, by reason.",
	},
	[]string{"reason"},
)

// ── Contract metrics ──────────────────────────────────────────────────────────

// ContractsGeneratedTotal counts contract requests.
// Label:
//   - result: "ok", "not_found" or "error"
var ContractsGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contracts_generated_total",
		Help:      "Total number of contract generation requests, by result.",
	},
	[]string{"result"},
)
