// Package metrics defines and registers the custom Prometheus metrics of the
// restaurant allergy API. Metrics are registered with the default registry on
// import through promauto; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "restaurant_api"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - operation: "register" or "login"
//   - result: "success", "failure" or "invalid"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by result.",
	},
	[]string{"operation", "result"},
)

// ActiveSessions tracks live bearer sessions held in this process's memory
// store. The shared Redis backend does not report it.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Current number of live sessions in the in-process session store.",
	},
)

// AdminRoleChangesTotal counts admin grants and revocations.
// Label:
//   - action: "grant" or "revoke"
var AdminRoleChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_role_changes_total",
		Help:      "Total number of admin role changes, by action.",
	},
	[]string{"action"},
)

// AuditQueueDepth tracks the events waiting in each audit worker channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Catalogue metrics ─────────────────────────────────────────────────────────

var RestaurantsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "restaurants_created_total",
		Help:      "Total number of restaurants created.",
	},
)

var MenuItemsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "menu_items_created_total",
		Help:      "Total number of menu items created.",
	},
)

// IDCollisionsTotal counts generated ids that were already taken.
// Label:
//   - collection: "restaurants" or "menu_items"
var IDCollisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "id_collisions_total",
		Help:      "Total number of random id candidates rejected because they already existed.",
	},
	[]string{"collection"},
)
