package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg               *prometheus.Registry
	OrdersPlaced      prometheus.Counter
	CommitFailures    *prometheus.CounterVec
	CommitLatencySec  prometheus.Histogram
	OrdersCompleted   prometheus.Counter
	KitchenReady      prometheus.Counter
	KitchenRejected   *prometheus.CounterVec
	InventoryConsumed *prometheus.CounterVec
	StockRejected     prometheus.Counter
	ReorderAlerts     prometheus.Counter
	PublishFailures   *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{Name: "foodcourt_orders_placed_total"})
	commitFailures := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "foodcourt_order_commit_failures_total"}, []string{"kind"})
	commitLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "foodcourt_order_commit_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})
	ordersCompleted := prometheus.NewCounter(prometheus.CounterOpts{Name: "foodcourt_orders_completed_total"})
	kitchenReady := prometheus.NewCounter(prometheus.CounterOpts{Name: "foodcourt_kitchen_ready_total"})
	kitchenRejected := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "foodcourt_kitchen_transition_rejected_total"}, []string{"kind"})
	consumed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "foodcourt_inventory_consumed_units_total"}, []string{"item_id"})
	stockRejected := prometheus.NewCounter(prometheus.CounterOpts{Name: "foodcourt_inventory_insufficient_total"})
	reorderAlerts := prometheus.NewCounter(prometheus.CounterOpts{Name: "foodcourt_inventory_reorder_alerts_total"})
	publishFailures := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "foodcourt_publish_failures_total"}, []string{"type"})

	r.MustRegister(ordersPlaced, commitFailures, commitLatency, ordersCompleted, kitchenReady, kitchenRejected,
		consumed, stockRejected, reorderAlerts, publishFailures)
	return &Registry{
		reg:               r,
		OrdersPlaced:      ordersPlaced,
		CommitFailures:    commitFailures,
		CommitLatencySec:  commitLatency,
		OrdersCompleted:   ordersCompleted,
		KitchenReady:      kitchenReady,
		KitchenRejected:   kitchenRejected,
		InventoryConsumed: consumed,
		StockRejected:     stockRejected,
		ReorderAlerts:     reorderAlerts,
		PublishFailures:   publishFailures,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
