package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CheckoutMetrics counts the outcomes the checkout workflow can take.
type CheckoutMetrics struct {
	OrdersCreated  prometheus.Counter
	StockConflicts prometheus.Counter
	Shipments      *prometheus.CounterVec
}

// NewCheckoutMetrics registers and returns the checkout counters.
func NewCheckoutMetrics() *CheckoutMetrics {
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bazaar",
		Name:      "orders_created_total",
		Help:      "Total number of orders committed by checkout.",
	})
	stockConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bazaar",
		Name:      "checkout_stock_conflicts_total",
		Help:      "Total number of checkouts aborted by insufficient stock.",
	})
	shipments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bazaar",
		Name:      "shipment_registrations_total",
		Help:      "Total number of courier registration attempts by result.",
	}, []string{"result"})

	prometheus.MustRegister(ordersCreated, stockConflicts, shipments)
	return &CheckoutMetrics{
		OrdersCreated:  ordersCreated,
		StockConflicts: stockConflicts,
		Shipments:      shipments,
	}
}

// Handler serves the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
