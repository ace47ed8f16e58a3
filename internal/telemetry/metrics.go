package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the business counters. A nil *Metrics records nothing.
type Metrics struct {
	ordersPlaced      *prometheus.CounterVec
	orderFailures     *prometheus.CounterVec
	stockReservations *prometheus.CounterVec
	orderRevenue      prometheus.Counter
	idempotentReplays prometheus.Counter
}

// NewMetrics registers the business metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ordersPlaced: f.NewCounterVec(prometheus.CounterOpts{
			Name: "store_orders_placed_total",
			Help: "Orders placed, by owner type",
		}, []string{"owner"}),
		orderFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "store_order_failures_total",
			Help: "Rejected order placements, by error code",
		}, []string{"code"}),
		stockReservations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "store_stock_reservations_total",
			Help: "Stock reservation attempts, by result",
		}, []string{"result"}),
		orderRevenue: f.NewCounter(prometheus.CounterOpts{
			Name: "store_order_revenue_total",
			Help: "Sum of declared order totals",
		}),
		idempotentReplays: f.NewCounter(prometheus.CounterOpts{
			Name: "store_order_idempotent_replays_total",
			Help: "Order placements answered from a remembered idempotency key",
		}),
	}
}

func (m *Metrics) OrderPlaced(guest bool, total float64) {
	if m == nil {
		return
	}
	owner := "user"
	if guest {
		owner = "guest"
	}
	m.ordersPlaced.WithLabelValues(owner).Inc()
	if total > 0 {
		m.orderRevenue.Add(total)
	}
}

func (m *Metrics) OrderFailed(code string) {
	if m == nil {
		return
	}
	m.orderFailures.WithLabelValues(code).Inc()
}

// StockReserved records one reservation outcome: ok, insufficient or not_found.
func (m *Metrics) StockReserved(result string) {
	if m == nil {
		return
	}
	m.stockReservations.WithLabelValues(result).Inc()
}

func (m *Metrics) IdempotentReplay() {
	if m == nil {
		return
	}
	m.idempotentReplays.Inc()
}
