package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records placement outcomes for the ordering pipeline.
type OrderMetrics struct {
	duration    *prometheus.HistogramVec
	placed      *prometheus.CounterVec
	failed      *prometheus.CounterVec
	redemptions prometheus.Counter
	points      prometheus.Counter
}

// NewOrderMetrics registers the ordering metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_placement_duration_seconds",
		Help:    "Duration of order placement transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"order_type"})
	placed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders successfully placed.",
	}, []string{"order_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Order placements rejected or rolled back.",
	}, []string{"reason"})
	redemptions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "discount_redemptions_total",
		Help: "Discount codes redeemed for points.",
	})
	points := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "loyalty_points_awarded_total",
		Help: "Loyalty points credited by completed orders.",
	})
	reg.MustRegister(duration, placed, failed, redemptions, points)
	return &OrderMetrics{
		duration:    duration,
		placed:      placed,
		failed:      failed,
		redemptions: redemptions,
		points:      points,
	}
}

// ObserveDuration records how long a placement transaction took.
func (m *OrderMetrics) ObserveDuration(orderType string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(orderType)).Observe(duration.Seconds())
}

// IncPlaced increments the placed counter for the order type.
func (m *OrderMetrics) IncPlaced(orderType string) {
	if m == nil || m.placed == nil {
		return
	}
	m.placed.WithLabelValues(normalizeLabel(orderType)).Inc()
}

// IncFailed increments the failure counter with the rejection reason.
func (m *OrderMetrics) IncFailed(reason string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncRedemption increments the discount redemption counter.
func (m *OrderMetrics) IncRedemption() {
	if m == nil || m.redemptions == nil {
		return
	}
	m.redemptions.Inc()
}

// AddPointsAwarded adds the points credited by an order.
func (m *OrderMetrics) AddPointsAwarded(points int64) {
	if m == nil || m.points == nil || points <= 0 {
		return
	}
	m.points.Add(float64(points))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
