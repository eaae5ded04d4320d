package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters/histograms for booking flows.
type SchedulingMetrics struct {
	bookingsTotal    *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	rpcLatency       *prometheus.HistogramVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookwise",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome",
		}, []string{"result"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookwise",
			Subsystem: "scheduling",
			Name:      "transitions_total",
			Help:      "Appointment status changes by transition and outcome",
		}, []string{"transition", "result"}),
		rpcLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bookwise",
			Subsystem: "grpc",
			Name:      "request_duration_seconds",
			Help:      "Latency of gRPC requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "code"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.transitionsTotal, m.rpcLatency)
	return m
}

func (m *SchedulingMetrics) ObserveBooking(result string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(result).Inc()
}

func (m *SchedulingMetrics) ObserveTransition(transition, result string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(transition, result).Inc()
}

func (m *SchedulingMetrics) ObserveRPC(method, code string, seconds float64) {
	if m == nil {
		return
	}
	m.rpcLatency.WithLabelValues(method, code).Observe(seconds)
}
