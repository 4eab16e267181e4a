package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the conversation engine.
type ChatMetrics struct {
	messagesTotal      *prometheus.CounterVec
	bookingsTotal      prometheus.Counter
	cancellationsTotal prometheus.Counter
	slotConflictsTotal prometheus.Counter
	handleLatency      prometheus.Histogram
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barbearia",
			Subsystem: "chat",
			Name:      "messages_total",
			Help:      "Total inbound messages by conversation state",
		}, []string{"state"}),
		bookingsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "barbearia",
			Subsystem: "chat",
			Name:      "bookings_total",
			Help:      "Total confirmed bookings",
		}),
		cancellationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "barbearia",
			Subsystem: "chat",
			Name:      "cancellations_total",
			Help:      "Total cancelled appointments",
		}),
		slotConflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "barbearia",
			Subsystem: "chat",
			Name:      "slot_conflicts_total",
			Help:      "Bookings rejected because the slot was taken between offer and confirmation",
		}),
		handleLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "barbearia",
			Subsystem: "chat",
			Name:      "handle_latency_seconds",
			Help:      "Latency of message handling",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal, m.bookingsTotal, m.cancellationsTotal, m.slotConflictsTotal, m.handleLatency)
	return m
}

func (m *ChatMetrics) ObserveMessage(state string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(state).Inc()
}

func (m *ChatMetrics) ObserveBooking() {
	if m == nil {
		return
	}
	m.bookingsTotal.Inc()
}

func (m *ChatMetrics) ObserveCancellation() {
	if m == nil {
		return
	}
	m.cancellationsTotal.Inc()
}

func (m *ChatMetrics) ObserveSlotConflict() {
	if m == nil {
		return
	}
	m.slotConflictsTotal.Inc()
}

func (m *ChatMetrics) ObserveHandleLatency(seconds float64) {
	if m == nil {
		return
	}
	m.handleLatency.Observe(seconds)
}
