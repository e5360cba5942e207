package metrics

import "github.com/prometheus/client_golang/prometheus"

// MailQueueMetrics exposes counters and a depth gauge for the delivery queue.
type MailQueueMetrics struct {
	queuedTotal *prometheus.CounterVec
	sentTotal   *prometheus.CounterVec
	failedTotal *prometheus.CounterVec
	depth       prometheus.Gauge
}

func NewMailQueueMetrics(reg prometheus.Registerer) *MailQueueMetrics {
	m := &MailQueueMetrics{
		queuedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadneedle",
			Subsystem: "mailqueue",
			Name:      "queued_total",
			Help:      "Total emails enqueued for delivery",
		}, []string{"type"}),
		sentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadneedle",
			Subsystem: "mailqueue",
			Name:      "sent_total",
			Help:      "Total emails delivered",
		}, []string{"type"}),
		failedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadneedle",
			Subsystem: "mailqueue",
			Name:      "failed_total",
			Help:      "Total emails that reached terminal failure",
		}, []string{"type", "reason"}),
		depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "leadneedle",
			Subsystem: "mailqueue",
			Name:      "depth",
			Help:      "Jobs currently waiting in the queue",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.queuedTotal, m.sentTotal, m.failedTotal, m.depth)
	return m
}

func (m *MailQueueMetrics) ObserveQueued(jobType string) {
	if m == nil {
		return
	}
	m.queuedTotal.WithLabelValues(jobType).Inc()
}

func (m *MailQueueMetrics) ObserveSent(jobType string) {
	if m == nil {
		return
	}
	m.sentTotal.WithLabelValues(jobType).Inc()
}

func (m *MailQueueMetrics) ObserveFailed(jobType, reason string) {
	if m == nil {
		return
	}
	m.failedTotal.WithLabelValues(jobType, reason).Inc()
}

func (m *MailQueueMetrics) SetDepth(n int) {
	if m == nil {
		return
	}
	m.depth.Set(float64(n))
}

// DispatcherMetrics tracks inbound message handling outcomes.
type DispatcherMetrics struct {
	handledTotal      *prometheus.CounterVec
	completionLatency prometheus.Histogram
}

func NewDispatcherMetrics(reg prometheus.Registerer) *DispatcherMetrics {
	m := &DispatcherMetrics{
		handledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadneedle",
			Subsystem: "dispatcher",
			Name:      "handled_total",
			Help:      "Inbound messages handled, by result status",
		}, []string{"status"}),
		completionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "leadneedle",
			Subsystem: "dispatcher",
			Name:      "completion_latency_seconds",
			Help:      "Latency of upstream completion calls",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.handledTotal, m.completionLatency)
	return m
}

func (m *DispatcherMetrics) ObserveHandled(status string) {
	if m == nil {
		return
	}
	m.handledTotal.WithLabelValues(status).Inc()
}

func (m *DispatcherMetrics) ObserveCompletionLatency(seconds float64) {
	if m == nil {
		return
	}
	m.completionLatency.Observe(seconds)
}
