package handler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	messagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "kafka_consumer",
			Name:      "messages_processed_total",
			Help:      "Total number of successfully processed messages",
		},
		[]string{"consumer"},
	)

	messagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "kafka_consumer",
			Name:      "messages_failed_total",
			Help:      "Total number of failed message processing attempts",
		},
		[]string{"consumer"},
	)

	messagesDLQ = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "kafka_consumer",
			Name:      "messages_dlq_total",
			Help:      "Total number of messages written to DLQ",
		},
		[]string{"consumer"},
	)

	commitErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "kafka_consumer",
			Name:      "commit_errors_total",
			Help:      "Total number of Kafka commit errors",
		},
		[]string{"consumer"},
	)

	messageProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "kafka_consumer",
			Name:      "message_processing_duration_seconds",
			Help:      "Histogram of message processing durations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"consumer"},
	)

	messagesInProgress = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "storefront",
			Subsystem: "kafka_consumer",
			Name:      "messages_in_progress",
			Help:      "Number of messages currently being processed",
		},
		[]string{"consumer"},
	)
)

var statusRequestTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "http",
		Name:      "status_update_requests_total",
		Help:      "Total number of order status update requests by result",
	},
	[]string{"result"},
)

func RegisterMetrics() {
	prometheus.MustRegister(
		messagesProcessed,
		messagesFailed,
		messagesDLQ,
		commitErrors,
		messageProcessingDuration,
		messagesInProgress,

		statusRequestTotal,
	)
}
