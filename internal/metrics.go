package internal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alertbridge_deliveries_total",
			Help: "Webhook deliveries received, by event kind.",
		},
		[]string{"event"},
	)
	rejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alertbridge_rejections_total",
			Help: "Deliveries rejected before dispatch, by error code.",
		},
		[]string{"code"},
	)
	skippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alertbridge_skipped_total",
			Help: "Deliveries acknowledged but skipped for unsupported event kinds.",
		},
	)
	dispatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alertbridge_dispatches_total",
			Help: "Outbound repository_dispatch calls accepted by GitHub.",
		},
	)
)

func IncDelivery(event string) {
	deliveriesTotal.WithLabelValues(event).Inc()
}

func IncRejection(code string) {
	rejectionsTotal.WithLabelValues(code).Inc()
}

func IncSkipped() {
	skippedTotal.Inc()
}

func IncDispatch() {
	dispatchesTotal.Inc()
}
