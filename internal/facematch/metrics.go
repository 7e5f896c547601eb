package facematch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recognitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facematch_recognitions_total",
		Help: "Recognition attempts by outcome.",
	}, []string{"outcome"})

	writePublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "facematch_write_publish_failures_total",
		Help: "Detached attendance writes that could not be queued after a match.",
	})
)
