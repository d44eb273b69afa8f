package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/joseph-ayodele/budget-pipeline/constants"
)

// Per-kind job outcome counters and latency. The daemon exposes these on
// its metrics listener.
var (
	jobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worker_jobs_total",
		Help: "Total jobs processed",
	}, []string{"kind", "status"})

	jobLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "worker_job_latency_seconds",
		Help: "Job processing latency",
	}, []string{"kind"})
)

func observeJob(kind constants.JobKind, status constants.JobStatus, start time.Time) {
	jobsProcessed.WithLabelValues(string(kind), string(status)).Inc()
	jobLatency.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
}
