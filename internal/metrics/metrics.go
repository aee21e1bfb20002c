package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "leadcapture"

// Submission results
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Total number of lead submissions by result",
		},
		[]string{"result"},
	)

	SubmissionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submission_failures_total",
			Help:      "Failed lead submissions by the table insert that failed",
		},
		[]string{"stage"},
	)

	SubmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Duration of the lead submission transaction in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wizard_transitions_total",
			Help:      "Wizard step transitions by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	DraftsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "drafts_active",
			Help:      "Number of wizard drafts held by the draft store",
		},
	)

	DraftsPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drafts_purged_total",
			Help:      "Expired wizard drafts removed by the cleanup job",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status class",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Background job runs by job and result",
		},
		[]string{"job", "result"},
	)
)

// RecordSubmission counts one submission attempt. stage is ignored on success.
func RecordSubmission(success bool, stage string, seconds float64) {
	SubmissionDuration.Observe(seconds)
	if success {
		SubmissionsTotal.WithLabelValues(ResultSuccess).Inc()
		return
	}
	SubmissionsTotal.WithLabelValues(ResultFailure).Inc()
	SubmissionFailures.WithLabelValues(stage).Inc()
}

// RecordTransition counts a wizard action such as next, back or submit
func RecordTransition(action string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "rejected"
	}
	WizardTransitions.WithLabelValues(action, outcome).Inc()
}

// RecordJob counts a background job run
func RecordJob(job string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	JobRuns.WithLabelValues(job, result).Inc()
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
