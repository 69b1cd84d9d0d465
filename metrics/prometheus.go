package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder is a Recorder backed by prometheus counters, registered
// against the supplied registry (or prometheus.DefaultRegisterer when
// reg is nil).
type PrometheusRecorder struct {
	jobRuns      *prometheus.CounterVec
	stepRuns     *prometheus.CounterVec
	itemsRead    *prometheus.CounterVec
	itemsSkipped *prometheus.CounterVec
	chunkCommits *prometheus.CounterVec
}

// NewPrometheusRecorder registers its collectors with reg and returns a
// ready-to-use Recorder. Pass prometheus.NewRegistry() for an isolated
// registry in tests.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_job_runs_total",
			Help: "Number of job executions by job name and outcome.",
		}, []string{"job_name", "completed"}),
		stepRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_step_runs_total",
			Help: "Number of step executions by step name and outcome.",
		}, []string{"step_name", "completed"}),
		itemsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_items_read_total",
			Help: "Number of items read by step name.",
		}, []string{"step_name"}),
		itemsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_items_skipped_total",
			Help: "Number of items skipped by step name and category.",
		}, []string{"step_name", "category"}),
		chunkCommits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_chunk_commits_total",
			Help: "Number of chunk commit attempts by step name and outcome.",
		}, []string{"step_name", "success"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(r.jobRuns, r.stepRuns, r.itemsRead, r.itemsSkipped, r.chunkCommits)
	return r
}

func (r *PrometheusRecorder) RecordJobStart(jobName string) {}

func (r *PrometheusRecorder) RecordJobEnd(jobName string, completed bool) {
	r.jobRuns.WithLabelValues(jobName, boolLabel(completed)).Inc()
}

func (r *PrometheusRecorder) RecordStepStart(stepName string) {}

func (r *PrometheusRecorder) RecordStepEnd(stepName string, completed bool) {
	r.stepRuns.WithLabelValues(stepName, boolLabel(completed)).Inc()
}

func (r *PrometheusRecorder) RecordItemRead(stepName string) {
	r.itemsRead.WithLabelValues(stepName).Inc()
}

func (r *PrometheusRecorder) RecordItemSkip(stepName string, category string) {
	r.itemsSkipped.WithLabelValues(stepName, category).Inc()
}

func (r *PrometheusRecorder) RecordChunkCommit(stepName string, success bool) {
	r.chunkCommits.WithLabelValues(stepName, boolLabel(success)).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

var _ Recorder = (*PrometheusRecorder)(nil)
