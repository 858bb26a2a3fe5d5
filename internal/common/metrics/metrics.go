// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "generation_requests_completed_total",
			Help: "Total number of script generations completed successfully",
		},
	)

	GenerationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_requests_failed_total",
			Help: "Total number of script generations failed, by error code",
		},
		[]string{"error_code"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "generation_stage_duration_seconds",
			Help: "Duration of pipeline stages in seconds",
		},
		[]string{"stage"},
	)

	TokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_tokens_used_total",
			Help: "Total LLM tokens consumed, by stage and direction",
		},
		[]string{"stage", "direction"},
	)
)
