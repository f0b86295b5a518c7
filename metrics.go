package main

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"lg/nutrition-plan-go-api/internal/nutrition"
)

// Plan calculation outcomes, used as the "outcome" metric label.
const (
	outcomeOK               = "ok"
	outcomeMissingFields    = "missing_fields"
	outcomeInvalidInput     = "invalid_input"
	outcomeComputationError = "computation_error"
)

var (
	planCalculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nutrition",
		Name:      "plan_calculations_total",
		Help:      "Nutrition plan calculations by trigger and outcome.",
	}, []string{"trigger", "outcome"})

	pacingClamped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nutrition",
		Name:      "pacing_clamped_total",
		Help:      "Plans whose event-driven pacing was clamped to the safe maximum.",
	})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nutrition",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method, route and status.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"method", "route", "status"})
)

// planOutcome maps a calculator error to its metric label.
func planOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, nutrition.ErrMissingFields):
		return outcomeMissingFields
	case errors.Is(err, nutrition.ErrInvalidDateFormat), errors.Is(err, nutrition.ErrUnknownEnumValue):
		return outcomeInvalidInput
	default:
		return outcomeComputationError
	}
}

// recordPlan counts one calculation. trigger names the caller: "calculate",
// "profile", "recalculate" or "weight_log".
func recordPlan(trigger string, res *nutrition.PlanResult, err error) {
	planCalculations.WithLabelValues(trigger, planOutcome(err)).Inc()
	if res != nil && res.Pacing != nil && res.Pacing.Clamped {
		pacingClamped.Inc()
	}
}
