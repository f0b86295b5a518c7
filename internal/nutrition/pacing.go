package nutrition

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"lg/nutrition-plan-go-api/internal/logger"
)

// PacingSource tells where a weekly pacing value came from.
type PacingSource string

const (
	PacingFromEvent  PacingSource = "event"
	PacingFromManual PacingSource = "manual"
)

// PacingInput carries everything CalculateWeeklyPacing may need. EventDate is
// YYYY-MM-DD and is only read when IsEventDriven is set.
type PacingInput struct {
	CurrentWeightKg float64
	TargetWeightKg  *float64
	EventDate       string
	IsEventDriven   bool
	ManualPacingKg  *float64
}

// Pacing is a resolved weekly weight-change target in kg/week (negative for
// loss). Clamped is set when the event-driven pace exceeded the safe maximum.
type Pacing struct {
	KgPerWeek float64      `json:"kg_per_week"`
	Source    PacingSource `json:"source"`
	Clamped   bool         `json:"clamped"`
	// RequestedKgPerWeek is the pace the event date would have required.
	RequestedKgPerWeek float64 `json:"requested_kg_per_week"`
}

// weeksUntil returns the calendar weeks between today and eventDate, never
// less than one so same-day and past events don't blow up the division.
func weeksUntil(eventDate string, today time.Time) (float64, error) {
	y, m, d, ok := dateParts(eventDate)
	if !ok {
		return 0, invalidDate("event_date", eventDate)
	}
	event := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	weeks := event.Sub(start).Hours() / 24 / 7
	if weeks < 1 {
		weeks = 1
	}
	return weeks, nil
}

// roundTenth rounds to one decimal place.
func roundTenth(x float64) float64 {
	return roundHalfUp(x*10) / 10
}

// CalculateWeeklyPacing resolves the pace to plan with.
//
// Event-driven: the whole weight change is spread over the weeks left until
// the event, clamped to ±MaxWeeklyPacingKg and rounded to one decimal.
// Otherwise the manual pace is returned as given. A nil Pacing means neither
// path produced a value.
//
// The sign is the direction of the weight change, (target − current) / weeks:
// 100 kg → 50 kg in four weeks clamps to -1.5, not +1.5 as a "kg to lose per
// week" figure would read. CalculateAdjustedCalories expects this sign.
func CalculateWeeklyPacing(ctx context.Context, in PacingInput, today time.Time) (*Pacing, error) {
	if in.IsEventDriven && in.EventDate != "" && in.TargetWeightKg != nil {
		weeks, err := weeksUntil(in.EventDate, today)
		if err != nil {
			return nil, err
		}

		requested := (*in.TargetWeightKg - in.CurrentWeightKg) / weeks
		p := &Pacing{Source: PacingFromEvent, RequestedKgPerWeek: roundTenth(requested)}

		pace := requested
		if math.Abs(pace) > MaxWeeklyPacingKg {
			pace = math.Copysign(MaxWeeklyPacingKg, pace)
			p.Clamped = true
			logger.Warn(ctx, "weekly pacing exceeds safe maximum, clamping",
				zap.Float64("requested_kg_per_week", requested),
				zap.Float64("clamped_kg_per_week", pace),
				zap.String("event_date", in.EventDate))
		}
		p.KgPerWeek = roundTenth(pace)
		return p, nil
	}

	if in.ManualPacingKg != nil {
		return &Pacing{
			KgPerWeek:          *in.ManualPacingKg,
			RequestedKgPerWeek: *in.ManualPacingKg,
			Source:             PacingFromManual,
		}, nil
	}
	return nil, nil
}
