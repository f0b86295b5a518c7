package nutrition

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"lg/nutrition-plan-go-api/internal/logger"
)

// UserData is the orchestrator input. Empty strings and nil pointers mean
// "not provided".
type UserData struct {
	Goal          string   `json:"goal"`
	Gender        string   `json:"gender"`
	BirthDate     string   `json:"birth_date"`
	HeightCm      *float64 `json:"height_cm"`
	WeightKg      *float64 `json:"weight_kg"`
	ActivityLevel string   `json:"activity_level"`

	WeeklyPacing   *float64 `json:"weekly_pacing,omitempty"`
	TargetWeightKg *float64 `json:"target_weight_kg,omitempty"`
	EventDate      string   `json:"event_date,omitempty"`
	IsEventDriven  bool     `json:"is_event_driven,omitempty"`
}

// MissingFields lists the required fields that are absent, in input order.
func (u UserData) MissingFields() []string {
	var missing []string
	if u.Goal == "" {
		missing = append(missing, "goal")
	}
	if u.Gender == "" {
		missing = append(missing, "gender")
	}
	if u.BirthDate == "" {
		missing = append(missing, "birth_date")
	}
	if u.HeightCm == nil {
		missing = append(missing, "height_cm")
	}
	if u.WeightKg == nil {
		missing = append(missing, "weight_kg")
	}
	if u.ActivityLevel == "" {
		missing = append(missing, "activity_level")
	}
	return missing
}

// Warning is a non-fatal adjustment the caller may want to show the user.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WarningPacingClamped is emitted when an event date demanded a pace beyond
// MaxWeeklyPacingKg.
const WarningPacingClamped = "pacing_clamped"

// PlanResult is a successful calculation plus the intermediate values that
// produced it.
type PlanResult struct {
	Plan     NutritionPlan `json:"plan"`
	Age      int           `json:"age"`
	BMR      float64       `json:"bmr"`
	TDEE     int           `json:"tdee"`
	Pacing   *Pacing       `json:"pacing,omitempty"`
	Warnings []Warning     `json:"warnings"`
}

// Calculator runs the full plan pipeline. The zero value is not usable; build
// one with NewCalculator. It holds no per-call state and is safe for
// concurrent use.
type Calculator struct {
	now      func() time.Time
	location *time.Location
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) { c.now = now }
}

// WithLocation sets the zone whose calendar date counts as "today".
func WithLocation(loc *time.Location) Option {
	return func(c *Calculator) { c.location = loc }
}

func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{now: time.Now, location: time.UTC}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Today returns the current time in the calculator's location.
func (c *Calculator) Today() time.Time {
	return c.now().In(c.location)
}

// CalculateNutritionPlan validates data and runs age → BMR → TDEE → pacing →
// macros. It never panics: missing input returns *MissingFieldsError, bad
// enums or dates return ErrUnknownEnumValue / ErrInvalidDateFormat, and any
// internal failure is recovered into ErrComputation.
func (c *Calculator) CalculateNutritionPlan(ctx context.Context, data UserData) (result *PlanResult, err error) {
	if missing := data.MissingFields(); len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "nutrition plan calculation panicked", zap.Any("panic", p))
			result, err = nil, computationError("%v", p)
		}
	}()

	result, err = c.calculate(ctx, data)
	if err != nil {
		logger.Info(ctx, "nutrition plan not calculated", zap.Error(err))
	}
	return result, err
}

func (c *Calculator) calculate(ctx context.Context, data UserData) (*PlanResult, error) {
	goal, err := ParseGoal(data.Goal)
	if err != nil {
		return nil, err
	}
	gender, err := ParseGender(data.Gender)
	if err != nil {
		return nil, err
	}
	level, err := ParseActivityLevel(data.ActivityLevel)
	if err != nil {
		return nil, err
	}

	today := c.Today()
	age, err := CalculateAge(data.BirthDate, today)
	if err != nil {
		return nil, err
	}

	bmr := CalculateBMR(*data.WeightKg, *data.HeightCm, age, gender)
	if math.IsNaN(bmr) || math.IsInf(bmr, 0) {
		return nil, computationError("bmr is not a finite number")
	}

	tdee, err := CalculateTDEE(bmr, level)
	if err != nil {
		return nil, err
	}

	pacing, err := CalculateWeeklyPacing(ctx, PacingInput{
		CurrentWeightKg: *data.WeightKg,
		TargetWeightKg:  data.TargetWeightKg,
		EventDate:       data.EventDate,
		IsEventDriven:   data.IsEventDriven,
		ManualPacingKg:  data.WeeklyPacing,
	}, today)
	if err != nil {
		return nil, err
	}

	budget := tdee
	warnings := []Warning{}
	if pacing != nil {
		if math.IsNaN(pacing.KgPerWeek) || math.IsInf(pacing.KgPerWeek, 0) {
			return nil, computationError("weekly pacing is not a finite number")
		}
		budget = CalculateAdjustedCalories(tdee, pacing.KgPerWeek)
		if pacing.Clamped {
			warnings = append(warnings, Warning{
				Code: WarningPacingClamped,
				Message: fmt.Sprintf("reaching the target by the event needs %.1f kg/week; limited to %.1f kg/week",
					pacing.RequestedKgPerWeek, pacing.KgPerWeek),
			})
		}
	}
	if budget <= 0 {
		return nil, computationError("calorie budget %d is not positive", budget)
	}

	macros, err := CalculateMacros(budget, goal)
	if err != nil {
		return nil, err
	}

	return &PlanResult{
		Plan: NutritionPlan{
			Calories: budget,
			Protein:  macros.Protein,
			Carbs:    macros.Carbs,
			Fat:      macros.Fat,
		},
		Age:      age,
		BMR:      bmr,
		TDEE:     tdee,
		Pacing:   pacing,
		Warnings: warnings,
	}, nil
}
