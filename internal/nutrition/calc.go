// Package nutrition turns a user's vitals, activity level, goal and pacing
// preference into daily calorie and macro targets.
//
// The pipeline is age → BMR (Mifflin-St Jeor) → TDEE → pacing-adjusted
// calories → macro split. Every step is a pure function; Calculator only adds
// a clock so "today" can be pinned.
package nutrition

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// kcal per gram
	proteinKcalPerGram = 4
	carbsKcalPerGram   = 4
	fatKcalPerGram     = 9

	// kcalPerKg is the energy in one kilogram of body fat (≈3500 kcal/lb).
	kcalPerKg = 7700

	// MaxWeeklyPacingKg is the safe maximum weekly weight change. Event-driven
	// pacing beyond it is clamped.
	MaxWeeklyPacingKg = 1.5
)

// NutritionPlan is the daily target handed back to the client.
type NutritionPlan struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

// Macros holds gram targets for each macro.
type Macros struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

// roundHalfUp rounds to the nearest integer with .5 going up, so -0.5 rounds
// to 0 rather than -1.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// dateParts splits a YYYY-MM-DD string into its numeric components without
// going through time.Parse, so no zone or locale can shift the day.
func dateParts(s string) (year, month, day int, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, 0, 0, false
		}
		nums[i] = n
	}
	if nums[1] < 1 || nums[1] > 12 || nums[2] < 1 || nums[2] > 31 {
		return 0, 0, 0, false
	}
	// time.Date normalises 02-31 into March; such days don't exist.
	t := time.Date(nums[0], time.Month(nums[1]), nums[2], 0, 0, 0, 0, time.UTC)
	if t.Day() != nums[2] {
		return 0, 0, 0, false
	}
	return nums[0], nums[1], nums[2], true
}

// CalculateAge returns whole years between birthDate (YYYY-MM-DD) and the
// calendar date of today. Only the date parts of today are used.
func CalculateAge(birthDate string, today time.Time) (int, error) {
	y, m, d, ok := dateParts(birthDate)
	if !ok {
		return 0, invalidDate("birth_date", birthDate)
	}

	age := today.Year() - y
	// Birthday not reached yet this year
	if int(today.Month()) < m || (int(today.Month()) == m && today.Day() < d) {
		age--
	}
	if age < 0 {
		return 0, invalidDate("birth_date", birthDate)
	}
	return age, nil
}

// CalculateBMR implements Mifflin-St Jeor. The result is not rounded and the
// inputs are not range-checked.
func CalculateBMR(weightKg, heightCm float64, age int, gender Gender) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// CalculateTDEE scales bmr by the activity multiplier and rounds.
func CalculateTDEE(bmr float64, level ActivityLevel) (int, error) {
	mult, ok := level.Multiplier()
	if !ok {
		return 0, &UnknownEnumError{Field: "activity_level", Value: string(level)}
	}
	return int(roundHalfUp(bmr * mult)), nil
}

// CalculateMacros splits calorieBudget by the goal's ratio and converts each
// share to grams. Grams are rounded independently; the sum converted back to
// kcal may differ from the budget by a few calories.
func CalculateMacros(calorieBudget int, goal Goal) (Macros, error) {
	ratio, ok := goal.Ratio()
	if !ok {
		return Macros{}, &UnknownEnumError{Field: "goal", Value: string(goal)}
	}
	budget := float64(calorieBudget)
	return Macros{
		Protein: int(roundHalfUp(budget * ratio.Protein / proteinKcalPerGram)),
		Carbs:   int(roundHalfUp(budget * ratio.Carbs / carbsKcalPerGram)),
		Fat:     int(roundHalfUp(budget * ratio.Fat / fatKcalPerGram)),
	}, nil
}

// CalculateAdjustedCalories shifts tdee by the daily energy implied by
// weeklyPacingKg. Pacing is signed like body weight change: negative (loss)
// lowers the budget, positive (gain) raises it.
func CalculateAdjustedCalories(tdee int, weeklyPacingKg float64) int {
	dailyDelta := weeklyPacingKg * kcalPerKg / 7
	return int(roundHalfUp(float64(tdee) + dailyDelta))
}
