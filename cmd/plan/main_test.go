package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lg/nutrition-plan-go-api/internal/nutrition"
)

func TestWritePlan(t *testing.T) {
	calc := nutrition.NewCalculator(nutrition.WithClock(func() time.Time {
		return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	}))
	height, weight := 175.0, 80.5
	data := nutrition.UserData{
		Goal: "lose_weight", Gender: "male", BirthDate: "1990-06-15",
		HeightCm: &height, WeightKg: &weight, ActivityLevel: "moderate",
	}

	var out bytes.Buffer
	require.NoError(t, writePlan(context.Background(), calc, data, &out))

	var res nutrition.PlanResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, nutrition.NutritionPlan{Calories: 2695, Protein: 202, Carbs: 270, Fat: 90}, res.Plan)
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"--goal", "maintain", "--gender", "female", "--birth-date", "1985-03-02",
		"--height", "165", "--weight", "62", "--activity", "light", "--pacing", "-0.25",
	})

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	var res nutrition.PlanResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Positive(t, res.Plan.Calories)
	assert.Less(t, res.Plan.Calories, res.TDEE)
	require.NotNil(t, res.Pacing)
	assert.Equal(t, -0.25, res.Pacing.KgPerWeek)
}

// Unset numeric flags stay nil, so the calculator reports them rather than
// computing with zeros.
func TestRootCommand_MissingFlags(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--goal", "maintain", "--gender", "female", "--birth-date", "1985-03-02", "--activity", "light"})

	err := cmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, nutrition.ErrMissingFields)

	var missing *nutrition.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"height_cm", "weight_kg"}, missing.Fields)
}

func TestRootCommand_BadTimezone(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--timezone", "Mars/Olympus"})

	require.ErrorContains(t, cmd.ExecuteContext(context.Background()), "invalid timezone")
}
