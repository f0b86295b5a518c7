package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lg/nutrition-plan-go-api/internal/nutrition"
)

// testCalculator pins "today" to 2024-01-01 so plan numbers are stable.
func testCalculator() *nutrition.Calculator {
	return nutrition.NewCalculator(nutrition.WithClock(func() time.Time {
		return time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	}))
}

// setupPlanTest creates a Gin engine serving only the public calculate
// endpoint. No DB needed.
func setupPlanTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := newHandler(nil, testCalculator())
	router := gin.New()
	router.Use(requestLogger())
	router.POST("/api/nutrition-plan/calculate", h.calculateNutritionPlan)
	return router
}

// doPlanRequest sends a POST to the calculate endpoint with the given body.
func doPlanRequest(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/nutrition-plan/calculate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const completePlanBody = `{
	"goal": "lose_weight",
	"gender": "male",
	"birth_date": "1990-06-15",
	"height_cm": 175,
	"weight_kg": 80.5,
	"activity_level": "moderate"
}`

func TestCalculateNutritionPlanEndpoint(t *testing.T) {
	router := setupPlanTest()
	before := testutil.ToFloat64(planCalculations.WithLabelValues("calculate", outcomeOK))

	w := doPlanRequest(router, completePlanBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res nutrition.PlanResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, nutrition.NutritionPlan{Calories: 2695, Protein: 202, Carbs: 270, Fat: 90}, res.Plan)
	assert.Equal(t, 33, res.Age)
	assert.Equal(t, 2695, res.TDEE)
	assert.Nil(t, res.Pacing)

	after := testutil.ToFloat64(planCalculations.WithLabelValues("calculate", outcomeOK))
	assert.Equal(t, before+1, after)
}

func TestCalculateNutritionPlanEndpoint_ManualPacing(t *testing.T) {
	body := strings.Replace(completePlanBody, `"activity_level": "moderate"`,
		`"activity_level": "moderate", "weekly_pacing": -0.5`, 1)

	w := doPlanRequest(setupPlanTest(), body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res nutrition.PlanResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2145, res.Plan.Calories)
	require.NotNil(t, res.Pacing)
	assert.Equal(t, nutrition.PacingFromManual, res.Pacing.Source)
}

func TestCalculateNutritionPlanEndpoint_EventPacingWarning(t *testing.T) {
	body := `{
		"goal": "lose_weight", "gender": "male", "birth_date": "1990-06-15",
		"height_cm": 175, "weight_kg": 100, "activity_level": "moderate",
		"is_event_driven": true, "target_weight_kg": 50, "event_date": "2024-01-29"
	}`
	before := testutil.ToFloat64(pacingClamped)

	w := doPlanRequest(setupPlanTest(), body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res nutrition.PlanResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 1347, res.Plan.Calories)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, nutrition.WarningPacingClamped, res.Warnings[0].Code)
	assert.Equal(t, before+1, testutil.ToFloat64(pacingClamped))
}

func TestCalculateNutritionPlanEndpoint_MissingFields(t *testing.T) {
	w := doPlanRequest(setupPlanTest(), `{"goal": "maintain", "gender": "female", "birth_date": "1990-06-15", "activity_level": "light"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		Error         string   `json:"error"`
		MissingFields []string `json:"missing_fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "missing required fields", body.Error)
	assert.Equal(t, []string{"height_cm", "weight_kg"}, body.MissingFields)
}

func TestCalculateNutritionPlanEndpoint_Errors(t *testing.T) {
	cases := []struct {
		name       string
		replace    [2]string
		wantStatus int
		wantError  string
	}{
		{"unknown goal", [2]string{`"lose_weight"`, `"shred"`}, http.StatusBadRequest, "unknown enum value"},
		{"bad birth date", [2]string{`"1990-06-15"`, `"15/06/1990"`}, http.StatusBadRequest, "invalid date format"},
		{"height out of range", [2]string{`"height_cm": 175`, `"height_cm": 50`}, http.StatusBadRequest, "invalid fields: height_cm"},
		{"pacing out of range", [2]string{`"weight_kg": 80.5`, `"weight_kg": 80.5, "weekly_pacing": -3`}, http.StatusBadRequest, "invalid fields: weekly_pacing"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := strings.Replace(completePlanBody, tc.replace[0], tc.replace[1], 1)

			w := doPlanRequest(setupPlanTest(), body)
			assert.Equal(t, tc.wantStatus, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), tc.wantError)
		})
	}
}

// A plan whose budget goes non-positive is a generic 500; the reason stays in the logs.
func TestCalculateNutritionPlanEndpoint_ComputationError(t *testing.T) {
	body := `{
		"goal": "lose_weight", "gender": "male", "birth_date": "1990-06-15",
		"height_cm": 100, "weight_kg": 35, "activity_level": "moderate",
		"weekly_pacing": -1.5
	}`
	before := testutil.ToFloat64(planCalculations.WithLabelValues("calculate", outcomeComputationError))

	w := doPlanRequest(setupPlanTest(), body)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "could not calculate plan"}`, w.Body.String())
	assert.Equal(t, before+1, testutil.ToFloat64(planCalculations.WithLabelValues("calculate", outcomeComputationError)))
}

func TestCalculateNutritionPlanEndpoint_MalformedJSON(t *testing.T) {
	w := doPlanRequest(setupPlanTest(), `{"goal":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "invalid request body"}`, w.Body.String())
}

func TestPlanOutcome(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, outcomeOK},
		{&nutrition.MissingFieldsError{Fields: []string{"goal"}}, outcomeMissingFields},
		{fmt.Errorf("wrapped: %w", nutrition.ErrInvalidDateFormat), outcomeInvalidInput},
		{&nutrition.UnknownEnumError{Field: "goal", Value: "x"}, outcomeInvalidInput},
		{nutrition.ErrComputation, outcomeComputationError},
		{errors.New("boom"), outcomeComputationError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, planOutcome(tc.err))
	}
}
