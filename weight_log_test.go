package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryOn(date string, kg float64) weightEntry {
	d, _ := time.Parse("2006-01-02", date)
	return weightEntry{Date: DateOnly{d}, WeightKg: kg}
}

func TestComputeWeightProgress(t *testing.T) {
	target := 75.0
	entries := []weightEntry{
		entryOn("2024-01-01", 82.0),
		entryOn("2024-01-08", 81.2),
		entryOn("2024-01-15", 80.5),
		entryOn("2024-01-29", 80.0),
	}

	stats := computeWeightProgress(entries, &target)

	assert.Equal(t, 4, stats.Entries)
	require.NotNil(t, stats.StartWeightKg)
	assert.Equal(t, 82.0, *stats.StartWeightKg)
	require.NotNil(t, stats.LatestWeightKg)
	assert.Equal(t, 80.0, *stats.LatestWeightKg)
	require.NotNil(t, stats.ChangeKg)
	assert.Equal(t, -2.0, *stats.ChangeKg)
	require.NotNil(t, stats.RemainingKg)
	assert.Equal(t, -5.0, *stats.RemainingKg)
	require.NotNil(t, stats.AvgKgPerWeek)
	assert.Equal(t, -0.5, *stats.AvgKgPerWeek)
	assert.Equal(t, &target, stats.TargetWeightKg)
}

func TestComputeWeightProgress_Empty(t *testing.T) {
	stats := computeWeightProgress(nil, nil)

	assert.Equal(t, 0, stats.Entries)
	assert.Nil(t, stats.StartWeightKg)
	assert.Nil(t, stats.LatestWeightKg)
	assert.Nil(t, stats.ChangeKg)
	assert.Nil(t, stats.RemainingKg)
	assert.Nil(t, stats.AvgKgPerWeek)
}

// Under a week of history there is no meaningful weekly rate.
func TestComputeWeightProgress_ShortRange(t *testing.T) {
	entries := []weightEntry{
		entryOn("2024-01-01", 70.0),
		entryOn("2024-01-04", 70.4),
	}

	stats := computeWeightProgress(entries, nil)

	require.NotNil(t, stats.ChangeKg)
	assert.Equal(t, 0.4, *stats.ChangeKg)
	assert.Nil(t, stats.AvgKgPerWeek)
	assert.Nil(t, stats.RemainingKg)
}

// setupWeightLogTest serves the weight-log routes with a fixed user and no DB,
// so only requests rejected before the query can be exercised.
func setupWeightLogTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := newHandler(nil, testCalculator())
	router := gin.New()
	fakeAuth := func(c *gin.Context) {
		c.Set(userIDKey, 1)
		c.Next()
	}
	router.GET("/api/weight-log", fakeAuth, h.getWeightLog)
	router.GET("/api/weight-log/progress", fakeAuth, h.getWeightProgress)
	router.POST("/api/weight-log", fakeAuth, h.upsertWeightEntry)
	router.PUT("/api/weight-log/:id", fakeAuth, h.updateWeightEntry)
	router.DELETE("/api/weight-log/:id", fakeAuth, h.deleteWeightEntry)
	return router
}

func TestWeightLog_Rejected(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   string
	}{
		{"missing range", http.MethodGet, "/api/weight-log?start=2024-01-01", "", "start and end query params are required"},
		{"bad start", http.MethodGet, "/api/weight-log?start=jan&end=2024-01-31", "", "invalid start, expected YYYY-MM-DD"},
		{"bad end", http.MethodGet, "/api/weight-log/progress?start=2024-01-01&end=31-01-2024", "", "invalid end, expected YYYY-MM-DD"},
		{"reversed range", http.MethodGet, "/api/weight-log/progress?start=2024-02-01&end=2024-01-01", "", "start must not be after end"},
		{"missing date", http.MethodPost, "/api/weight-log", `{"weight_kg": 80}`, "invalid fields: date"},
		{"weight too low", http.MethodPost, "/api/weight-log", `{"date": "2024-01-01", "weight_kg": 12}`, "invalid fields: weight_kg"},
		{"bad id", http.MethodPut, "/api/weight-log/abc", `{"weight_kg": 80}`, "invalid id"},
		{"bad update date", http.MethodPut, "/api/weight-log/3", `{"date": "tomorrow"}`, "invalid fields: date"},
		{"bad delete id", http.MethodDelete, "/api/weight-log/0", "", "invalid id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			setupWeightLogTest().ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error": "`+tc.want+`"}`, w.Body.String())
		})
	}
}
