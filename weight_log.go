package main

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"lg/nutrition-plan-go-api/internal/logger"
)

// parseDateRange reads the required start/end query params (YYYY-MM-DD).
// On failure it writes a 400 and returns ok=false.
func parseDateRange(c *gin.Context) (start, end string, ok bool) {
	start = c.Query("start")
	end = c.Query("end")

	if start == "" || end == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return "", "", false
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return "", "", false
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return "", "", false
	}
	if start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return "", "", false
	}
	return start, end, true
}

// entryID parses the :id path param. On failure it writes a 400.
func entryID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		apiError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) weightEntriesInRange(ctx context.Context, userID int, start, end string) ([]weightEntry, error) {
	entries, err := queryMany[weightEntry](ctx, h.db,
		`SELECT * FROM weight_log
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []weightEntry{}
	}
	return entries, nil
}

// getWeightLog returns weight entries for the authenticated user within [start, end].
// GET /api/weight-log?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params required.
// Returns an empty array (not null) if no entries exist in the range.
func (h *Handler) getWeightLog(c *gin.Context) {
	userID := c.GetInt(userIDKey)
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	entries, err := h.weightEntriesInRange(c.Request.Context(), userID, start, end)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// getWeightProgress returns the entries in [start, end] plus summary stats
// measured against the profile's target weight.
// GET /api/weight-log/progress?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *Handler) getWeightProgress(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt(userIDKey)
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	entries, err := h.weightEntriesInRange(ctx, userID, start, end)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}

	var target *float64
	err = h.db.QueryRow(ctx,
		"SELECT target_weight_kg FROM user_profiles WHERE user_id = $1", userID).Scan(&target)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Error(ctx, "could not load target weight", zap.Error(err))
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, weightProgressResponse{
		Entries: entries,
		Stats:   computeWeightProgress(entries, target),
	})
}

// computeWeightProgress summarises entries, which must be sorted by date
// ascending. The weekly average needs at least a week between the first and
// last entry.
func computeWeightProgress(entries []weightEntry, target *float64) weightProgressStats {
	stats := weightProgressStats{Entries: len(entries), TargetWeightKg: target}
	if len(entries) == 0 {
		return stats
	}

	first, last := entries[0], entries[len(entries)-1]
	startKg := first.WeightKg
	latestKg := last.WeightKg
	change := round2(latestKg - startKg)
	stats.StartWeightKg = &startKg
	stats.LatestWeightKg = &latestKg
	stats.ChangeKg = &change

	if target != nil {
		remaining := round2(*target - latestKg)
		stats.RemainingKg = &remaining
	}

	days := last.Date.Sub(first.Date.Time).Hours() / 24
	if days >= 7 {
		avg := round2((latestKg - startKg) / (days / 7))
		stats.AvgKgPerWeek = &avg
	}
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// upsertWeightEntry creates or updates the weight entry for the given date.
// POST /api/weight-log. Body: { "date": "YYYY-MM-DD", "weight_kg": 82.5 }.
// The UNIQUE(user_id, date) constraint means posting the same date updates in place.
// When the entry is the newest one, the profile weight follows it.
func (h *Handler) upsertWeightEntry(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt(userIDKey)

	var body upsertWeightRequest
	if !h.bindAndValidate(c, &body) {
		return
	}

	entry, err := queryOne[weightEntry](ctx, h.db,
		`INSERT INTO weight_log (user_id, date, weight_kg)
		 VALUES (@userID, @date, @weightKg)
		 ON CONFLICT (user_id, date) DO UPDATE SET weight_kg = EXCLUDED.weight_kg
		 RETURNING *`,
		pgx.NamedArgs{"userID": userID, "date": body.Date, "weightKg": body.WeightKg})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to upsert weight entry")
		return
	}

	h.syncProfileWeight(ctx, userID, body.Date, body.WeightKg)

	c.JSON(http.StatusCreated, entry)
}

// syncProfileWeight copies weightKg into the profile unless a later entry
// exists, then refreshes the stored plan when plan_auto is on. Failures are
// logged; the weight entry itself is already saved.
func (h *Handler) syncProfileWeight(ctx context.Context, userID int, date string, weightKg float64) {
	p, err := queryOne[userProfile](ctx, h.db,
		`UPDATE user_profiles SET weight_kg = @weightKg, updated_at = now()
		 WHERE user_id = @userID
		   AND NOT EXISTS (
		     SELECT 1 FROM weight_log WHERE user_id = @userID AND date > @date
		   )
		 RETURNING *`,
		pgx.NamedArgs{"userID": userID, "date": date, "weightKg": weightKg})
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			logger.Error(ctx, "could not sync profile weight", zap.Int("user_id", userID), zap.Error(err))
		}
		return
	}

	if p.PlanAuto {
		h.autoUpdatePlan(ctx, "weight_log", p)
	}
}

// resyncProfileWeight points the profile back at the newest remaining entry
// after an entry was edited or removed. With no entries left the profile
// weight stays as it is.
func (h *Handler) resyncProfileWeight(ctx context.Context, userID int) {
	latest, err := queryOne[weightEntry](ctx, h.db,
		`SELECT * FROM weight_log WHERE user_id = @userID ORDER BY date DESC LIMIT 1`,
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			logger.Error(ctx, "could not load latest weight entry", zap.Int("user_id", userID), zap.Error(err))
		}
		return
	}

	h.syncProfileWeight(ctx, userID, latest.Date.ymd(), latest.WeightKg)
}

// updateWeightEntry partially updates an existing weight entry.
// PUT /api/weight-log/:id. Body: { "date"?, "weight_kg"? }.
// Uses COALESCE so omitted fields keep their current values. The profile
// weight is then resynced to whichever entry is now the newest.
func (h *Handler) updateWeightEntry(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt(userIDKey)
	id, ok := entryID(c)
	if !ok {
		return
	}

	var body updateWeightRequest
	if !h.bindAndValidate(c, &body) {
		return
	}

	entry, err := queryOne[weightEntry](ctx, h.db,
		`UPDATE weight_log SET
			date      = COALESCE(@date::date, date),
			weight_kg = COALESCE(@weightKg::double precision, weight_kg)
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{"id": id, "userID": userID, "date": body.Date, "weightKg": body.WeightKg})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "weight entry not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update weight entry")
		}
		return
	}

	h.resyncProfileWeight(ctx, userID)

	c.JSON(http.StatusOK, entry)
}

// deleteWeightEntry removes a weight log entry by ID.
// DELETE /api/weight-log/:id. Returns 204 on success, 404 if not found.
// Ownership is enforced by requiring both id and user_id to match. A removed
// newest entry hands the profile weight back to the one before it.
func (h *Handler) deleteWeightEntry(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt(userIDKey)
	id, ok := entryID(c)
	if !ok {
		return
	}

	result, err := h.db.Exec(ctx,
		"DELETE FROM weight_log WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		logger.Error(ctx, "delete failed", zap.Int("id", id), zap.Error(err))
		apiError(c, http.StatusInternalServerError, "failed to delete weight entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "weight entry not found")
		return
	}

	h.resyncProfileWeight(ctx, userID)

	c.Status(http.StatusNoContent)
}
