package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"lg/nutrition-plan-go-api/internal/logger"
	"lg/nutrition-plan-go-api/internal/nutrition"
)

const profilesTable = "user_profiles"

var (
	pgDialect = goqu.Dialect("postgres")

	errNoFieldsToUpdate = errors.New("no fields to update")
)

// getProfile returns the authenticated user's profile. The computed plan is
// attached when every required field is present.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt(userIDKey)

	p, err := queryOne[userProfile](ctx, h.db,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "profile not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		}
		return
	}

	h.populateComputedPlan(ctx, &p)

	c.JSON(http.StatusOK, p)
}

// patchProfile updates only the provided profile fields.
// PATCH /api/profile. When plan_auto is on after the update and a calculator
// input changed, the stored plan is recalculated and persisted. Targets sent
// in the same patch win over the recalculation.
func (h *Handler) patchProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt(userIDKey)

	var body patchProfileRequest
	if !h.bindAndValidate(c, &body) {
		return
	}

	query, args, err := buildProfileUpdate(userID, &body)
	if err != nil {
		if errors.Is(err, errNoFieldsToUpdate) {
			apiError(c, http.StatusBadRequest, err.Error())
		} else {
			logger.Error(ctx, "could not build profile update", zap.Error(err))
			apiError(c, http.StatusInternalServerError, "failed to update profile")
		}
		return
	}

	p, err := queryOne[userProfile](ctx, h.db, query, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "profile not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update profile")
		}
		return
	}

	if p.PlanAuto && body.changesPlanInputs() && !body.setsStoredPlan() {
		p = h.autoUpdatePlan(ctx, "profile", p)
	}
	h.populateComputedPlan(ctx, &p)

	c.JSON(http.StatusOK, p)
}

// recalculateProfile recomputes the plan from the stored profile and
// overwrites the stored targets, including ones the user edited by hand.
// POST /api/profile/recalculate.
func (h *Handler) recalculateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt(userIDKey)

	p, err := queryOne[userProfile](ctx, h.db,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "profile not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		}
		return
	}

	res, err := h.runPlan(ctx, "recalculate", p.userData())
	if err != nil {
		planError(c, err)
		return
	}

	updated, err := h.storePlan(ctx, userID, res.Plan)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to store plan")
		return
	}
	updated.Computed = res

	c.JSON(http.StatusOK, updated)
}

// autoUpdatePlan recalculates and persists p's plan. Failures leave p as it
// was; an incomplete profile during onboarding is the common case.
func (h *Handler) autoUpdatePlan(ctx context.Context, trigger string, p userProfile) userProfile {
	res, err := h.runPlan(ctx, trigger, p.userData())
	if err != nil {
		return p
	}
	updated, err := h.storePlan(ctx, p.UserID, res.Plan)
	if err != nil {
		logger.Error(ctx, "auto plan update failed", zap.Int("user_id", p.UserID), zap.Error(err))
		return p
	}
	return updated
}

// storePlan writes plan into the user's stored targets.
func (h *Handler) storePlan(ctx context.Context, userID int, plan nutrition.NutritionPlan) (userProfile, error) {
	return queryOne[userProfile](ctx, h.db,
		`UPDATE user_profiles SET
			calories   = @calories,
			protein_g  = @protein,
			carbs_g    = @carbs,
			fat_g      = @fat,
			updated_at = now()
		 WHERE user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "calories": plan.Calories,
			"protein": plan.Protein, "carbs": plan.Carbs, "fat": plan.Fat,
		})
}

// populateComputedPlan attaches the plan the calculator would produce for p.
// No-ops while required fields are missing.
func (h *Handler) populateComputedPlan(ctx context.Context, p *userProfile) {
	data := p.userData()
	if len(data.MissingFields()) > 0 {
		return
	}
	if res, err := h.calc.CalculateNutritionPlan(ctx, data); err == nil {
		p.Computed = res
	}
}

// buildProfileUpdate builds an UPDATE … RETURNING * that sets only the fields
// present in body.
func buildProfileUpdate(userID int, body *patchProfileRequest) (string, []any, error) {
	rec := goqu.Record{}

	if body.Gender != nil {
		rec["gender"] = *body.Gender
	}
	if body.BirthDate != nil {
		rec["birth_date"] = *body.BirthDate
	}
	if body.HeightCm != nil {
		rec["height_cm"] = *body.HeightCm
	}
	if body.WeightKg != nil {
		rec["weight_kg"] = *body.WeightKg
	}
	if body.ActivityLevel != nil {
		rec["activity_level"] = *body.ActivityLevel
	}
	if body.Goal != nil {
		rec["goal"] = *body.Goal
	}
	if body.TargetWeightKg != nil {
		rec["target_weight_kg"] = *body.TargetWeightKg
	}
	if body.EventDate != nil {
		rec["event_date"] = *body.EventDate
	}
	if body.IsEventDriven != nil {
		rec["is_event_driven"] = *body.IsEventDriven
	}
	if body.WeeklyPacing != nil {
		rec["weekly_pacing"] = *body.WeeklyPacing
	}
	if body.Calories != nil {
		rec["calories"] = *body.Calories
	}
	if body.ProteinG != nil {
		rec["protein_g"] = *body.ProteinG
	}
	if body.CarbsG != nil {
		rec["carbs_g"] = *body.CarbsG
	}
	if body.FatG != nil {
		rec["fat_g"] = *body.FatG
	}
	if body.PlanAuto != nil {
		rec["plan_auto"] = *body.PlanAuto
	}
	if body.OnboardingComplete != nil {
		rec["onboarding_complete"] = *body.OnboardingComplete
	}

	if len(rec) == 0 {
		return "", nil, errNoFieldsToUpdate
	}
	rec["updated_at"] = goqu.L("now()")

	return pgDialect.Update(profilesTable).
		Prepared(true).
		Set(rec).
		Where(goqu.C("user_id").Eq(userID)).
		Returning(goqu.Star()).
		ToSQL()
}
