package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/nutrition-plan-go-api/internal/nutrition"
)

// runPlan calculates a plan and records the outcome metric.
func (h *Handler) runPlan(ctx context.Context, trigger string, data nutrition.UserData) (*nutrition.PlanResult, error) {
	res, err := h.calc.CalculateNutritionPlan(ctx, data)
	recordPlan(trigger, res, err)
	return res, err
}

// planError writes the HTTP response for a failed calculation. Missing input
// is 422 with the field names, bad dates or enum values are 400, anything
// else is a generic 500.
func planError(c *gin.Context, err error) {
	var missing *nutrition.MissingFieldsError
	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          nutrition.ErrMissingFields.Error(),
			"missing_fields": missing.Fields,
		})
	case errors.Is(err, nutrition.ErrInvalidDateFormat), errors.Is(err, nutrition.ErrUnknownEnumValue):
		apiError(c, http.StatusBadRequest, err.Error())
	default:
		apiError(c, http.StatusInternalServerError, nutrition.ErrComputation.Error())
	}
}

// calculateNutritionPlan computes a plan from the posted onboarding answers
// without storing anything. Used by onboarding before an account exists.
// POST /api/nutrition-plan/calculate.
func (h *Handler) calculateNutritionPlan(c *gin.Context) {
	var body calculatePlanRequest
	if !h.bindAndValidate(c, &body) {
		return
	}

	res, err := h.runPlan(c.Request.Context(), "calculate", body.userData())
	if err != nil {
		planError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
