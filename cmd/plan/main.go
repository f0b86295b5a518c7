// CLI tool to calculate a nutrition plan without the API or a database.
// Usage: go run ./cmd/plan --goal maintain --gender male --birth-date 1990-06-15 \
//
//	--height 180 --weight 80 --activity moderate
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lg/nutrition-plan-go-api/internal/logger"
	"lg/nutrition-plan-go-api/internal/nutrition"
)

type planFlags struct {
	data      nutrition.UserData
	heightCm  float64
	weightKg  float64
	pacing    float64
	targetKg  float64
	timezone  string
	logFormat string
}

// userData copies the numeric flags into data, leaving unset ones nil so the
// calculator reports them as missing.
func (f *planFlags) userData(cmd *cobra.Command) nutrition.UserData {
	data := f.data
	if cmd.Flags().Changed("height") {
		data.HeightCm = &f.heightCm
	}
	if cmd.Flags().Changed("weight") {
		data.WeightKg = &f.weightKg
	}
	if cmd.Flags().Changed("pacing") {
		data.WeeklyPacing = &f.pacing
	}
	if cmd.Flags().Changed("target-weight") {
		data.TargetWeightKg = &f.targetKg
	}
	return data
}

// writePlan calculates a plan and writes it to out as indented JSON.
func writePlan(ctx context.Context, calc *nutrition.Calculator, data nutrition.UserData, out io.Writer) error {
	res, err := calc.CalculateNutritionPlan(ctx, data)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func newRootCommand() *cobra.Command {
	f := &planFlags{}

	cmd := &cobra.Command{
		Use:          "plan",
		Short:        "Calculates a daily calorie and macro plan",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Setup(f.logFormat)
			defer logger.Sync()

			loc, err := time.LoadLocation(f.timezone)
			if err != nil {
				return fmt.Errorf("invalid timezone %q: %w", f.timezone, err)
			}
			calc := nutrition.NewCalculator(nutrition.WithLocation(loc))
			return writePlan(cmd.Context(), calc, f.userData(cmd), cmd.OutOrStdout())
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.data.Goal, "goal", "", "lose_weight, maintain or gain_muscle")
	fl.StringVar(&f.data.Gender, "gender", "", "male, female or other")
	fl.StringVar(&f.data.BirthDate, "birth-date", "", "birth date, YYYY-MM-DD")
	fl.Float64Var(&f.heightCm, "height", 0, "height in cm")
	fl.Float64Var(&f.weightKg, "weight", 0, "weight in kg")
	fl.StringVar(&f.data.ActivityLevel, "activity", "", "sedentary, light, moderate or very_active")
	fl.Float64Var(&f.pacing, "pacing", 0, "manual weekly pacing in kg, negative to lose")
	fl.Float64Var(&f.targetKg, "target-weight", 0, "target weight in kg for event pacing")
	fl.StringVar(&f.data.EventDate, "event-date", "", "event date, YYYY-MM-DD")
	fl.BoolVar(&f.data.IsEventDriven, "event-driven", false, "derive pacing from --target-weight and --event-date")
	fl.StringVar(&f.timezone, "timezone", "UTC", "IANA zone deciding which day is today")
	fl.StringVar(&f.logFormat, "log", logger.DevelopmentEnvironment, "log format: development or production")

	return cmd
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
