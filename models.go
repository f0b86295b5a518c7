package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"lg/nutrition-plan-go-api/internal/nutrition"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

// ymd formats the date as YYYY-MM-DD, the form the calculator expects.
// A nil date formats as "".
func (d *DateOnly) ymd() string {
	if d == nil {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// userProfile maps to user_profiles: the onboarding answers plus the stored
// daily plan. Profile inputs are nullable until onboarding fills them in.
type userProfile struct {
	UserID int `json:"user_id" db:"user_id"`

	Gender         *string   `json:"gender"           db:"gender"`
	BirthDate      *DateOnly `json:"birth_date"       db:"birth_date"`
	HeightCm       *float64  `json:"height_cm"        db:"height_cm"`
	WeightKg       *float64  `json:"weight_kg"        db:"weight_kg"`
	ActivityLevel  *string   `json:"activity_level"   db:"activity_level"`
	Goal           *string   `json:"goal"             db:"goal"`
	TargetWeightKg *float64  `json:"target_weight_kg" db:"target_weight_kg"`
	EventDate      *DateOnly `json:"event_date"       db:"event_date"`
	IsEventDriven  bool      `json:"is_event_driven"  db:"is_event_driven"`
	WeeklyPacing   *float64  `json:"weekly_pacing"    db:"weekly_pacing"`

	// Stored plan. Either the last calculation or values the user typed in.
	Calories int `json:"calories"  db:"calories"`
	ProteinG int `json:"protein_g" db:"protein_g"`
	CarbsG   int `json:"carbs_g"   db:"carbs_g"`
	FatG     int `json:"fat_g"     db:"fat_g"`

	PlanAuto           bool       `json:"plan_auto"           db:"plan_auto"`
	OnboardingComplete bool       `json:"onboarding_complete" db:"onboarding_complete"`
	CreatedAt          *time.Time `json:"created_at"          db:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"          db:"updated_at"`

	// Computed is filled server-side when the profile is complete; not stored.
	Computed *nutrition.PlanResult `json:"computed,omitempty" db:"-"`
}

// userData converts the stored profile into calculator input.
func (p *userProfile) userData() nutrition.UserData {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return nutrition.UserData{
		Goal:           deref(p.Goal),
		Gender:         deref(p.Gender),
		BirthDate:      p.BirthDate.ymd(),
		HeightCm:       p.HeightCm,
		WeightKg:       p.WeightKg,
		ActivityLevel:  deref(p.ActivityLevel),
		WeeklyPacing:   p.WeeklyPacing,
		TargetWeightKg: p.TargetWeightKg,
		EventDate:      p.EventDate.ymd(),
		IsEventDriven:  p.IsEventDriven,
	}
}

// weightEntry maps to weight_log. One entry per user per day.
type weightEntry struct {
	ID        int        `json:"id"         db:"id"`
	UserID    int        `json:"user_id"    db:"user_id"`
	Date      DateOnly   `json:"date"       db:"date"`
	WeightKg  float64    `json:"weight_kg"  db:"weight_kg"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// weightProgressStats summarises a weight-log range for the progress chart.
// Pointer fields are null when the range has no entries.
type weightProgressStats struct {
	Entries        int      `json:"entries"`
	StartWeightKg  *float64 `json:"start_weight_kg"`
	LatestWeightKg *float64 `json:"latest_weight_kg"`
	ChangeKg       *float64 `json:"change_kg"`
	TargetWeightKg *float64 `json:"target_weight_kg"`
	RemainingKg    *float64 `json:"remaining_kg"`
	AvgKgPerWeek   *float64 `json:"avg_kg_per_week"`
}

// weightProgressResponse is the response shape for GET /api/weight-log/progress.
type weightProgressResponse struct {
	Entries []weightEntry       `json:"entries"`
	Stats   weightProgressStats `json:"stats"`
}

/* ─── Request bodies ─────────────────────────────────────────────────── */

// calculatePlanRequest is the body for POST /api/nutrition-plan/calculate.
// Enum and presence checks are left to the calculator so it can report them;
// only the plausible ranges are validated here.
type calculatePlanRequest struct {
	Goal           string   `json:"goal"`
	Gender         string   `json:"gender"`
	BirthDate      string   `json:"birth_date"`
	HeightCm       *float64 `json:"height_cm"        validate:"omitnil,gte=100,lte=250"`
	WeightKg       *float64 `json:"weight_kg"        validate:"omitnil,gte=30,lte=300"`
	ActivityLevel  string   `json:"activity_level"`
	WeeklyPacing   *float64 `json:"weekly_pacing"    validate:"omitnil,gte=-1.5,lte=1.5"`
	TargetWeightKg *float64 `json:"target_weight_kg" validate:"omitnil,gte=30,lte=300"`
	EventDate      string   `json:"event_date"`
	IsEventDriven  bool     `json:"is_event_driven"`
}

func (r calculatePlanRequest) userData() nutrition.UserData {
	return nutrition.UserData{
		Goal:           r.Goal,
		Gender:         r.Gender,
		BirthDate:      r.BirthDate,
		HeightCm:       r.HeightCm,
		WeightKg:       r.WeightKg,
		ActivityLevel:  r.ActivityLevel,
		WeeklyPacing:   r.WeeklyPacing,
		TargetWeightKg: r.TargetWeightKg,
		EventDate:      r.EventDate,
		IsEventDriven:  r.IsEventDriven,
	}
}

// patchProfileRequest is the body for PATCH /api/profile. All fields are
// pointers; only non-nil fields are written.
type patchProfileRequest struct {
	Gender         *string  `json:"gender"           validate:"omitnil,oneof=male female other"`
	BirthDate      *string  `json:"birth_date"       validate:"omitnil,datetime=2006-01-02"`
	HeightCm       *float64 `json:"height_cm"        validate:"omitnil,gte=100,lte=250"`
	WeightKg       *float64 `json:"weight_kg"        validate:"omitnil,gte=30,lte=300"`
	ActivityLevel  *string  `json:"activity_level"   validate:"omitnil,oneof=sedentary light moderate very_active"`
	Goal           *string  `json:"goal"             validate:"omitnil,oneof=lose_weight maintain gain_muscle"`
	TargetWeightKg *float64 `json:"target_weight_kg" validate:"omitnil,gte=30,lte=300"`
	EventDate      *string  `json:"event_date"       validate:"omitnil,datetime=2006-01-02"`
	IsEventDriven  *bool    `json:"is_event_driven"`
	WeeklyPacing   *float64 `json:"weekly_pacing"    validate:"omitnil,gte=-1.5,lte=1.5"`

	Calories *int `json:"calories"  validate:"omitnil,gt=0"`
	ProteinG *int `json:"protein_g" validate:"omitnil,gte=0"`
	CarbsG   *int `json:"carbs_g"   validate:"omitnil,gte=0"`
	FatG     *int `json:"fat_g"     validate:"omitnil,gte=0"`

	PlanAuto           *bool `json:"plan_auto"`
	OnboardingComplete *bool `json:"onboarding_complete"`
}

// changesPlanInputs reports whether the patch touches any calculator input.
func (r *patchProfileRequest) changesPlanInputs() bool {
	return r.Gender != nil || r.BirthDate != nil || r.HeightCm != nil ||
		r.WeightKg != nil || r.ActivityLevel != nil || r.Goal != nil ||
		r.TargetWeightKg != nil || r.EventDate != nil || r.IsEventDriven != nil ||
		r.WeeklyPacing != nil || r.PlanAuto != nil
}

// setsStoredPlan reports whether the patch writes plan targets by hand.
func (r *patchProfileRequest) setsStoredPlan() bool {
	return r.Calories != nil || r.ProteinG != nil || r.CarbsG != nil || r.FatG != nil
}

// upsertWeightRequest is the body for POST /api/weight-log.
type upsertWeightRequest struct {
	Date     string  `json:"date"      validate:"required,datetime=2006-01-02"`
	WeightKg float64 `json:"weight_kg" validate:"gte=30,lte=300"`
}

// updateWeightRequest is the body for PUT /api/weight-log/:id.
type updateWeightRequest struct {
	Date     *string  `json:"date"      validate:"omitnil,datetime=2006-01-02"`
	WeightKg *float64 `json:"weight_kg" validate:"omitnil,gte=30,lte=300"`
}
