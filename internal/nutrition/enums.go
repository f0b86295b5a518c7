package nutrition

// Gender selects the Mifflin-St Jeor constant. Anything other than male uses
// the female constant.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender validates s against the known genders.
func ParseGender(s string) (Gender, error) {
	switch g := Gender(s); g {
	case GenderMale, GenderFemale, GenderOther:
		return g, nil
	}
	return "", &UnknownEnumError{Field: "gender", Value: s}
}

// ActivityLevel is the self-reported activity level used to scale BMR into TDEE.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityVeryActive ActivityLevel = "very_active"
)

// ActivityLevels lists every valid level in ascending order.
var ActivityLevels = []ActivityLevel{ActivitySedentary, ActivityLight, ActivityModerate, ActivityVeryActive}

// Multiplier returns the fixed TDEE multiplier for a. ok is false for values
// outside the closed set.
func (a ActivityLevel) Multiplier() (mult float64, ok bool) {
	switch a {
	case ActivitySedentary:
		return 1.2, true
	case ActivityLight:
		return 1.375, true
	case ActivityModerate:
		return 1.55, true
	case ActivityVeryActive:
		return 1.725, true
	}
	return 0, false
}

// ParseActivityLevel validates s against the known activity levels.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	a := ActivityLevel(s)
	if _, ok := a.Multiplier(); !ok {
		return "", &UnknownEnumError{Field: "activity_level", Value: s}
	}
	return a, nil
}

// Goal decides how the calorie budget is split between macros.
type Goal string

const (
	GoalLoseWeight Goal = "lose_weight"
	GoalMaintain   Goal = "maintain"
	GoalGainMuscle Goal = "gain_muscle"
)

// Goals lists every valid goal.
var Goals = []Goal{GoalLoseWeight, GoalMaintain, GoalGainMuscle}

// MacroRatio is the share of calories assigned to each macro. The three
// fractions of every goal sum to 1.0.
type MacroRatio struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// Ratio returns the fixed macro split for g.
func (g Goal) Ratio() (MacroRatio, bool) {
	switch g {
	case GoalLoseWeight:
		return MacroRatio{Protein: 0.30, Carbs: 0.40, Fat: 0.30}, true
	case GoalMaintain:
		return MacroRatio{Protein: 0.25, Carbs: 0.45, Fat: 0.30}, true
	case GoalGainMuscle:
		return MacroRatio{Protein: 0.35, Carbs: 0.40, Fat: 0.25}, true
	}
	return MacroRatio{}, false
}

// ParseGoal validates s against the known goals.
func ParseGoal(s string) (Goal, error) {
	g := Goal(s)
	if _, ok := g.Ratio(); !ok {
		return "", &UnknownEnumError{Field: "goal", Value: s}
	}
	return g, nil
}
