// Package progress implements the gamified XP-bar arithmetic shown on the
// home screen. All functions are pure; amounts are in cents.
package progress

import "math"

const baseXP = 50

// Input holds the activity figures the XP calculation is derived from.
type Input struct {
	SavedMoney     int64 // net amount saved across wallets
	WeeklyExpenses int64
	DailyExpenses  int64
	WeeklyGoal     int64 // zero means unset
	DailyGoal      int64 // zero means unset
	BonusXP        int64 // XP from external sources (achievements)
}

// Summary is the computed XP-bar state.
type Summary struct {
	Level          int     `json:"level"`
	TotalXP        int64   `json:"total_xp"`
	CurrentXP      int64   `json:"current_xp"`
	RequiredXP     int64   `json:"required_xp"`
	Progress       float64 `json:"progress"`
	WeeklyProgress float64 `json:"weekly_progress"`
	DailyProgress  float64 `json:"daily_progress"`
}

// RequiredXP returns the XP needed to clear the given level:
// floor(50 * level^1.5), with level clamped to at least 1.
func RequiredXP(level int) int64 {
	if level < 1 {
		level = 1
	}
	return int64(math.Floor(baseXP * math.Pow(float64(level), 1.5)))
}

// goalProgress returns the fraction of the goal that remains unspent,
// clamped to [0, 1]. An unset goal yields 0.
func goalProgress(goal, spent int64) float64 {
	if goal <= 0 {
		return 0
	}
	p := float64(goal-spent) / float64(goal)
	return math.Min(1, math.Max(0, p))
}

// Compute derives the level and XP-bar state from activity figures. A user
// with no activity at all sits at level 0 with an empty bar.
func Compute(in Input) Summary {
	weekProgress := goalProgress(in.WeeklyGoal, in.WeeklyExpenses)
	dayProgress := goalProgress(in.DailyGoal, in.DailyExpenses)

	hasActivity := in.SavedMoney > 0 || in.WeeklyExpenses > 0 || in.DailyExpenses > 0 || in.BonusXP > 0
	if !hasActivity {
		return Summary{RequiredXP: RequiredXP(1)}
	}

	// XP earned from activities. Saved money counts in major units.
	savingXP := in.SavedMoney / 100 / 5
	var weeklyBonus int64
	switch {
	case in.WeeklyExpenses > 0 && weekProgress >= 0.8:
		weeklyBonus = 50
	case in.WeeklyExpenses > 0 && weekProgress >= 0.5:
		weeklyBonus = 20
	}
	var dailyBonus int64
	switch {
	case in.DailyExpenses > 0 && dayProgress >= 0.9:
		dailyBonus = 15
	case in.DailyExpenses > 0 && dayProgress >= 0.7:
		dailyBonus = 8
	}

	totalXP := savingXP + weeklyBonus + dailyBonus + in.BonusXP
	if totalXP <= 0 {
		return Summary{
			RequiredXP:     RequiredXP(1),
			WeeklyProgress: weekProgress,
			DailyProgress:  dayProgress,
		}
	}

	level := 1
	var accumulated int64
	required := RequiredXP(level)
	for totalXP >= accumulated+required {
		accumulated += required
		level++
		required = RequiredXP(level)
	}

	current := totalXP - accumulated
	var fraction float64
	if required > 0 {
		fraction = float64(current) / float64(required)
	}

	return Summary{
		Level:          level,
		TotalXP:        totalXP,
		CurrentXP:      current,
		RequiredXP:     required,
		Progress:       fraction,
		WeeklyProgress: weekProgress,
		DailyProgress:  dayProgress,
	}
}
