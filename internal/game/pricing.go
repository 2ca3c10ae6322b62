package game

import "math"

// UpgradePrice returns the cost of the next unit of an upgrade.
// level is the number of units already owned, so the first purchase
// is quoted at level 0.
func UpgradePrice(basePrice float64, level int64, multiplier float64) float64 {
	return math.Floor(basePrice * math.Pow(multiplier, float64(level)))
}

// PassiveIncome returns the income per second contributed by an upgrade
// owned at the given level.
func PassiveIncome(baseIncome float64, level int64) float64 {
	return baseIncome * float64(level)
}

// ClickBoost returns the click power contributed by an upgrade owned at
// the given level.
func ClickBoost(baseBoost int64, level int64) int64 {
	return baseBoost * level
}
