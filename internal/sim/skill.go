package sim

import (
	"math"

	"championship-sim/internal/constants"
)

// Skill maps championship points to a skill value in (0, 1]. The curve is
// piecewise: a steep power curve below the low-CP threshold, linear ramps
// through the entry and mid bands, and a saturating tail for elite ratings.
// It is monotonically non-decreasing in CP.
func Skill(cp int) float64 {
	switch {
	case cp <= constants.LowCPMax:
		return 0.2 + 0.10*math.Pow(float64(cp)/float64(constants.LowCPMax), 10)
	case cp <= 500:
		progress := float64(cp-332) / 168.0
		return 0.30 + 0.20*progress
	case cp <= 800:
		progress := float64(cp-501) / 299.0
		return 0.50 + 0.30*progress
	default:
		return 0.80 + 0.20*math.Min(float64(cp-801)/1000.0, 1.0)
	}
}

// EffectiveSkills returns both sides' skill values with the rating-cliff
// penalty applied: when one side sits at or below the low-CP threshold and
// the other at or above the high-CP threshold, the low side's skill is
// multiplied by the brutal factor. Brutal reports whether the penalty
// fired for either side.
func EffectiveSkills(cpA, cpB int) (skillA, skillB float64, brutal bool) {
	skillA = Skill(cpA)
	skillB = Skill(cpB)
	switch {
	case cpA <= constants.LowCPMax && cpB >= constants.HighCPMin:
		skillA *= constants.BrutalMultiplier
		brutal = true
	case cpB <= constants.LowCPMax && cpA >= constants.HighCPMin:
		skillB *= constants.BrutalMultiplier
		brutal = true
	}
	return skillA, skillB, brutal
}
