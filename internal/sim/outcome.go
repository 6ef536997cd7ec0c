package sim

import (
	"math/rand"

	"championship-sim/internal/constants"
)

type MatchOutcome int

const (
	OutcomeAWins MatchOutcome = iota
	OutcomeBWins
	OutcomeTie
)

// WinProbability is A's chance of winning a played-out game, clamped away
// from 0 and 1 so every result stays possible.
func WinProbability(skillA, skillB float64) float64 {
	p := 0.5 + (skillA - skillB)
	if p < constants.WinProbFloor {
		p = constants.WinProbFloor
	}
	if p > constants.WinProbCeil {
		p = constants.WinProbCeil
	}
	return p
}

// Resolve draws a single value from rng and converts it into an outcome.
// The tie band is checked first; the remaining mass is split between the
// two sides in proportion to the clamped win probability. The order
// matters: splitting before the tie check would skew the effective tie
// rate.
func Resolve(rng *rand.Rand, skillA, skillB, tieRate float64) MatchOutcome {
	p := WinProbability(skillA, skillB)
	r := rng.Float64()
	if r < tieRate {
		return OutcomeTie
	}
	if r < tieRate+p*(1-tieRate) {
		return OutcomeAWins
	}
	return OutcomeBWins
}
