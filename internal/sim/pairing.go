package sim

import (
	"math/rand"
	"sort"

	"championship-sim/internal/domain"

	"github.com/rs/zerolog"
)

// PairingPolicy controls how the engine relaxes the no-rematch constraint
// when a bracket offers no fresh opponent. With PreferCrossBracket false a
// participant takes an in-bracket rematch before spilling into the
// cross-bracket leftover pass; with it true the participant spills over
// instead.
type PairingPolicy struct {
	PreferCrossBracket bool
}

type Pairer struct {
	rng    *rand.Rand
	policy PairingPolicy
	logger zerolog.Logger
}

func NewPairer(rng *rand.Rand, policy PairingPolicy, logger zerolog.Logger) *Pairer {
	return &Pairer{rng: rng, policy: policy, logger: logger}
}

// Round pairs every active participant exactly once. Participants are
// grouped into point brackets processed high to low and shuffled within
// each bracket, then paired by a forward scan that prefers opponents not
// yet played. Anyone left over is paired across brackets in bracket order;
// a final odd participant receives the bye.
func (p *Pairer) Round(participants []*Participant) []domain.Pairing {
	brackets := make(map[int][]*Participant)
	for _, pt := range participants {
		if !pt.Active {
			continue
		}
		brackets[pt.Points] = append(brackets[pt.Points], pt)
	}

	totals := make([]int, 0, len(brackets))
	for points := range brackets {
		totals = append(totals, points)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(totals)))

	var pairings []domain.Pairing
	var leftovers []*Participant
	paired := make(map[int64]bool)

	for _, points := range totals {
		bracket := brackets[points]
		p.rng.Shuffle(len(bracket), func(i, j int) {
			bracket[i], bracket[j] = bracket[j], bracket[i]
		})

		for i, cur := range bracket {
			if paired[cur.Player.ID] {
				continue
			}
			opp := p.findOpponent(bracket, i, cur, paired)
			if opp == nil {
				leftovers = append(leftovers, cur)
				continue
			}
			pairings = append(pairings, domain.Pairing{A: cur.Player.ID, B: opp.Player.ID})
			paired[cur.Player.ID] = true
			paired[opp.Player.ID] = true
		}
	}

	// Cross-bracket pass: leftovers pair sequentially, ignoring bracket and
	// rematch constraints. An odd one out receives the bye.
	for i := 0; i+1 < len(leftovers); i += 2 {
		pairings = append(pairings, domain.Pairing{
			A: leftovers[i].Player.ID,
			B: leftovers[i+1].Player.ID,
		})
	}
	if len(leftovers)%2 == 1 {
		last := leftovers[len(leftovers)-1]
		if last.Byes > 0 {
			// Nothing here prevents a repeat bye; surface it instead of
			// silently resolving.
			p.logger.Warn().
				Int64("player_id", last.Player.ID).
				Str("player", last.Player.Name).
				Int("previous_byes", last.Byes).
				Msg("participant drew a repeat bye")
		}
		pairings = append(pairings, domain.Pairing{A: last.Player.ID, B: domain.ByeOpponent})
	}

	return pairings
}

// findOpponent scans forward from position i for the first unpaired
// non-repeat opponent, then (policy permitting) for any unpaired bracket
// member as a rematch.
func (p *Pairer) findOpponent(bracket []*Participant, i int, cur *Participant, paired map[int64]bool) *Participant {
	for _, cand := range bracket[i+1:] {
		if paired[cand.Player.ID] || cur.HasPlayed(cand.Player.ID) {
			continue
		}
		return cand
	}
	if p.policy.PreferCrossBracket {
		return nil
	}
	for _, cand := range bracket[i+1:] {
		if !paired[cand.Player.ID] {
			return cand
		}
	}
	return nil
}
