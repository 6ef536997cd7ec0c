package sim

import (
	"errors"
	"math/rand"
	"sort"

	"championship-sim/internal/constants"
	"championship-sim/internal/domain"

	"github.com/rs/zerolog"
)

// ErrNoAdvancement reports a run where nobody cleared the Day-1 cutoff.
// The run is terminal but a batch of independent runs may continue.
var ErrNoAdvancement = errors.New("no participants advanced past the day-1 cutoff")

type Config struct {
	DayOneRounds int
	DayTwoRounds int
	CutoffPoints int
	TieRate      float64
	Policy       PairingPolicy
}

func DefaultConfig() Config {
	return Config{
		DayOneRounds: constants.DayOneRounds,
		DayTwoRounds: constants.DayTwoRounds,
		CutoffPoints: constants.CutoffPoints,
		TieRate:      constants.TieRate,
	}
}

// Result is the outcome of one completed run. Standings are ordered by
// final placement 1..N.
type Result struct {
	FieldSize     int
	DayTwoSize    int
	RoundsPlayed  int
	BrutalMatches int
	Standings     []domain.PlayerResult
}

// Tournament drives a single run: Day 1, cutoff, Day 2, placements. All
// participant state is owned by the tournament for the duration of the
// run; randomness comes exclusively from the injected generator so a run
// is reproducible from its seed.
type Tournament struct {
	cfg          Config
	rng          *rand.Rand
	logger       zerolog.Logger
	pairer       *Pairer
	participants []*Participant
	byID         map[int64]*Participant
	brutalCount  int
	rounds       int
}

func NewTournament(players []domain.Player, cfg Config, rng *rand.Rand, logger zerolog.Logger) *Tournament {
	participants := make([]*Participant, len(players))
	byID := make(map[int64]*Participant, len(players))
	for i, pl := range players {
		pt := newParticipant(pl)
		participants[i] = pt
		byID[pl.ID] = pt
	}
	return &Tournament{
		cfg:          cfg,
		rng:          rng,
		logger:       logger,
		pairer:       NewPairer(rng, cfg.Policy, logger),
		participants: participants,
		byID:         byID,
	}
}

// Run plays all Day-1 rounds, applies the one-time cutoff, plays Day 2
// among the survivors and assigns final placements 1..N with no gaps or
// duplicates. It returns ErrNoAdvancement when the cutoff leaves nobody
// active.
func (t *Tournament) Run() (*Result, error) {
	for round := 1; round <= t.cfg.DayOneRounds; round++ {
		t.playRound(round)
	}

	advancing := 0
	for _, pt := range t.participants {
		if pt.Points < t.cfg.CutoffPoints {
			pt.Active = false
		} else {
			advancing++
		}
	}
	t.logger.Debug().
		Int("advancing", advancing).
		Int("field", len(t.participants)).
		Msg("day-1 cutoff applied")

	if advancing == 0 {
		return nil, ErrNoAdvancement
	}

	for round := 1; round <= t.cfg.DayTwoRounds; round++ {
		t.playRound(t.cfg.DayOneRounds + round)
	}

	return t.finalize(advancing), nil
}

func (t *Tournament) playRound(round int) {
	t.rounds++
	pairings := t.pairer.Round(t.participants)
	for _, pair := range pairings {
		a := t.byID[pair.A]
		if pair.IsBye() {
			t.applyBye(a, round)
			continue
		}
		t.playMatch(a, t.byID[pair.B], round)
	}
}

// applyBye grants a full win's worth of points and counts as a win for
// standings purposes.
func (t *Tournament) applyBye(pt *Participant, round int) {
	pt.Points += constants.WinPoints
	pt.Wins++
	pt.Byes++
	pt.History = append(pt.History, domain.MatchRecord{
		Round:        round,
		OpponentID:   domain.ByeOpponent,
		OpponentName: "BYE",
		Result:       domain.OutcomeWin,
	})
}

func (t *Tournament) playMatch(a, b *Participant, round int) {
	skillA, skillB, brutal := EffectiveSkills(a.Player.CP, b.Player.CP)
	outcome := Resolve(t.rng, skillA, skillB, t.cfg.TieRate)
	if brutal {
		t.brutalCount++
	}

	a.Opponents[b.Player.ID] = struct{}{}
	b.Opponents[a.Player.ID] = struct{}{}

	var resA, resB domain.Outcome
	switch outcome {
	case OutcomeAWins:
		a.Points += constants.WinPoints
		a.Wins++
		b.Losses++
		resA, resB = domain.OutcomeWin, domain.OutcomeLoss
	case OutcomeBWins:
		b.Points += constants.WinPoints
		b.Wins++
		a.Losses++
		resA, resB = domain.OutcomeLoss, domain.OutcomeWin
	default:
		a.Points += constants.TiePoints
		b.Points += constants.TiePoints
		a.Ties++
		b.Ties++
		resA, resB = domain.OutcomeTie, domain.OutcomeTie
	}

	a.History = append(a.History, domain.MatchRecord{
		Round:        round,
		OpponentID:   b.Player.ID,
		OpponentName: b.Player.Name,
		OpponentCP:   b.Player.CP,
		Result:       resA,
		Brutal:       brutal,
	})
	b.History = append(b.History, domain.MatchRecord{
		Round:        round,
		OpponentID:   a.Player.ID,
		OpponentName: a.Player.Name,
		OpponentCP:   a.Player.CP,
		Result:       resB,
		Brutal:       brutal,
	})
}

// finalize ranks Day-2 participants 1..M, then appends eliminated
// participants ranked among themselves M+1..N. The sort key is match
// points desc, wins desc; remaining ties keep the original load order,
// which makes the full placement assignment deterministic.
func (t *Tournament) finalize(advancing int) *Result {
	var active, eliminated []*Participant
	for _, pt := range t.participants {
		if pt.Active {
			active = append(active, pt)
		} else {
			eliminated = append(eliminated, pt)
		}
	}

	rank := func(group []*Participant) {
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Points != group[j].Points {
				return group[i].Points > group[j].Points
			}
			return group[i].Wins > group[j].Wins
		})
	}
	rank(active)
	rank(eliminated)

	standings := make([]domain.PlayerResult, 0, len(t.participants))
	place := 1
	for _, pt := range active {
		standings = append(standings, pt.result(place))
		place++
	}
	for _, pt := range eliminated {
		standings = append(standings, pt.result(place))
		place++
	}

	return &Result{
		FieldSize:     len(t.participants),
		DayTwoSize:    advancing,
		RoundsPlayed:  t.rounds,
		BrutalMatches: t.brutalCount,
		Standings:     standings,
	}
}
