package sim

import (
	"math/rand"
	"testing"

	"championship-sim/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlayers(n int) []domain.Player {
	players := make([]domain.Player, n)
	for i := range players {
		players[i] = domain.Player{
			ID:   int64(i + 1),
			Name: "Player " + string(rune('A'+i%26)),
			CP:   100 + i*12,
		}
	}
	return players
}

func runTournament(t *testing.T, n int, seed int64) *Result {
	t.Helper()
	tournament := NewTournament(testPlayers(n), DefaultConfig(), rand.New(rand.NewSource(seed)), zerolog.Nop())
	res, err := tournament.Run()
	require.NoError(t, err)
	return res
}

// TestRun_PlacementsArePermutation checks final standings assign each
// placement 1..N exactly once
func TestRun_PlacementsArePermutation(t *testing.T) {
	res := runTournament(t, 200, 17)

	require.Len(t, res.Standings, 200)
	seen := make(map[int]bool, 200)
	for _, pr := range res.Standings {
		assert.False(t, seen[pr.Placement], "duplicate placement %d", pr.Placement)
		seen[pr.Placement] = true
		assert.GreaterOrEqual(t, pr.Placement, 1)
		assert.LessOrEqual(t, pr.Placement, 200)
	}
}

// TestRun_StandingsOrderedByPlacement checks the result slice is already
// placement ordered with day-2 qualifiers leading
func TestRun_StandingsOrderedByPlacement(t *testing.T) {
	res := runTournament(t, 128, 4)

	for i, pr := range res.Standings {
		assert.Equal(t, i+1, pr.Placement)
	}
	for i, pr := range res.Standings {
		if i < res.DayTwoSize {
			assert.True(t, pr.MadeDayTwo, "placement %d", pr.Placement)
		} else {
			assert.False(t, pr.MadeDayTwo, "placement %d", pr.Placement)
		}
	}
}

// TestRun_CutoffBoundsDayTwoPoints checks every qualifier reached the
// cutoff after day 1 and every eliminated player did not
func TestRun_CutoffBoundsDayTwoPoints(t *testing.T) {
	cfg := DefaultConfig()
	res := runTournament(t, 150, 29)

	dayOneRounds := cfg.DayOneRounds
	for _, pr := range res.Standings {
		dayOnePoints := 0
		matches := 0
		for _, rec := range pr.History {
			if rec.Round > dayOneRounds {
				continue
			}
			matches++
			switch rec.Result {
			case domain.OutcomeWin:
				dayOnePoints += 3
			case domain.OutcomeTie:
				dayOnePoints++
			}
		}
		assert.Equal(t, dayOneRounds, matches, "player %d day-1 rounds", pr.PlayerID)
		if pr.MadeDayTwo {
			assert.GreaterOrEqual(t, dayOnePoints, cfg.CutoffPoints, "player %d", pr.PlayerID)
		} else {
			assert.Less(t, dayOnePoints, cfg.CutoffPoints, "player %d", pr.PlayerID)
			// eliminated players play no day-2 matches
			for _, rec := range pr.History {
				assert.LessOrEqual(t, rec.Round, dayOneRounds, "player %d", pr.PlayerID)
			}
		}
	}
}

// TestRun_RoundsPlayed checks the full schedule runs when anyone advances
func TestRun_RoundsPlayed(t *testing.T) {
	cfg := DefaultConfig()
	res := runTournament(t, 100, 5)

	assert.Equal(t, cfg.DayOneRounds+cfg.DayTwoRounds, res.RoundsPlayed)
	assert.Equal(t, 100, res.FieldSize)
	assert.Greater(t, res.DayTwoSize, 0)
}

// TestRun_SameSeedReproduces checks two runs from one seed agree exactly
func TestRun_SameSeedReproduces(t *testing.T) {
	first := runTournament(t, 180, 99)
	second := runTournament(t, 180, 99)

	assert.Equal(t, first.Standings, second.Standings)
	assert.Equal(t, first.BrutalMatches, second.BrutalMatches)
	assert.Equal(t, first.DayTwoSize, second.DayTwoSize)
}

// TestRun_DifferentSeedsDiverge checks distinct seeds produce distinct
// tournaments
func TestRun_DifferentSeedsDiverge(t *testing.T) {
	first := runTournament(t, 180, 1)
	second := runTournament(t, 180, 2)

	assert.NotEqual(t, first.Standings, second.Standings)
}

// TestRun_NoAdvancement checks an impossible cutoff ends the run with
// ErrNoAdvancement
func TestRun_NoAdvancement(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CutoffPoints = cfg.DayOneRounds*3 + 1 // above the maximum possible

	tournament := NewTournament(testPlayers(60), cfg, rand.New(rand.NewSource(8)), zerolog.Nop())
	res, err := tournament.Run()

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrNoAdvancement)
}

// TestRun_BrutalMatchesCounted checks a field straddling the rating
// cliff records brutal matches
func TestRun_BrutalMatchesCounted(t *testing.T) {
	players := make([]domain.Player, 64)
	for i := range players {
		cp := 150 // deep below the cliff
		if i%2 == 1 {
			cp = 900 // far above it
		}
		players[i] = domain.Player{ID: int64(i + 1), Name: "P", CP: cp}
	}

	tournament := NewTournament(players, DefaultConfig(), rand.New(rand.NewSource(21)), zerolog.Nop())
	res, err := tournament.Run()
	require.NoError(t, err)
	assert.Greater(t, res.BrutalMatches, 0)

	brutalSeen := false
	for _, pr := range res.Standings {
		for _, rec := range pr.History {
			if rec.Brutal {
				brutalSeen = true
			}
		}
	}
	assert.True(t, brutalSeen)
}

// TestRun_ByeScoresAsWin checks a bye appears in history and pays three
// points
func TestRun_ByeScoresAsWin(t *testing.T) {
	res := runTournament(t, 101, 13)

	foundBye := false
	for _, pr := range res.Standings {
		wins, losses, ties := 0, 0, 0
		points := 0
		for _, rec := range pr.History {
			switch rec.Result {
			case domain.OutcomeWin:
				wins++
				points += 3
			case domain.OutcomeLoss:
				losses++
			case domain.OutcomeTie:
				ties++
				points++
			}
			if rec.IsBye() {
				foundBye = true
				assert.Equal(t, domain.OutcomeWin, rec.Result)
				assert.Equal(t, "BYE", rec.OpponentName)
			}
		}
		assert.Equal(t, pr.Wins, wins, "player %d", pr.PlayerID)
		assert.Equal(t, pr.Losses, losses, "player %d", pr.PlayerID)
		assert.Equal(t, pr.Ties, ties, "player %d", pr.PlayerID)
		assert.Equal(t, pr.MatchPoints, points, "player %d", pr.PlayerID)
	}
	assert.True(t, foundBye, "odd field must hand out at least one bye")
}
