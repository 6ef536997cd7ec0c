package generator

import (
	"testing"

	"championship-sim/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPlayers_PoolShape checks sizes, CP bounds and rank assignment
func TestPlayers_PoolShape(t *testing.T) {
	players, err := New(42).Players(4000)
	require.NoError(t, err)
	require.Len(t, players, 4000)

	for i, p := range players {
		assert.Equal(t, int64(i+1), p.ID)
		assert.Equal(t, i+1, p.GlobalRank)
		assert.GreaterOrEqual(t, p.CP, minCP)
		assert.LessOrEqual(t, p.CP, maxCP)
		assert.NotEmpty(t, p.Name)
		if i > 0 {
			assert.LessOrEqual(t, p.CP, players[i-1].CP, "pool must be CP-sorted")
		}
	}
}

// TestPlayers_ZoneDistribution checks the field is NA dominated with a
// small international contingent
func TestPlayers_ZoneDistribution(t *testing.T) {
	players, err := New(7).Players(10000)
	require.NoError(t, err)

	counts := make(map[domain.RatingZone]int)
	for _, p := range players {
		counts[p.Zone]++
	}

	naShare := float64(counts[domain.ZoneNA]) / float64(len(players))
	assert.InDelta(t, 0.90, naShare, 0.02)
	assert.Greater(t, counts[domain.ZoneEU], 0)
	assert.Greater(t, counts[domain.ZoneLATAM], 0)
}

// TestPlayers_InternationalsAreElite checks non-NA players draw only
// from the top quartile of the CP pool
func TestPlayers_InternationalsAreElite(t *testing.T) {
	players, err := New(11).Players(8000)
	require.NoError(t, err)

	// internationals draw from the top quartile only, so every one of
	// them must clear the field's median comfortably
	medianCP := players[len(players)/2].CP
	for _, p := range players {
		if p.Zone == domain.ZoneNA {
			continue
		}
		assert.Greater(t, p.CP, medianCP, "international player %d below elite pool", p.ID)
	}
}

// TestPlayers_Deterministic checks a seed reproduces the same pool
func TestPlayers_Deterministic(t *testing.T) {
	first, err := New(3).Players(500)
	require.NoError(t, err)
	second, err := New(3).Players(500)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestPlayers_RejectsTinyPool checks the minimum pool size
func TestPlayers_RejectsTinyPool(t *testing.T) {
	_, err := New(1).Players(1)
	assert.Error(t, err)
}
