package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLookup_DefaultBands walks the official band boundaries
func TestLookup_DefaultBands(t *testing.T) {
	table := DefaultPointsTable()

	cases := []struct {
		placement int
		points    int
		ok        bool
	}{
		{1, 500, true},
		{2, 480, true},
		{3, 420, true},
		{4, 420, true},
		{5, 380, true},
		{8, 380, true},
		{9, 300, true},
		{16, 300, true},
		{17, 200, true},
		{32, 200, true},
		{33, 150, true},
		{64, 150, true},
		{65, 120, true},
		{128, 120, true},
		{129, 100, true},
		{256, 100, true},
		{257, 80, true},
		{512, 80, true},
		{513, 40, true},
		{1024, 40, true},
		{1025, 0, false},
		{5000, 0, false},
		{0, 0, false},
		{-3, 0, false},
	}
	for _, c := range cases {
		points, ok := table.Lookup(c.placement)
		assert.Equal(t, c.ok, ok, "placement %d", c.placement)
		assert.Equal(t, c.points, points, "placement %d", c.placement)
	}
}

// TestNewPointsTable_SortsBands checks band order in the input does not
// matter
func TestNewPointsTable_SortsBands(t *testing.T) {
	table, err := NewPointsTable([]Band{
		{From: 3, To: 4, Points: 100},
		{From: 1, To: 2, Points: 200},
	})
	require.NoError(t, err)

	points, ok := table.Lookup(4)
	assert.True(t, ok)
	assert.Equal(t, 100, points)
	assert.Equal(t, 4, table.MaxPlacement())
}

// TestNewPointsTable_RejectsBadBands covers the validation failures
func TestNewPointsTable_RejectsBadBands(t *testing.T) {
	_, err := NewPointsTable(nil)
	assert.Error(t, err)

	_, err = NewPointsTable([]Band{{From: 5, To: 2, Points: 10}})
	assert.Error(t, err, "inverted band")

	_, err = NewPointsTable([]Band{
		{From: 1, To: 4, Points: 100},
		{From: 3, To: 8, Points: 50},
	})
	assert.Error(t, err, "overlapping bands")

	_, err = NewPointsTable([]Band{
		{From: 1, To: 2, Points: 100},
		{From: 3, To: 4, Points: 200},
	})
	assert.Error(t, err, "points must not increase with placement")
}
