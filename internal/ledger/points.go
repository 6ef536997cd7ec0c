package ledger

import (
	"fmt"
	"sort"

	"championship-sim/internal/constants"
)

// Band maps an inclusive placement range to a point value.
type Band struct {
	From   int `yaml:"from"`
	To     int `yaml:"to"`
	Points int `yaml:"points"`
}

// PointsTable is an immutable placement-to-points lookup built from
// sorted, non-overlapping bands. Placements beyond the last band score
// nothing; that miss is an explicit branch, not a silent map miss.
type PointsTable struct {
	bands []Band
}

// DefaultBands is the official dyadic bracket structure: winner 500 down
// to 513th-1024th at 40 points, nothing beyond 1024th.
func DefaultBands() []Band {
	return []Band{
		{From: 1, To: 1, Points: 500},
		{From: 2, To: 2, Points: 480},
		{From: 3, To: 4, Points: 420},
		{From: 5, To: 8, Points: 380},
		{From: 9, To: 16, Points: 300},
		{From: 17, To: 32, Points: 200},
		{From: 33, To: 64, Points: 150},
		{From: 65, To: 128, Points: 120},
		{From: 129, To: 256, Points: 100},
		{From: 257, To: 512, Points: 80},
		{From: 513, To: constants.MaxScoredPlacement, Points: 40},
	}
}

func DefaultPointsTable() PointsTable {
	return PointsTable{bands: DefaultBands()}
}

// NewPointsTable validates that bands are non-overlapping, ascending in
// placement and non-increasing in points.
func NewPointsTable(bands []Band) (PointsTable, error) {
	if len(bands) == 0 {
		return PointsTable{}, fmt.Errorf("points table requires at least one band")
	}
	sorted := make([]Band, len(bands))
	copy(sorted, bands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].From < sorted[j].From })

	prevTo := 0
	prevPoints := 0
	for i, b := range sorted {
		if b.From > b.To {
			return PointsTable{}, fmt.Errorf("band %d-%d is inverted", b.From, b.To)
		}
		if b.From <= prevTo {
			return PointsTable{}, fmt.Errorf("band %d-%d overlaps the previous band", b.From, b.To)
		}
		if i > 0 && b.Points > prevPoints {
			return PointsTable{}, fmt.Errorf("band %d-%d pays more than the band above it", b.From, b.To)
		}
		prevTo = b.To
		prevPoints = b.Points
	}
	return PointsTable{bands: sorted}, nil
}

// Lookup returns the points for the band containing placement; ok is
// false when the placement awards nothing.
func (t PointsTable) Lookup(placement int) (points int, ok bool) {
	if placement < 1 {
		return 0, false
	}
	idx := sort.Search(len(t.bands), func(i int) bool { return t.bands[i].To >= placement })
	if idx == len(t.bands) || t.bands[idx].From > placement {
		return 0, false
	}
	return t.bands[idx].Points, true
}

// MaxPlacement is the last placement that still awards points.
func (t PointsTable) MaxPlacement() int {
	if len(t.bands) == 0 {
		return 0
	}
	return t.bands[len(t.bands)-1].To
}
