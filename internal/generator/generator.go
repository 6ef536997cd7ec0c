package generator

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"championship-sim/internal/domain"
)

const (
	minCP = 50
	maxCP = 2500

	// Lognormal parameters for the unscaled CP distribution. The heavy
	// right tail gives a small elite and a broad mid field.
	cpLogMean  = 6.5
	cpLogSigma = 0.8

	// Share of the field international entrants are sampled from. Elite
	// travelers are peers of top domestic players, not better than them.
	eliteShare = 0.25
)

// zoneWeights is the default field composition for a domestic tournament
// with elite international travelers.
var zoneWeights = []struct {
	zone   domain.RatingZone
	weight float64
}{
	{domain.ZoneNA, 0.900},
	{domain.ZoneEU, 0.050},
	{domain.ZoneLATAM, 0.030},
	{domain.ZoneOCE, 0.015},
	{domain.ZoneMESA, 0.005},
}

var firstNames = []string{
	"Alex", "Sam", "Jordan", "Taylor", "Casey", "Morgan", "Avery", "Riley",
	"Cameron", "Dakota", "Parker", "Hayden", "Sage", "River", "Skyler",
	"Phoenix", "Rowan", "Emery", "Quinn", "Blake", "Kai", "Nova", "Remi",
	"Charlie", "Finley", "Reese", "Sawyer", "Lennox", "Ari",
}

var lastNames = []string{
	"Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson",
	"Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin", "Lee",
	"Perez", "Thompson", "White", "Harris", "Sanchez", "Clark", "Ramirez",
	"Lewis", "Robinson", "Walker", "Young", "Allen", "King", "Wright",
}

// Generator produces synthetic player pools. All randomness comes from
// the seeded source so a pool is reproducible.
type Generator struct {
	rng *rand.Rand
}

func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Players generates n players. CP values come from one shared lognormal
// distribution scaled to [minCP, maxCP]; domestic players draw from the
// whole pool while international players draw only from the top quartile.
// IDs and global ranks are assigned by CP descending.
func (g *Generator) Players(n int) ([]domain.Player, error) {
	if n < 2 {
		return nil, fmt.Errorf("cannot generate a pool of %d players", n)
	}

	cpPool := g.cpPool(n)
	eliteLen := int(float64(n) * eliteShare)
	if eliteLen == 0 {
		eliteLen = n
	}
	fullOrder := g.rng.Perm(n)
	eliteOrder := g.rng.Perm(eliteLen)

	now := time.Now()
	players := make([]domain.Player, n)
	fullIdx, eliteIdx := 0, 0
	for i := range players {
		zone := g.zone()
		var cp int
		if zone == domain.ZoneNA {
			cp = cpPool[fullOrder[fullIdx%n]]
			fullIdx++
		} else {
			cp = cpPool[eliteOrder[eliteIdx%eliteLen]]
			eliteIdx++
		}
		players[i] = domain.Player{
			Name:      g.name(),
			Zone:      zone,
			CP:        cp,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].CP > players[j].CP
	})
	for i := range players {
		players[i].ID = int64(i + 1)
		players[i].GlobalRank = i + 1
	}

	return players, nil
}

// cpPool returns n CP values sorted descending, scaled to [minCP, maxCP].
func (g *Generator) cpPool(n int) []int {
	base := make([]float64, n)
	for i := range base {
		base[i] = math.Exp(cpLogMean + cpLogSigma*g.rng.NormFloat64())
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(base)))

	lo, hi := base[n-1], base[0]
	spread := hi - lo
	pool := make([]int, n)
	for i, v := range base {
		if spread == 0 {
			pool[i] = minCP
			continue
		}
		pool[i] = int((v-lo)/spread*(maxCP-minCP)) + minCP
	}
	return pool
}

func (g *Generator) zone() domain.RatingZone {
	r := g.rng.Float64()
	cum := 0.0
	for _, zw := range zoneWeights {
		cum += zw.weight
		if r < cum {
			return zw.zone
		}
	}
	return zoneWeights[0].zone
}

func (g *Generator) name() string {
	first := firstNames[g.rng.Intn(len(firstNames))]
	last := lastNames[g.rng.Intn(len(lastNames))]
	return first + " " + last
}
