package ledger

import (
	"sort"
	"strings"

	"championship-sim/internal/constants"
	"championship-sim/internal/domain"

	"github.com/rs/zerolog"
)

// Ledger holds the regional standings and applies the best-K finishes
// rule. Rows are matched by either name column, case-insensitively. A
// Ledger is not safe for concurrent use; independent runs work on clones.
type Ledger struct {
	table       PointsTable
	maxFinishes int
	entries     []*domain.StandingEntry
	index       map[string]*domain.StandingEntry
	logger      zerolog.Logger
}

func New(entries []domain.StandingEntry, table PointsTable, logger zerolog.Logger) *Ledger {
	l := &Ledger{
		table:       table,
		maxFinishes: constants.MaxFinishes,
		entries:     make([]*domain.StandingEntry, 0, len(entries)),
		index:       make(map[string]*domain.StandingEntry, len(entries)*2),
		logger:      logger,
	}
	for i := range entries {
		e := entries[i]
		e.Finishes = append([]int(nil), e.Finishes...)
		sort.Sort(sort.Reverse(sort.IntSlice(e.Finishes)))
		recompute(&e)
		l.add(&e)
	}
	return l
}

func (l *Ledger) add(e *domain.StandingEntry) {
	l.entries = append(l.entries, e)
	for _, name := range []string{e.Name, e.AltName} {
		key := nameKey(name)
		if key != "" {
			l.index[key] = e
		}
	}
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lookup finds an entry by either name field, case-insensitively, and
// returns a copy.
func (l *Ledger) Lookup(name string) (domain.StandingEntry, bool) {
	e, ok := l.index[nameKey(name)]
	if !ok {
		return domain.StandingEntry{}, false
	}
	return snapshot(e), true
}

// Award records a new finish for the named entity under the best-K rule:
// below K finishes it always appends; at K it replaces the current
// minimum only when the new value is strictly greater. It reports whether
// the entry changed. An unknown name is a no-op, never an error.
func (l *Ledger) Award(name string, points int) bool {
	e, ok := l.index[nameKey(name)]
	if !ok {
		l.logger.Debug().Str("player", name).Msg("award skipped, name not in standings")
		return false
	}
	if len(e.Finishes) < l.maxFinishes {
		e.Finishes = append(e.Finishes, points)
	} else {
		minIdx := 0
		for i, v := range e.Finishes {
			if v < e.Finishes[minIdx] {
				minIdx = i
			}
		}
		if points <= e.Finishes[minIdx] {
			return false
		}
		e.Finishes[minIdx] = points
	}
	sort.Sort(sort.Reverse(sort.IntSlice(e.Finishes)))
	recompute(e)
	return true
}

// AwardPlacement converts a final placement into points and records it.
// Placements beyond the table's last band award nothing and report no
// change.
func (l *Ledger) AwardPlacement(name string, placement int) bool {
	points, ok := l.table.Lookup(placement)
	if !ok {
		return false
	}
	return l.Award(name, points)
}

func recompute(e *domain.StandingEntry) {
	sum := 0
	for _, v := range e.Finishes {
		sum += v
	}
	e.TopFiveCP = sum
	e.TotalCP = sum + e.LocalsCP
}

// Clone deep-copies the ledger so an independent run can mutate its own
// baseline without touching any other in-flight run.
func (l *Ledger) Clone() *Ledger {
	return New(l.Entries(), l.table, l.logger)
}

// Entries returns a copy of every row sorted by total CP descending, with
// a deterministic name tiebreak.
func (l *Ledger) Entries() []domain.StandingEntry {
	out := make([]domain.StandingEntry, len(l.entries))
	for i, e := range l.entries {
		out[i] = snapshot(e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalCP != out[j].TotalCP {
			return out[i].TotalCP > out[j].TotalCP
		}
		return nameKey(out[i].Name) < nameKey(out[j].Name)
	})
	return out
}

// EntryAtRank returns the 1-indexed row of the sorted standings, used for
// cutoff-watch reporting.
func (l *Ledger) EntryAtRank(rank int) (domain.StandingEntry, bool) {
	if rank < 1 || rank > len(l.entries) {
		return domain.StandingEntry{}, false
	}
	return l.Entries()[rank-1], true
}

func (l *Ledger) Table() PointsTable { return l.table }

func (l *Ledger) Len() int { return len(l.entries) }

func snapshot(e *domain.StandingEntry) domain.StandingEntry {
	c := *e
	c.Finishes = append([]int(nil), e.Finishes...)
	return c
}
