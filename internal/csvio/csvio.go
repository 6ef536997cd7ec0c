package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"championship-sim/internal/domain"

	"github.com/go-andiamo/splitter"
)

// Column layout of the standings CSV. Name is the primary lookup column,
// AltName the secondary one used by event organizers.
var standingsHeader = []string{"NA Name", "Top X Name", "CP Finishes", "Top_X_CP", "Locals CP", "Total_CP"}

// ParseFinishes decodes a finishes field like `"500, 480, 420"` into
// point values. An empty field is an empty list.
func ParseFinishes(field string) ([]int, error) {
	field = strings.TrimSpace(field)
	field = strings.Trim(field, `"`)
	if field == "" {
		return nil, nil
	}

	commaSplitter, err := splitter.NewSplitter(',', splitter.DoubleQuotes)
	if err != nil {
		return nil, fmt.Errorf("failed to build finishes splitter: %w", err)
	}
	parts, err := commaSplitter.Split(field)
	if err != nil {
		return nil, fmt.Errorf("failed to split finishes %q: %w", field, err)
	}

	finishes := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid finish value %q: %w", part, err)
		}
		finishes = append(finishes, v)
	}
	return finishes, nil
}

func FormatFinishes(finishes []int) string {
	parts := make([]string, len(finishes))
	for i, v := range finishes {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

// ImportStandings reads a standings CSV. Columns are located by header
// name so column order in the file does not matter. TopFiveCP and TotalCP
// are recomputed from the finishes and locals columns rather than trusted.
func ImportStandings(path string) ([]domain.StandingEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open standings file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read standings file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("standings file %s is empty", path)
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"NA Name", "CP Finishes", "Locals CP"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("standings file missing column %q", required)
		}
	}

	entries := make([]domain.StandingEntry, 0, len(records)-1)
	for line, record := range records[1:] {
		cell := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		name := cell("NA Name")
		if name == "" {
			continue
		}

		finishes, err := ParseFinishes(cell("CP Finishes"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+2, err)
		}

		locals := 0
		if raw := cell("Locals CP"); raw != "" {
			locals, err = strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid locals CP %q: %w", line+2, raw, err)
			}
		}

		topCP := 0
		for _, v := range finishes {
			topCP += v
		}

		entries = append(entries, domain.StandingEntry{
			Name:      name,
			AltName:   cell("Top X Name"),
			Finishes:  finishes,
			TopFiveCP: topCP,
			LocalsCP:  locals,
			TotalCP:   topCP + locals,
		})
	}

	return entries, nil
}

func ExportStandings(path string, entries []domain.StandingEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create standings file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(standingsHeader); err != nil {
		return fmt.Errorf("failed to write standings header: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			entry.Name,
			entry.AltName,
			FormatFinishes(entry.Finishes),
			strconv.Itoa(entry.TopFiveCP),
			strconv.Itoa(entry.LocalsCP),
			strconv.Itoa(entry.TotalCP),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write standings row for %s: %w", entry.Name, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush standings file: %w", err)
	}
	return nil
}
