// Package speakers loads the speaker-gender lookup table used to annotate
// multi-speaker model voices.
package speakers

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

// GenderUnknown is returned by [Table.Gender] for speakers absent from the
// table.
const GenderUnknown = "unknown"

// suggestionThreshold is the minimum Jaro-Winkler similarity for a speaker
// ID to count as a plausible typo of a known one.
const suggestionThreshold = 0.84

// Table maps upper-cased speaker IDs to gender labels.
type Table struct {
	genders map[string]string
}

// Empty returns a table with no speakers.
func Empty() *Table {
	return &Table{genders: map[string]string{}}
}

// Load reads a delimited speaker table from path. Each line holds
// "<id>,<gender>"; a header line starting with "id," is skipped. Speaker IDs
// are normalised to upper case so lookups are case-insensitive. A missing
// file yields an empty table rather than an error, and malformed lines are
// skipped so one bad row does not discard the rest.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open speaker table %q: %w", path, err)
	}
	defer f.Close()

	t := Empty()
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		if line == 1 && strings.HasPrefix(strings.ToLower(raw), "id,") {
			continue
		}
		id, gender, ok := strings.Cut(raw, ",")
		if !ok {
			continue
		}
		id = strings.ToUpper(strings.TrimSpace(id))
		gender = strings.ToLower(strings.TrimSpace(gender))
		if id == "" {
			continue
		}
		t.genders[id] = gender
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read speaker table %q: %w", path, err)
	}
	return t, nil
}

// Len returns the number of speakers in the table.
func (t *Table) Len() int {
	return len(t.genders)
}

// Gender returns the gender recorded for the given speaker ID, matching
// case-insensitively. Speakers not in the table report [GenderUnknown].
func (t *Table) Gender(id string) string {
	g, ok := t.genders[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return GenderUnknown
	}
	return g
}

// Known reports whether the speaker ID appears in the table.
func (t *Table) Known(id string) bool {
	_, ok := t.genders[strings.ToUpper(strings.TrimSpace(id))]
	return ok
}

// IDs returns all speaker IDs in the table, sorted.
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(t.genders))
	for id := range t.genders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Suggest returns the known speaker ID most similar to the given one, for
// "did you mean" hints when a lookup misses. The second return is false when
// nothing in the table is close enough to be a plausible typo.
func (t *Table) Suggest(id string) (string, bool) {
	id = strings.ToUpper(strings.TrimSpace(id))
	best := ""
	bestScore := 0.0
	for _, known := range t.IDs() {
		score := matchr.JaroWinkler(id, known, true)
		if score > bestScore {
			best, bestScore = known, score
		}
	}
	if bestScore < suggestionThreshold {
		return "", false
	}
	return best, true
}
