// Package diagnostics aggregates engine error output for human
// consumption. It groups similar messages and renders bounded reports; it
// never classifies severity — the presence of any diagnostic means the
// compilation failed and no output is produced.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"
)

// patterns maps known message prefixes to canonical short labels.
// Messages matching no pattern keep their original text as their label.
var patterns = []struct {
	prefix string
	label  string
}{
	{"could not resolve model info provider", "unresolved model info provider"},
	{"could not resolve model with namespace", "unresolved model namespace"},
	{"could not resolve type name", "unresolved type name"},
	{"could not resolve", "unresolved reference"},
}

// Normalize maps a diagnostic message onto its canonical label.
func Normalize(msg string) string {
	lower := strings.ToLower(strings.TrimSpace(msg))
	for _, p := range patterns {
		if strings.HasPrefix(lower, p.prefix) {
			return p.label
		}
	}
	return strings.TrimSpace(msg)
}

// Group is a set of diagnostics sharing one canonical label.
type Group struct {
	Label string
	Count int

	// Sample is the first raw message seen for this label.
	Sample string
}

// Aggregate groups diagnostics by canonical label. Groups are ordered by
// descending count, then label, so the noisiest failure mode leads the
// report.
func Aggregate(msgs []string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, msg := range msgs {
		label := Normalize(msg)
		if i, ok := index[label]; ok {
			groups[i].Count++
			continue
		}
		index[label] = len(groups)
		groups = append(groups, Group{Label: label, Count: 1, Sample: msg})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Label < groups[j].Label
	})
	return groups
}

// Error is the run-level failure carrying the engine's diagnostic list.
// It is returned by the orchestrator when compilation produced errors;
// partial output is never written alongside it.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("translation failed due to %d errors", len(e.Messages))
}
