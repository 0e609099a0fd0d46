package scan

import (
	"fmt"
	"strings"
	"time"
)

// Match captures why a file was selected for renaming
type Match struct {
	Target      string    // substring being removed
	Occurrences int       // how many times it appears in the base name
	EvaluatedAt time.Time // when the name was checked
}

// NewMatch counts the non-overlapping occurrences of target in name
func NewMatch(name, target string, now time.Time) Match {
	m := Match{Target: target, EvaluatedAt: now}
	if target != "" {
		m.Occurrences = strings.Count(name, target)
	}
	return m
}

// HasMatch returns true if the target occurs at least once
func (m Match) HasMatch() bool {
	return m.Occurrences > 0
}

// Strip removes every occurrence of the target from name
func (m Match) Strip(name string) string {
	if !m.HasMatch() {
		return name
	}
	return strings.ReplaceAll(name, m.Target, "")
}

// ToLogString formats the match for structured logging.
// Example: `target="[ad]" occurrences=2`
func (m Match) ToLogString() string {
	if !m.HasMatch() {
		return "none"
	}
	return fmt.Sprintf("target=%q occurrences=%d", m.Target, m.Occurrences)
}

