package scan

import (
	"testing"
	"time"
)

func TestNewMatch(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name        string
		file        string
		target      string
		occurrences int
		stripped    string
	}{
		{"absent", "notes.txt", "[ad]", 0, "notes.txt"},
		{"once", "report[ad]final.pdf", "[ad]", 1, "reportfinal.pdf"},
		{"twice", "A[ad]B[ad]C", "[ad]", 2, "ABC"},
		{"adjacent", "x[ad][ad].txt", "[ad]", 2, "x.txt"},
		{"whole name", "[ad]", "[ad]", 1, ""},
		{"extension kept", "song【同步更新微信api315全部课程9.9】.mp3", "【同步更新微信api315全部课程9.9】", 1, "song.mp3"},
		{"not a regex", "a.b", ".", 1, "ab"},
		{"empty target", "anything", "", 0, "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatch(tt.file, tt.target, now)
			if m.Occurrences != tt.occurrences {
				t.Errorf("Occurrences = %d, want %d", m.Occurrences, tt.occurrences)
			}
			if m.HasMatch() != (tt.occurrences > 0) {
				t.Errorf("HasMatch() = %v, want %v", m.HasMatch(), tt.occurrences > 0)
			}
			if got := m.Strip(tt.file); got != tt.stripped {
				t.Errorf("Strip(%q) = %q, want %q", tt.file, got, tt.stripped)
			}
		})
	}
}

func TestMatch_ToLogString(t *testing.T) {
	tests := []struct {
		name  string
		match Match
		want  string
	}{
		{"no match", Match{Target: "[ad]"}, "none"},
		{"one", Match{Target: "[ad]", Occurrences: 1}, `target="[ad]" occurrences=1`},
		{"two", Match{Target: "[ad]", Occurrences: 2}, `target="[ad]" occurrences=2`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.match.ToLogString(); got != tt.want {
				t.Errorf("ToLogString() = %v, want %v", got, tt.want)
			}
		})
	}
}

