package roster

import (
	"context"
	"errors"
	"strings"
)

// ErrRosterMissing signals that no roster source exists. Callers treat it as a
// degraded run where every player resolves to the unknown team.
var ErrRosterMissing = errors.New("roster missing")

// ErrRosterMalformed signals a roster source that exists but cannot be parsed.
var ErrRosterMalformed = errors.New("roster malformed")

// Entry maps one roster player to the team that drafted them.
type Entry struct {
	Player string `validate:"required"`
	Team   string `validate:"required"`
}

// Roster keeps entries in source row order so identity resolution is stable.
type Roster struct {
	Entries []Entry
}

// Teams returns distinct team names in first-seen order. canonical, when set,
// folds spelling variants before deduplication.
func (r Roster) Teams(canonical func(string) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, entry := range r.Entries {
		team := strings.TrimSpace(entry.Team)
		if canonical != nil {
			team = canonical(team)
		}
		if team == "" {
			continue
		}
		if _, ok := seen[team]; ok {
			continue
		}
		seen[team] = struct{}{}
		out = append(out, team)
	}
	return out
}

func (r Roster) Len() int {
	return len(r.Entries)
}

// Loader reads the roster from wherever it is kept.
type Loader interface {
	Load(ctx context.Context) (Roster, error)
}
