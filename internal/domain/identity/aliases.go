package identity

import (
	"errors"
	"fmt"
	"strings"
)

// UnknownTeam is assigned to players the roster cannot place.
const UnknownTeam = "Unknown"

var ErrInvalidAlias = errors.New("invalid team alias")

// TeamAliases maps a lower-cased team spelling to its canonical form.
type TeamAliases map[string]string

func DefaultTeamAliases() TeamAliases {
	return TeamAliases{
		"gkkani":   "GKKani",
		"ppt":      "PPT",
		"ramsurya": "RamSurya",
		"rsk":      "RSK",
		"cni":      "CNI",
	}
}

// ParseTeamAliases reads "alias:Canonical" pairs separated by commas.
func ParseTeamAliases(raw string) (TeamAliases, error) {
	out := TeamAliases{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		alias, canonical, ok := strings.Cut(pair, ":")
		alias = strings.TrimSpace(alias)
		canonical = strings.TrimSpace(canonical)
		if !ok || alias == "" || canonical == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAlias, pair)
		}
		out[strings.ToLower(alias)] = canonical
	}

	return out, nil
}

// With returns a copy of a overlaid by extra.
func (a TeamAliases) With(extra TeamAliases) TeamAliases {
	out := make(TeamAliases, len(a)+len(extra))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range extra {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Canonical folds a team label through the alias table. Empty labels become
// UnknownTeam and unrecognised labels pass through trimmed.
func (a TeamAliases) Canonical(team string) string {
	team = strings.TrimSpace(team)
	if team == "" {
		return UnknownTeam
	}
	if canonical, ok := a[strings.ToLower(team)]; ok {
		return canonical
	}
	return team
}
