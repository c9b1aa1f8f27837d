package identity

import (
	"strings"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/roster"
)

// Tier names the resolution rule that produced a match.
type Tier string

const (
	TierExact      Tier = "exact"
	TierSubstring  Tier = "substring"
	TierSimilarity Tier = "similarity"
	TierNone       Tier = "none"
)

// Resolution is the outcome of mapping a display name onto the roster.
type Resolution struct {
	Team       string
	MatchedKey string
	Tier       Tier
	Confidence float64
	// Ambiguous is set when more than one roster key qualified at the winning tier.
	Ambiguous bool
}

type rosterKey struct {
	key  string
	team string
}

// Resolver maps player names onto roster teams. It is immutable after
// construction and safe for concurrent use.
type Resolver struct {
	keys       []rosterKey
	index      map[string]int
	aliases    TeamAliases
	similarity float64
}

type Option func(*Resolver)

func WithAliases(aliases TeamAliases) Option {
	return func(r *Resolver) {
		if aliases != nil {
			r.aliases = aliases
		}
	}
}

// WithSimilarityThreshold enables the similarity tier. Zero or less disables it.
func WithSimilarityThreshold(threshold float64) Option {
	return func(r *Resolver) {
		r.similarity = threshold
	}
}

// NewResolver indexes the roster in row order. A player listed twice keeps
// the position of the first row and the team of the last.
func NewResolver(r roster.Roster, opts ...Option) *Resolver {
	res := &Resolver{
		keys:    make([]rosterKey, 0, len(r.Entries)),
		index:   make(map[string]int, len(r.Entries)),
		aliases: DefaultTeamAliases(),
	}
	for _, opt := range opts {
		opt(res)
	}

	for _, entry := range r.Entries {
		key := Key(entry.Player)
		team := strings.TrimSpace(entry.Team)
		if key == "" || team == "" {
			continue
		}
		if pos, ok := res.index[key]; ok {
			res.keys[pos].team = team
			continue
		}
		res.index[key] = len(res.keys)
		res.keys = append(res.keys, rosterKey{key: key, team: team})
	}

	return res
}

// CanonicalTeam folds a team label through the resolver's alias table.
func (r *Resolver) CanonicalTeam(team string) string {
	return r.aliases.Canonical(team)
}

func (r *Resolver) ResolveTeam(displayName string) Resolution {
	key := Key(displayName)
	if key == "" {
		return Resolution{Team: UnknownTeam, Tier: TierNone}
	}

	if pos, ok := r.index[key]; ok {
		return Resolution{
			Team:       r.aliases.Canonical(r.keys[pos].team),
			MatchedKey: key,
			Tier:       TierExact,
			Confidence: 1,
		}
	}

	if res, ok := r.resolveSubstring(key); ok {
		return res
	}

	if r.similarity > 0 {
		if res, ok := r.resolveSimilar(key); ok {
			return res
		}
	}

	return Resolution{Team: UnknownTeam, Tier: TierNone}
}

// resolveSubstring keeps first-match-wins in roster order and flags the
// result when other keys would also have matched.
func (r *Resolver) resolveSubstring(key string) (Resolution, bool) {
	var (
		found Resolution
		hits  int
	)
	for _, candidate := range r.keys {
		if !strings.Contains(key, candidate.key) && !strings.Contains(candidate.key, key) {
			continue
		}
		hits++
		if hits == 1 {
			found = Resolution{
				Team:       r.aliases.Canonical(candidate.team),
				MatchedKey: candidate.key,
				Tier:       TierSubstring,
				Confidence: lengthRatio(key, candidate.key),
			}
		}
	}
	if hits == 0 {
		return Resolution{}, false
	}
	found.Ambiguous = hits > 1
	return found, true
}

func (r *Resolver) resolveSimilar(key string) (Resolution, bool) {
	var (
		best      Resolution
		bestScore float64
		ties      int
	)
	for _, candidate := range r.keys {
		score := similarity(key, candidate.key)
		if score < r.similarity {
			continue
		}
		switch {
		case score > bestScore:
			bestScore = score
			ties = 1
			best = Resolution{
				Team:       r.aliases.Canonical(candidate.team),
				MatchedKey: candidate.key,
				Tier:       TierSimilarity,
				Confidence: score,
			}
		case score == bestScore:
			ties++
		}
	}
	if ties == 0 {
		return Resolution{}, false
	}
	best.Ambiguous = ties > 1
	return best, true
}

func lengthRatio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	return float64(min(la, lb)) / float64(max(la, lb))
}

// ResolveShortName expands a truncated mention, such as a surname in run-out
// text, to a full name from candidates. Tiers are exact, then " "+short
// suffix, then substring. The collapsed input is returned when nothing fits.
func ResolveShortName(short string, candidates []string) string {
	short = Collapse(short)
	if short == "" || len(candidates) == 0 {
		return short
	}

	for _, full := range candidates {
		if full == short {
			return full
		}
	}
	for _, full := range candidates {
		if strings.HasSuffix(full, " "+short) {
			return full
		}
	}
	for _, full := range candidates {
		if strings.Contains(full, short) {
			return full
		}
	}

	return short
}
