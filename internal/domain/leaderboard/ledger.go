package leaderboard

import "github.com/beshreyas/T20FantasyScoring/internal/domain/scoring"

// PlayerDelta is one player's complete contribution to a single match. Name
// and Team are only used when the player has not been seen before.
type PlayerDelta struct {
	Key    string
	Name   string
	Team   string
	Points scoring.Breakdown
}

// MatchDelta collects every player touched by one match.
type MatchDelta struct {
	MatchID   string
	MatchName string
	Players   []PlayerDelta
	Flags     []IdentityFlag
}

// Ledger owns the per-player accumulators for one aggregation run. It keeps
// players in first-seen order and is not safe for concurrent use.
type Ledger struct {
	players []PlayerAccumulator
	index   map[string]int
	flags   []IdentityFlag
}

func NewLedger() *Ledger {
	return &Ledger{index: make(map[string]int)}
}

func (l *Ledger) Has(key string) bool {
	_, ok := l.index[key]
	return ok
}

func (l *Ledger) Len() int {
	return len(l.players)
}

// Apply writes a match delta. A player's breakdown for delta.MatchID replaces
// any earlier one, so applying the same match again never double counts.
func (l *Ledger) Apply(delta MatchDelta) {
	l.flags = append(l.flags, delta.Flags...)

	for _, item := range delta.Players {
		if item.Key == "" {
			continue
		}

		pos, ok := l.index[item.Key]
		if !ok {
			pos = len(l.players)
			l.index[item.Key] = pos
			l.players = append(l.players, PlayerAccumulator{
				Name:    item.Name,
				Team:    item.Team,
				Matches: []MatchBreakdown{},
			})
		}

		acc := &l.players[pos]
		breakdown := NewMatchBreakdown(delta.MatchID, delta.MatchName, item.Points)
		replaced := false
		for i := range acc.Matches {
			if acc.Matches[i].MatchID == delta.MatchID {
				acc.Matches[i] = breakdown
				replaced = true
				break
			}
		}
		if !replaced {
			acc.Matches = append(acc.Matches, breakdown)
		}

		total := 0
		for _, m := range acc.Matches {
			total += m.Total
		}
		acc.TotalPoints = total
	}
}

// Player returns a copy of the accumulator stored under key.
func (l *Ledger) Player(key string) (PlayerAccumulator, bool) {
	pos, ok := l.index[key]
	if !ok {
		return PlayerAccumulator{}, false
	}
	return l.players[pos].clone(), true
}

// Players returns copies of every accumulator in first-seen order.
func (l *Ledger) Players() []PlayerAccumulator {
	out := make([]PlayerAccumulator, 0, len(l.players))
	for _, p := range l.players {
		out = append(out, p.clone())
	}
	return out
}

// Flags returns the uncertain team resolutions recorded so far, in the order
// the players were first seen.
func (l *Ledger) Flags() []IdentityFlag {
	return append([]IdentityFlag(nil), l.flags...)
}
