package leaderboard

import (
	"time"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/match"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/scoring"
)

// MatchBreakdown is one player's points for one match.
type MatchBreakdown struct {
	MatchID   string `json:"match_id"`
	MatchName string `json:"match_name"`
	Batting   int    `json:"batting_points"`
	Bowling   int    `json:"bowling_points"`
	Fielding  int    `json:"fielding_points"`
	MoM       int    `json:"mom"`
	Total     int    `json:"total"`
}

func NewMatchBreakdown(matchID, matchName string, points scoring.Breakdown) MatchBreakdown {
	return MatchBreakdown{
		MatchID:   matchID,
		MatchName: matchName,
		Batting:   points.Batting,
		Bowling:   points.Bowling,
		Fielding:  points.Fielding,
		MoM:       points.MoM,
		Total:     points.Total(),
	}
}

// PlayerAccumulator is a player's running tally across every processed match.
// TotalPoints always equals the sum of Matches[i].Total.
type PlayerAccumulator struct {
	Name        string           `json:"player_name"`
	Team        string           `json:"team"`
	Matches     []MatchBreakdown `json:"matches"`
	TotalPoints int              `json:"total_points"`
}

func (p PlayerAccumulator) clone() PlayerAccumulator {
	out := p
	out.Matches = append([]MatchBreakdown(nil), p.Matches...)
	if out.Matches == nil {
		out.Matches = []MatchBreakdown{}
	}
	return out
}

// PlayerStanding is the flattened leaderboard row for one player.
type PlayerStanding struct {
	Name          string `json:"player_name"`
	Team          string `json:"team"`
	MatchesPlayed int    `json:"matches_played"`
	TotalPoints   int    `json:"total_points"`
}

// TeamStanding sums every resolved player drafted by one team.
type TeamStanding struct {
	Team        string `json:"team"`
	TotalPoints int    `json:"total_points"`
	PlayerCount int    `json:"player_count"`
}

// IdentityFlag marks a player whose team came from a contested substring hit
// or from the similarity tier rather than an exact roster key.
type IdentityFlag struct {
	Player     string  `json:"player"`
	MatchID    string  `json:"match_id"`
	Team       string  `json:"team"`
	MatchedKey string  `json:"matched_key"`
	Tier       string  `json:"tier"`
	Confidence float64 `json:"confidence"`
	Ambiguous  bool    `json:"ambiguous"`
}

// Snapshot is the full output of one aggregation run.
type Snapshot struct {
	Players     []PlayerAccumulator
	Leaderboard []PlayerStanding
	Teams       []TeamStanding
	GeneratedAt time.Time
	MatchCount  int
	Skipped     []match.Skip
	Flagged     []IdentityFlag
}

// FindPlayer looks a player up by identity key using keyOf to key names.
func (s Snapshot) FindPlayer(key string, keyOf func(string) string) (PlayerAccumulator, bool) {
	for _, player := range s.Players {
		if keyOf(player.Name) == key {
			return player, true
		}
	}
	return PlayerAccumulator{}, false
}

// Clone returns a deep copy so holders can hand out snapshots without sharing
// backing arrays.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Players != nil {
		out.Players = make([]PlayerAccumulator, len(s.Players))
		for i, player := range s.Players {
			out.Players[i] = player.clone()
		}
	}
	out.Leaderboard = append([]PlayerStanding(nil), s.Leaderboard...)
	out.Teams = append([]TeamStanding(nil), s.Teams...)
	out.Skipped = append([]match.Skip(nil), s.Skipped...)
	out.Flagged = append([]IdentityFlag(nil), s.Flagged...)
	return out
}
