package scoring

import (
	"testing"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/match"
	"github.com/stretchr/testify/assert"
)

func TestBattingPoints(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name  string
		entry match.BattingEntry
		want  int
	}{
		{
			name:  "unbeaten thirty",
			entry: match.BattingEntry{Runs: 30, Balls: 20, Fours: 2, Sixes: 1, Dismissal: "not out"},
			want:  57,
		},
		{
			name:  "duck when bowled",
			entry: match.BattingEntry{Runs: 0, Balls: 3, Dismissal: "b Smith"},
			want:  -13,
		},
		{
			name:  "unbeaten on zero is not a duck",
			entry: match.BattingEntry{Runs: 0, Balls: 2, Dismissal: "Not Out"},
			want:  -2,
		},
		{
			name:  "did not bat",
			entry: match.BattingEntry{},
			want:  0,
		},
		{
			name:  "half century with two milestones",
			entry: match.BattingEntry{Runs: 50, Balls: 40, Fours: 5, Sixes: 2, Dismissal: "c Root b Wood"},
			want:  50 + 10 + 6 + 20 + 10,
		},
		{
			name:  "slow innings goes negative",
			entry: match.BattingEntry{Runs: 5, Balls: 20, Dismissal: "lbw b Ali"},
			want:  5 - 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.BattingPoints(tt.entry))
		})
	}
}

func TestDuckPenaltyOnlyWhenDismissed(t *testing.T) {
	rules := DefaultRules()
	notOut := rules.BattingPoints(match.BattingEntry{Runs: 0, Balls: 1, Dismissal: "not out"})
	bowled := rules.BattingPoints(match.BattingEntry{Runs: 0, Balls: 1, Dismissal: "b Smith"})

	assert.Equal(t, -10, bowled-notOut)
	assert.True(t, IsDuck(match.BattingEntry{Dismissal: "b Smith"}))
	assert.False(t, IsDuck(match.BattingEntry{Dismissal: "not out"}))
	assert.False(t, IsDuck(match.BattingEntry{Dismissal: "  "}))
	assert.False(t, IsDuck(match.BattingEntry{Runs: 1, Dismissal: "b Smith"}))
}

func TestBowlingPoints(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name  string
		entry match.BowlingEntry
		want  int
	}{
		{
			name:  "three wicket haul",
			entry: match.BowlingEntry{Balls: 24, Maidens: 1, Runs: 20, Wickets: 3, Dots: 10},
			want:  148,
		},
		{
			name:  "did not bowl",
			entry: match.BowlingEntry{Balls: 0, Maidens: 2, Runs: 10, Wickets: 4, Dots: 9},
			want:  0,
		},
		{
			name:  "partial over uses literal balls",
			entry: match.BowlingEntry{Balls: match.BallsFromOvers("2.3"), Runs: 20},
			want:  30 - 20,
		},
		{
			name:  "five wickets",
			entry: match.BowlingEntry{Balls: 24, Runs: 30, Wickets: 5},
			want:  125 + 18 + 75,
		},
		{
			name:  "seven wickets",
			entry: match.BowlingEntry{Balls: 24, Runs: 10, Wickets: 7},
			want:  175 + 38 + 175,
		},
		{
			name:  "expensive spell",
			entry: match.BowlingEntry{Balls: 12, Runs: 40},
			want:  24 - 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.BowlingPoints(tt.entry))
		})
	}
}

func TestFieldingPoints(t *testing.T) {
	rules := DefaultRules()

	assert.Equal(t, 40, rules.FieldingPoints(match.FieldingEntry{Catches: 2, RunOuts: 1}))
	assert.Equal(t, 20, rules.FieldingPoints(match.FieldingEntry{Stumpings: 2}))
	assert.Equal(t, 0, rules.FieldingPoints(match.FieldingEntry{}))
}

func TestNegativeCountersScoreAsZero(t *testing.T) {
	rules := DefaultRules()

	assert.Equal(t, 0, rules.FieldingPoints(match.FieldingEntry{Catches: -3}))
	assert.Equal(t, 0, rules.BowlingPoints(match.BowlingEntry{Balls: -6, Wickets: 2}))
}

func TestBreakdown(t *testing.T) {
	b := Breakdown{Batting: 10}.Add(Breakdown{Bowling: 20}).Add(Breakdown{MoM: MoMBonus}).Add(Breakdown{Fielding: 15})

	assert.Equal(t, Breakdown{Batting: 10, Bowling: 20, Fielding: 15, MoM: 25}, b)
	assert.Equal(t, 70, b.Total())
}
