package leaderboard

import (
	"strings"
	"testing"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerApplyAccumulatesAcrossMatches(t *testing.T) {
	ledger := NewLedger()

	ledger.Apply(MatchDelta{MatchID: "1", MatchName: "A vs B", Players: []PlayerDelta{
		{Key: "jos buttler", Name: "Jos Buttler", Team: "GKKani", Points: scoring.Breakdown{Batting: 40, Fielding: 15}},
		{Key: "adil rashid", Name: "Adil Rashid", Team: "RSK", Points: scoring.Breakdown{Bowling: 60, MoM: 25}},
	}})
	ledger.Apply(MatchDelta{MatchID: "2", MatchName: "A vs C", Players: []PlayerDelta{
		{Key: "jos buttler", Name: "Jos Buttler (wk)", Team: "ignored", Points: scoring.Breakdown{Batting: 10}},
	}})

	require.Equal(t, 2, ledger.Len())
	jos, ok := ledger.Player("jos buttler")
	require.True(t, ok)
	assert.Equal(t, "Jos Buttler", jos.Name)
	assert.Equal(t, "GKKani", jos.Team)
	assert.Equal(t, 65, jos.TotalPoints)
	assert.Equal(t, []MatchBreakdown{
		{MatchID: "1", MatchName: "A vs B", Batting: 40, Fielding: 15, Total: 55},
		{MatchID: "2", MatchName: "A vs C", Batting: 10, Total: 10},
	}, jos.Matches)

	names := make([]string, 0)
	for _, p := range ledger.Players() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Jos Buttler", "Adil Rashid"}, names)
}

func TestLedgerApplySameMatchOverwrites(t *testing.T) {
	ledger := NewLedger()
	delta := MatchDelta{MatchID: "7", MatchName: "X vs Y", Players: []PlayerDelta{
		{Key: "phil salt", Name: "Phil Salt", Team: "RSK", Points: scoring.Breakdown{Batting: 30, MoM: 25}},
	}}

	ledger.Apply(delta)
	ledger.Apply(delta)

	salt, ok := ledger.Player("phil salt")
	require.True(t, ok)
	assert.Equal(t, 55, salt.TotalPoints)
	assert.Len(t, salt.Matches, 1)
}

func TestLedgerTotalsMatchBreakdownSum(t *testing.T) {
	ledger := NewLedger()
	for i, pts := range []int{12, -4, 30, 8} {
		ledger.Apply(MatchDelta{MatchID: strings.Repeat("m", i+1), Players: []PlayerDelta{
			{Key: "k", Name: "K", Points: scoring.Breakdown{Batting: pts}},
		}})
	}

	p, _ := ledger.Player("k")
	sum := 0
	for _, m := range p.Matches {
		sum += m.Total
	}
	assert.Equal(t, sum, p.TotalPoints)
	assert.Equal(t, 46, p.TotalPoints)
}

func TestLedgerSkipsEmptyKeyAndReturnsCopies(t *testing.T) {
	ledger := NewLedger()
	ledger.Apply(MatchDelta{MatchID: "1", Players: []PlayerDelta{
		{Key: "", Name: "", Points: scoring.Breakdown{Batting: 5}},
		{Key: "a", Name: "A", Points: scoring.Breakdown{Batting: 5}},
	}})

	assert.Equal(t, 1, ledger.Len())
	assert.False(t, ledger.Has(""))

	players := ledger.Players()
	players[0].Matches[0].Total = 999
	again, _ := ledger.Player("a")
	assert.Equal(t, 5, again.Matches[0].Total)
}

func TestLedgerKeepsIdentityFlags(t *testing.T) {
	ledger := NewLedger()
	ledger.Apply(MatchDelta{
		MatchID: "1",
		Players: []PlayerDelta{{Key: "will jacks", Name: "Will Jacks", Team: "RSK"}},
		Flags:   []IdentityFlag{{Player: "Will Jacks", MatchID: "1", Team: "RSK", Tier: "substring", Ambiguous: true}},
	})
	ledger.Apply(MatchDelta{MatchID: "2", Players: []PlayerDelta{{Key: "will jacks", Name: "Will Jacks"}}})

	flags := ledger.Flags()
	require.Len(t, flags, 1)
	assert.Equal(t, "Will Jacks", flags[0].Player)

	flags[0].Player = "changed"
	assert.Equal(t, "Will Jacks", ledger.Flags()[0].Player)
}
