package identity

import (
	"testing"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/roster"
	"github.com/stretchr/testify/assert"
)

func testRoster() roster.Roster {
	return roster.Roster{Entries: []roster.Entry{
		{Player: "Jos Buttler", Team: "gkkani"},
		{Player: "Philip Salt", Team: "rsk"},
		{Player: "Sam Curran", Team: "RSK"},
		{Player: "Tom Curran", Team: "CNI"},
		{Player: "Mohammad Rizwan", Team: "ppt"},
	}}
}

func TestResolveTeamExact(t *testing.T) {
	r := NewResolver(testRoster())

	res := r.ResolveTeam("Jos Buttler (wk)")
	assert.Equal(t, "GKKani", res.Team)
	assert.Equal(t, TierExact, res.Tier)
	assert.Equal(t, "jos buttler", res.MatchedKey)
	assert.Equal(t, 1.0, res.Confidence)
	assert.False(t, res.Ambiguous)
}

func TestResolveTeamSubstring(t *testing.T) {
	r := NewResolver(testRoster())

	res := r.ResolveTeam("Rizwan")
	assert.Equal(t, "PPT", res.Team)
	assert.Equal(t, TierSubstring, res.Tier)
	assert.False(t, res.Ambiguous)

	res = r.ResolveTeam("Jos Buttler Jr")
	assert.Equal(t, "GKKani", res.Team)
	assert.Equal(t, TierSubstring, res.Tier)
}

func TestResolveTeamAmbiguousSubstringTakesFirstRosterRow(t *testing.T) {
	r := NewResolver(testRoster())

	res := r.ResolveTeam("Curran")
	assert.Equal(t, "RSK", res.Team)
	assert.Equal(t, "sam curran", res.MatchedKey)
	assert.True(t, res.Ambiguous)
	assert.InDelta(t, 0.6, res.Confidence, 1e-9)
}

func TestResolveTeamUnknown(t *testing.T) {
	r := NewResolver(testRoster())

	assert.Equal(t, UnknownTeam, r.ResolveTeam("Babar Azam").Team)
	assert.Equal(t, UnknownTeam, r.ResolveTeam("").Team)
	assert.Equal(t, TierNone, r.ResolveTeam("Babar Azam").Tier)

	// "phil salt" is not a substring of "philip salt" in either direction.
	assert.Equal(t, UnknownTeam, r.ResolveTeam("Phil Salt").Team)
}

func TestResolveTeamEmptyRoster(t *testing.T) {
	r := NewResolver(roster.Roster{})
	assert.Equal(t, UnknownTeam, r.ResolveTeam("Jos Buttler").Team)
}

func TestResolveTeamSimilarityTier(t *testing.T) {
	r := NewResolver(testRoster(), WithSimilarityThreshold(0.8))

	res := r.ResolveTeam("Phil Salt")
	assert.Equal(t, "RSK", res.Team)
	assert.Equal(t, TierSimilarity, res.Tier)
	assert.Equal(t, "philip salt", res.MatchedKey)
	assert.GreaterOrEqual(t, res.Confidence, 0.8)

	assert.Equal(t, UnknownTeam, r.ResolveTeam("Babar Azam").Team)
}

func TestResolverDuplicateRowKeepsLastTeam(t *testing.T) {
	r := NewResolver(roster.Roster{Entries: []roster.Entry{
		{Player: "Jos Buttler", Team: "RSK"},
		{Player: "jos buttler", Team: "CNI"},
	}})

	assert.Equal(t, "CNI", r.ResolveTeam("Jos Buttler").Team)
}

func TestResolverCustomAliases(t *testing.T) {
	r := NewResolver(testRoster(), WithAliases(TeamAliases{"rsk": "Royal Strikers"}))

	assert.Equal(t, "Royal Strikers", r.ResolveTeam("Sam Curran").Team)
	assert.Equal(t, "gkkani", r.ResolveTeam("Jos Buttler").Team)
}

func TestResolveShortName(t *testing.T) {
	candidates := []string{"Mohammad Mohsin", "Mohsin Khan", "Shaheen Afridi", "Rizwan"}

	tests := []struct {
		short string
		want  string
	}{
		{short: "Rizwan", want: "Rizwan"},
		{short: "Mohsin", want: "Mohammad Mohsin"},
		{short: "Afrid", want: "Shaheen Afridi"},
		{short: " Zaman ", want: "Zaman"},
		{short: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.short, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveShortName(tt.short, candidates))
		})
	}

	assert.Equal(t, "Mohsin", ResolveShortName("  Mohsin ", nil))
}
