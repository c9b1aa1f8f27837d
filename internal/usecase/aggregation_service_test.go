package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/identity"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/leaderboard"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/match"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aggregationRoster() roster.Roster {
	return roster.Roster{Entries: []roster.Entry{
		{Player: "Phil Salt", Team: "RSK"},
		{Player: "Sam Curran", Team: "cni"},
		{Player: "Adil Rashid", Team: "GkKani"},
		{Player: "Mohammad Rizwan", Team: "ppt"},
	}}
}

func aggregationRecords() []match.Record {
	return []match.Record{
		{
			ID:     "1",
			Name:   "England vs Pakistan",
			Source: "England vs Pakistan_1.json",
			Batting: []match.BattingEntry{
				{Player: "Phil Salt", Runs: 10, Balls: 10, Dismissal: "b Afridi"},
				{Player: "Sam Curran", Runs: 10, Balls: 10, Dismissal: "not out"},
				{Player: "Babar Azam", Runs: 50, Balls: 30, Dismissal: "c Salt b Curran"},
			},
		},
	}
}

func newTestAggregationService(loader roster.Loader, source match.Source, writer leaderboard.SnapshotWriter, repo leaderboard.SnapshotRepository) *AggregationService {
	svc := NewAggregationService(loader, source, writer, repo, DefaultAggregationConfig(), nil)
	svc.now = func() time.Time { return time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestAggregationService_Aggregate(t *testing.T) {
	t.Parallel()

	svc := newTestAggregationService(nil, nil, nil, nil)
	snapshot, err := svc.Aggregate(context.Background(), aggregationRecords(), aggregationRoster())
	require.NoError(t, err)

	assert.Equal(t, []leaderboard.PlayerStanding{
		{Name: "Babar Azam", Team: identity.UnknownTeam, MatchesPlayed: 1, TotalPoints: 90},
		{Name: "Phil Salt", Team: "RSK", MatchesPlayed: 1, TotalPoints: 10},
		{Name: "Sam Curran", Team: "CNI", MatchesPlayed: 1, TotalPoints: 10},
	}, snapshot.Leaderboard)

	assert.Equal(t, []leaderboard.TeamStanding{
		{Team: "RSK", TotalPoints: 10, PlayerCount: 1},
		{Team: "CNI", TotalPoints: 10, PlayerCount: 1},
		{Team: "GKKani", TotalPoints: 0, PlayerCount: 0},
		{Team: "PPT", TotalPoints: 0, PlayerCount: 0},
	}, snapshot.Teams)

	assert.Equal(t, 1, snapshot.MatchCount)
	assert.Len(t, snapshot.Players, 3)
}

func TestAggregationService_AggregateTiesKeepFirstSeenOrder(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		{ID: "1", Batting: []match.BattingEntry{{Player: "Zak Crawley", Runs: 5, Balls: 5}}},
		{ID: "2", Batting: []match.BattingEntry{{Player: "Ben Duckett", Runs: 5, Balls: 5}}},
		{ID: "3", Batting: []match.BattingEntry{{Player: "Ashton Agar", Runs: 5, Balls: 5}}},
	}

	svc := newTestAggregationService(nil, nil, nil, nil)
	snapshot, err := svc.Aggregate(context.Background(), records, roster.Roster{})
	require.NoError(t, err)

	got := make([]string, 0, len(snapshot.Leaderboard))
	for _, row := range snapshot.Leaderboard {
		got = append(got, row.Name)
	}
	assert.Equal(t, []string{"Zak Crawley", "Ben Duckett", "Ashton Agar"}, got)
	assert.Empty(t, snapshot.Teams)
}

func TestAggregationService_AggregateIsDeterministic(t *testing.T) {
	t.Parallel()

	svc := newTestAggregationService(nil, nil, nil, nil)
	records := append(aggregationRecords(), match.Record{
		ID:            "2",
		Name:          "England vs Australia",
		Bowling:       []match.BowlingEntry{{Player: "Adil Rashid", Balls: 24, Runs: 18, Wickets: 2, Dots: 11}},
		Fielding:      map[string]match.FieldingEntry{"Phil Salt": {Catches: 1}, "Jos Buttler": {Stumpings: 1}},
		ManOfTheMatch: "Adil Rashid",
	})

	first, err := svc.Aggregate(context.Background(), records, aggregationRoster())
	require.NoError(t, err)
	second, err := svc.Aggregate(context.Background(), records, aggregationRoster())
	require.NoError(t, err)

	assert.Equal(t, first.Players, second.Players)
	assert.Equal(t, first.Leaderboard, second.Leaderboard)
	assert.Equal(t, first.Teams, second.Teams)
}

func TestAggregationService_AggregateDuplicateMatchIDDoesNotDoubleCount(t *testing.T) {
	t.Parallel()

	records := aggregationRecords()
	records = append(records, records[0])

	svc := newTestAggregationService(nil, nil, nil, nil)
	snapshot, err := svc.Aggregate(context.Background(), records, aggregationRoster())
	require.NoError(t, err)

	assert.Equal(t, 90, snapshot.Leaderboard[0].TotalPoints)
	assert.Equal(t, 1, snapshot.Leaderboard[0].MatchesPlayed)
}

func TestAggregationService_Run(t *testing.T) {
	t.Parallel()

	records := append(aggregationRecords(), match.Record{Source: "broken.json"})
	source := &stubMatchSource{corpus: match.Corpus{
		Records: records,
		Skipped: []match.Skip{{Source: "corrupt.json", Reason: "decode match record"}},
	}}
	writer := &stubSnapshotWriter{}
	repo := &stubSnapshotRepository{}

	svc := newTestAggregationService(&stubRosterLoader{roster: aggregationRoster()}, source, writer, repo)
	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.PlayerCount)
	assert.Equal(t, 4, result.TeamCount)
	assert.Equal(t, 1, result.MatchCount)
	assert.Equal(t, 3, result.Appearances)
	assert.False(t, result.RosterMissing)
	require.Len(t, result.Skipped, 2)
	assert.Equal(t, "corrupt.json", result.Skipped[0].Source)
	assert.Equal(t, "broken.json", result.Skipped[1].Source)

	require.Len(t, writer.written, 1)
	latest, ok, err := repo.Latest(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, result.Snapshot.Leaderboard, latest.Leaderboard)
}

func TestAggregationService_RunWithMissingRoster(t *testing.T) {
	t.Parallel()

	loader := &stubRosterLoader{err: fmt.Errorf("%w: PlayersWithTeam.csv", roster.ErrRosterMissing)}
	svc := newTestAggregationService(loader, &stubMatchSource{corpus: match.Corpus{Records: aggregationRecords()}}, &stubSnapshotWriter{}, &stubSnapshotRepository{})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.RosterMissing)
	assert.Empty(t, result.Snapshot.Teams)
	for _, row := range result.Snapshot.Leaderboard {
		assert.Equal(t, identity.UnknownTeam, row.Team)
	}
}

func TestAggregationService_RunWithUnusableRoster(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{name: "header mismatch", err: fmt.Errorf("%w: header must contain \"Player Name\" and \"Team\" columns", roster.ErrRosterMalformed)},
		{name: "permission denied", err: errors.New("open roster=PlayersWithTeam.csv: permission denied")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &stubSnapshotWriter{}
			svc := newTestAggregationService(&stubRosterLoader{err: tt.err}, &stubMatchSource{corpus: match.Corpus{Records: aggregationRecords()}}, writer, &stubSnapshotRepository{})

			result, err := svc.Run(context.Background())
			require.NoError(t, err)

			assert.True(t, result.RosterInvalid)
			assert.False(t, result.RosterMissing)
			assert.Equal(t, 3, result.PlayerCount)
			assert.Empty(t, result.Snapshot.Teams)
			for _, row := range result.Snapshot.Leaderboard {
				assert.Equal(t, identity.UnknownTeam, row.Team)
			}
			assert.Len(t, writer.written, 1)
		})
	}
}

func TestAggregationService_RunReportsFlaggedResolutions(t *testing.T) {
	t.Parallel()

	r := roster.Roster{Entries: []roster.Entry{
		{Player: "Sam Curran", Team: "RSK"},
		{Player: "Tom Curran", Team: "CNI"},
	}}
	records := []match.Record{{
		ID:      "9",
		Batting: []match.BattingEntry{{Player: "Curran", Runs: 12, Balls: 10}},
	}}
	svc := newTestAggregationService(&stubRosterLoader{roster: r}, &stubMatchSource{corpus: match.Corpus{Records: records}}, &stubSnapshotWriter{}, &stubSnapshotRepository{})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Flagged, 1)
	assert.Equal(t, "Curran", result.Flagged[0].Player)
	assert.Equal(t, "RSK", result.Flagged[0].Team)
	assert.True(t, result.Flagged[0].Ambiguous)
	assert.Equal(t, result.Flagged, result.Snapshot.Flagged)
}

func TestAggregationService_RunFailures(t *testing.T) {
	t.Parallel()

	t.Run("source unreadable", func(t *testing.T) {
		svc := newTestAggregationService(&stubRosterLoader{}, &stubMatchSource{err: errors.New("no such directory")}, &stubSnapshotWriter{}, nil)
		_, err := svc.Run(context.Background())
		assert.ErrorIs(t, err, ErrDependencyUnavailable)
	})

	t.Run("snapshot write fails", func(t *testing.T) {
		repo := &stubSnapshotRepository{}
		writeErr := errors.New("disk full")
		svc := newTestAggregationService(&stubRosterLoader{}, &stubMatchSource{corpus: match.Corpus{Records: aggregationRecords()}}, &stubSnapshotWriter{err: writeErr}, repo)
		_, err := svc.Run(context.Background())
		assert.ErrorIs(t, err, writeErr)

		_, ok, _ := repo.Latest(context.Background())
		assert.False(t, ok)
	})
}
