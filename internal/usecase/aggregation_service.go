package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/identity"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/leaderboard"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/match"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/roster"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/scoring"
	"github.com/beshreyas/T20FantasyScoring/internal/platform/logging"
)

type AggregationConfig struct {
	Rules               scoring.Rules
	TeamAliases         identity.TeamAliases
	SimilarityThreshold float64
}

func DefaultAggregationConfig() AggregationConfig {
	return AggregationConfig{
		Rules:       scoring.DefaultRules(),
		TeamAliases: identity.DefaultTeamAliases(),
	}
}

// RunResult summarises one full rescore.
type RunResult struct {
	Snapshot      leaderboard.Snapshot
	PlayerCount   int
	TeamCount     int
	MatchCount    int
	Appearances   int
	Skipped       []match.Skip
	Flagged       []leaderboard.IdentityFlag
	RosterMissing bool
	// RosterInvalid is set when the roster exists but could not be read or
	// parsed. The run continues with an empty roster.
	RosterInvalid bool
	Duration      time.Duration
}

type AggregationService struct {
	rosterLoader roster.Loader
	source       match.Source
	writer       leaderboard.SnapshotWriter
	snapshots    leaderboard.SnapshotRepository
	cfg          AggregationConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewAggregationService(
	rosterLoader roster.Loader,
	source match.Source,
	writer leaderboard.SnapshotWriter,
	snapshots leaderboard.SnapshotRepository,
	cfg AggregationConfig,
	logger *logging.Logger,
) *AggregationService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.TeamAliases == nil {
		cfg.TeamAliases = identity.DefaultTeamAliases()
	}

	return &AggregationService{
		rosterLoader: rosterLoader,
		source:       source,
		writer:       writer,
		snapshots:    snapshots,
		cfg:          cfg,
		logger:       logger.Named("aggregation"),
		now:          time.Now,
	}
}

func (s *AggregationService) resolver(r roster.Roster) *identity.Resolver {
	return identity.NewResolver(r,
		identity.WithAliases(s.cfg.TeamAliases),
		identity.WithSimilarityThreshold(s.cfg.SimilarityThreshold),
	)
}

// Aggregate folds records into a fresh ledger in the given order and derives
// both leaderboards. Records that cannot be processed are reported as skips.
func (s *AggregationService) Aggregate(ctx context.Context, records []match.Record, r roster.Roster) (leaderboard.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregationService.Aggregate",
		attribute.Int("match.count", len(records)),
		attribute.Int("roster.size", r.Len()),
	)
	defer span.End()

	resolver := s.resolver(r)
	processor := NewMatchProcessor(s.cfg.Rules, resolver)
	ledger := leaderboard.NewLedger()

	var skipped []match.Skip
	processed := 0
	for _, record := range records {
		if err := processor.Process(ctx, record, ledger); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				markSpanError(span, ctxErr)
				return leaderboard.Snapshot{}, ctxErr
			}
			s.logger.WarnContext(ctx, "skip match record", "source", record.Source, "match_id", record.ID, "error", err)
			skipped = append(skipped, match.Skip{Source: record.Source, Reason: err.Error()})
			continue
		}
		processed++
	}

	flagged := ledger.Flags()
	for _, flag := range flagged {
		s.logger.WarnContext(ctx, "uncertain team resolution",
			"player", flag.Player,
			"match_id", flag.MatchID,
			"team", flag.Team,
			"matched_key", flag.MatchedKey,
			"tier", flag.Tier,
			"confidence", flag.Confidence,
			"ambiguous", flag.Ambiguous,
		)
	}

	players := ledger.Players()
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].TotalPoints > players[j].TotalPoints
	})

	return leaderboard.Snapshot{
		Players:     players,
		Leaderboard: playerStandings(players),
		Teams:       teamStandings(players, r.Teams(resolver.CanonicalTeam), resolver.CanonicalTeam),
		GeneratedAt: s.now().UTC(),
		MatchCount:  processed,
		Skipped:     skipped,
		Flagged:     flagged,
	}, nil
}

func playerStandings(players []leaderboard.PlayerAccumulator) []leaderboard.PlayerStanding {
	out := make([]leaderboard.PlayerStanding, 0, len(players))
	for _, p := range players {
		out = append(out, leaderboard.PlayerStanding{
			Name:          p.Name,
			Team:          p.Team,
			MatchesPlayed: len(p.Matches),
			TotalPoints:   p.TotalPoints,
		})
	}
	return out
}

// teamStandings seeds every roster team so empty teams still show up with
// zero points, then folds in every resolved player.
func teamStandings(players []leaderboard.PlayerAccumulator, seed []string, canonical func(string) string) []leaderboard.TeamStanding {
	out := make([]leaderboard.TeamStanding, 0, len(seed))
	index := make(map[string]int, len(seed))
	ensure := func(team string) int {
		if pos, ok := index[team]; ok {
			return pos
		}
		index[team] = len(out)
		out = append(out, leaderboard.TeamStanding{Team: team})
		return len(out) - 1
	}

	for _, team := range seed {
		if team == identity.UnknownTeam {
			continue
		}
		ensure(team)
	}

	for _, p := range players {
		team := canonical(p.Team)
		if team == identity.UnknownTeam {
			continue
		}
		pos := ensure(team)
		out[pos].TotalPoints += p.TotalPoints
		out[pos].PlayerCount++
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPoints > out[j].TotalPoints
	})
	return out
}

// Run rebuilds the leaderboard from the whole match corpus, writes the
// snapshot artifacts and publishes the snapshot for readers.
func (s *AggregationService) Run(ctx context.Context) (RunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregationService.Run")
	defer span.End()

	startedAt := s.now()
	result := RunResult{}

	r, err := s.rosterLoader.Load(ctx)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		markSpanError(span, ctx.Err())
		return RunResult{}, ctx.Err()
	case crerr.Is(err, roster.ErrRosterMissing):
		s.logger.WarnContext(ctx, "roster not found, every player resolves to unknown team", "error", err)
		r = roster.Roster{}
		result.RosterMissing = true
	default:
		s.logger.WarnContext(ctx, "roster unreadable, every player resolves to unknown team", "error", err)
		r = roster.Roster{}
		result.RosterInvalid = true
	}

	corpus, err := s.source.List(ctx)
	if err != nil {
		markSpanError(span, err)
		return RunResult{}, fmt.Errorf("%w: list match records: %v", ErrDependencyUnavailable, err)
	}
	for _, skip := range corpus.Skipped {
		s.logger.WarnContext(ctx, "skip unreadable match source", "source", skip.Source, "reason", skip.Reason)
	}

	snapshot, err := s.Aggregate(ctx, corpus.Records, r)
	if err != nil {
		markSpanError(span, err)
		return RunResult{}, crerr.Wrap(err, "aggregate match records")
	}
	snapshot.Skipped = append(append([]match.Skip(nil), corpus.Skipped...), snapshot.Skipped...)

	if err := s.writer.Write(ctx, snapshot); err != nil {
		markSpanError(span, err)
		return RunResult{}, crerr.Wrap(err, "write leaderboard snapshot")
	}
	if s.snapshots != nil {
		if err := s.snapshots.Store(ctx, snapshot); err != nil {
			markSpanError(span, err)
			return RunResult{}, crerr.Wrap(err, "store leaderboard snapshot")
		}
	}

	appearances := 0
	for _, p := range snapshot.Players {
		appearances += len(p.Matches)
	}

	result.Snapshot = snapshot
	result.PlayerCount = len(snapshot.Players)
	result.TeamCount = len(snapshot.Teams)
	result.MatchCount = snapshot.MatchCount
	result.Appearances = appearances
	result.Skipped = snapshot.Skipped
	result.Flagged = snapshot.Flagged
	result.Duration = s.now().Sub(startedAt)

	s.logger.InfoContext(ctx, "leaderboard rescored",
		"players", result.PlayerCount,
		"appearances", result.Appearances,
		"matches", result.MatchCount,
		"teams", result.TeamCount,
		"skipped", len(result.Skipped),
		"flagged", len(result.Flagged),
		"duration", result.Duration,
	)

	return result, nil
}
