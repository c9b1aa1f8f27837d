package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/identity"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/leaderboard"
	"github.com/beshreyas/T20FantasyScoring/internal/platform/cache"
	"github.com/beshreyas/T20FantasyScoring/internal/platform/logging"
)

// Rescorer rebuilds the leaderboard from scratch.
type Rescorer interface {
	Run(ctx context.Context) (RunResult, error)
}

const (
	cacheKeyPlayersPrefix = "leaderboard:players:"
	cacheKeyTeams         = "leaderboard:teams"
	cacheKeyPlayerPrefix  = "leaderboard:player:"
	rescoreFlightKey      = "rescore"
)

type RescoreInput struct {
	Reason string `json:"reason" validate:"omitempty,max=200"`
}

// LeaderboardService serves read views over the latest snapshot.
type LeaderboardService struct {
	rescorer  Rescorer
	snapshots leaderboard.SnapshotRepository
	cache     *cache.Store
	flight    singleflight.Group
	logger    *logging.Logger
}

func NewLeaderboardService(
	rescorer Rescorer,
	snapshots leaderboard.SnapshotRepository,
	store *cache.Store,
	logger *logging.Logger,
) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}
	if store == nil {
		store = cache.NewStore(0)
	}

	return &LeaderboardService{
		rescorer:  rescorer,
		snapshots: snapshots,
		cache:     store,
		logger:    logger.Named("leaderboard"),
	}
}

func (s *LeaderboardService) latest(ctx context.Context) (leaderboard.Snapshot, error) {
	snapshot, ok, err := s.snapshots.Latest(ctx)
	if err != nil {
		return leaderboard.Snapshot{}, crerr.Wrap(err, "load latest snapshot")
	}
	if !ok {
		return leaderboard.Snapshot{}, ErrSnapshotUnavailable
	}
	return snapshot, nil
}

// Players returns the player leaderboard. A limit of zero returns every row.
func (s *LeaderboardService) Players(ctx context.Context, limit int) ([]leaderboard.PlayerStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Players", attribute.Int("limit", limit))
	defer span.End()

	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}

	key := cacheKeyPlayersPrefix + strconv.Itoa(limit)
	rows, err := cache.Load(ctx, s.cache, key, func(ctx context.Context) ([]leaderboard.PlayerStanding, error) {
		snapshot, err := s.latest(ctx)
		if err != nil {
			return nil, err
		}
		out := snapshot.Leaderboard
		if limit > 0 && limit < len(out) {
			out = out[:limit]
		}
		return append([]leaderboard.PlayerStanding(nil), out...), nil
	})
	if err != nil {
		markSpanError(span, err)
		return nil, err
	}
	return rows, nil
}

func (s *LeaderboardService) Teams(ctx context.Context) ([]leaderboard.TeamStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Teams")
	defer span.End()

	rows, err := cache.Load(ctx, s.cache, cacheKeyTeams, func(ctx context.Context) ([]leaderboard.TeamStanding, error) {
		snapshot, err := s.latest(ctx)
		if err != nil {
			return nil, err
		}
		return append([]leaderboard.TeamStanding(nil), snapshot.Teams...), nil
	})
	if err != nil {
		markSpanError(span, err)
		return nil, err
	}
	return rows, nil
}

// Player returns one player's per-match breakdown, looked up by identity key
// so "Virat Kohli (c)" and "virat kohli" find the same row.
func (s *LeaderboardService) Player(ctx context.Context, name string) (leaderboard.PlayerAccumulator, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Player")
	defer span.End()

	key := identity.Key(name)
	if key == "" {
		return leaderboard.PlayerAccumulator{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	player, err := cache.Load(ctx, s.cache, cacheKeyPlayerPrefix+key, func(ctx context.Context) (leaderboard.PlayerAccumulator, error) {
		snapshot, err := s.latest(ctx)
		if err != nil {
			return leaderboard.PlayerAccumulator{}, err
		}
		found, ok := snapshot.FindPlayer(key, identity.Key)
		if !ok {
			return leaderboard.PlayerAccumulator{}, fmt.Errorf("%w: player=%s", ErrNotFound, strings.TrimSpace(name))
		}
		return found, nil
	})
	if err != nil {
		markSpanError(span, err)
		return leaderboard.PlayerAccumulator{}, err
	}
	return player, nil
}

// Rescore rebuilds the snapshot and drops cached views. Concurrent callers
// share one run.
func (s *LeaderboardService) Rescore(ctx context.Context, input RescoreInput) (RunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Rescore")
	defer span.End()

	if s.rescorer == nil {
		return RunResult{}, fmt.Errorf("%w: rescorer is not configured", ErrDependencyUnavailable)
	}

	// The run is shared by every concurrent caller, so one caller going away
	// must not cancel it for the others.
	runCtx := context.WithoutCancel(ctx)
	value, err, shared := s.flight.Do(rescoreFlightKey, func() (any, error) {
		result, runErr := s.rescorer.Run(runCtx)
		if runErr != nil {
			return RunResult{}, runErr
		}
		s.cache.Invalidate(runCtx)
		return result, nil
	})
	if err != nil {
		markSpanError(span, err)
		s.logger.ErrorContext(ctx, "rescore failed", "reason", input.Reason, "error", err)
		return RunResult{}, err
	}

	result, _ := value.(RunResult)
	s.logger.InfoContext(ctx, "rescore completed", "reason", input.Reason, "shared", shared, "players", result.PlayerCount)
	return result, nil
}
