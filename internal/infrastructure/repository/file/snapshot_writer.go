package file

import (
	"context"
	"path/filepath"

	crerr "github.com/cockroachdb/errors"
	"github.com/google/renameio/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/leaderboard"
	"github.com/beshreyas/T20FantasyScoring/internal/platform/logging"
)

const (
	AllPlayerPointsFile = "all_player_points.json"
	LeaderboardFile     = "leaderboard.json"
	TeamLeaderboardFile = "team_leaderboard.json"
)

// SnapshotWriter writes the three leaderboard artifacts under one directory.
// Every artifact is staged before any of them is renamed into place, so a
// failed write leaves the previous snapshot intact.
type SnapshotWriter struct {
	dir    string
	logger *logging.Logger
	stage  func(path string, v any) (*renameio.PendingFile, error)
}

func NewSnapshotWriter(dir string, logger *logging.Logger) *SnapshotWriter {
	if logger == nil {
		logger = logging.Default()
	}
	return &SnapshotWriter{dir: dir, logger: logger.Named("snapshot_writer"), stage: stageJSON}
}

func (w *SnapshotWriter) Write(ctx context.Context, snapshot leaderboard.Snapshot) error {
	players := snapshot.Players
	if players == nil {
		players = []leaderboard.PlayerAccumulator{}
	}
	standings := snapshot.Leaderboard
	if standings == nil {
		standings = []leaderboard.PlayerStanding{}
	}
	teams := snapshot.Teams
	if teams == nil {
		teams = []leaderboard.TeamStanding{}
	}

	artifacts := []struct {
		name  string
		value any
	}{
		{name: AllPlayerPointsFile, value: players},
		{name: LeaderboardFile, value: standings},
		{name: TeamLeaderboardFile, value: teams},
	}

	staged := make([]*renameio.PendingFile, len(artifacts))
	defer func() {
		for _, pending := range staged {
			if pending != nil {
				_ = pending.Cleanup()
			}
		}
	}()

	p := pool.New().WithMaxGoroutines(len(artifacts)).WithContext(ctx)
	for idx, artifact := range artifacts {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pending, err := w.stage(filepath.Join(w.dir, artifact.name), artifact.value)
			if err != nil {
				return crerr.Wrapf(err, "stage artifact=%s", artifact.name)
			}
			staged[idx] = pending
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for idx, pending := range staged {
		if err := pending.CloseAtomicallyReplace(); err != nil {
			return crerr.Wrapf(err, "commit artifact=%s", artifacts[idx].name)
		}
	}

	w.logger.DebugContext(ctx, "leaderboard snapshot written",
		"dir", w.dir,
		"players", len(players),
		"teams", len(teams),
	)
	return nil
}
