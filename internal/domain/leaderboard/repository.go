package leaderboard

import "context"

// SnapshotWriter persists the three leaderboard artifacts, replacing any
// previous run in full.
type SnapshotWriter interface {
	Write(ctx context.Context, snapshot Snapshot) error
}

// SnapshotRepository keeps the most recent snapshot for read APIs.
type SnapshotRepository interface {
	Latest(ctx context.Context) (Snapshot, bool, error)
	Store(ctx context.Context, snapshot Snapshot) error
}
