package memory

import (
	"context"
	"sync"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/leaderboard"
)

// SnapshotRepository keeps the latest leaderboard snapshot in process.
type SnapshotRepository struct {
	mu       sync.RWMutex
	snapshot leaderboard.Snapshot
	ok       bool
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{}
}

func (r *SnapshotRepository) Latest(_ context.Context) (leaderboard.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.ok {
		return leaderboard.Snapshot{}, false, nil
	}
	return r.snapshot.Clone(), true, nil
}

func (r *SnapshotRepository) Store(ctx context.Context, snapshot leaderboard.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshot = snapshot.Clone()
	r.ok = true
	return nil
}
