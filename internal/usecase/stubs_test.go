package usecase

import (
	"context"
	"io"
	"sync"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/leaderboard"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/match"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/roster"
)

type stubRosterLoader struct {
	roster roster.Roster
	err    error
}

func (s *stubRosterLoader) Load(context.Context) (roster.Roster, error) {
	return s.roster, s.err
}

type stubMatchSource struct {
	corpus match.Corpus
	err    error
}

func (s *stubMatchSource) List(context.Context) (match.Corpus, error) {
	return s.corpus, s.err
}

type stubSnapshotWriter struct {
	mu      sync.Mutex
	written []leaderboard.Snapshot
	err     error
}

func (s *stubSnapshotWriter) Write(_ context.Context, snapshot leaderboard.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.written = append(s.written, snapshot)
	return nil
}

type stubSnapshotRepository struct {
	mu       sync.RWMutex
	snapshot leaderboard.Snapshot
	ok       bool
}

func (s *stubSnapshotRepository) Latest(context.Context) (leaderboard.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.ok, nil
}

func (s *stubSnapshotRepository) Store(_ context.Context, snapshot leaderboard.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
	s.ok = true
	return nil
}

type stubScorecardParser struct {
	card match.Scorecard
	err  error
}

func (s *stubScorecardParser) ParseScorecard(_ context.Context, r io.Reader, matchID string) (match.Scorecard, error) {
	if s.err != nil {
		return match.Scorecard{}, s.err
	}
	_, _ = io.ReadAll(r)
	card := s.card
	card.Record.ID = matchID
	return card, nil
}

type stubMatchWriter struct {
	saved []match.Record
	title string
	err   error
}

func (s *stubMatchWriter) Save(_ context.Context, record match.Record, title string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, record)
	s.title = title
	return title + "_" + record.ID + ".json", nil
}
