package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/identity"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/leaderboard"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/match"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/scoring"
)

// MatchProcessor scores one match record into a ledger. It performs no I/O.
type MatchProcessor struct {
	rules    scoring.Rules
	resolver *identity.Resolver
}

func NewMatchProcessor(rules scoring.Rules, resolver *identity.Resolver) *MatchProcessor {
	return &MatchProcessor{rules: rules, resolver: resolver}
}

type stagedMatch struct {
	matchID string
	order   []string
	players map[string]*leaderboard.PlayerDelta
	flags   []leaderboard.IdentityFlag
}

func (s *stagedMatch) add(ledger *leaderboard.Ledger, resolver *identity.Resolver, name string, points scoring.Breakdown) {
	key := identity.Key(name)
	if key == "" {
		return
	}

	if staged, ok := s.players[key]; ok {
		staged.Points = staged.Points.Add(points)
		return
	}

	delta := &leaderboard.PlayerDelta{
		Key:    key,
		Name:   identity.Display(name),
		Points: points,
	}
	if !ledger.Has(key) {
		res := resolver.ResolveTeam(name)
		delta.Team = res.Team
		if res.Ambiguous || res.Tier == identity.TierSimilarity {
			s.flags = append(s.flags, leaderboard.IdentityFlag{
				Player:     delta.Name,
				MatchID:    s.matchID,
				Team:       res.Team,
				MatchedKey: res.MatchedKey,
				Tier:       string(res.Tier),
				Confidence: res.Confidence,
				Ambiguous:  res.Ambiguous,
			})
		}
	}
	s.players[key] = delta
	s.order = append(s.order, key)
}

// Process stages every discipline for the record and applies the result to
// the ledger in a single step. A cancelled context leaves the ledger untouched.
// New players whose team came from an ambiguous or similarity match are
// recorded as ledger flags.
func (p *MatchProcessor) Process(ctx context.Context, record match.Record, ledger *leaderboard.Ledger) error {
	if ledger == nil {
		return fmt.Errorf("%w: ledger is required", ErrInvalidInput)
	}
	matchID := strings.TrimSpace(record.ID)
	if matchID == "" {
		return fmt.Errorf("%w: match id is required source=%s", ErrInvalidInput, record.Source)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	staged := &stagedMatch{matchID: matchID, players: make(map[string]*leaderboard.PlayerDelta)}

	for _, item := range record.Batting {
		if item.Player == "" {
			continue
		}
		staged.add(ledger, p.resolver, item.Player, scoring.Breakdown{Batting: p.rules.BattingPoints(item)})
	}

	for _, item := range record.Bowling {
		if item.Player == "" {
			continue
		}
		staged.add(ledger, p.resolver, item.Player, scoring.Breakdown{Bowling: p.rules.BowlingPoints(item)})
	}

	fielders := make([]string, 0, len(record.Fielding))
	for name := range record.Fielding {
		if name != "" {
			fielders = append(fielders, name)
		}
	}
	sort.Strings(fielders)
	for _, name := range fielders {
		staged.add(ledger, p.resolver, name, scoring.Breakdown{Fielding: p.rules.FieldingPoints(record.Fielding[name])})
	}

	if mom := strings.TrimSpace(record.ManOfTheMatch); mom != "" {
		staged.add(ledger, p.resolver, mom, scoring.Breakdown{MoM: p.rules.ManOfTheMatchBonus})
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	matchName := strings.TrimSpace(record.Name)
	if matchName == "" {
		matchName = matchID
	}
	delta := leaderboard.MatchDelta{
		MatchID:   matchID,
		MatchName: matchName,
		Players:   make([]leaderboard.PlayerDelta, 0, len(staged.order)),
		Flags:     staged.flags,
	}
	for _, key := range staged.order {
		delta.Players = append(delta.Players, *staged.players[key])
	}
	ledger.Apply(delta)

	return nil
}
