package app

import (
	"fmt"
	"io"

	"github.com/valyala/bytebufferpool"

	"github.com/beshreyas/T20FantasyScoring/internal/usecase"
)

// SummaryTopPlayers is how many player rows the run summary prints.
const SummaryTopPlayers = 10

// WriteSummary prints the run totals, the top player rows and every team.
func WriteSummary(w io.Writer, result usecase.RunResult, top int) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	fmt.Fprintf(buf, "Scored %d players across %d match appearances.\n", result.PlayerCount, result.Appearances)
	if len(result.Skipped) > 0 {
		fmt.Fprintf(buf, "Skipped %d match sources:\n", len(result.Skipped))
		for _, skip := range result.Skipped {
			fmt.Fprintf(buf, "  %s: %s\n", skip.Source, skip.Reason)
		}
	}
	if result.RosterMissing || result.RosterInvalid {
		buf.WriteString("Roster unavailable, every player is on the Unknown team.\n")
	}
	if len(result.Flagged) > 0 {
		fmt.Fprintf(buf, "Check %d uncertain team assignments:\n", len(result.Flagged))
		for _, flag := range result.Flagged {
			fmt.Fprintf(buf, "  %s -> %s (%s %q, confidence %.2f)\n", flag.Player, flag.Team, flag.Tier, flag.MatchedKey, flag.Confidence)
		}
	}

	players := result.Snapshot.Leaderboard
	if top > 0 && top < len(players) {
		players = players[:top]
	}
	fmt.Fprintf(buf, "\nPlayer Leaderboard (top %d):\n", top)
	for i, p := range players {
		fmt.Fprintf(buf, "  %2d. %-25s %-10s %6d pts  (%d matches)\n", i+1, p.Name, p.Team, p.TotalPoints, p.MatchesPlayed)
	}

	buf.WriteString("\nTeam Standings:\n")
	for _, t := range result.Snapshot.Teams {
		fmt.Fprintf(buf, "  %-10s %6d pts  (%d players)\n", t.Team, t.TotalPoints, t.PlayerCount)
	}

	_, err := buf.WriteTo(w)
	return err
}
