// Package cricbuzz reads saved Cricbuzz scorecard pages.
package cricbuzz

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/identity"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/match"
	"github.com/beshreyas/T20FantasyScoring/internal/platform/logging"
)

const scorecardURLFormat = "https://www.cricbuzz.com/live-cricket-scorecard/%s/"

const (
	battingGridSelector = `div[class*="scorecard-bat-grid"]`
	bowlingGridSelector = `div[class*="scorecard-bowl-grid"]`
	profileSelector     = `a[href*="/profiles/"]`
	dismissalSelector   = `div[class*="text-cbTxtSec"]`
	numberCellSelector  = `div[class*="justify-center"][class*="items-center"]`
)

// Parser extracts the batting and bowling grids from a scorecard page. The
// page repeats every grid for its responsive layouts, so rows are kept once
// per player.
type Parser struct {
	logger *logging.Logger
}

func NewParser(logger *logging.Logger) *Parser {
	if logger == nil {
		logger = logging.Default()
	}
	return &Parser{logger: logger.Named("cricbuzz")}
}

// ScorecardURL is the public scorecard page for a match id.
func ScorecardURL(matchID string) string {
	return fmt.Sprintf(scorecardURLFormat, strings.TrimSpace(matchID))
}

func (p *Parser) ParseScorecard(ctx context.Context, r io.Reader, matchID string) (match.Scorecard, error) {
	if err := ctx.Err(); err != nil {
		return match.Scorecard{}, err
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return match.Scorecard{}, crerr.Wrap(err, "parse scorecard html")
	}

	record := match.Record{
		ID:           matchID,
		Batting:      parseBatting(doc),
		Bowling:      parseBowling(doc),
		ScorecardURL: ScorecardURL(matchID),
	}
	if len(record.Batting) == 0 && len(record.Bowling) == 0 {
		return match.Scorecard{}, crerr.Newf("no scorecard grids found for match id=%s", matchID)
	}

	title := VsTitle(doc)
	p.logger.DebugContext(ctx, "scorecard parsed",
		"match_id", matchID,
		"title", title,
		"batters", len(record.Batting),
		"bowlers", len(record.Bowling),
	)

	return match.Scorecard{Title: title, Record: record}, nil
}

// VsTitle returns the "Team A vs Team B" part of the page title, or "" when
// the title does not name two sides.
func VsTitle(doc *goquery.Document) string {
	sel := doc.Find("title").First()
	if sel.Length() == 0 {
		sel = doc.Find("h1").First()
	}
	raw := strings.TrimSpace(sel.Text())

	raw = strings.TrimSpace(strings.ReplaceAll(raw, " - Scorecard", ""))
	if _, after, ok := strings.Cut(raw, " | "); ok {
		raw = strings.TrimSpace(after)
	}
	if before, _, ok := strings.Cut(raw, ","); ok {
		raw = strings.TrimSpace(before)
	}
	if !strings.Contains(raw, " vs ") {
		return ""
	}
	return raw
}

func parseBatting(doc *goquery.Document) []match.BattingEntry {
	out := make([]match.BattingEntry, 0, 22)
	seen := make(map[string]struct{})

	doc.Find(battingGridSelector).Each(func(_ int, row *goquery.Selection) {
		name, ok := rowPlayer(row, seen, "EXTRAS", "TOTAL")
		if !ok {
			return
		}

		entry := match.BattingEntry{
			Player:    name,
			Dismissal: strings.TrimSpace(row.Find(dismissalSelector).First().Text()),
		}

		var numbers []int
		row.Find(numberCellSelector).Each(func(_ int, cell *goquery.Selection) {
			text := strings.TrimSpace(cell.Text())
			if !isDigits(text) {
				return
			}
			n, err := strconv.Atoi(text)
			if err == nil {
				numbers = append(numbers, n)
			}
		})
		if len(numbers) >= 4 {
			entry.Runs, entry.Balls, entry.Fours, entry.Sixes = numbers[0], numbers[1], numbers[2], numbers[3]
		}

		out = append(out, entry)
	})

	return out
}

func parseBowling(doc *goquery.Document) []match.BowlingEntry {
	out := make([]match.BowlingEntry, 0, 12)
	seen := make(map[string]struct{})

	doc.Find(bowlingGridSelector).Each(func(_ int, row *goquery.Selection) {
		name, ok := rowPlayer(row, seen, "BOWLER")
		if !ok {
			return
		}

		// overs, maidens, runs, wickets
		values := make([]string, 0, 4)
		row.Find(numberCellSelector).EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			text := strings.TrimSpace(cell.Text())
			if isDigits(text) || isDecimal(text) {
				values = append(values, text)
			}
			return len(values) < 4
		})
		if len(values) < 4 {
			return
		}

		out = append(out, match.BowlingEntry{
			Player:  name,
			Balls:   match.BallsFromOvers(values[0]),
			Maidens: wholeNumber(values[1]),
			Runs:    wholeNumber(values[2]),
			Wickets: wholeNumber(values[3]),
		})
	})

	return out
}

// rowPlayer returns the display name from the row's profile link. Header rows
// and players already seen are rejected; accepted names are marked seen.
func rowPlayer(row *goquery.Selection, seen map[string]struct{}, headers ...string) (string, bool) {
	link := row.Find(profileSelector).First()
	if link.Length() == 0 {
		return "", false
	}

	name := identity.Display(link.Text())
	if name == "" {
		return "", false
	}
	for _, header := range headers {
		if strings.EqualFold(name, header) {
			return "", false
		}
	}
	if _, dup := seen[name]; dup {
		return "", false
	}
	seen[name] = struct{}{}
	return name, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isDecimal(s string) bool {
	whole, frac, ok := strings.Cut(s, ".")
	if !ok {
		return false
	}
	return (whole == "" || isDigits(whole)) && (frac == "" || isDigits(frac)) && whole+frac != ""
}

func wholeNumber(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f)
}
