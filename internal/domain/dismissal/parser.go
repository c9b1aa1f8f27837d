// Package dismissal reads scorecard dismissal text and credits fielders.
//
// The grammar is dispatched on prefix:
//
//	c and b X        caught and bowled, X takes the catch
//	c X b Y          caught by X off Y
//	st X b Y         stumped by X off Y
//	run out (A/B)    run out, every listed fielder is involved
//	lbw b Y          leg before
//	b Y              bowled
//	not out          unbeaten
//
// Anything else parses as KindOther with no fielders.
package dismissal

import (
	"regexp"
	"strings"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/identity"
)

type Kind string

const (
	KindDidNotBat       Kind = "did_not_bat"
	KindNotOut          Kind = "not_out"
	KindCaught          Kind = "caught"
	KindCaughtAndBowled Kind = "caught_and_bowled"
	KindStumped         Kind = "stumped"
	KindRunOut          Kind = "run_out"
	KindBowled          Kind = "bowled"
	KindLBW             Kind = "lbw"
	KindOther           Kind = "other"
)

// Dismissal is the parsed form of one batter's dismissal text.
type Dismissal struct {
	Kind     Kind
	Fielders []string
	Bowler   string
}

const (
	prefixCaughtAndBowled = "c and b "
	prefixCaught          = "c "
	prefixStumped         = "st "
	prefixRunOut          = "run out"
	prefixLBW             = "lbw b "
	prefixBowled          = "b "
	bowlerSeparator       = " b "
)

var runOutPattern = regexp.MustCompile(`^run out\s*\(([^)]+)\)`)

func Parse(text string) Dismissal {
	d := strings.TrimSpace(text)
	switch {
	case d == "":
		return Dismissal{Kind: KindDidNotBat}
	case strings.EqualFold(d, "not out"):
		return Dismissal{Kind: KindNotOut}
	case hasPrefixFold(d, prefixCaughtAndBowled):
		bowler := identity.Collapse(d[len(prefixCaughtAndBowled):])
		return Dismissal{Kind: KindCaughtAndBowled, Fielders: nonEmpty(bowler), Bowler: bowler}
	case hasPrefixFold(d, prefixCaught):
		fielder, bowler, ok := splitFielderBowler(d, len(prefixCaught))
		if !ok {
			return Dismissal{Kind: KindOther}
		}
		return Dismissal{Kind: KindCaught, Fielders: nonEmpty(fielder), Bowler: bowler}
	case hasPrefixFold(d, prefixStumped):
		keeper, bowler, ok := splitFielderBowler(d, len(prefixStumped))
		if !ok {
			return Dismissal{Kind: KindOther}
		}
		return Dismissal{Kind: KindStumped, Fielders: nonEmpty(keeper), Bowler: bowler}
	case hasPrefixFold(d, prefixRunOut):
		return Dismissal{Kind: KindRunOut, Fielders: runOutFielders(d)}
	case hasPrefixFold(d, prefixLBW):
		return Dismissal{Kind: KindLBW, Bowler: identity.Collapse(d[len(prefixLBW):])}
	case hasPrefixFold(d, prefixBowled):
		return Dismissal{Kind: KindBowled, Bowler: identity.Collapse(d[len(prefixBowled):])}
	default:
		return Dismissal{Kind: KindOther}
	}
}

// splitFielderBowler reads "<prefix>X b Y". X must be non-empty.
func splitFielderBowler(d string, offset int) (string, string, bool) {
	idx := strings.Index(d, bowlerSeparator)
	if idx < offset {
		return "", "", false
	}
	fielder := identity.Collapse(d[offset:idx])
	bowler := identity.Collapse(d[idx+len(bowlerSeparator):])
	return fielder, bowler, fielder != ""
}

func runOutFielders(d string) []string {
	m := runOutPattern.FindStringSubmatch(strings.ToLower(d[:len(prefixRunOut)]) + d[len(prefixRunOut):])
	if m == nil {
		return nil
	}
	var out []string
	for _, part := range strings.Split(m[1], "/") {
		if name := identity.Collapse(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func nonEmpty(name string) []string {
	if name == "" {
		return nil
	}
	return []string{name}
}
