package dismissal

import (
	"slices"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/identity"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/match"
)

// BuildFielding credits catches, stumpings and run-out involvements from the
// batting card. Run-out mentions are often surnames only, so they are expanded
// against candidates, which are sorted first to keep the outcome stable.
func BuildFielding(batting []match.BattingEntry, candidates []string) map[string]match.FieldingEntry {
	names := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if name = identity.Collapse(name); name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	names = slices.Compact(names)

	out := make(map[string]match.FieldingEntry)
	credit := func(name string, apply func(*match.FieldingEntry)) {
		if name == "" {
			return
		}
		entry := out[name]
		apply(&entry)
		out[name] = entry
	}

	for _, item := range batting {
		parsed := Parse(item.Dismissal)
		switch parsed.Kind {
		case KindCaught, KindCaughtAndBowled:
			for _, fielder := range parsed.Fielders {
				credit(fielder, func(e *match.FieldingEntry) { e.Catches++ })
			}
		case KindStumped:
			for _, keeper := range parsed.Fielders {
				credit(keeper, func(e *match.FieldingEntry) { e.Stumpings++ })
			}
		case KindRunOut:
			for _, fielder := range parsed.Fielders {
				credit(identity.ResolveShortName(fielder, names), func(e *match.FieldingEntry) { e.RunOuts++ })
			}
		}
	}

	return out
}
