package match

import (
	"math"
	"strconv"
	"strings"
)

// BattingEntry is one batter's line from a scorecard.
type BattingEntry struct {
	Player    string `json:"player" validate:"required"`
	Dismissal string `json:"dismissal"`
	Runs      int    `json:"runs" validate:"gte=0"`
	Balls     int    `json:"balls" validate:"gte=0"`
	Fours     int    `json:"fours" validate:"gte=0"`
	Sixes     int    `json:"sixes" validate:"gte=0"`
}

// BowlingEntry is one bowler's figures. Balls is already converted from overs.
type BowlingEntry struct {
	Player  string `json:"player" validate:"required"`
	Balls   int    `json:"balls" validate:"gte=0"`
	Maidens int    `json:"maidens" validate:"gte=0"`
	Runs    int    `json:"runs" validate:"gte=0"`
	Wickets int    `json:"wickets" validate:"gte=0,lte=10"`
	Dots    int    `json:"dots" validate:"gte=0"`
}

// FieldingEntry counts involvements; a shared run-out credits every fielder.
type FieldingEntry struct {
	Catches   int `json:"catches" validate:"gte=0"`
	RunOuts   int `json:"runout" validate:"gte=0"`
	Stumpings int `json:"stumpings" validate:"gte=0"`
}

// Record is the full per-match input consumed by the scoring engine.
type Record struct {
	ID            string                   `json:"match_id" validate:"required"`
	Name          string                   `json:"-"`
	Source        string                   `json:"-"`
	Batting       []BattingEntry           `json:"batting" validate:"dive"`
	Bowling       []BowlingEntry           `json:"bowling" validate:"dive"`
	Fielding      map[string]FieldingEntry `json:"fielding" validate:"dive"`
	ManOfTheMatch string                   `json:"man_of_the_match,omitempty"`
	ScorecardURL  string                   `json:"scorecard_url,omitempty"`
}

// PlayerNames returns batting then bowling names in scorecard order, without duplicates.
func (r Record) PlayerNames() []string {
	seen := make(map[string]struct{}, len(r.Batting)+len(r.Bowling))
	out := make([]string, 0, len(r.Batting)+len(r.Bowling))
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, item := range r.Batting {
		add(item.Player)
	}
	for _, item := range r.Bowling {
		add(item.Player)
	}
	return out
}

// BallsFromOvers converts scorecard overs notation to balls. The first digit
// after the point is a literal ball count within the over, so "4.3" is 27
// balls and "4.30" is the same.
func BallsFromOvers(overs string) int {
	overs = strings.TrimSpace(overs)
	if overs == "" {
		return 0
	}

	whole, part, _ := strings.Cut(overs, ".")
	completed, err := strconv.Atoi(whole)
	if err != nil || completed < 0 {
		return 0
	}

	balls := 0
	if part != "" {
		fraction, err := strconv.ParseFloat("0."+part, 64)
		if err == nil {
			balls = int(math.Round(fraction * 10))
		}
	}

	return completed*6 + balls
}

// Scorecard is a parsed scorecard page before dot balls, man of the match and
// fielding are attached.
type Scorecard struct {
	Title  string
	Record Record
}
