package scoring

// Breakdown holds one player's points for a single match, split by discipline.
type Breakdown struct {
	Batting  int `json:"batting_points"`
	Bowling  int `json:"bowling_points"`
	Fielding int `json:"fielding_points"`
	MoM      int `json:"mom"`
}

func (b Breakdown) Total() int {
	return b.Batting + b.Bowling + b.Fielding + b.MoM
}

// Add merges another partial breakdown for the same match. The man-of-the-match
// award is a flag, so it is taken rather than summed.
func (b Breakdown) Add(other Breakdown) Breakdown {
	out := Breakdown{
		Batting:  b.Batting + other.Batting,
		Bowling:  b.Bowling + other.Bowling,
		Fielding: b.Fielding + other.Fielding,
		MoM:      b.MoM,
	}
	if other.MoM != 0 {
		out.MoM = other.MoM
	}
	return out
}
