package scoring

import (
	"strings"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/match"
)

// WicketMilestone is a cumulative bonus unlocked at a wicket count.
type WicketMilestone struct {
	Wickets int
	Bonus   int
}

// Rules stores fantasy point weights for every discipline.
type Rules struct {
	RunPoints          int
	FourBonus          int
	SixBonus           int
	RunMilestoneStep   int
	RunMilestoneBonus  int
	DuckPenalty        int
	WicketPoints       int
	MaidenPoints       int
	PointsPerOver      int
	DotBallPoints      int
	WicketMilestones   []WicketMilestone
	CatchPoints        int
	RunOutPoints       int
	StumpingPoints     int
	ManOfTheMatchBonus int
}

// MoMBonus is the flat man-of-the-match award under the default rules.
const MoMBonus = 25

func DefaultRules() Rules {
	return Rules{
		RunPoints:         1,
		FourBonus:         2,
		SixBonus:          3,
		RunMilestoneStep:  25,
		RunMilestoneBonus: 10,
		DuckPenalty:       -10,
		WicketPoints:      25,
		MaidenPoints:      10,
		PointsPerOver:     12,
		DotBallPoints:     1,
		WicketMilestones: []WicketMilestone{
			{Wickets: 3, Bonus: 25},
			{Wickets: 5, Bonus: 50},
			{Wickets: 7, Bonus: 100},
		},
		CatchPoints:        15,
		RunOutPoints:       10,
		StumpingPoints:     10,
		ManOfTheMatchBonus: MoMBonus,
	}
}

// BattingPoints scores one innings. The strike-rate term (runs - balls) may go
// negative. A duck is only penalised when the batter was actually dismissed.
func (r Rules) BattingPoints(entry match.BattingEntry) int {
	runs := nonNegative(entry.Runs)
	balls := nonNegative(entry.Balls)

	points := runs*r.RunPoints +
		nonNegative(entry.Fours)*r.FourBonus +
		nonNegative(entry.Sixes)*r.SixBonus +
		(runs - balls)

	if r.RunMilestoneStep > 0 {
		points += (runs / r.RunMilestoneStep) * r.RunMilestoneBonus
	}
	if IsDuck(entry) {
		points += r.DuckPenalty
	}

	return points
}

// IsDuck reports a dismissal for zero. Empty or "not out" text means the
// batter did not bat or was unbeaten.
func IsDuck(entry match.BattingEntry) bool {
	if entry.Runs != 0 {
		return false
	}
	dismissal := strings.TrimSpace(entry.Dismissal)
	if dismissal == "" {
		return false
	}
	return !strings.Contains(strings.ToLower(dismissal), "not out")
}

// BowlingPoints scores one spell. A bowler with no legal balls scores zero.
// The economy term is overs*PointsPerOver - runs, computed on balls so it
// stays integral.
func (r Rules) BowlingPoints(entry match.BowlingEntry) int {
	balls := nonNegative(entry.Balls)
	if balls == 0 {
		return 0
	}

	wickets := nonNegative(entry.Wickets)
	points := wickets*r.WicketPoints +
		nonNegative(entry.Maidens)*r.MaidenPoints +
		economyPoints(balls, nonNegative(entry.Runs), r.PointsPerOver) +
		nonNegative(entry.Dots)*r.DotBallPoints

	for _, milestone := range r.WicketMilestones {
		if wickets >= milestone.Wickets {
			points += milestone.Bonus
		}
	}

	return points
}

func economyPoints(balls, runs, perOver int) int {
	// balls/6*perOver; the default weight of 12 divides exactly.
	if perOver%6 == 0 {
		return balls*(perOver/6) - runs
	}
	return (balls*perOver)/6 - runs
}

func (r Rules) FieldingPoints(entry match.FieldingEntry) int {
	return nonNegative(entry.Catches)*r.CatchPoints +
		nonNegative(entry.RunOuts)*r.RunOutPoints +
		nonNegative(entry.Stumpings)*r.StumpingPoints
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
