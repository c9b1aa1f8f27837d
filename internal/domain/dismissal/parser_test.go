package dismissal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Dismissal
	}{
		{name: "empty", text: "", want: Dismissal{Kind: KindDidNotBat}},
		{name: "not out", text: " not out ", want: Dismissal{Kind: KindNotOut}},
		{name: "not out mixed case", text: "Not Out", want: Dismissal{Kind: KindNotOut}},
		{
			name: "caught",
			text: "c Jos Buttler b Mark Wood",
			want: Dismissal{Kind: KindCaught, Fielders: []string{"Jos Buttler"}, Bowler: "Mark Wood"},
		},
		{
			name: "caught collapses spaces",
			text: "c  Root   b Wood",
			want: Dismissal{Kind: KindCaught, Fielders: []string{"Root"}, Bowler: "Wood"},
		},
		{
			name: "caught and bowled",
			text: "c and b Adil Rashid",
			want: Dismissal{Kind: KindCaughtAndBowled, Fielders: []string{"Adil Rashid"}, Bowler: "Adil Rashid"},
		},
		{
			name: "stumped",
			text: "st Buttler b Rashid",
			want: Dismissal{Kind: KindStumped, Fielders: []string{"Buttler"}, Bowler: "Rashid"},
		},
		{
			name: "run out single",
			text: "run out (Salt)",
			want: Dismissal{Kind: KindRunOut, Fielders: []string{"Salt"}},
		},
		{
			name: "run out shared",
			text: "run out (Mohsin / Rizwan)",
			want: Dismissal{Kind: KindRunOut, Fielders: []string{"Mohsin", "Rizwan"}},
		},
		{
			name: "run out without fielders",
			text: "run out",
			want: Dismissal{Kind: KindRunOut},
		},
		{name: "bowled", text: "b Archer", want: Dismissal{Kind: KindBowled, Bowler: "Archer"}},
		{name: "lbw", text: "lbw b Archer", want: Dismissal{Kind: KindLBW, Bowler: "Archer"}},
		{name: "caught without bowler", text: "c Root", want: Dismissal{Kind: KindOther}},
		{name: "stumped without keeper", text: "st b Rashid", want: Dismissal{Kind: KindOther}},
		{name: "retired hurt", text: "retired hurt", want: Dismissal{Kind: KindOther}},
		{name: "hit wicket", text: "hit wicket b Wood", want: Dismissal{Kind: KindOther}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.text))
		})
	}
}
