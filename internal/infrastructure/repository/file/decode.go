package file

import (
	"bytes"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/match"
)

// flexInt accepts numbers, numeric strings and null. Anything else decodes as
// zero instead of failing the whole match file.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	*f = 0
	text := strings.TrimSpace(string(data))
	if text == "" || text == "null" {
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return nil
		}
		text = strings.TrimSpace(unquoted)
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	if value < 0 {
		return nil
	}
	if value > math.MaxInt32 {
		value = math.MaxInt32
	}
	*f = flexInt(value)
	return nil
}

// flexText keeps the literal text of a string or number value.
type flexText string

func (f *flexText) UnmarshalJSON(data []byte) error {
	*f = ""
	text := strings.TrimSpace(string(data))
	switch {
	case text == "" || text == "null":
		return nil
	case strings.HasPrefix(text, `"`):
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return nil
		}
		*f = flexText(strings.TrimSpace(unquoted))
	case text[0] == '-' || (text[0] >= '0' && text[0] <= '9'):
		*f = flexText(text)
	}
	return nil
}

type battingRow struct {
	Player    flexText `json:"player"`
	Dismissal flexText `json:"dismissal"`
	Runs      flexInt  `json:"runs"`
	Balls     flexInt  `json:"balls"`
	Fours     flexInt  `json:"fours"`
	Sixes     flexInt  `json:"sixes"`
}

type bowlingRow struct {
	Player  flexText  `json:"player"`
	Balls   *flexInt  `json:"balls"`
	Overs   *flexText `json:"overs"`
	Maidens flexInt   `json:"maidens"`
	Runs    flexInt   `json:"runs"`
	Wickets flexInt   `json:"wickets"`
	Dots    flexInt   `json:"dots"`
}

type fieldingRow struct {
	Catches   flexInt `json:"catches"`
	RunOuts   flexInt `json:"runout"`
	Stumpings flexInt `json:"stumpings"`
}

type matchDocument struct {
	MatchID       flexText               `json:"match_id"`
	Batting       []battingRow           `json:"batting"`
	Bowling       []bowlingRow           `json:"bowling"`
	Fielding      map[string]fieldingRow `json:"fielding"`
	ManOfTheMatch flexText               `json:"man_of_the_match"`
	ScorecardURL  flexText               `json:"scorecard_url"`
}

const maxWickets = 10

// MatchNameFromFile derives the display name from "<Team A vs Team B>_<id>.json".
func MatchNameFromFile(fileName string) string {
	stem := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	if idx := strings.LastIndex(stem, "_"); idx >= 0 {
		return stem[:idx]
	}
	return stem
}

func decodeRecord(data []byte, fileName string) (match.Record, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return match.Record{}, crerr.New("match file is empty")
	}

	var doc matchDocument
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return match.Record{}, crerr.Wrap(err, "decode match document")
	}

	stem := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	record := match.Record{
		ID:            string(doc.MatchID),
		Name:          MatchNameFromFile(fileName),
		Source:        filepath.Base(fileName),
		Batting:       make([]match.BattingEntry, 0, len(doc.Batting)),
		Bowling:       make([]match.BowlingEntry, 0, len(doc.Bowling)),
		Fielding:      make(map[string]match.FieldingEntry, len(doc.Fielding)),
		ManOfTheMatch: string(doc.ManOfTheMatch),
		ScorecardURL:  string(doc.ScorecardURL),
	}
	if record.ID == "" {
		record.ID = stem
	}

	for _, row := range doc.Batting {
		record.Batting = append(record.Batting, match.BattingEntry{
			Player:    string(row.Player),
			Dismissal: string(row.Dismissal),
			Runs:      int(row.Runs),
			Balls:     int(row.Balls),
			Fours:     int(row.Fours),
			Sixes:     int(row.Sixes),
		})
	}

	for _, row := range doc.Bowling {
		balls := 0
		switch {
		case row.Balls != nil:
			balls = int(*row.Balls)
		case row.Overs != nil:
			balls = match.BallsFromOvers(string(*row.Overs))
		}
		record.Bowling = append(record.Bowling, match.BowlingEntry{
			Player:  string(row.Player),
			Balls:   balls,
			Maidens: int(row.Maidens),
			Runs:    int(row.Runs),
			Wickets: min(int(row.Wickets), maxWickets),
			Dots:    int(row.Dots),
		})
	}

	for name, row := range doc.Fielding {
		record.Fielding[name] = match.FieldingEntry{
			Catches:   int(row.Catches),
			RunOuts:   int(row.RunOuts),
			Stumpings: int(row.Stumpings),
		}
	}

	return record, nil
}
