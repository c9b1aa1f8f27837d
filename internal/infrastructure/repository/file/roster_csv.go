package file

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/roster"
)

const (
	columnPlayerName = "Player Name"
	columnTeam       = "Team"
)

// RosterCSV loads the player to team mapping from a CSV file with
// "Player Name" and "Team" columns.
type RosterCSV struct {
	path      string
	validator *validator.Validate
}

func NewRosterCSV(path string) *RosterCSV {
	return &RosterCSV{path: path, validator: validator.New()}
}

func (r *RosterCSV) Load(ctx context.Context) (roster.Roster, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return roster.Roster{}, fmt.Errorf("%w: %s", roster.ErrRosterMissing, r.path)
	}
	if err != nil {
		return roster.Roster{}, crerr.Wrapf(err, "open roster=%s", r.path)
	}
	defer f.Close()

	return r.parse(ctx, f)
}

func (r *RosterCSV) parse(ctx context.Context, src io.Reader) (roster.Roster, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return roster.Roster{}, nil
	}
	if err != nil {
		return roster.Roster{}, fmt.Errorf("%w: read header: %v", roster.ErrRosterMalformed, err)
	}

	nameCol, teamCol := -1, -1
	for idx, col := range header {
		col = headerName(col)
		switch {
		case strings.EqualFold(col, columnPlayerName):
			nameCol = idx
		case strings.EqualFold(col, columnTeam):
			teamCol = idx
		}
	}
	if nameCol < 0 || teamCol < 0 {
		return roster.Roster{}, fmt.Errorf("%w: header must contain %q and %q columns", roster.ErrRosterMalformed, columnPlayerName, columnTeam)
	}

	out := roster.Roster{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return roster.Roster{}, fmt.Errorf("%w: read line=%d: %v", roster.ErrRosterMalformed, line, err)
		}

		entry := roster.Entry{
			Player: strings.TrimSpace(cell(row, nameCol)),
			Team:   strings.TrimSpace(cell(row, teamCol)),
		}
		if err := r.validator.StructCtx(ctx, entry); err != nil {
			continue
		}
		out.Entries = append(out.Entries, entry)
	}

	return out, nil
}

// headerName drops a byte order mark and the literal quotes LazyQuotes keeps
// when a quoted header follows the mark.
func headerName(col string) string {
	col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
	return strings.TrimSpace(strings.Trim(col, `"`))
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
