package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterCSVLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "PlayersWithTeam.csv")
	body := "\ufeffPlayer Name,Team,Price\n" +
		"Jos Buttler,GkKani,9.5\n" +
		" Phil Salt , RSK ,8\n" +
		",CNI,7\n" +
		"Sam Curran,,7\n" +
		"\n" +
		"\"Rizwan, Mohammad\",ppt\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	got, err := NewRosterCSV(path).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []roster.Entry{
		{Player: "Jos Buttler", Team: "GkKani"},
		{Player: "Phil Salt", Team: "RSK"},
		{Player: "Rizwan, Mohammad", Team: "ppt"},
	}, got.Entries)
}

func TestRosterCSVMissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewRosterCSV(filepath.Join(t.TempDir(), "absent.csv")).Load(context.Background())
	assert.ErrorIs(t, err, roster.ErrRosterMissing)
}

func TestRosterCSVParseErrors(t *testing.T) {
	t.Parallel()

	r := NewRosterCSV("unused")

	_, err := r.parse(context.Background(), strings.NewReader("Name,Squad\nA,B\n"))
	assert.ErrorIs(t, err, roster.ErrRosterMalformed)

	empty, err := r.parse(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty.Entries)
}

func TestRosterCSVQuotedHeaderAfterBOM(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "PlayersWithTeam.csv")
	body := "\ufeff\"Player Name\",\"Team\",\"Price\"\n" +
		"\"Jos Buttler\",\"GkKani\",\"9.5\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	got, err := NewRosterCSV(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []roster.Entry{{Player: "Jos Buttler", Team: "GkKani"}}, got.Entries)
}

func TestRosterCSVMismatchedHeaderIsMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "PlayersWithTeam.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,Owner\nJos Buttler,RSK\n"), 0o644))

	_, err := NewRosterCSV(path).Load(context.Background())
	assert.ErrorIs(t, err, roster.ErrRosterMalformed)
}
