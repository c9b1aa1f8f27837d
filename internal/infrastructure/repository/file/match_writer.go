package file

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/match"
)

var unsafeFileChars = regexp.MustCompile(`[<>:"/\\|?*]`)

const defaultMatchTitle = "match"

// MatchWriter stores imported records as "<Team A vs Team B>_<match id>.json".
type MatchWriter struct {
	dir string
}

func NewMatchWriter(dir string) *MatchWriter {
	return &MatchWriter{dir: dir}
}

// MatchFileName builds the on-disk name for a record. The title is stripped
// of characters that are unsafe on common file systems.
func MatchFileName(title, matchID string) string {
	safe := strings.TrimSpace(unsafeFileChars.ReplaceAllString(title, ""))
	if safe == "" {
		safe = defaultMatchTitle
	}
	return fmt.Sprintf("%s_%s.json", safe, matchID)
}

func (w *MatchWriter) Save(ctx context.Context, record match.Record, title string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(record.ID) == "" {
		return "", crerr.New("match id is required")
	}

	path := filepath.Join(w.dir, MatchFileName(title, record.ID))
	if err := writeJSONAtomic(path, record); err != nil {
		return "", crerr.Wrapf(err, "save match id=%s", record.ID)
	}
	return path, nil
}
