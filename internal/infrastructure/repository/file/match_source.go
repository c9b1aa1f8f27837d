package file

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/match"
	"github.com/beshreyas/T20FantasyScoring/internal/platform/logging"
)

const defaultReadWorkers = 4

type MatchSourceConfig struct {
	Dir     string
	Workers int
	Logger  *logging.Logger
}

// MatchSource reads one JSON file per match from a directory. Files are read
// in parallel and merged back into lexicographic file-name order.
type MatchSource struct {
	dir     string
	workers int
	logger  *logging.Logger
}

func NewMatchSource(cfg MatchSourceConfig) *MatchSource {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultReadWorkers
	}
	return &MatchSource{
		dir:     cfg.Dir,
		workers: workers,
		logger:  logger.Named("match_source"),
	}
}

type readResult struct {
	record match.Record
	skip   *match.Skip
}

func (s *MatchSource) List(ctx context.Context) (match.Corpus, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return match.Corpus{}, crerr.Wrapf(err, "ensure match results dir=%s", s.dir)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return match.Corpus{}, crerr.Wrapf(err, "read match results dir=%s", s.dir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	if len(names) == 0 {
		return match.Corpus{}, nil
	}

	pool, err := ants.NewPool(min(s.workers, len(names)))
	if err != nil {
		return match.Corpus{}, crerr.Wrap(err, "create match read pool")
	}
	defer pool.Release()

	results := make([]readResult, len(names))
	var workers sync.WaitGroup
	for idx, name := range names {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			results[idx] = s.read(ctx, name)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return match.Corpus{}, crerr.Wrap(err, "submit match read task")
		}
	}
	workers.Wait()

	if err := ctx.Err(); err != nil {
		return match.Corpus{}, err
	}

	corpus := match.Corpus{Records: make([]match.Record, 0, len(names))}
	for _, res := range results {
		if res.skip != nil {
			corpus.Skipped = append(corpus.Skipped, *res.skip)
			continue
		}
		corpus.Records = append(corpus.Records, res.record)
	}

	s.logger.DebugContext(ctx, "match corpus listed",
		"dir", s.dir,
		"files", len(names),
		"records", len(corpus.Records),
		"skipped", len(corpus.Skipped),
	)
	return corpus, nil
}

func (s *MatchSource) read(ctx context.Context, name string) readResult {
	if err := ctx.Err(); err != nil {
		return readResult{skip: &match.Skip{Source: name, Reason: err.Error()}}
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return readResult{skip: &match.Skip{Source: name, Reason: crerr.Wrap(err, "read match file").Error()}}
	}

	record, err := decodeRecord(data, name)
	if err != nil {
		return readResult{skip: &match.Skip{Source: name, Reason: err.Error()}}
	}
	return readResult{record: record}
}
