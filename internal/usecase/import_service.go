package usecase

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/dismissal"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/identity"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/match"
	"github.com/beshreyas/T20FantasyScoring/internal/platform/logging"
)

// ScorecardParser turns a saved scorecard page into batting and bowling grids.
type ScorecardParser interface {
	ParseScorecard(ctx context.Context, r io.Reader, matchID string) (match.Scorecard, error)
}

type ImportInput struct {
	Page          io.Reader      `validate:"required"`
	MatchID       string         `validate:"required,numeric"`
	ManOfTheMatch string         `validate:"omitempty,max=100"`
	Dots          map[string]int `validate:"dive,gte=0"`
}

type ImportResult struct {
	Path   string
	Title  string
	Record match.Record
}

// ImportService converts a scorecard page into a match record file that the
// next aggregation run will pick up.
type ImportService struct {
	parser    ScorecardParser
	writer    match.Writer
	validator *validator.Validate
	logger    *logging.Logger
}

func NewImportService(parser ScorecardParser, writer match.Writer, logger *logging.Logger) *ImportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ImportService{
		parser:    parser,
		writer:    writer,
		validator: validator.New(),
		logger:    logger.Named("import"),
	}
}

func (s *ImportService) ImportScorecard(ctx context.Context, input ImportInput) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.ImportScorecard", attribute.String("match.id", input.MatchID))
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	if err := s.validator.StructCtx(ctx, input); err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	card, err := s.parser.ParseScorecard(ctx, input.Page, input.MatchID)
	if err != nil {
		markSpanError(span, err)
		return ImportResult{}, fmt.Errorf("%w: parse scorecard: %v", ErrInvalidInput, err)
	}

	record := card.Record
	record.ID = input.MatchID

	names := make([]string, 0, len(record.Batting)+len(record.Bowling))
	for _, name := range record.PlayerNames() {
		names = append(names, identity.Display(name))
	}
	attachDots(record.Bowling, input.Dots)
	if mom := strings.TrimSpace(input.ManOfTheMatch); mom != "" {
		record.ManOfTheMatch = identity.ResolveShortName(mom, names)
	}
	record.Fielding = dismissal.BuildFielding(record.Batting, names)

	if err := s.validator.StructCtx(ctx, record); err != nil {
		return ImportResult{}, fmt.Errorf("%w: scorecard record: %v", ErrInvalidInput, err)
	}

	path, err := s.writer.Save(ctx, record, card.Title)
	if err != nil {
		markSpanError(span, err)
		return ImportResult{}, crerr.Wrapf(err, "save match record id=%s", record.ID)
	}

	s.logger.InfoContext(ctx, "scorecard imported",
		"match_id", record.ID,
		"title", card.Title,
		"path", path,
		"batters", len(record.Batting),
		"bowlers", len(record.Bowling),
		"fielders", len(record.Fielding),
	)

	return ImportResult{Path: path, Title: card.Title, Record: record}, nil
}

// attachDots matches dot-ball counts to bowlers by identity key, expanding
// surname-only keys against the bowling card.
func attachDots(bowling []match.BowlingEntry, dots map[string]int) {
	if len(dots) == 0 || len(bowling) == 0 {
		return
	}

	bowlers := make([]string, 0, len(bowling))
	for _, item := range bowling {
		bowlers = append(bowlers, identity.Display(item.Player))
	}

	byKey := make(map[string]int, len(dots))
	for name, count := range dots {
		resolved := identity.ResolveShortName(identity.Display(name), bowlers)
		byKey[identity.Key(resolved)] = count
	}

	for i := range bowling {
		if count, ok := byKey[identity.Key(bowling[i].Player)]; ok && count > 0 {
			bowling[i].Dots = count
		}
	}
}

// ParseDotBalls reads "Name=4,Other Name=7" into a dot-ball map. Blank input
// yields an empty map.
func ParseDotBalls(raw string) (map[string]int, error) {
	out := make(map[string]int)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, count, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: dot balls entry %q must be name=count", ErrInvalidInput, pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: dot balls for %s must be a non-negative integer", ErrInvalidInput, name)
		}
		out[name] = n
	}
	return out, nil
}
