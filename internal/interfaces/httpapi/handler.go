package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/leaderboard"
	"github.com/beshreyas/T20FantasyScoring/internal/platform/logging"
	"github.com/beshreyas/T20FantasyScoring/internal/usecase"
)

const (
	maxScorecardBytes   = 8 << 20
	maxRescoreBodyBytes = 64 << 10
)

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

type Handler struct {
	leaderboardService *usecase.LeaderboardService
	importService      *usecase.ImportService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	leaderboardService *usecase.LeaderboardService,
	importService *usecase.ImportService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leaderboardService: leaderboardService,
		importService:      importService,
		logger:             logger.Named("handler"),
		validator:          validator.New(),
	}
}

type playerStandingDTO struct {
	Rank          int    `json:"rank"`
	PlayerName    string `json:"player_name"`
	Team          string `json:"team"`
	MatchesPlayed int    `json:"matches_played"`
	TotalPoints   int    `json:"total_points"`
}

type teamStandingDTO struct {
	Rank        int    `json:"rank"`
	Team        string `json:"team"`
	TotalPoints int    `json:"total_points"`
	PlayerCount int    `json:"player_count"`
}

type rescoreDTO struct {
	Players       int                        `json:"players"`
	Teams         int                        `json:"teams"`
	Matches       int                        `json:"matches"`
	Appearances   int                        `json:"appearances"`
	Skipped       []skipDTO                  `json:"skipped"`
	Flagged       []leaderboard.IdentityFlag `json:"flagged"`
	RosterMissing bool                       `json:"roster_missing"`
	RosterInvalid bool                       `json:"roster_invalid"`
	DurationMS    int64                      `json:"duration_ms"`
}

type skipDTO struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

type importDTO struct {
	MatchID  string `json:"match_id"`
	Title    string `json:"title"`
	Path     string `json:"path"`
	Batters  int    `json:"batters"`
	Bowlers  int    `json:"bowlers"`
	Fielders int    `json:"fielders"`
	MoM      string `json:"man_of_the_match,omitempty"`
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListPlayerStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayerStandings")
	defer span.End()

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	rows, err := h.leaderboardService.Players(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list player standings failed", "limit", limit, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]playerStandingDTO, 0, len(rows))
	for i, row := range rows {
		out = append(out, playerStandingDTO{
			Rank:          i + 1,
			PlayerName:    row.Name,
			Team:          row.Team,
			MatchesPlayed: row.MatchesPlayed,
			TotalPoints:   row.TotalPoints,
		})
	}
	writeSuccess(w, http.StatusOK, map[string]any{"items": out})
}

func (h *Handler) ListTeamStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamStandings")
	defer span.End()

	rows, err := h.leaderboardService.Teams(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list team standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]teamStandingDTO, 0, len(rows))
	for i, row := range rows {
		out = append(out, teamStandingDTO{
			Rank:        i + 1,
			Team:        row.Team,
			TotalPoints: row.TotalPoints,
			PlayerCount: row.PlayerCount,
		})
	}
	writeSuccess(w, http.StatusOK, map[string]any{"items": out})
}

func (h *Handler) GetPlayerBreakdown(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerBreakdown")
	defer span.End()

	name := r.PathValue("name")
	player, err := h.leaderboardService.Player(ctx, name)
	if err != nil {
		if !errors.Is(err, usecase.ErrNotFound) {
			h.logger.WarnContext(ctx, "get player breakdown failed", "player", name, "error", err)
		}
		writeError(ctx, w, err)
		return
	}

	matches := player.Matches
	if matches == nil {
		matches = []leaderboard.MatchBreakdown{}
	}
	writeSuccess(w, http.StatusOK, leaderboard.PlayerAccumulator{
		Name:        player.Name,
		Team:        player.Team,
		Matches:     matches,
		TotalPoints: player.TotalPoints,
	})
}

func (h *Handler) Rescore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Rescore")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRescoreBodyBytes))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read body: %v", usecase.ErrInvalidInput, err))
		return
	}

	var req usecase.RescoreInput
	if len(bytes.TrimSpace(body)) > 0 {
		if err := strictJSON.Unmarshal(body, &req); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err))
			return
		}
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.leaderboardService.Rescore(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	skipped := make([]skipDTO, 0, len(result.Skipped))
	for _, item := range result.Skipped {
		skipped = append(skipped, skipDTO{Source: item.Source, Reason: item.Reason})
	}
	flagged := result.Flagged
	if flagged == nil {
		flagged = []leaderboard.IdentityFlag{}
	}
	writeSuccess(w, http.StatusOK, rescoreDTO{
		Players:       result.PlayerCount,
		Teams:         result.TeamCount,
		Matches:       result.MatchCount,
		Appearances:   result.Appearances,
		Skipped:       skipped,
		Flagged:       flagged,
		RosterMissing: result.RosterMissing,
		RosterInvalid: result.RosterInvalid,
		DurationMS:    result.Duration.Milliseconds(),
	})
}

// ImportScorecard stores a saved scorecard page posted as the request body.
// Query parameters: mom (man of the match) and dots ("Name=4,Other=7").
func (h *Handler) ImportScorecard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportScorecard")
	defer span.End()

	if h.importService == nil {
		writeError(ctx, w, fmt.Errorf("%w: scorecard import is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	query := r.URL.Query()
	dots, err := usecase.ParseDotBalls(query.Get("dots"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.importService.ImportScorecard(ctx, usecase.ImportInput{
		Page:          http.MaxBytesReader(w, r.Body, maxScorecardBytes),
		MatchID:       r.PathValue("matchID"),
		ManOfTheMatch: query.Get("mom"),
		Dots:          dots,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "import scorecard failed", "match_id", r.PathValue("matchID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, importDTO{
		MatchID:  result.Record.ID,
		Title:    result.Title,
		Path:     result.Path,
		Batters:  len(result.Record.Batting),
		Bowlers:  len(result.Record.Bowling),
		Fielders: len(result.Record.Fielding),
		MoM:      result.Record.ManOfTheMatch,
	})
}
