package httpapi

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/beshreyas/T20FantasyScoring/internal/platform/logging"
)

type RouterOptions struct {
	CORSAllowedOrigins []string
	// WritesPerMinute caps rescore and import calls across all clients.
	// Zero disables the limit.
	WritesPerMinute int
	WriteBurst      int
}

func NewRouter(handler *Handler, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("http")

	var writeLimiter *rate.Limiter
	if opts.WritesPerMinute > 0 {
		burst := max(opts.WriteBurst, 1)
		writeLimiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.WritesPerMinute)), burst)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/leaderboard/players", handler.ListPlayerStandings)
	mux.HandleFunc("GET /v1/leaderboard/teams", handler.ListTeamStandings)
	mux.HandleFunc("GET /v1/players/{name}", handler.GetPlayerBreakdown)
	mux.Handle("POST /v1/rescore", RateLimit(writeLimiter, http.HandlerFunc(handler.Rescore)))
	mux.Handle("POST /v1/matches/{matchID}/scorecard", RateLimit(writeLimiter, http.HandlerFunc(handler.ImportScorecard)))

	return RequestTracing(RequestLogging(logger, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, mux))))
}
