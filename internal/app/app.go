package app

import (
	"fmt"
	"net/http"

	"github.com/beshreyas/T20FantasyScoring/external/cricbuzz"
	"github.com/beshreyas/T20FantasyScoring/internal/config"
	"github.com/beshreyas/T20FantasyScoring/internal/domain/scoring"
	"github.com/beshreyas/T20FantasyScoring/internal/infrastructure/repository/file"
	"github.com/beshreyas/T20FantasyScoring/internal/infrastructure/repository/memory"
	"github.com/beshreyas/T20FantasyScoring/internal/interfaces/httpapi"
	"github.com/beshreyas/T20FantasyScoring/internal/platform/cache"
	"github.com/beshreyas/T20FantasyScoring/internal/platform/logging"
	"github.com/beshreyas/T20FantasyScoring/internal/usecase"
)

// Services is the wired object graph shared by every scorer command.
type Services struct {
	Aggregation *usecase.AggregationService
	Leaderboard *usecase.LeaderboardService
	Import      *usecase.ImportService
}

func NewServices(cfg config.Config, logger *logging.Logger) *Services {
	if logger == nil {
		logger = logging.Default()
	}

	snapshots := memory.NewSnapshotRepository()
	aggregation := usecase.NewAggregationService(
		file.NewRosterCSV(cfg.RosterCSV),
		file.NewMatchSource(file.MatchSourceConfig{
			Dir:     cfg.MatchResultsDir,
			Workers: cfg.ReadWorkers,
			Logger:  logger,
		}),
		file.NewSnapshotWriter(cfg.PlayerPointsDir, logger),
		snapshots,
		usecase.AggregationConfig{
			Rules:               scoring.DefaultRules(),
			TeamAliases:         cfg.TeamAliases,
			SimilarityThreshold: cfg.SimilarityThreshold,
		},
		logger,
	)

	return &Services{
		Aggregation: aggregation,
		Leaderboard: usecase.NewLeaderboardService(aggregation, snapshots, cache.NewStore(cfg.CacheTTL), logger),
		Import:      usecase.NewImportService(cricbuzz.NewParser(logger), file.NewMatchWriter(cfg.MatchResultsDir), logger),
	}
}

func NewHTTPServer(cfg config.Config, services *Services, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(services.Leaderboard, services.Import, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterOptions{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		WritesPerMinute:    cfg.WritesPerMinute,
		WriteBurst:         cfg.WriteBurst,
	})

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
