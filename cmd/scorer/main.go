package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/beshreyas/T20FantasyScoring/internal/app"
	"github.com/beshreyas/T20FantasyScoring/internal/config"
	"github.com/beshreyas/T20FantasyScoring/internal/observability"
	"github.com/beshreyas/T20FantasyScoring/internal/platform/logging"
	"github.com/beshreyas/T20FantasyScoring/internal/usecase"
)

const usage = `usage: scorer <command> [flags]

commands:
  run      rescore every match file, write the leaderboards and print a summary (default)
  serve    rescore once, then serve the leaderboard API
  import   convert a saved Cricbuzz scorecard page into a match file
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(2)
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr}).
		With("service", cfg.ServiceName, "version", cfg.ServiceVersion)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command, args := "run", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	switch command {
	case "run":
		err = runCommand(ctx, cfg, logger)
	case "serve":
		err = serveCommand(ctx, cfg, logger)
	case "import":
		err = importCommand(ctx, cfg, logger, args)
	case "help", "-h", "--help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("scorer command failed", "command", command, "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
	services := app.NewServices(cfg, logger)

	result, err := services.Leaderboard.Rescore(ctx, usecase.RescoreInput{Reason: "cli run"})
	if err != nil {
		return err
	}
	return app.WriteSummary(os.Stdout, result, app.SummaryTopPlayers)
}

func serveCommand(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := stopProfiler(); err != nil {
			logger.Warn("pyroscope stop failed", "error", err)
		}
	}()

	services := app.NewServices(cfg, logger)
	if _, err := services.Leaderboard.Rescore(ctx, usecase.RescoreInput{Reason: "startup"}); err != nil {
		logger.Error("initial rescore failed, serving until the next rescore succeeds", "error", err)
	}

	srv, err := app.NewHTTPServer(cfg, services, logger)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	logger.Info("http server stopped")
	return nil
}

func importCommand(ctx context.Context, cfg config.Config, logger *logging.Logger, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	page := fs.String("file", "", "saved Cricbuzz scorecard HTML page")
	matchID := fs.String("match-id", "", "numeric Cricbuzz match id")
	mom := fs.String("mom", "", "man of the match, full name or surname")
	dots := fs.String("dots", "", `dot balls per bowler, e.g. "Rashid=11,Wood=9"`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *page == "" {
		return fmt.Errorf("%w: -file is required", usecase.ErrInvalidInput)
	}

	dotBalls, err := usecase.ParseDotBalls(*dots)
	if err != nil {
		return err
	}

	f, err := os.Open(*page)
	if err != nil {
		return fmt.Errorf("open scorecard page: %w", err)
	}
	defer f.Close()

	services := app.NewServices(cfg, logger)
	result, err := services.Import.ImportScorecard(ctx, usecase.ImportInput{
		Page:          f,
		MatchID:       *matchID,
		ManOfTheMatch: *mom,
		Dots:          dotBalls,
	})
	if err != nil {
		return err
	}

	title := result.Title
	if title == "" {
		title = "Match"
	}
	fmt.Fprintf(os.Stdout, "%s saved successfully to %s\n", title, result.Path)
	return nil
}
