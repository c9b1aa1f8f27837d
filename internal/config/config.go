package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/beshreyas/T20FantasyScoring/internal/domain/identity"
	"github.com/beshreyas/T20FantasyScoring/internal/platform/logging"
)

// Config stores runtime configuration for the scorer.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	LogLevel                   logging.Level
	LogFormat                  string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	ShutdownTimeout            time.Duration
	CORSAllowedOrigins         []string
	MatchResultsDir            string
	PlayerPointsDir            string
	RosterCSV                  string
	ReadWorkers                int
	TeamAliases                identity.TeamAliases
	SimilarityThreshold        float64
	CacheTTL                   time.Duration
	WritesPerMinute            int
	WriteBurst                 int
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logFormatDefault := logging.FormatConsole
	if appEnv != EnvDev {
		logFormatDefault = logging.FormatJSON
	}
	logFormat := strings.ToLower(strings.TrimSpace(getEnv("APP_LOG_FORMAT", logFormatDefault)))
	if logFormat != logging.FormatJSON && logFormat != logging.FormatConsole {
		return Config{}, fmt.Errorf("invalid APP_LOG_FORMAT %q: valid values are %s, %s", logFormat, logging.FormatJSON, logging.FormatConsole)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	shutdownTimeout, err := time.ParseDuration(getEnv("APP_SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_SHUTDOWN_TIMEOUT: %w", err)
	}
	if readTimeout <= 0 || writeTimeout <= 0 || shutdownTimeout <= 0 {
		return Config{}, fmt.Errorf("APP_READ_TIMEOUT, APP_WRITE_TIMEOUT and APP_SHUTDOWN_TIMEOUT must be > 0")
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL < 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be >= 0")
	}

	readWorkers, err := getEnvAsInt("READ_WORKERS", runtime.GOMAXPROCS(0))
	if err != nil {
		return Config{}, fmt.Errorf("parse READ_WORKERS: %w", err)
	}
	if readWorkers <= 0 {
		return Config{}, fmt.Errorf("READ_WORKERS must be > 0")
	}

	writesPerMinute, err := getEnvAsInt("WRITE_RATE_PER_MINUTE", 12)
	if err != nil {
		return Config{}, fmt.Errorf("parse WRITE_RATE_PER_MINUTE: %w", err)
	}
	writeBurst, err := getEnvAsInt("WRITE_RATE_BURST", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse WRITE_RATE_BURST: %w", err)
	}
	if writesPerMinute < 0 || writeBurst < 0 {
		return Config{}, fmt.Errorf("WRITE_RATE_PER_MINUTE and WRITE_RATE_BURST must be >= 0")
	}

	extraAliases, err := identity.ParseTeamAliases(getEnv("TEAM_ALIASES", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse TEAM_ALIASES: %w", err)
	}

	similarityThreshold, err := strconv.ParseFloat(getEnv("IDENTITY_SIMILARITY_THRESHOLD", "0"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse IDENTITY_SIMILARITY_THRESHOLD: %w", err)
	}
	if similarityThreshold < 0 || similarityThreshold > 1 {
		return Config{}, fmt.Errorf("IDENTITY_SIMILARITY_THRESHOLD must be within [0, 1]")
	}

	matchResultsDir := strings.TrimSpace(getEnv("MATCH_RESULTS_DIR", "match_results"))
	playerPointsDir := strings.TrimSpace(getEnv("PLAYER_POINTS_DIR", "player_points"))
	if matchResultsDir == playerPointsDir {
		return Config{}, fmt.Errorf("MATCH_RESULTS_DIR and PLAYER_POINTS_DIR must differ")
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "t20-fantasy-scorer"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:                   logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:                  logFormat,
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		ShutdownTimeout:            shutdownTimeout,
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		MatchResultsDir:            matchResultsDir,
		PlayerPointsDir:            playerPointsDir,
		RosterCSV:                  strings.TrimSpace(getEnv("ROSTER_CSV", "PlayersWithTeam.csv")),
		ReadWorkers:                readWorkers,
		TeamAliases:                identity.DefaultTeamAliases().With(extraAliases),
		SimilarityThreshold:        similarityThreshold,
		CacheTTL:                   cacheTTL,
		WritesPerMinute:            writesPerMinute,
		WriteBurst:                 writeBurst,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
