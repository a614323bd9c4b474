package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchlens/internal/platform/logging"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	LogLevel                logging.Level
	StorageDriver           string
	DBURL                   string
	DBDisablePreparedBinary bool
	CORSAllowedOrigins      []string
	InternalJobToken        string
	CacheTTL                time.Duration

	MetricsWorkers           int
	ResolverNameThreshold    float64
	ResolverKickoffTolerance time.Duration
	ResolverAliasesFile      string

	EmbeddingDimension            int
	EmbedderEnabled               bool
	EmbedderURL                   string
	EmbedderModel                 string
	EmbedderToken                 string
	EmbedderTimeout               time.Duration
	EmbedderMaxRetries            int
	EmbedderCircuitEnabled        bool
	EmbedderCircuitFailureCount   int
	EmbedderCircuitOpenTimeout    time.Duration
	EmbedderCircuitHalfOpenMaxReq int
	RetrievalDefaultLimit         int

	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	UptraceCaptureRequestBody  bool
	UptraceRequestBodyMaxBytes int
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

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                strings.TrimSpace(getEnv("APP_SERVICE_NAME", "matchlens")),
		ServiceVersion:             strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		HTTPAddr:                   strings.TrimSpace(getEnv("APP_HTTP_ADDR", ":8080")),
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		DBURL:                      strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InternalJobToken:           strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		ResolverAliasesFile:        strings.TrimSpace(getEnv("RESOLVER_ALIASES_FILE", "")),
		EmbedderURL:                strings.TrimSpace(getEnv("EMBEDDER_URL", "")),
		EmbedderModel:              strings.TrimSpace(getEnv("EMBEDDER_MODEL", "nomic-embed-text")),
		EmbedderToken:              strings.TrimSpace(getEnv("EMBEDDER_TOKEN", "")),
		PprofAddr:                  strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
	}
	if cfg.ServiceName == "" {
		return Config{}, fmt.Errorf("APP_SERVICE_NAME cannot be empty")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	storageDefault := StorageMemory
	if cfg.DBURL != "" {
		storageDefault = StoragePostgres
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", storageDefault)))
	switch cfg.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DBURL == "" {
			return Config{}, fmt.Errorf("DB_URL is required when STORAGE_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", cfg.StorageDriver, StorageMemory, StoragePostgres)
	}

	if cfg.ReadTimeout, err = getEnvAsDuration("APP_READ_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsDuration("APP_WRITE_TIMEOUT", 60*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getEnvAsDuration("CACHE_TTL", 60*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.DBDisablePreparedBinary, err = getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", true); err != nil {
		return Config{}, err
	}

	if err := loadPipeline(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadEmbedder(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadPipeline(cfg *Config) error {
	var err error
	if cfg.MetricsWorkers, err = getEnvAsInt("METRICS_WORKERS", 8); err != nil {
		return fmt.Errorf("parse METRICS_WORKERS: %w", err)
	}
	if cfg.MetricsWorkers < 1 {
		return fmt.Errorf("METRICS_WORKERS must be >= 1")
	}

	threshold, err := strconv.ParseFloat(getEnv("RESOLVER_NAME_THRESHOLD", "0.85"), 64)
	if err != nil {
		return fmt.Errorf("parse RESOLVER_NAME_THRESHOLD: %w", err)
	}
	if threshold <= 0 || threshold > 1 {
		return fmt.Errorf("RESOLVER_NAME_THRESHOLD must be in (0, 1]")
	}
	cfg.ResolverNameThreshold = threshold

	if cfg.ResolverKickoffTolerance, err = getEnvAsDuration("RESOLVER_KICKOFF_TOLERANCE", 24*time.Hour); err != nil {
		return err
	}
	if cfg.RetrievalDefaultLimit, err = getEnvAsInt("RETRIEVAL_DEFAULT_LIMIT", 5); err != nil {
		return fmt.Errorf("parse RETRIEVAL_DEFAULT_LIMIT: %w", err)
	}
	if cfg.RetrievalDefaultLimit < 1 || cfg.RetrievalDefaultLimit > 50 {
		return fmt.Errorf("RETRIEVAL_DEFAULT_LIMIT must be between 1 and 50")
	}
	return nil
}

func loadEmbedder(cfg *Config) error {
	var err error
	if cfg.EmbeddingDimension, err = getEnvAsInt("EMBEDDING_DIMENSION", 768); err != nil {
		return fmt.Errorf("parse EMBEDDING_DIMENSION: %w", err)
	}
	if cfg.EmbeddingDimension < 1 {
		return fmt.Errorf("EMBEDDING_DIMENSION must be >= 1")
	}
	if cfg.EmbedderEnabled, err = getEnvAsBool("EMBEDDER_ENABLED", cfg.EmbedderURL != ""); err != nil {
		return err
	}
	if cfg.EmbedderEnabled && cfg.EmbedderURL == "" {
		return fmt.Errorf("EMBEDDER_URL is required when EMBEDDER_ENABLED=true")
	}
	if cfg.EmbedderTimeout, err = getEnvAsDuration("EMBEDDER_TIMEOUT", 10*time.Second); err != nil {
		return err
	}
	if cfg.EmbedderMaxRetries, err = getEnvAsInt("EMBEDDER_MAX_RETRIES", 2); err != nil {
		return fmt.Errorf("parse EMBEDDER_MAX_RETRIES: %w", err)
	}
	if cfg.EmbedderMaxRetries < 0 {
		return fmt.Errorf("EMBEDDER_MAX_RETRIES must be >= 0")
	}
	if cfg.EmbedderCircuitEnabled, err = getEnvAsBool("EMBEDDER_CIRCUIT_ENABLED", true); err != nil {
		return err
	}
	if cfg.EmbedderCircuitFailureCount, err = getEnvAsInt("EMBEDDER_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return fmt.Errorf("parse EMBEDDER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.EmbedderCircuitFailureCount < 1 {
		return fmt.Errorf("EMBEDDER_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.EmbedderCircuitOpenTimeout, err = getEnvAsDuration("EMBEDDER_CIRCUIT_OPEN_TIMEOUT", 30*time.Second); err != nil {
		return err
	}
	if cfg.EmbedderCircuitHalfOpenMaxReq, err = getEnvAsInt("EMBEDDER_CIRCUIT_HALF_OPEN_MAX_REQ", 2); err != nil {
		return fmt.Errorf("parse EMBEDDER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.EmbedderCircuitHalfOpenMaxReq < 1 {
		return fmt.Errorf("EMBEDDER_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	return nil
}

func loadObservability(cfg *Config) error {
	var err error
	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", false); err != nil {
		return err
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", false); err != nil {
		return err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = getEnvAsBool("UPTRACE_LOGS_ENABLED", true); err != nil {
		return err
	}
	if cfg.UptraceCaptureRequestBody, err = getEnvAsBool("UPTRACE_CAPTURE_REQUEST_BODY", true); err != nil {
		return err
	}
	if cfg.UptraceRequestBodyMaxBytes, err = getEnvAsInt("UPTRACE_REQUEST_BODY_MAX_BYTES", 8192); err != nil {
		return fmt.Errorf("parse UPTRACE_REQUEST_BODY_MAX_BYTES: %w", err)
	}
	if cfg.UptraceRequestBodyMaxBytes <= 0 {
		return fmt.Errorf("UPTRACE_REQUEST_BODY_MAX_BYTES must be > 0")
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", false); err != nil {
		return err
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second); err != nil {
		return err
	}
	return nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
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

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	out, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

// getEnvAsDuration rejects non-positive durations.
func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
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
	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
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
