package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/sportcal/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	DBURL                   string
	DBDisablePreparedBinary bool
	CacheEnabled            bool
	CacheTTL                time.Duration
	CORSAllowedOrigins      []string
	LogLevel                logging.Level

	APISportsKey                   string
	APISportsTimeout               time.Duration
	APISportsCircuitEnabled        bool
	APISportsCircuitFailureCount   int
	APISportsCircuitOpenTimeout    time.Duration
	APISportsCircuitHalfOpenMaxReq int

	FootballDataAPIKey  string
	FootballDataBaseURL string
	FootballDataTimeout time.Duration

	SyncCronSecret  string
	SyncWorkerCount int

	AccountBaseURL        string
	AccountIntrospectPath string
	AccountTimeout        time.Duration

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

	PprofEnabled bool
	PprofAddr    string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
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
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}
	uptraceCaptureRequestBody, err := strconv.ParseBool(getEnv("UPTRACE_CAPTURE_REQUEST_BODY", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_CAPTURE_REQUEST_BODY: %w", err)
	}
	uptraceRequestBodyMaxBytes, err := getEnvAsInt("UPTRACE_REQUEST_BODY_MAX_BYTES", 8192)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_REQUEST_BODY_MAX_BYTES: %w", err)
	}
	if uptraceRequestBodyMaxBytes <= 0 {
		return Config{}, fmt.Errorf("UPTRACE_REQUEST_BODY_MAX_BYTES must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
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

	apiSportsTimeout, err := time.ParseDuration(getEnv("APISPORTS_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APISPORTS_TIMEOUT: %w", err)
	}
	if apiSportsTimeout <= 0 {
		return Config{}, fmt.Errorf("APISPORTS_TIMEOUT must be > 0")
	}
	apiSportsCircuitEnabled, err := strconv.ParseBool(getEnv("APISPORTS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APISPORTS_CIRCUIT_ENABLED: %w", err)
	}
	apiSportsCircuitFailureCount, err := getEnvAsInt("APISPORTS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse APISPORTS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if apiSportsCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("APISPORTS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	apiSportsCircuitOpenTimeout, err := time.ParseDuration(getEnv("APISPORTS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APISPORTS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if apiSportsCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("APISPORTS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	apiSportsCircuitHalfOpenMaxReq, err := getEnvAsInt("APISPORTS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse APISPORTS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if apiSportsCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("APISPORTS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	footballDataTimeout, err := time.ParseDuration(getEnv("FOOTBALLDATA_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALLDATA_TIMEOUT: %w", err)
	}
	if footballDataTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTBALLDATA_TIMEOUT must be > 0")
	}

	syncWorkerCount, err := getEnvAsInt("SYNC_WORKER_COUNT", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_WORKER_COUNT: %w", err)
	}
	if syncWorkerCount < 1 {
		return Config{}, fmt.Errorf("SYNC_WORKER_COUNT must be >= 1")
	}

	accountTimeout, err := time.ParseDuration(getEnv("ACCOUNT_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ACCOUNT_TIMEOUT: %w", err)
	}
	if accountTimeout <= 0 {
		return Config{}, fmt.Errorf("ACCOUNT_TIMEOUT must be > 0")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg := Config{
		AppEnv:                  appEnv,
		ServiceName:             getEnv("APP_SERVICE_NAME", "sportcal-api"),
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:             readTimeout,
		WriteTimeout:            writeTimeout,
		DBURL:                   strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		CacheEnabled:            cacheEnabled,
		CacheTTL:                cacheTTL,
		CORSAllowedOrigins:      splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:                parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		APISportsKey:                   strings.TrimSpace(getEnv("APISPORTS_KEY", "")),
		APISportsTimeout:               apiSportsTimeout,
		APISportsCircuitEnabled:        apiSportsCircuitEnabled,
		APISportsCircuitFailureCount:   apiSportsCircuitFailureCount,
		APISportsCircuitOpenTimeout:    apiSportsCircuitOpenTimeout,
		APISportsCircuitHalfOpenMaxReq: apiSportsCircuitHalfOpenMaxReq,

		FootballDataAPIKey:  strings.TrimSpace(getEnv("FOOTBALLDATA_API_KEY", "")),
		FootballDataBaseURL: strings.TrimSpace(getEnv("FOOTBALLDATA_BASE_URL", "https://api.football-data.org/v4")),
		FootballDataTimeout: footballDataTimeout,

		SyncCronSecret:  strings.TrimSpace(getEnv("SYNC_CRON_SECRET", "")),
		SyncWorkerCount: syncWorkerCount,

		AccountBaseURL:        getEnv("ACCOUNT_BASE_URL", "http://localhost:8081"),
		AccountIntrospectPath: getEnv("ACCOUNT_INTROSPECT_PATH", "/v1/auth/introspect"),
		AccountTimeout:        accountTimeout,

		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		UptraceLogsEnabled:         uptraceLogsEnabled,
		UptraceCaptureRequestBody:  uptraceCaptureRequestBody,
		UptraceRequestBodyMaxBytes: uptraceRequestBodyMaxBytes,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.AppEnv == EnvProd && cfg.APISportsKey == "" {
		return Config{}, fmt.Errorf("APISPORTS_KEY is required in prod")
	}

	return cfg, nil
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
		return "", fmt.Errorf("invalid APP_ENV %q, expected dev|stage|prod", v)
	}
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
