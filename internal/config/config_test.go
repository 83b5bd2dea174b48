package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/sportcal/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "sportcal-api" {
		t.Fatalf("unexpected ServiceName: %q", cfg.ServiceName)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.SyncWorkerCount != 4 {
		t.Fatalf("unexpected SyncWorkerCount: %d", cfg.SyncWorkerCount)
	}
	if !cfg.CacheEnabled || cfg.CacheTTL != 60*time.Second {
		t.Fatalf("unexpected cache settings: enabled=%t ttl=%s", cfg.CacheEnabled, cfg.CacheTTL)
	}
	if cfg.FootballDataBaseURL != "https://api.football-data.org/v4" {
		t.Fatalf("unexpected FootballDataBaseURL: %q", cfg.FootballDataBaseURL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_ProdRequiresAPISportsKey(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("APISPORTS_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error in prod without APISPORTS_KEY")
	}
}

func TestLoad_SyncWorkerCountValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SYNC_WORKER_COUNT", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for SYNC_WORKER_COUNT=0")
	}
}

func TestLoad_CircuitBreakerValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APISPORTS_CIRCUIT_FAILURE_COUNT", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for APISPORTS_CIRCUIT_FAILURE_COUNT=0")
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]logging.Level{
		"debug":   logging.LevelDebug,
		"warn":    logging.LevelWarn,
		"warning": logging.LevelWarn,
		"error":   logging.LevelError,
		"info":    logging.LevelInfo,
		"":        logging.LevelInfo,
		"bogus":   logging.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" a, ,b ,, c")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected splitCSV result: %v", got)
	}
}
