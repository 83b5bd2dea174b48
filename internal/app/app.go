package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/riskibarqy/sportcal/external/apisports"
	"github.com/riskibarqy/sportcal/external/footballdata"
	"github.com/riskibarqy/sportcal/internal/config"
	"github.com/riskibarqy/sportcal/internal/infrastructure/account"
	"github.com/riskibarqy/sportcal/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/sportcal/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/sportcal/internal/interfaces/httpapi"
	"github.com/riskibarqy/sportcal/internal/platform/cache"
	"github.com/riskibarqy/sportcal/internal/platform/logging"
	"github.com/riskibarqy/sportcal/internal/platform/resilience"
	"github.com/riskibarqy/sportcal/internal/usecase"
)

type repositories struct {
	apiCache usecase.APICacheRepository
	fixtures usecase.FixtureRepository
	changes  usecase.ChangeRepository
	follows  usecase.FollowRepository
	tokens   usecase.CalendarTokenRepository
}

func NewHTTPServer(cfg config.Config, logger *slog.Logger, appLogger *logging.Logger) (*http.Server, error) {
	if appLogger == nil {
		appLogger = logging.Default()
	}

	repos, err := buildRepositories(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	apiSportsClient := apisports.NewClient(apisports.ClientConfig{
		APIKey:  cfg.APISportsKey,
		Timeout: cfg.APISportsTimeout,
		Logger:  appLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APISportsCircuitEnabled,
			FailureThreshold: cfg.APISportsCircuitFailureCount,
			OpenTimeout:      cfg.APISportsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APISportsCircuitHalfOpenMaxReq,
		},
	})

	var hotCache *cache.Store
	if cfg.CacheEnabled {
		hotCache = cache.NewStore(cfg.CacheTTL)
	}

	var secondary usecase.SecondaryScheduleSource
	if cfg.FootballDataAPIKey != "" {
		secondary = footballdata.NewClient(
			&http.Client{Timeout: cfg.FootballDataTimeout},
			cfg.FootballDataBaseURL,
			cfg.FootballDataAPIKey,
			appLogger,
		)
	}

	proxySvc := usecase.NewProxyService(apiSportsClient, repos.apiCache, hotCache, appLogger)
	placeholderSvc := usecase.NewPlaceholderService(secondary, appLogger)
	syncSvc := usecase.NewSyncService(
		repos.follows,
		repos.fixtures,
		repos.changes,
		proxySvc,
		apisports.Normalizer{},
		placeholderSvc,
		usecase.SyncServiceConfig{Workers: cfg.SyncWorkerCount},
		appLogger,
	)
	calendarSvc := usecase.NewCalendarService(repos.follows, repos.fixtures, repos.tokens, appLogger)

	accountClient := account.NewClient(
		&http.Client{Timeout: cfg.AccountTimeout},
		cfg.AccountBaseURL,
		cfg.AccountIntrospectPath,
		appLogger,
	)

	handler := httpapi.NewHandler(proxySvc, syncSvc, calendarSvc, logger)
	router := httpapi.NewRouter(handler, accountClient, logger, cfg.CORSAllowedOrigins, cfg.SyncCronSecret)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// buildRepositories connects to Postgres when DB_URL is set and falls
// back to in-memory stores otherwise, which keeps local development
// working without a database.
func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		logger.Warn("DB_URL not set, using in-memory repositories")
		return repositories{
			apiCache: memory.NewAPICacheRepository(),
			fixtures: memory.NewFixtureRepository(),
			changes:  memory.NewFixtureChangeRepository(),
			follows:  memory.NewFollowRepository(nil),
			tokens:   memory.NewCalendarTokenRepository(nil),
		}, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return repositories{}, fmt.Errorf("open database: %w", err)
	}

	return repositories{
		apiCache: postgres.NewAPICacheRepository(db),
		fixtures: postgres.NewFixtureRepository(db),
		changes:  postgres.NewFixtureChangeRepository(db),
		follows:  postgres.NewFollowRepository(db),
		tokens:   postgres.NewCalendarTokenRepository(db),
	}, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return db, nil
}
