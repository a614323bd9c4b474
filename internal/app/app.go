package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/matchlens/external/embedder"
	"github.com/riskibarqy/matchlens/external/fotmob"
	"github.com/riskibarqy/matchlens/external/whoscored"
	"github.com/riskibarqy/matchlens/internal/config"
	"github.com/riskibarqy/matchlens/internal/domain/embedding"
	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
	"github.com/riskibarqy/matchlens/internal/domain/summary"
	"github.com/riskibarqy/matchlens/internal/domain/team"
	"github.com/riskibarqy/matchlens/internal/domain/teammetrics"
	"github.com/riskibarqy/matchlens/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/matchlens/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchlens/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/matchlens/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/matchlens/internal/platform/id"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/platform/metrics"
	"github.com/riskibarqy/matchlens/internal/platform/resilience"
	"github.com/riskibarqy/matchlens/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type repositories struct {
	rawEvents  rawevent.Repository
	teams      team.Repository
	mappings   mapping.Repository
	rows       teammetrics.Repository
	summaries  summary.Repository
	embeddings embedding.Repository
}

// Container holds every service of one process. cmd/api serves it over
// HTTP, cmd/pipeline drives it directly.
type Container struct {
	Config    config.Config
	Logger    *logging.Logger
	Metrics   *metrics.Manager
	Ingestion *usecase.IngestionService
	Pipeline  *usecase.PipelineService
	Retrieval *usecase.RetrievalService
	Matches   *usecase.MatchService

	db *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}

	metricsManager := metrics.NewManager()

	var (
		repos repositories
		db    *sqlx.DB
	)
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		handle, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		db = handle
		repos = withReadCache(postgresRepositories(db), cfg.CacheTTL)
	default:
		repos = memoryRepositories()
	}

	aliases, err := config.LoadAliases(cfg.ResolverAliasesFile)
	if err != nil {
		closeDB(db)
		return nil, err
	}
	names := team.NewMatcher(aliases, cfg.ResolverNameThreshold)
	resolver := mapping.NewResolver(names, mapping.ResolverConfig{KickoffTolerance: cfg.ResolverKickoffTolerance})

	var emb usecase.Embedder
	if cfg.EmbedderEnabled {
		client, err := newEmbedder(cfg, metricsManager, logger)
		if err != nil {
			closeDB(db)
			return nil, err
		}
		emb = client
	} else {
		logger.Warn("embedder disabled, semantic retrieval unavailable")
	}

	parsers := []rawevent.Parser{whoscored.NewParser(), fotmob.NewParser()}
	vocabulary := usecase.NewTeamVocabulary(repos.teams, cfg.CacheTTL)

	ingestion := usecase.NewIngestionService(repos.rawEvents, parsers, cfg.MetricsWorkers, metricsManager, logger)
	resolverSvc := usecase.NewResolverService(repos.rawEvents, repos.mappings, repos.teams, resolver, metricsManager, logger)
	metricsSvc := usecase.NewMetricsService(repos.mappings, repos.rawEvents, repos.rows, cfg.MetricsWorkers, metricsManager, logger)
	summarySvc := usecase.NewSummaryService(repos.mappings, repos.teams, repos.rows, repos.summaries, metricsManager, logger)
	embeddingSvc := usecase.NewEmbeddingService(repos.summaries, repos.embeddings, emb, cfg.EmbeddingDimension, metricsManager, logger)

	return &Container{
		Config:    cfg,
		Logger:    logger,
		Metrics:   metricsManager,
		Ingestion: ingestion,
		Pipeline: usecase.NewPipelineService(
			resolverSvc,
			metricsSvc,
			summarySvc,
			embeddingSvc,
			vocabulary,
			idgen.NewRandomGenerator(),
			metricsManager,
			logger,
		),
		Retrieval: usecase.NewRetrievalService(
			repos.summaries,
			repos.embeddings,
			vocabulary,
			names,
			embeddingSvc,
			cfg.RetrievalDefaultLimit,
			metricsManager,
			logger,
		),
		Matches: usecase.NewMatchService(repos.mappings, repos.rawEvents, repos.rows, repos.summaries, repos.embeddings),
		db:      db,
	}, nil
}

// NewHTTPServer builds the API server on top of c.
func (c *Container) NewHTTPServer() (*http.Server, error) {
	if c.Config.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(httpapi.Services{
		Ingestion: c.Ingestion,
		Pipeline:  c.Pipeline,
		Retrieval: c.Retrieval,
		Matches:   c.Matches,
	}, c.Logger)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		CORSAllowedOrigins: c.Config.CORSAllowedOrigins,
		InternalJobToken:   c.Config.InternalJobToken,
		MetricsHandler:     c.Metrics.Handler(),
	}, c.Metrics, c.Logger)

	return &http.Server{
		Addr:         c.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  c.Config.ReadTimeout,
		WriteTimeout: c.Config.WriteTimeout,
	}, nil
}

// Ping checks the database handle. Memory storage always answers.
func (c *Container) Ping(ctx context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.PingContext(ctx)
}

func (c *Container) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	if cfg.DBURL == "" {
		return nil, errors.New("DB_URL is required for postgres storage")
	}
	db, err := otelsqlx.Open("postgres", config.PostgresDSN(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(config.PostgresDatabase(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	otelsql.ReportDBStatsMetrics(db.DB)
	return db, nil
}

func closeDB(db *sqlx.DB) {
	if db != nil {
		_ = db.Close()
	}
}

func memoryRepositories() repositories {
	return repositories{
		rawEvents:  memory.NewRawEventRepository(),
		teams:      memory.NewTeamRepository(),
		mappings:   memory.NewMappingRepository(),
		rows:       memory.NewTeamMetricsRepository(),
		summaries:  memory.NewSummaryRepository(),
		embeddings: memory.NewEmbeddingRepository(),
	}
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		rawEvents:  postgres.NewRawEventRepository(db),
		teams:      postgres.NewTeamRepository(db),
		mappings:   postgres.NewMappingRepository(db),
		rows:       postgres.NewTeamMetricsRepository(db),
		summaries:  postgres.NewSummaryRepository(db),
		embeddings: postgres.NewEmbeddingRepository(db),
	}
}

// withReadCache fronts the hot read paths with in-process caches. The
// memory driver never needs it.
func withReadCache(repos repositories, ttl time.Duration) repositories {
	if ttl <= 0 {
		return repos
	}
	repos.mappings = cache.NewMappingRepository(repos.mappings, ttl)
	repos.summaries = cache.NewSummaryRepository(repos.summaries, ttl)
	return repos
}

func newEmbedder(cfg config.Config, metricsManager *metrics.Manager, logger *logging.Logger) (*embedder.Client, error) {
	client, err := embedder.NewClient(embedder.ClientConfig{
		URL:        cfg.EmbedderURL,
		Model:      cfg.EmbedderModel,
		Token:      cfg.EmbedderToken,
		Timeout:    cfg.EmbedderTimeout,
		MaxRetries: cfg.EmbedderMaxRetries,
		Logger:     logger.With("component", "embedder"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.EmbedderCircuitEnabled,
			FailureThreshold: cfg.EmbedderCircuitFailureCount,
			OpenTimeout:      cfg.EmbedderCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.EmbedderCircuitHalfOpenMaxReq,
		},
		OnBreakerChange: metricsManager.BreakerState,
	})
	if err != nil {
		return nil, fmt.Errorf("build embedder client: %w", err)
	}
	return client, nil
}
