package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prodehub/prode-api/external/jobqueue"
	"github.com/prodehub/prode-api/external/scoresfeed"
	"github.com/prodehub/prode-api/internal/config"
	"github.com/prodehub/prode-api/internal/domain/boost"
	"github.com/prodehub/prode-api/internal/domain/game"
	"github.com/prodehub/prode-api/internal/domain/guess"
	"github.com/prodehub/prode-api/internal/domain/leaderboard"
	"github.com/prodehub/prode-api/internal/domain/rawdata"
	"github.com/prodehub/prode-api/internal/domain/tournament"
	"github.com/prodehub/prode-api/internal/domain/user"
	"github.com/prodehub/prode-api/internal/infrastructure/account/authgate"
	cacherepo "github.com/prodehub/prode-api/internal/infrastructure/repository/cache"
	"github.com/prodehub/prode-api/internal/infrastructure/repository/memory"
	"github.com/prodehub/prode-api/internal/infrastructure/repository/postgres"
	"github.com/prodehub/prode-api/internal/interfaces/httpapi"
	"github.com/prodehub/prode-api/internal/platform/cache"
	idgen "github.com/prodehub/prode-api/internal/platform/id"
	"github.com/prodehub/prode-api/internal/platform/logging"
	"github.com/prodehub/prode-api/internal/platform/resilience"
	"github.com/prodehub/prode-api/internal/usecase"
)

type repositories struct {
	tournaments tournament.Repository
	games       game.Repository
	guesses     guess.Repository
	boosts      boost.Repository
	users       user.Repository
	leaderboard leaderboard.Repository
	rawData     rawdata.Repository
}

// NewHTTPServer wires repositories, use cases and the HTTP router into a
// ready-to-run server. When DB_URL is empty the service runs entirely on
// seeded in-memory repositories, which is how local development works.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, dbCloser, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	store := cache.NewStore(cfg.CacheTTL)
	if cfg.CacheEnabled {
		repos.tournaments = cacherepo.NewTournamentRepository(repos.tournaments, store)
		repos.games = cacherepo.NewGameRepository(repos.games, store)
	}

	boostRules := boost.DefaultRules()
	idGen := idgen.NewRandomGenerator()

	scoringSvc := usecase.NewScoringService(
		repos.tournaments,
		repos.games,
		repos.guesses,
		repos.boosts,
		repos.users,
		repos.leaderboard,
		boostRules,
		logger,
	)
	tournamentSvc := usecase.NewTournamentService(repos.tournaments, scoringSvc, logger)
	gameSvc := usecase.NewGameService(repos.games, repos.guesses, repos.boosts, scoringSvc, boostRules, logger)
	guessSvc := usecase.NewGuessService(repos.tournaments, repos.games, repos.guesses, logger)
	boostSvc := usecase.NewBoostService(repos.games, repos.boosts, boostRules, idGen, logger)
	leaderboardSvc := usecase.NewLeaderboardService(repos.leaderboard, scoringSvc)
	dashboardSvc := usecase.NewDashboardService(repos.tournaments, repos.games, guessSvc, leaderboardSvc, store)
	ingestionSvc := usecase.NewIngestionService(
		repos.tournaments,
		repos.games,
		repos.rawData,
		newScoresFeedProvider(cfg, logger),
		scoringSvc,
		idGen,
		logger,
	)
	recomputeSvc := usecase.NewRecomputeService(repos.tournaments, scoringSvc, store, logger)
	jobSchedulerSvc := usecase.NewJobSchedulerService(
		ingestionSvc,
		recomputeSvc,
		newJobQueue(cfg, logger),
		usecase.JobSchedulerConfig{
			SyncInterval:     cfg.JobSyncInterval,
			SnapshotInterval: cfg.JobSnapshotInterval,
		},
		logger,
	)
	userSvc := usecase.NewUserService(repos.users)

	authClient := authgate.NewClient(
		&http.Client{Timeout: cfg.AuthGateTimeout},
		cfg.AuthGateBaseURL,
		cfg.AuthGateIntrospectPath,
		cfg.AuthGateAdminKey,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.AuthGateCircuitEnabled,
			FailureThreshold: cfg.AuthGateCircuitFailureCount,
			OpenTimeout:      cfg.AuthGateCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AuthGateCircuitHalfOpenMaxReq,
		},
		logger,
	)

	handler := httpapi.NewHandler(
		tournamentSvc,
		gameSvc,
		guessSvc,
		boostSvc,
		scoringSvc,
		leaderboardSvc,
		dashboardSvc,
		jobSchedulerSvc,
		logger,
	)
	router := httpapi.NewRouter(
		handler,
		authClient,
		userSvc,
		logger,
		cfg.SwaggerEnabled,
		cfg.CORSAllowedOrigins,
		cfg.InternalJobToken,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	if dbCloser != nil {
		server.RegisterOnShutdown(dbCloser)
	}

	return server, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, func(), error) {
	if cfg.DBURL == "" {
		logger.InfoContext(ctx, "DB_URL not set, using in-memory repositories")
		return buildMemoryRepositories(), nil, nil
	}

	db, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		if cfg.AppEnv == config.EnvDev {
			logger.WarnContext(ctx, "database unavailable, falling back to in-memory repositories", "error", err)
			return buildMemoryRepositories(), nil, nil
		}
		return repositories{}, nil, err
	}

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		_ = db.Close()
		return repositories{}, nil, fmt.Errorf("bootstrap seed: %w", err)
	}

	repos := repositories{
		tournaments: postgres.NewTournamentRepository(db),
		games:       postgres.NewGameRepository(db),
		guesses:     postgres.NewGuessRepository(db),
		boosts:      postgres.NewBoostRepository(db),
		users:       postgres.NewUserRepository(db),
		leaderboard: postgres.NewLeaderboardRepository(db),
		rawData:     postgres.NewRawDataRepository(db),
	}
	return repos, func() { _ = db.Close() }, nil
}

func buildMemoryRepositories() repositories {
	return repositories{
		tournaments: memory.NewTournamentRepository(memory.SeedTournaments(), memory.SeedTeams()),
		games:       memory.NewGameRepository(memory.SeedGames()),
		guesses:     memory.NewGuessRepository(),
		boosts:      memory.NewBoostRepository(),
		users:       memory.NewUserRepository(),
		leaderboard: memory.NewLeaderboardRepository(),
		rawData:     memory.NewRawDataRepository(),
	}
}

func newJobQueue(cfg config.Config, logger *logging.Logger) usecase.JobQueue {
	if !cfg.QStashEnabled {
		return usecase.NewNoopJobQueue()
	}

	return jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.QStashCircuitEnabled,
			FailureThreshold: cfg.QStashCircuitFailureCount,
			OpenTimeout:      cfg.QStashCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
		},
	}, logger)
}

func newScoresFeedProvider(cfg config.Config, logger *logging.Logger) usecase.ScoresFeedProvider {
	if !cfg.ScoresFeedEnabled {
		return nil
	}

	return scoresfeed.NewClient(scoresfeed.ClientConfig{
		BaseURL:    cfg.ScoresFeedBaseURL,
		Token:      cfg.ScoresFeedToken,
		Timeout:    cfg.ScoresFeedTimeout,
		MaxRetries: cfg.ScoresFeedMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ScoresFeedCircuitEnabled,
			FailureThreshold: cfg.ScoresFeedCircuitFailureCount,
			OpenTimeout:      cfg.ScoresFeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ScoresFeedCircuitHalfOpenMaxReq,
		},
	})
}
