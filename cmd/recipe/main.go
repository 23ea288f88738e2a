package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/recipe-api/recipe-api/cmd/recipe/cli"
	"github.com/recipe-api/recipe-api/internal/app"
	"github.com/recipe-api/recipe-api/internal/auth"
	"github.com/recipe-api/recipe-api/internal/observability"
	"github.com/recipe-api/recipe-api/internal/platform/cache"
	"github.com/recipe-api/recipe-api/internal/platform/db"
	"github.com/recipe-api/recipe-api/internal/recipe"
	"github.com/recipe-api/recipe-api/internal/users"
	"github.com/recipe-api/recipe-api/jobs"
)

// welcomeNotifier queues a welcome mail for every new account.
type welcomeNotifier struct {
	client *jobs.Client
}

func (n welcomeNotifier) UserRegistered(ctx context.Context, user *users.User) error {
	return n.client.EnqueueWelcomeMail(ctx, jobs.WelcomeMailPayload{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
}

func main() {
	os.Exit(run())
}

// run owns every deferred cleanup; main exits only after it returns.
func run() int {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		return 1
	}
	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		return 1
	}
	defer dbpool.Close()

	usersRepo := users.NewRepository(dbpool)
	manager := users.NewManager(usersRepo, cfg.BcryptCost)

	if len(os.Args) > 1 {
		return runCommand(ctx, os.Args[1], os.Args[2:], dbpool, manager)
	}

	return serve(ctx, stop, cfg, logger, dbpool, usersRepo, manager)
}

func runCommand(ctx context.Context, name string, args []string, pool *pgxpool.Pool, manager *users.Manager) int {
	switch name {
	case "migrate":
		return cli.MigrateCommand(ctx, func(ctx context.Context) error {
			return db.Migrate(ctx, pool)
		}, cli.MigrateOptions{})
	case "createsuperuser":
		opts, err := cli.ParseCreateSuperuser(args, os.Stderr)
		if err != nil {
			return 2
		}
		return cli.CreateSuperuserCommand(ctx, manager, opts)
	default:
		slog.Default().Error("unknown command", slog.String("command", name))
		return 2
	}
}

func serve(ctx context.Context, stop context.CancelFunc, cfg *app.Config, logger *slog.Logger, dbpool *pgxpool.Pool, usersRepo *users.PGRepository, manager *users.Manager) int {
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, token cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer closeRedis(logger, redisClient)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("jobs inspector close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	authService := auth.NewService(logger, auth.NewRepository(dbpool), usersRepo, auth.NewTokenCache(redisClient, cfg.TokenCacheTTL))
	authMiddleware := auth.Middleware{Authenticator: authService, Logger: logger}

	usersService := users.NewService(logger, usersRepo, manager, welcomeNotifier{client: jobClient})
	recipeService := recipe.NewService(recipe.NewRepository(dbpool))

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		UsersHandler:      users.NewHandler(logger, usersService, authMiddleware.RequireToken),
		AuthHandler:       auth.NewHandler(logger, authService),
		AuthMiddleware:    authMiddleware,
		TagHandler:        recipe.NewHandler(logger, recipeService, recipe.Tags),
		IngredientHandler: recipe.NewHandler(logger, recipeService, recipe.Ingredients),
		JobHandler:        jobs.NewHandler(inspector, logger),
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			serveErr <- err
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	code := 0
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
		code = 1
	}
	select {
	case <-serveErr:
		code = 1
	default:
	}
	return code
}

func closeRedis(logger *slog.Logger, client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		logger.Warn("redis close", slog.Any("error", err))
	}
}
