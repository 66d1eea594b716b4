package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/taxpayer-registry/docs"
	"github.com/jhoicas/taxpayer-registry/internal/application/audit"
	"github.com/jhoicas/taxpayer-registry/internal/application/auth"
	"github.com/jhoicas/taxpayer-registry/internal/application/ports"
	"github.com/jhoicas/taxpayer-registry/internal/application/taxpayer"
	"github.com/jhoicas/taxpayer-registry/internal/infrastructure/memory"
	"github.com/jhoicas/taxpayer-registry/internal/infrastructure/postgres"
	"github.com/jhoicas/taxpayer-registry/internal/infrastructure/security"
	httpRouter "github.com/jhoicas/taxpayer-registry/internal/interfaces/http"
	"github.com/jhoicas/taxpayer-registry/pkg/config"
	"github.com/jhoicas/taxpayer-registry/pkg/logger"
)

// @title                       Taxpayer Registry API
// @version                     1.0
// @description                 Multi-tenant taxpayer registry with role based access and an audit trail.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("starting")

	ctx := context.Background()

	var (
		repos    ports.Repositories
		txRunner ports.TxRunner
	)
	switch cfg.App.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		repos = store.Repositories()
		txRunner = store
		log.Warn().Msg("using the in-memory store; data is lost on restart")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to PostgreSQL")
		}
		defer pool.Close()
		repos = postgres.NewRepositories(pool)
		txRunner = postgres.NewTxRunner(pool)
	}

	auditLog := audit.NewLogger()
	identity := auth.NewIdentityService(
		repos.Users, txRunner,
		security.NewBcryptHasher(0),
		auth.NewJWTCodec(auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		auditLog,
	)
	taxpayers := taxpayer.NewService(repos.Taxpayers, repos.Organizations, txRunner, auditLog, log.Zerolog())

	app := fiber.New(httpRouter.TrustProxies(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	}, cfg.HTTP.ProxyHeader, cfg.HTTP.TrustedProxies))
	metrics := httpRouter.NewMetrics()
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestOrigin())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))
	app.Use(metrics.Middleware())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Taxpayer Registry API",
	}))

	httpRouter.Operational(app, cfg.App.Name, metrics)
	httpRouter.Router(app, httpRouter.RouterDeps{
		Identity:     identity,
		Taxpayers:    taxpayers,
		LoginLimiter: httpRouter.NewIPRateLimiter(cfg.Limit.LoginPerSecond, cfg.Limit.LoginBurst),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("stopped")
}
