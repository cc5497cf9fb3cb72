package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/nkiryanov/tastybites/internal/db"
	"github.com/nkiryanov/tastybites/internal/handlers"
	"github.com/nkiryanov/tastybites/internal/logger"
	"github.com/nkiryanov/tastybites/internal/metrics"
	"github.com/nkiryanov/tastybites/internal/repository/postgres"
	"github.com/nkiryanov/tastybites/internal/repository/redis"
	"github.com/nkiryanov/tastybites/internal/service/auth"
	"github.com/nkiryanov/tastybites/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/tastybites/internal/service/recipe"
	"github.com/nkiryanov/tastybites/internal/service/user"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger logger.Logger
	pool   *pgxpool.Pool
	rdb    *goredis.Client
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	tokenManager, err := tokenmanager.New(tokenmanager.Config{
		AccessSecret:  c.AccessSecretKey,
		RefreshSecret: c.RefreshSecretKey,
		AccessTTL:     c.AccessTokenTTL,
		RefreshTTL:    c.RefreshTokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	app := &ServerApp{ListenAddr: c.ListenAddr, logger: logger, pool: pool}

	// Token revocation is optional
	var revocation *redis.RevocationStore
	if c.RedisURL != "" {
		opts, err := goredis.ParseURL(c.RedisURL)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("error while parsing redis url. Err: %w", err)
		}

		app.rdb = goredis.NewClient(opts)
		if err := app.rdb.Ping(ctx).Err(); err != nil {
			app.Close()
			return nil, fmt.Errorf("error while connecting to redis. Err: %w", err)
		}
		revocation = redis.NewRevocationStore(app.rdb)
	} else {
		logger.Warn("Redis url not set, tokens can't be revoked on logout")
	}

	// Initialize services
	m := metrics.New()
	storage := postgres.NewStorage(pool)
	userService := user.NewService(auth.DefaultHasher, storage)
	recipeService := recipe.NewService(storage, time.Now)

	authCfg := auth.Config{CookieSecure: c.CookieSecure, Metrics: m}
	if revocation != nil {
		authCfg.Revocation = revocation
	}
	authService, err := auth.NewService(authCfg, tokenManager, userService)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	app.Handler = handlers.NewRouter(authService, userService, recipeService, m, logger)

	return app, nil
}

// Release db and redis connections
func (s *ServerApp) Close() {
	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			s.logger.Error("Failed to close redis client", "error", err)
		}
	}
	s.pool.Close()
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.ListenAddr,
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
