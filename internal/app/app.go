package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"cart-backend/internal/cache"
	"cart-backend/internal/config"
	apphttp "cart-backend/internal/http"
	"cart-backend/internal/repository"
	"cart-backend/internal/repository/mysql"
	"cart-backend/internal/repository/sqlite"
	"cart-backend/internal/service"
)

const shutdownTimeout = 10 * time.Second

// App owns every long-lived dependency of the server. It replaces package
// level state so handlers can be exercised without a network listener.
type App struct {
	cfg    config.Config
	logger *logrus.Logger
	users  repository.UserRepository
	carts  cache.CartCache
	router *gin.Engine
}

// New opens the store and cache described by cfg and wires services and routes.
func New(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*App, error) {
	users, err := openUserRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	carts, err := buildCache(ctx, cfg, logger)
	if err != nil {
		_ = users.Close()
		return nil, err
	}

	tokens := service.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userService := service.NewUserService(users, tokens, cfg.Auth.BcryptCost, logger)
	cartService := service.NewCartService(users, tokens, carts, logger)

	handler := apphttp.NewHandler(userService, cartService, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		users:  users,
		carts:  carts,
		router: apphttp.NewRouter(handler),
	}, nil
}

// Handler exposes the routed HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves HTTP on the configured port until ctx is cancelled, then shuts
// the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Close releases the cache and the store.
func (a *App) Close() error {
	return errors.Join(a.carts.Close(), a.users.Close())
}

func openUserRepository(ctx context.Context, cfg config.Config) (repository.UserRepository, error) {
	var users repository.UserRepository
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysql.Open(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		users = mysql.NewUserRepository(db)
	case "sqlite":
		db, err := sqlite.Open(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		users = sqlite.NewUserRepository(db)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if err := users.Init(ctx); err != nil {
		_ = users.Close()
		return nil, fmt.Errorf("init user repository: %w", err)
	}
	return users, nil
}

func buildCache(ctx context.Context, cfg config.Config, logger *logrus.Logger) (cache.CartCache, error) {
	if cfg.Redis.Addr == "" {
		logger.Info("redis not configured, cart cache disabled")
		return cache.Noop{}, nil
	}

	c, err := cache.NewRedisCache(ctx, cache.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.TTL,
	})
	if err != nil {
		return nil, fmt.Errorf("setup cart cache: %w", err)
	}
	logger.Infof("using redis cart cache at %s (ttl %s)", cfg.Redis.Addr, cfg.Redis.TTL)
	return c, nil
}
