package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"cart-backend/internal/app"
	"cart-backend/internal/config"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Auth.InsecureSecret {
		logger.Warn("JWT_SECRET is not set, signing tokens with the insecure development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(gin.ReleaseMode)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup application: %v", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warnf("close: %v", err)
		}
	}()

	if err := application.Run(ctx); err != nil {
		logger.Errorf("%v", err)
		return
	}

	logger.Info("bye")
}
