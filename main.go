package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lg/nutrition-plan-go-api/internal/config"
	"lg/nutrition-plan-go-api/internal/logger"
	"lg/nutrition-plan-go-api/internal/nutrition"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("could not load config: ", err)
	}

	logger.Setup(cfg.Environment)
	defer logger.Sync()
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal(ctx, "invalid timezone", zap.Error(err))
	}

	pool, err := newDBPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal(ctx, "could not create database pool", zap.Error(err))
	}
	defer pool.Close()

	h := newHandler(pool, nutrition.NewCalculator(nutrition.WithLocation(loc)))
	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: newRouter(h, cfg.HTTP.MetricsPath),
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "could not start webserver", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
	defer cancel()

	logger.Info(shutdownCtx, "stopping webserver...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "could not stop webserver", zap.Error(err))
	}
}
