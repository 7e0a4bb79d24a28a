package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/example/jobdesk/backend/internal/app"
	"github.com/example/jobdesk/backend/internal/config"
	httpserver "github.com/example/jobdesk/backend/internal/http"
	"github.com/example/jobdesk/backend/internal/logging"
	"github.com/example/jobdesk/backend/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("start application")
	}
	defer application.Close()

	apiServer := httpserver.NewServer(application.Service, application.Catalog, logger)
	apiServer.SetHealthCheck(application.Ping)

	monitor := worker.NewMonitor(application.Service, cfg.MonitorInterval, logger)
	go monitor.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.HTTPPort,
		Handler: apiServer.Engine,
	}

	go func() {
		logger.WithField("addr", cfg.HTTPPort).WithField("store", cfg.StoreDriver).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown error")
	}
	logger.Info("bye")
}

func init() {
	if mode := os.Getenv("GIN_MODE"); mode == "" {
		gin.SetMode(gin.ReleaseMode)
	}
}
