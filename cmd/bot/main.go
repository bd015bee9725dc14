package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ewanmcc/guardian-bot/internal/config"
	"github.com/ewanmcc/guardian-bot/internal/guardian"
	"github.com/ewanmcc/guardian-bot/internal/metrics"
	"github.com/ewanmcc/guardian-bot/internal/repository/postgres"
	"github.com/ewanmcc/guardian-bot/internal/service"
	"github.com/ewanmcc/guardian-bot/internal/telegram"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("bot stopped", zap.Error(err))
	}
	logger.Info("bye")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("connected to postgres")

	userRepo := postgres.NewUserRepo(db)
	watchRepo := postgres.NewWatchRepo(db)
	articleRepo := postgres.NewArticleRepo(db)

	m := metrics.New()

	client := guardian.New(guardian.Config{
		APIKey:  cfg.Guardian.APIKey,
		BaseURL: cfg.Guardian.BaseURL,
		Timeout: cfg.Guardian.Timeout,
	}, logger)

	userSvc := service.NewUserService(userRepo, logger)
	searchSvc := service.NewSearchService(client, logger, m, service.SearchConfig{})

	bot, err := telegram.New(telegram.BotConfig{
		Token: cfg.Telegram.Token,
	}, userSvc, searchSvc, nil, logger, m)
	if err != nil {
		return err
	}

	notifier := telegram.NewNotifier(bot, userRepo, logger)
	watchSvc := service.NewWatchService(service.WatchServiceDeps{
		Watches:  watchRepo,
		Articles: articleRepo,
		Client:   client,
		Notifier: notifier,
		Logger:   logger,
		Metrics:  m,
		Config: service.WatchRunConfig{
			Interval:    cfg.Watch.Interval,
			Concurrency: cfg.Watch.Concurrency,
			PageSize:    cfg.Watch.PageSize,
		},
	})
	bot.SetWatchService(watchSvc)

	metricsServer := &http.Server{
		Addr:    cfg.Metrics.Addr,
		Handler: metrics.Handler(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return bot.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("metrics server listening", zap.String("addr", cfg.Metrics.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.Watch.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := watchSvc.RunDue(gctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("watch pass failed", zap.Error(err))
				}
			}
		}
	})

	return g.Wait()
}
