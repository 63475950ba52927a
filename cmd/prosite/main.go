// Package main запускает HTTP-сервер сервиса prosite.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/styloxstar/prosite-backend/internal/config"
	"github.com/styloxstar/prosite-backend/internal/handler"
	"github.com/styloxstar/prosite-backend/internal/invoicepdf"
	"github.com/styloxstar/prosite-backend/internal/middleware"
	"github.com/styloxstar/prosite-backend/internal/notify"
	"github.com/styloxstar/prosite-backend/internal/orderstore"
	"github.com/styloxstar/prosite-backend/internal/repository"
	"github.com/styloxstar/prosite-backend/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}
	defer repo.Close()

	notifier, err := notify.NewEmailNotifier(notify.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	}, logger)
	if err != nil {
		sugar.Fatalw("notifier initialization error", "error", err.Error())
	}

	svc := service.NewService(service.Options{
		Repo:      repo,
		Orders:    orderstore.New(0, nil),
		Notifier:  notifier,
		Renderer:  invoicepdf.NewRenderer(),
		Logger:    logger,
		PayeeVPA:  cfg.UPIPayeeVPA,
		PayeeName: cfg.UPIPayeeName,
	})
	defer svc.Close()

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)
	h := handler.NewHandler(svc, logger, authMiddleware)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск фонового воркера email-уведомлений
	g.Go(func() error {
		return notifier.Run(ctx)
	})

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting prosite server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
