package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "pulse/docs"
	"pulse/internal/config"
	"pulse/internal/domain/comment"
	"pulse/internal/domain/feed"
	"pulse/internal/domain/notification"
	"pulse/internal/domain/poll"
	"pulse/internal/domain/user"
	api "pulse/internal/http"
	"pulse/internal/metrics"
	"pulse/internal/platform/database"
	jwtpkg "pulse/internal/platform/jwt"
	"pulse/internal/realtime"
	"pulse/internal/repository/postgres"
	"pulse/internal/worker"
)

// @title           Pulse API
// @version         1.0
// @description     Social yes/no polling platform with ranked feeds and JWT auth
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	db, err := database.NewPostgres(cfg.DB_DSN)
	if err != nil {
		logger.Error("db connect error", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.CreateSchema(db); err != nil {
		logger.Error("schema error", "err", err)
		os.Exit(1)
	}

	metrics.Register()

	userRepo := postgres.NewUserRepo(db)
	pollRepo := postgres.NewPollRepo(db)
	commentRepo := postgres.NewCommentRepo(db)
	notificationRepo := postgres.NewNotificationRepo(db)

	hub := realtime.NewHub(logger)

	notificationSvc := notification.NewService(notificationRepo)
	userSvc := user.NewService(userRepo, notificationSvc, logger)
	pollSvc := poll.NewService(pollRepo, hub)
	commentSvc := comment.NewService(commentRepo, pollSvc, notificationSvc, hub, logger)
	feedSvc := feed.NewService(pollRepo, userSvc)

	jwtMgr := jwtpkg.NewManager(cfg.JWTSecret, "pulse")

	engagementCh := make(chan worker.EngagementEvent, 100)
	engagementWorker := worker.NewEngagementWorker(engagementCh, logger)

	router := api.NewRouter(
		userSvc, pollSvc, commentSvc, feedSvc, notificationSvc,
		jwtMgr, engagementCh, hub, db,
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)
	go engagementWorker.Run(ctx)

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen error", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "err", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
