package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "kanban-backend/cmd/api"
	authRepo "kanban-backend/internal/auth/repository"
	authUsecase "kanban-backend/internal/auth/usecase"
	boardRepo "kanban-backend/internal/board/repository"
	"kanban-backend/internal/board/scheduler"
	boardUsecase "kanban-backend/internal/board/usecase"
	"kanban-backend/internal/schema"
	teamRepo "kanban-backend/internal/team/repository"
	teamUsecase "kanban-backend/internal/team/usecase"
	"kanban-backend/pkg/cache"
	"kanban-backend/pkg/config"
	"kanban-backend/pkg/database"
	"kanban-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	// Initialize database
	db, err := database.NewConnection(cfg)
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zap.L().Fatal("Failed to get database handle", zap.Error(err))
	}

	// Auto-migrate database schemas
	if err := schema.Migrate(db); err != nil {
		zap.L().Fatal("Failed to migrate database", zap.Error(err))
	}

	// Board cache is optional; without redis every read hits the database
	var boardCache cache.BoardCache
	redisCtx, cancelRedis := context.WithTimeout(context.Background(), 3*time.Second)
	redisClient, err := cache.NewRedisClient(redisCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	cancelRedis()
	if err != nil {
		zap.L().Warn("Redis unavailable, board cache disabled", zap.Error(err))
	} else {
		boardCache = cache.NewRedisBoardCache(redisClient, cfg.BoardCacheTTL)
		zap.L().Info("Board cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.BoardCacheTTL))
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	teamRepository := teamRepo.NewTeamRepository(db)
	boardRepository := boardRepo.NewBoardRepository(db, cfg.TxAttempts)

	// Initialize use cases (dependency injection)
	authUc := authUsecase.NewAuthUsecase(userRepository, cfg)
	teamUc := teamUsecase.NewTeamUsecase(teamRepository, userRepository)
	boardUc := boardUsecase.NewBoardUsecase(boardRepository, teamRepository, userRepository, boardCache)

	var preload *scheduler.BoardPreloadScheduler
	if boardCache != nil {
		preload, err = scheduler.NewBoardPreloadScheduler(boardUc, cfg.PreloadSchedule, cfg.PreloadTimezone)
		if err == nil {
			err = preload.Start()
		}
		if err != nil {
			zap.L().Error("Board preload scheduler disabled", zap.Error(err))
			preload = nil
		}
	}

	// Initialize HTTP handler
	gin.SetMode(gin.ReleaseMode)
	handler := api.NewHandler(authUc, teamUc, boardUc)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Router(zapLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	zap.L().Info("Server starting", zap.String("port", cfg.Port))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	zap.L().Info("Shutdown initiated", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("Error shutting down server", zap.Error(err))
	} else {
		zap.L().Info("HTTP server shut down gracefully")
	}

	if preload != nil {
		preload.Stop()
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			zap.L().Error("Error closing redis client", zap.Error(err))
		}
	}

	if err := sqlDB.Close(); err != nil {
		zap.L().Error("Error closing database", zap.Error(err))
	} else {
		zap.L().Info("Database connection closed")
	}
}
