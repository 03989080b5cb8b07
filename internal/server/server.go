// server/server.go
package server

import (
	"context"
	"log"
	"net/http"

	"transfer-service/internal/cache"
	"transfer-service/internal/config"
	"transfer-service/internal/handler"
	"transfer-service/internal/middleware"
	"transfer-service/internal/repository"
	"transfer-service/internal/router"
	"transfer-service/internal/usecase/transfer"
	"transfer-service/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func NewServer(cfg config.AppConfig) *http.Server {
	// --- Init Logger ---
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	// --- Connect Postgres ---
	db, err := config.ConnectDB(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect DB: %v", err)
	}

	// --- Init Redis ---
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	redisCache := cache.New(rdb)

	// --- Repositories ---
	txRepo := repository.NewTransactionRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewSecurityEventRepository(db)

	// --- Notification hub ---
	hub := ws.NewHub(logger, cfg.WSPingInterval, cfg.WSPongTimeout)

	// --- Usecase ---
	transferSvc := transfer.NewService(txRepo, userRepo, auditRepo, hub, logger)

	// --- Middleware ---
	auth := middleware.NewAuthMiddleware(cfg.JWTSecret, userRepo, redisCache, logger)

	// --- Handlers ---
	transferH := handler.NewTransferHandler(transferSvc, logger)
	adminH := handler.NewAdminHandler(transferSvc, hub, logger)
	wsH := handler.NewWSHandler(hub, auth, logger)

	// --- Router ---
	r := chi.NewRouter()
	h := router.Setup(r, cfg, transferH, adminH, wsH, auth, redisCache)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: h,
	}
}
