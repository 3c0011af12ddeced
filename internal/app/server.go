// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"storefront-service/internal/config"
	"storefront-service/internal/db"
	authHandler "storefront-service/internal/handlers/auth"
	checkoutHandler "storefront-service/internal/handlers/checkout"
	productHandler "storefront-service/internal/handlers/product"
	wsHandler "storefront-service/internal/handlers/websocket"
	"storefront-service/internal/middleware"
	"storefront-service/internal/repository/postgres"
	authUsecase "storefront-service/internal/service/auth"
	checkoutUsecase "storefront-service/internal/service/checkout"
	productUsecase "storefront-service/internal/service/product"
	"storefront-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	pool *pgxpool.Pool
	http *http.Server

	hubCancel context.CancelFunc
}

func NewServer(cfg config.AppConfig) *Server {
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{cfg: cfg, engine: gin.New()}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := newLogger(s.cfg)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.Connect(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// ----- Repositories -----
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)

	// ----- Auth -----
	authService := authUsecase.NewAuthService(userRepo, s.cfg.Auth, logger)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(authService, logger)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	s.hubCancel = hubCancel
	go hub.Run(hubCtx)

	// ----- Products -----
	images, err := productUsecase.NewImageStore(s.cfg.ProductImagesDir)
	if err != nil {
		return fmt.Errorf("failed to prepare image storage: %w", err)
	}
	productService := productUsecase.NewProductService(productRepo, images, hub, redisClient, logger)

	// ----- Checkout -----
	checkoutService := checkoutUsecase.NewCheckoutService(productService, checkoutUsecase.Config{
		SecretKey:  s.cfg.StripeSecretKey,
		SuccessURL: s.cfg.StripeSuccessURL,
		CancelURL:  s.cfg.StripeCancelURL,
	}, logger)

	// ----- Handlers -----
	secureCookies := s.cfg.Production()
	authHandlerInst := authHandler.NewAuthHandler(authService, secureCookies, logger)
	productHandlerInst := productHandler.NewProductHandler(productService, images, logger)
	checkoutHandlerInst := checkoutHandler.NewCheckoutHandler(checkoutService, logger)
	wsHandlerInst := wsHandler.NewWebSocketHandler(hub, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(authService, logger)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(s.cfg.CORSOrigin),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:     authHandlerInst,
		ProductHandler:  productHandlerInst,
		CheckoutHandler: checkoutHandlerInst,
		WSHandler:       wsHandlerInst,
		AuthMiddleware:  authMiddleware,
	}
	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	s.http = &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	log.Printf("server running on %s", s.cfg.HTTPAddr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and releases connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	if s.hubCancel != nil {
		s.hubCancel()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	if s.logger != nil {
		s.logger.Sync()
	}
	return err
}

func newLogger(cfg config.AppConfig) (*zap.Logger, error) {
	if cfg.Production() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
