package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/thereayou/warbler/internal/config"
	"github.com/thereayou/warbler/internal/database"
	"github.com/thereayou/warbler/internal/handlers"
	"github.com/thereayou/warbler/internal/metrics"
	"github.com/thereayou/warbler/internal/middleware"
	"github.com/thereayou/warbler/internal/services"
	"github.com/thereayou/warbler/internal/sessions"
	ws "github.com/thereayou/warbler/internal/websocket"
	"github.com/thereayou/warbler/pkg/auth"
)

type Server struct {
	Config     *config.Config
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	Sessions   *sessions.Store
	JWTManager *auth.JWTManager
	Hub        *ws.Hub
}

// NewServer connects to Postgres and Redis and wires the application.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres connect failed: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis connect failed: %w", err)
	}

	return New(cfg, db, rdb), nil
}

// New wires a server around already-open connections.
func New(cfg *config.Config, db *database.Database, rdb *redis.Client) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store := sessions.NewStore(rdb, cfg.SessionTTL)
	jwtMgr := auth.NewJWTManager(cfg.SessionSecret, cfg.SessionTTL)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	hub := ws.NewHub()

	accounts := services.NewAccountService(db, hasher)
	users := services.NewUserService(db, hasher)
	follows := services.NewFollowService(db)
	messages := services.NewMessageService(db, hub)

	authH := handlers.NewAuthHandler(accounts, store, jwtMgr, cfg.CookieSecure)
	h := &Handlers{
		Auth:      authH,
		Users:     handlers.NewUserHandler(users, follows, authH),
		Messages:  handlers.NewMessageHandler(messages),
		WebSocket: handlers.NewWebSocketHandler(hub, cfg.AllowedOrigin),
		Health:    handlers.NewHealthHandler(db, store),
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), metrics.Middleware())
	APIEndpoints(router, h, middleware.Session(jwtMgr, store, db))

	return &Server{
		Config:     cfg,
		Router:     router,
		DB:         db,
		Redis:      rdb,
		Sessions:   store,
		JWTManager: jwtMgr,
		Hub:        hub,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.Hub.Run()
	defer s.Hub.Stop()

	srv := &http.Server{
		Addr:              ":" + s.Config.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", s.Config.Port, "env", s.Config.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) Close() error {
	var errs []error
	if err := s.Redis.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.DB.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
