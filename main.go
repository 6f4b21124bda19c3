package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/NithinKS007/PDF-extractor-server/handlers"
	"github.com/NithinKS007/PDF-extractor-server/internal/config"
	"github.com/NithinKS007/PDF-extractor-server/internal/credentials"
	"github.com/NithinKS007/PDF-extractor-server/internal/database"
	"github.com/NithinKS007/PDF-extractor-server/internal/document/handler"
	"github.com/NithinKS007/PDF-extractor-server/internal/document/repository"
	"github.com/NithinKS007/PDF-extractor-server/internal/document/service"
	"github.com/NithinKS007/PDF-extractor-server/internal/extractor"
	"github.com/NithinKS007/PDF-extractor-server/internal/storage"
	"github.com/NithinKS007/PDF-extractor-server/internal/tokens"
	"github.com/NithinKS007/PDF-extractor-server/internal/users"
	"github.com/NithinKS007/PDF-extractor-server/pkg/logger"
	"github.com/NithinKS007/PDF-extractor-server/pkg/metrics"
	"github.com/NithinKS007/PDF-extractor-server/pkg/middleware"
	"github.com/NithinKS007/PDF-extractor-server/pkg/respond"
)

const (
	mongoConnectAttempts = 5
	shutdownTimeout      = 15 * time.Second
)

// objectStore is what the server needs from either storage backend.
type objectStore interface {
	service.Storage
	Ping(ctx context.Context) error
}

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	logger.Infof("config loaded: env=%s mongo_db=%s redis=%v minio=%v", cfg.Server.Environment, cfg.MongoDB.Database, cfg.Redis.Addr() != "", cfg.Storage.Endpoint != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := database.ConnectWithRetry(ctx, cfg.MongoDB, mongoConnectAttempts, time.Second)
	if err != nil {
		logger.Fatalf("mongo: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB.Database)

	userRepo := users.NewMongoUserRepository(db.Collection(database.UsersCollection))
	pdfRepo := repository.NewMongoRepo(db.Collection(database.PdfsCollection))
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatalf("users indexes: %v", err)
	}
	if err := pdfRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatalf("pdfs indexes: %v", err)
	}

	store, err := newObjectStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatalf("storage: %v", err)
	}

	rdb := connectRedis(ctx, cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	issuer := tokens.NewIssuer(cfg)
	accounts := users.NewService(userRepo, credentials.NewHasher(), issuer)
	pdfs := service.New(pdfRepo, store, extractor.New())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterCollectors(reg)

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	checks := map[string]handlers.Check{
		"mongo":   database.Ping(client),
		"storage": store.Ping,
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	r := newRouter(cfg, routes{
		accounts: accounts,
		verifier: issuer,
		pdfs:     pdfs,
		checks:   checks,
		registry: reg,
		redis:    rdb,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("pdf extractor listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

type routes struct {
	accounts handlers.AccountService
	verifier middleware.Verifier
	pdfs     handler.Service
	checks   map[string]handlers.Check
	registry *prometheus.Registry
	redis    *redis.Client
}

// newRouter mounts every route. When enabled, the rate limiter runs per IP
// on /auth and per user on /pdf, after the token has been verified.
func newRouter(cfg *config.Config, rt routes) *gin.Engine {
	r := gin.New()
	r.Use(respond.Recovery(), middleware.RequestLogger())

	handlers.RegisterHealth(r, rt.checks)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{})))
	handlers.RegisterSwagger(r)

	api := r.Group("/api/v1")
	handlers.NewAuthHandler(cfg, rt.accounts).Register(api.Group("", rateLimiter(cfg.RateLimit, rt.redis)...))

	pdf := api.Group("", middleware.AuthMiddleware(rt.verifier))
	pdf.Use(rateLimiter(cfg.RateLimit, rt.redis)...)
	handler.RegisterPDFRoutes(pdf, rt.pdfs, cfg.Upload.MaxBytes)
	return r
}

// rateLimiter returns a fresh limiter, or nothing when rate limiting is off.
func rateLimiter(cfg config.RateLimitConfig, rdb *redis.Client) []gin.HandlerFunc {
	if !cfg.Enabled {
		return nil
	}
	if cfg.UseRedis && rdb != nil {
		win := time.Duration(cfg.WindowSeconds) * time.Second
		return []gin.HandlerFunc{middleware.RedisRateLimitMiddleware(rdb, cfg.RPS, cfg.Burst, win)}
	}
	return []gin.HandlerFunc{middleware.RateLimitMiddleware(cfg.RPS, cfg.Burst)}
}

func newObjectStore(ctx context.Context, cfg config.StorageConfig) (objectStore, error) {
	if cfg.Endpoint == "" {
		logger.Warnf("MINIO_ENDPOINT not set; using in-memory storage, uploads are lost on restart")
		return storage.NewMemoryStorage(cfg.Bucket, cfg.Folder), nil
	}
	s, err := storage.NewMinIOStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// connectRedis returns nil when Redis is not configured or unreachable.
func connectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	addr := cfg.Addr()
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Password, DB: cfg.DB})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		_ = rdb.Close()
		return nil
	}
	logger.Infof("connected to Redis: %s", addr)
	return rdb
}
