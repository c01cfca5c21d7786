package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/video-service/docs"
	"github.com/princekumarofficial/video-service/internal/cache"
	"github.com/princekumarofficial/video-service/internal/catalog"
	"github.com/princekumarofficial/video-service/internal/config"
	"github.com/princekumarofficial/video-service/internal/events"
	"github.com/princekumarofficial/video-service/internal/ffprobe"
	"github.com/princekumarofficial/video-service/internal/http/handlers/users"
	"github.com/princekumarofficial/video-service/internal/http/handlers/videos"
	wsHandler "github.com/princekumarofficial/video-service/internal/http/handlers/websocket"
	"github.com/princekumarofficial/video-service/internal/http/middleware"
	"github.com/princekumarofficial/video-service/internal/logger"
	mediaService "github.com/princekumarofficial/video-service/internal/services/media"
	videoService "github.com/princekumarofficial/video-service/internal/services/videos"
	"github.com/princekumarofficial/video-service/internal/staging"
	"github.com/princekumarofficial/video-service/internal/storage"
	"github.com/princekumarofficial/video-service/internal/storage/memory"
	"github.com/princekumarofficial/video-service/internal/storage/postgres"
	"github.com/princekumarofficial/video-service/internal/utils/response"
	wsClient "github.com/princekumarofficial/video-service/internal/websocket"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Video Service API
// @version 1.0
// @description Video catalog and publishing backend.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// load config
	cfg := config.MustLoad()
	logger.Init(cfg.IsLocal(), cfg.SentryDSN)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// database setup
	var store storage.Storage
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		store = memory.New()
		slog.Warn("Using in-memory storage, data will not survive a restart")
	default:
		pg, err := postgres.NewPostgres(cfg)
		if err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		defer pg.Close()
		store = pg
		slog.Info("Connected to Postgres database")
	}

	// redis is optional: caching and rate limiting switch off without it
	var cacheService *cache.CacheService
	var rateLimiter *middleware.RateLimitConfig
	if cfg.RedisEnabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Warn("Redis ping failed, continuing with degraded cache", slog.String("error", err.Error()))
		}

		cacheService = cache.NewCacheService(store, redisClient, cfg.Redis.CacheTTL)
		store = cacheService
		rateLimiter = middleware.NewRateLimitConfig(redisClient, cfg.RateLimit)
		slog.Info("Redis caching and rate limiting enabled", slog.String("address", cfg.Redis.Address))
	} else {
		rateLimiter = middleware.NewRateLimitConfig(nil, cfg.RateLimit)
	}

	// media setup
	backend, err := mediaService.NewBackend(ctx, cfg.ObjectStore)
	if err != nil {
		log.Fatal("Failed to initialize object store:", err)
	}
	media := mediaService.NewService(backend, ffprobe.New(cfg.Media.FFprobeBinary), cfg.Media)

	stager, err := staging.NewStager(cfg.Staging.Dir, cfg.Media.MaxFileSize)
	if err != nil {
		log.Fatal("Failed to prepare staging directory:", err)
	}

	// realtime events
	hub := wsClient.NewHub()
	go hub.Run(ctx)

	svc := videoService.NewService(store, media, events.NewEventPublisher(hub), videoService.Options{
		Catalog: catalog.Options{
			HonorPageParams: cfg.Catalog.HonorPageParams,
			MaxLimit:        cfg.Catalog.MaxLimit,
		},
		QueryTimeout: cfg.Catalog.QueryTimeout,
	})

	// setup router
	router := http.NewServeMux()
	auth := middleware.AuthMiddleware(cfg.JWTSecret)

	router.HandleFunc("GET /healthz", healthz(cacheService, hub))
	router.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.HandleFunc("GET /ws", wsHandler.WebSocketHandler(hub, cfg.JWTSecret))

	router.HandleFunc("POST /api/v1/users/signup", users.SignUp(store))
	router.HandleFunc("POST /api/v1/users/login", users.Login(store, cfg.JWTSecret))

	router.HandleFunc("GET /api/v1/videos", videos.List(svc))
	router.HandleFunc("GET /api/v1/videos/{videoId}", videos.Get(svc))
	router.Handle("POST /api/v1/videos", auth(rateLimiter.RateLimitedHandler(middleware.ActionPublish, videos.Publish(svc, stager))))
	router.Handle("PATCH /api/v1/videos/{videoId}", auth(rateLimiter.RateLimitedHandler(middleware.ActionUpdate, videos.Update(svc, stager))))
	router.Handle("DELETE /api/v1/videos/{videoId}", auth(videos.Delete(svc)))
	router.Handle("PATCH /api/v1/videos/toggle/publish/{videoId}", auth(videos.TogglePublish(svc)))

	docs.SwaggerInfo.Host = cfg.HTTPServer.Address

	server := http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	slog.Info("server started", slog.String("address", cfg.HTTPServer.Address))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-ctx.Done()

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	slog.Info("Server stopped")
}

type health struct {
	Status           string            `json:"status"`
	WebSocketClients int               `json:"websocket_clients"`
	Cache            *cache.CacheStats `json:"cache,omitempty"`
}

func healthz(cacheService *cache.CacheService, hub *wsClient.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := health{Status: "ok", WebSocketClients: hub.GetClientCount()}
		if cacheService != nil {
			stats := cacheService.Stats(r.Context())
			status.Cache = &stats
		}
		response.WriteJSON(w, http.StatusOK, status)
	}
}
