package main

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/fittrack/backend/internal/config"
	"github.com/fittrack/backend/internal/db"
	"github.com/fittrack/backend/internal/handler"
	"github.com/fittrack/backend/internal/logging"
	"github.com/fittrack/backend/internal/ratelimit"
	"github.com/fittrack/backend/internal/service"
	"github.com/fittrack/backend/internal/validate"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet; config refusal must still be loud.
		panic(err)
	}

	log := logging.New(cfg.Env)
	responder := &handler.Responder{Log: log, Dev: !cfg.IsProduction()}

	ctx := context.Background()
	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pool.Close()
	store := &db.Postgres{Pool: pool}

	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema setup failed")
	}

	// Counters live in Redis when configured, otherwise in process
	// memory. Either way increment-and-check is atomic per key.
	var counters ratelimit.Store = ratelimit.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis connection failed")
		}
		counters = ratelimit.NewRedisStore(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("rate limit counters in redis")
	}

	generalLimiter := ratelimit.New(counters, ratelimit.Policy{
		Name:   "general",
		Window: cfg.RateLimit.GeneralWindow,
		Max:    cfg.RateLimit.GeneralMax,
	})
	authLimiter := ratelimit.New(counters, ratelimit.Policy{
		Name:   "auth",
		Window: cfg.RateLimit.AuthWindow,
		Max:    cfg.RateLimit.AuthMax,
	})

	va := validate.New()
	hasher := service.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens := service.NewTokenService(cfg.Auth)
	authSvc := service.NewAuthService(store, hasher, tokens)
	workoutSvc := service.NewWorkoutService(store)
	statsSvc := service.NewStatsService(store)
	postSvc := service.NewPostService(store, store)
	challengeSvc := service.NewChallengeService(store)

	authH := handler.NewAuthHandler(responder, va, authSvc)
	workoutH := handler.NewWorkoutHandler(responder, va, workoutSvc, statsSvc)
	postH := handler.NewPostHandler(responder, va, postSvc)
	challengeH := handler.NewChallengeHandler(responder, va, challengeSvc)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handler.RequestLogger(responder))
	router.Use(handler.CORS(strings.Split(cfg.Server.AllowedOrigins, ",")))

	// Health probes bypass rate limiting entirely.
	router.GET("/ping", handler.Ping)
	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	api.Use(handler.RateLimit(responder, generalLimiter))

	// Auth endpoints run the general policy first, then the stricter
	// auth policy; failures consume auth budget, successes are refunded.
	auth := api.Group("/auth")
	auth.POST("/register", handler.AuthRateLimit(responder, authLimiter), authH.Register)
	auth.POST("/login", handler.AuthRateLimit(responder, authLimiter), authH.Login)
	auth.POST("/refresh", handler.AuthRateLimit(responder, authLimiter), authH.Refresh)

	me := auth.Group("", handler.Auth(responder, tokens))
	me.GET("/me", authH.Me)
	me.PUT("/me", authH.UpdateMe)
	me.DELETE("/me", authH.DeactivateMe)

	protected := api.Group("", handler.Auth(responder, tokens))

	protected.GET("/workouts", workoutH.List)
	protected.POST("/workouts", workoutH.Create)
	protected.GET("/workouts/stats", workoutH.Stats)
	protected.GET("/workouts/:id", workoutH.Get)
	protected.PUT("/workouts/:id", workoutH.Update)
	protected.DELETE("/workouts/:id", workoutH.Delete)

	protected.GET("/posts", postH.List)
	protected.POST("/posts", postH.Create)
	protected.GET("/posts/:id", postH.Get)
	protected.PUT("/posts/:id", postH.Update)
	protected.DELETE("/posts/:id", postH.Delete)

	protected.GET("/challenges", challengeH.List)
	protected.POST("/challenges", challengeH.Create)
	protected.GET("/challenges/:id", challengeH.Get)
	protected.POST("/challenges/:id/join", challengeH.Join)
	protected.GET("/challenges/:id/participants", challengeH.Participants)

	addr := ":" + cfg.Server.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
