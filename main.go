package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/folio-be/internal/api"
	"github.com/isdelr/folio-be/internal/auth"
	"github.com/isdelr/folio-be/internal/config"
	"github.com/isdelr/folio-be/internal/database"
	"github.com/isdelr/folio-be/internal/logger"
	"github.com/isdelr/folio-be/internal/monitoring"
	"github.com/isdelr/folio-be/internal/services"
	"github.com/isdelr/folio-be/internal/websocket"
)

func main() {
	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal().Err(err).Msg("Failed to read .env file")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	ctx := context.Background()

	// Set up database
	db, err := database.New(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up credentials
	hasher := auth.NewPasswordHasher()
	issuer, err := auth.NewIssuer(cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token issuer")
	}

	var verifierOpts []auth.Option
	var sqlDenylist *auth.SQLDenylist
	switch cfg.RevocationStore {
	case config.RevocationSQL:
		sqlDenylist = auth.NewSQLDenylist(db)
		verifierOpts = append(verifierOpts, auth.WithDenylist(sqlDenylist))
	case config.RevocationRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to redis")
		}
		verifierOpts = append(verifierOpts, auth.WithDenylist(auth.NewRedisDenylist(rdb, "")))
	}
	verifier, err := auth.NewVerifier(cfg.JWTSecret, verifierOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token verifier")
	}
	owners := auth.NewOwnershipResolver(db)

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(db, hub)
	userService := services.NewUserService(db, hasher, eventService)
	projectService := services.NewProjectService(db, eventService)
	skillService := services.NewSkillService(db, eventService)
	experienceService := services.NewExperienceService(db, eventService)
	portfolioService := services.NewPortfolioService(userService, projectService, skillService, experienceService)

	loginLimiter := api.NewRateLimiter(cfg.LoginRatePerMinute, cfg.LoginRateBurst)

	// Set up and run the host stats updater
	statUpdater := monitoring.NewStatUpdater(nil, 15*time.Second)
	go statUpdater.Run()

	// Set up and run the background scheduler
	jobs := []monitoring.Job{
		monitoring.PruneEventsJob(eventService, time.Duration(cfg.EventRetentionDays)*24*time.Hour, time.Now),
		monitoring.SweepIdleJob("sweep-login-limiters", loginLimiter, 10*time.Minute),
	}
	if sqlDenylist != nil {
		jobs = append(jobs, monitoring.PruneRevokedTokensJob(sqlDenylist, time.Now))
	}
	scheduler, err := monitoring.NewScheduler(jobs...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	scheduler.Run()

	// Set up router
	router := api.NewRouter(api.Deps{
		Users:          userService,
		Projects:       projectService,
		Skills:         skillService,
		Experiences:    experienceService,
		Portfolios:     portfolioService,
		Events:         eventService,
		Issuer:         issuer,
		Verifier:       verifier,
		Owners:         owners,
		Hub:            hub,
		LoginLimiter:   loginLimiter,
		DB:             db,
		HostStats:      statUpdater,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("driver", cfg.DatabaseDriver).
			Str("revocation", cfg.RevocationStore).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	statUpdater.Stop()
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
}
