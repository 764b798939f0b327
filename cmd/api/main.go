// @title        Restaurant Allergy Manager API
// @version      1.0
// @description  Restaurant owners manage menus annotated with allergens and dietary categories.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Session token issued by /auth/register or /auth/login, sent as "Bearer <token>".
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	_ "github.com/allergymenu/restaurant-api/docs"
	"github.com/allergymenu/restaurant-api/internal/api"
	"github.com/allergymenu/restaurant-api/internal/core/ports"
	"github.com/allergymenu/restaurant-api/internal/core/service"
	mongodb "github.com/allergymenu/restaurant-api/internal/infrastructure/db/mongo"
	redisdb "github.com/allergymenu/restaurant-api/internal/infrastructure/db/redis"
	"github.com/allergymenu/restaurant-api/internal/infrastructure/http/handlers"
	"github.com/allergymenu/restaurant-api/internal/infrastructure/queue"
	"github.com/allergymenu/restaurant-api/internal/infrastructure/session"
	"github.com/allergymenu/restaurant-api/internal/pkg/config"
	"github.com/allergymenu/restaurant-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "restaurant-api",
	})

	// --- Storage ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	health := map[string]handlers.Pinger{"mongo": handlers.MongoPinger(db)}

	var sessions ports.SessionStore
	switch cfg.Auth.SessionBackend {
	case config.SessionBackendRedis:
		var rdb *redis.Client
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		sessions = redisdb.NewSessionStore(rdb, logger.Named("sessions"))
		health["redis"] = handlers.RedisPinger(rdb)
	default:
		sessions = session.NewMemoryStore()
	}

	identities := mongodb.NewIdentityProvider(db)
	users := mongodb.NewUserRepository(db)
	restaurants := mongodb.NewRestaurantRepository(db)
	menuItems := mongodb.NewMenuItemRepository(db)

	// --- Audit trail ---
	dispatcher := queue.NewDispatcher(cfg.Workers.Audit, mongodb.NewAuditRepository(db), logger.Named("audit"))
	// Queued events are still written after a shutdown signal.
	dispatcher.Start(context.WithoutCancel(ctx))
	defer dispatcher.Stop()

	// --- Services ---
	authService := service.NewAuthService(identities, users, restaurants, sessions, dispatcher, service.AuthPolicy{
		AdminEmails:      cfg.Auth.AdminEmailList(),
		AllowAdminSignup: cfg.Auth.AllowAdminSignup,
		VerifyPassword:   cfg.Auth.VerifyPassword,
	}, logger.Named("auth"))
	adminService := service.NewAdminService(identities, users, restaurants, sessions, dispatcher, logger.Named("admin"))

	restaurantIDs := service.NewIDGenerator(restaurants, "restaurants", cfg.IDs.Length, cfg.IDs.MaxAttempts)
	menuItemIDs := service.NewIDGenerator(menuItems, "menu_items", cfg.IDs.Length, cfg.IDs.MaxAttempts)
	restaurantService := service.NewRestaurantService(restaurants, users, restaurantIDs, logger.Named("restaurants"))
	menuService := service.NewMenuService(restaurants, menuItems, menuItemIDs, logger.Named("menu"))

	e := api.NewRouter(api.Dependencies{
		Auth:           authService,
		Admin:          adminService,
		Restaurants:    restaurantService,
		Menu:           menuService,
		Sessions:       sessions,
		Health:         health,
		AllowedOrigins: cfg.AllowedOrigins(),
		Log:            logger.Named("http"),
	})

	return serve(ctx, e, ":"+cfg.Port, log)
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, h http.Handler, addr string, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
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

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
