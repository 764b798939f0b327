package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/allergymenu/restaurant-api/internal/api/handler"
	"github.com/allergymenu/restaurant-api/internal/api/middleware"
	"github.com/allergymenu/restaurant-api/internal/core/ports"
	"github.com/allergymenu/restaurant-api/internal/infrastructure/http/handlers"
)

// Dependencies are the services and settings the router mounts.
type Dependencies struct {
	Auth        ports.AuthService
	Admin       ports.AdminService
	Restaurants ports.RestaurantService
	Menu        ports.MenuService
	Sessions    ports.SessionStore

	// Health lists the readiness checks by name. Nil entries are skipped.
	Health map[string]handlers.Pinger

	AllowedOrigins []string

	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// default Prometheus registry.
	Registry *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	adminHandler := handler.NewAdminHandler(deps.Admin)
	restaurantHandler := handler.NewRestaurantHandler(deps.Restaurants, deps.Menu)
	healthHandler := handlers.NewHealthHandler(deps.Health)

	requireAuth := middleware.Auth(deps.Sessions)
	requireAdmin := middleware.RequireAdmin()

	// --- Public routes ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Restaurant Allergy Manager API"})
	})
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/user", authHandler.CurrentUser, requireAuth)
	auth.POST("/logout", authHandler.Logout, requireAuth)

	// --- Admin routes ---
	auth.GET("/users", adminHandler.ListUsers, requireAuth, requireAdmin)
	auth.POST("/make-admin/:id", adminHandler.MakeAdmin, requireAuth, requireAdmin)
	auth.POST("/make-admin-by-email", adminHandler.MakeAdminByEmail, requireAuth, requireAdmin)
	auth.POST("/remove-admin-by-email", adminHandler.RemoveAdminByEmail, requireAuth, requireAdmin)

	// --- Restaurant routes ---
	restaurants := e.Group("/restaurants", requireAuth)
	restaurants.POST("", restaurantHandler.Create)
	restaurants.POST("/", restaurantHandler.Create)
	restaurants.GET("", restaurantHandler.List)
	restaurants.GET("/", restaurantHandler.List)
	restaurants.GET("/:id", restaurantHandler.Get)

	// --- Menu routes ---
	restaurants.POST("/:id/menu", restaurantHandler.AddMenuItem)
	restaurants.GET("/:id/menu", restaurantHandler.ListMenuItems)
	restaurants.PUT("/:id/menu/:itemId", restaurantHandler.UpdateMenuItem)
	restaurants.DELETE("/:id/menu/:itemId", restaurantHandler.DeleteMenuItem)

	return e
}

// requestLogger writes one structured entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
