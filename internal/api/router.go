package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civicatlas/records-system/internal/api/handler"
	"github.com/civicatlas/records-system/internal/api/middleware"
	"github.com/civicatlas/records-system/internal/core/service"
	"github.com/civicatlas/records-system/internal/core/token"
	mongodb "github.com/civicatlas/records-system/internal/infrastructure/db/mongo"
	redisdb "github.com/civicatlas/records-system/internal/infrastructure/db/redis"
	healthhandlers "github.com/civicatlas/records-system/internal/infrastructure/http/handlers"
)

// accessPolicy is the declared auth requirement of a route. Routes marked
// public are the guest bypass: the access-control middleware never runs for
// them.
type accessPolicy int

const (
	policyPublic accessPolicy = iota
	policyOptional
	policyAuth
	policyStaff
	policyAdmin
)

type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
	policy  accessPolicy
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("records"))

	// --- Dependencies ---
	codec := token.NewCodec(jwtSecret)

	userRepo := mongodb.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, codec, tokenTTL)
	authHandler := handler.NewAuthHandler(authService)

	recordRepo := mongodb.NewRecordRepository(db)
	listingCache := redisdb.NewListingCache(rdb)
	recordService := service.NewRecordService(recordRepo, listingCache, log)
	recordHandler := handler.NewRecordHandler(recordService)

	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(db, rdb)

	// --- Route table ---
	// Each route declares its own access policy; there is no string matching
	// of operation names anywhere else.
	routes := []route{
		{http.MethodPost, "/auth/register", authHandler.Register, policyPublic},
		{http.MethodPost, "/auth/login", authHandler.Login, policyPublic},
		{http.MethodGet, "/auth/validate", authHandler.Validate, policyAuth},
		{http.MethodPost, "/auth/refresh", authHandler.Refresh, policyAuth},
		{http.MethodGet, "/auth/profile", authHandler.GetProfile, policyAuth},
		{http.MethodPut, "/auth/profile", authHandler.UpdateProfile, policyAuth},
		{http.MethodPost, "/auth/logout", authHandler.Logout, policyOptional},
		{http.MethodGet, "/auth/check", authHandler.Check, policyOptional},

		{http.MethodGet, "/records/public", recordHandler.ListPublic, policyPublic},
		{http.MethodGet, "/records/map", recordHandler.MapPoints, policyPublic},
		{http.MethodPost, "/records", recordHandler.Create, policyStaff},
		{http.MethodGet, "/records/stats", recordHandler.Stats, policyAdmin},

		{http.MethodGet, "/health", healthHandler.Liveness, policyPublic},
		{http.MethodGet, "/health/ready", healthDepsHandler.Readiness, policyPublic},
	}

	for _, r := range routes {
		e.Add(r.method, r.path, r.handler, gateFor(r.policy, codec)...)
	}

	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

// gateFor translates a declared policy into the middleware chain for a route.
func gateFor(policy accessPolicy, codec *token.Codec) []echo.MiddlewareFunc {
	switch policy {
	case policyOptional:
		return []echo.MiddlewareFunc{middleware.OptionalAuth(codec)}
	case policyAuth:
		return []echo.MiddlewareFunc{middleware.RequireAuth(codec)}
	case policyStaff:
		return []echo.MiddlewareFunc{middleware.RequireStaff(codec)}
	case policyAdmin:
		return []echo.MiddlewareFunc{middleware.RequireAdmin(codec)}
	default:
		return nil
	}
}
