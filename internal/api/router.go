package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/itinerary-planner/internal/api/handler"
	customMiddleware "github.com/Rrens/itinerary-planner/internal/api/middleware"
	"github.com/Rrens/itinerary-planner/internal/config"
	"github.com/Rrens/itinerary-planner/internal/domain"
	"github.com/Rrens/itinerary-planner/internal/repository/redis"
	"github.com/Rrens/itinerary-planner/internal/security"
	"github.com/Rrens/itinerary-planner/internal/service"
)

// Deps are the storage and upstream dependencies the router wires into
// services. Redis is optional; when nil, search caching and rate limiting
// are disabled.
type Deps struct {
	Users       domain.UserRepository
	Itineraries domain.ItineraryRepository
	Flights     domain.FlightRepository
	Store       handler.Pinger
	Redis       *redis.Client
	Offers      service.OfferProvider
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	hasher := security.NewPasswordHasher(cfg.Auth.BCryptCost)

	readiness := map[string]handler.Pinger{"store": deps.Store}

	// Search cache and rate limiting need Redis
	var searchCache service.SearchCache
	var rateLimit *customMiddleware.RateLimitMiddleware
	if deps.Redis != nil {
		readiness["redis"] = deps.Redis
		if cfg.Search.CacheTTL > 0 {
			searchCache = redis.NewSearchCache(deps.Redis, cfg.Search.CacheTTL)
		}
		rateLimit = customMiddleware.NewRateLimitMiddleware(redis.NewRateLimiter(
			deps.Redis,
			cfg.Security.RateLimit.RequestsPerMinute,
			cfg.Security.RateLimit.Burst,
		))
	} else {
		log.Info().Msg("Redis disabled, search cache and rate limiting are off")
	}

	// Initialize services
	authService := service.NewAuthService(deps.Users, hasher, jwtManager)
	itineraryService := service.NewItineraryService(deps.Itineraries, deps.Flights)
	searchService := service.NewSearchService(deps.Offers, searchCache)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg.Auth)
	itineraryHandler := handler.NewItineraryHandler(itineraryService)
	flightHandler := handler.NewFlightHandler(searchService)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager, cfg.Auth.CookieName)

	r.Get("/ping", handler.Ping)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(readiness))

		// Auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.With(authMiddleware.Authenticate).Get("/me", authHandler.Me)
		})

		// Flight search is public
		r.Group(func(r chi.Router) {
			if rateLimit != nil {
				r.Use(rateLimit.ByIP)
			}
			r.Post("/flights/search", flightHandler.Search)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			if rateLimit != nil {
				r.Use(rateLimit.ByUser)
			}

			r.Route("/itineraries", func(r chi.Router) {
				r.Get("/", itineraryHandler.List)
				r.Post("/", itineraryHandler.Create)

				r.Route("/{itineraryID}", func(r chi.Router) {
					r.Get("/", itineraryHandler.Get)
					r.Patch("/", itineraryHandler.Rename)
					r.Delete("/", itineraryHandler.Delete)
					r.Post("/flights", itineraryHandler.AddFlight)
				})
			})
		})
	})

	return r
}
