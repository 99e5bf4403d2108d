package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/isdelr/folio-be/internal/api/handlers"
	"github.com/isdelr/folio-be/internal/auth"
	"github.com/isdelr/folio-be/internal/logger"
	"github.com/isdelr/folio-be/internal/metrics"
	"github.com/isdelr/folio-be/internal/services"
	"github.com/isdelr/folio-be/internal/websocket"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Users       services.UserServiceProvider
	Projects    services.ProjectServiceProvider
	Skills      services.SkillServiceProvider
	Experiences services.ExperienceServiceProvider
	Portfolios  services.PortfolioServiceProvider
	Events      services.EventServiceProvider

	Issuer   *auth.Issuer
	Verifier *auth.Verifier
	Owners   *auth.OwnershipResolver

	Hub          *websocket.Hub
	LoginLimiter *RateLimiter
	DB           handlers.Pinger
	HostStats    handlers.HostStatsSource

	AllowedOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Instrument)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	var revoker handlers.TokenRevoker
	if d.Verifier.Revocable() {
		revoker = d.Verifier
	}
	authHandler := handlers.NewAuthHandler(d.Users, d.Issuer, revoker)
	userHandler := handlers.NewUserHandler(d.Users)
	projectHandler := handlers.NewProjectHandler(d.Projects)
	skillHandler := handlers.NewSkillHandler(d.Skills)
	experienceHandler := handlers.NewExperienceHandler(d.Experiences)
	portfolioHandler := handlers.NewPortfolioHandler(d.Portfolios)
	eventHandler := handlers.NewEventHandler(d.Events)
	wsHandler := handlers.NewWebSocketHandler(d.Hub, d.AllowedOrigins)
	healthHandler := handlers.NewHealthHandler(d.DB, d.HostStats)

	authenticate := auth.Authenticate(d.Verifier)

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Get)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.With(limit(d.LoginLimiter)).Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Get("/me", authHandler.GetMe)
				if revoker != nil {
					r.Post("/logout", authHandler.Logout)
				}
			})
		})

		// Live activity feed. Browsers cannot set headers on upgrade requests.
		r.With(auth.AuthenticateWith(d.Verifier, auth.QueryOrBearerToken)).Get("/ws", wsHandler.Serve)

		r.With(authenticate).Get("/events", eventHandler.GetRecent)

		r.Get("/portfolios/{id}", portfolioHandler.Get)

		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/", userHandler.Get)
			r.Get("/projects", projectHandler.ListForUser)
			r.Get("/skills", skillHandler.ListForUser)
			r.Get("/experiences", experienceHandler.ListForUser)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, d.Owners.RequireOwner(auth.KindSelf))
				r.Put("/", userHandler.Update)
				r.Delete("/", userHandler.Delete)
				r.Put("/password", userHandler.ChangePassword)
			})
		})

		ownedResource(r, "/projects", authenticate, d.Owners.RequireOwner(auth.KindProject), crud{
			get: projectHandler.Get, create: projectHandler.Create,
			update: projectHandler.Update, delete: projectHandler.Delete,
		})
		ownedResource(r, "/skills", authenticate, d.Owners.RequireOwner(auth.KindSkill), crud{
			get: skillHandler.Get, create: skillHandler.Create,
			update: skillHandler.Update, delete: skillHandler.Delete,
		})
		ownedResource(r, "/experiences", authenticate, d.Owners.RequireOwner(auth.KindExperience), crud{
			get: experienceHandler.Get, create: experienceHandler.Create,
			update: experienceHandler.Update, delete: experienceHandler.Delete,
		})
	})

	return r
}

type crud struct {
	get, create, update, delete http.HandlerFunc
}

// ownedResource mounts a resource whose reads are public, whose creation
// needs a caller and whose edits need the caller to own the row.
func ownedResource(r chi.Router, pattern string, authenticate, requireOwner func(http.Handler) http.Handler, h crud) {
	r.Route(pattern, func(r chi.Router) {
		r.With(authenticate).Post("/", h.create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Group(func(r chi.Router) {
				r.Use(authenticate, requireOwner)
				r.Put("/", h.update)
				r.Delete("/", h.delete)
			})
		})
	})
}

func limit(rl *RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}
