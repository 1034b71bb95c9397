package app

import (
	"log/slog"
	"time"

	"github.com/attaboy/blackjack/internal/auth"
	"github.com/attaboy/blackjack/internal/guard"
	"github.com/attaboy/blackjack/internal/handler"
	"github.com/attaboy/blackjack/internal/infra"
	"github.com/attaboy/blackjack/internal/service"
	"github.com/go-chi/chi/v5"
)

// Deps holds everything NewRouter needs beyond the config.
type Deps struct {
	Config *infra.Config
	JWTMgr *auth.JWTManager
	Hub    *infra.WSHub
	Logger *slog.Logger
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps Deps) chi.Router {
	cfg := deps.Config
	logger := deps.Logger

	// Services
	identitySvc := service.NewIdentityService(logger)
	gameSvc := service.NewGameService(identitySvc, deps.Hub,
		cfg.InvitationDefaultTimeoutSeconds, cfg.InvitationMaxTimeoutSeconds,
		cfg.MaxPlayers, cfg.MinPlayers, logger)
	invitationSvc := service.NewInvitationService(logger)

	// Guards
	limiter := guard.NewRateLimiter(cfg.RateLimitRequestsPerMinute, time.Minute)

	// Handlers
	authHandler := handler.NewAuthHandler(identitySvc, deps.JWTMgr)
	gameHandler := handler.NewGameHandler(gameSvc)
	invitationHandler := handler.NewInvitationHandler(invitationSvc, gameSvc)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS(cfg.CORSOrigins()))
	r.Use(handler.JSONContentType)
	r.Use(handler.DeprecationHeaders(cfg.APIVersionDeprecationMonths))
	r.Use(auth.Authenticate(deps.JWTMgr))
	r.Use(auth.RateLimit(limiter))

	r.Route("/api/v1", func(r chi.Router) {
		// Health (no auth)
		r.Get("/health", handler.HealthHandler(time.Now()))

		// Auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/password", authHandler.ChangePassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", authHandler.Me)
			r.Get("/me/stats", authHandler.Stats)
		})

		r.Route("/games", func(r chi.Router) {
			r.Post("/", gameHandler.Create)
			r.Get("/open", gameHandler.ListOpen)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", gameHandler.State)
				r.Get("/results", gameHandler.Results)
				r.Post("/enroll", gameHandler.Enroll)
				r.Post("/close", gameHandler.CloseEnrollment)
				r.Post("/draw", gameHandler.Draw)
				r.Post("/stand", gameHandler.Stand)
				r.Post("/ace", gameHandler.SetAceValue)
				r.Post("/kick", gameHandler.Kick)
				r.Post("/finish", gameHandler.Finish)
			})
		})

		r.Route("/invitations", func(r chi.Router) {
			r.Post("/", invitationHandler.Create)
			r.Get("/pending", invitationHandler.ListPending)
			r.Post("/{id}/accept", invitationHandler.Accept)
			r.Post("/{id}/decline", invitationHandler.Decline)
		})
	})

	return r
}
