// Package rest wires the HTTP surface: routing, middleware, and the
// translation between HTTP requests and application commands/queries.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"askbox-backend/infrastructure/config"
	"askbox-backend/interfaces/http/rest/handlers"
	"askbox-backend/interfaces/http/rest/middleware"
	"askbox-backend/pkg/common"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg                 *config.Config
	authMiddleware      *middleware.Auth
	questionHandler     *handlers.QuestionHandler
	subscriptionHandler *handlers.SubscriptionHandler
	friendsHandler      *handlers.FriendsHandler
	profileHandler      *handlers.ProfileHandler
	logger              *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	authMiddleware *middleware.Auth,
	questionHandler *handlers.QuestionHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
	friendsHandler *handlers.FriendsHandler,
	profileHandler *handlers.ProfileHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:                 cfg,
		authMiddleware:      authMiddleware,
		questionHandler:     questionHandler,
		subscriptionHandler: subscriptionHandler,
		friendsHandler:      friendsHandler,
		profileHandler:      profileHandler,
		logger:              logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{rt.cfg.AppOrigin},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		common.RespondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		// Public and optionally-authenticated endpoints. Asking is open
		// to strangers; a token, when present, attributes the question.
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Optional)
			r.Post("/questions", rt.questionHandler.AskQuestion)
			r.Get("/questions/{questionID}", rt.questionHandler.GetQuestion)
			r.Get("/users/{userID}", rt.profileHandler.GetProfile)
			r.Get("/users/{userID}/feed", rt.questionHandler.ProfileFeed)
		})

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Require)
			r.Post("/questions/{questionID}/answer", rt.questionHandler.AnswerQuestion)
			r.Get("/inbox", rt.questionHandler.Inbox)
			r.Get("/friends", rt.friendsHandler.Friends)
			r.Get("/friends/feed", rt.friendsHandler.FriendsFeed)
			r.Put("/profile", rt.profileHandler.UpdateProfile)

			r.Route("/subscriptions", func(r chi.Router) {
				r.Post("/", rt.subscriptionHandler.Subscribe)
				r.Delete("/", rt.subscriptionHandler.Unsubscribe)
				r.Get("/", rt.subscriptionHandler.List)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
