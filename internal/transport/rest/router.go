package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/idea-portal/internal/auth"
	"github.com/frahmantamala/idea-portal/internal/idea"
	"github.com/frahmantamala/idea-portal/internal/notification"
	"github.com/frahmantamala/idea-portal/internal/transport/middleware"
	"github.com/frahmantamala/idea-portal/internal/transport/swagger"
	"github.com/frahmantamala/idea-portal/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups the feature handlers mounted by RegisterAllRoutes.
// A nil handler leaves its routes unmounted.
type Handlers struct {
	Health       *HealthHandler
	Auth         *auth.Handler
	User         *user.Handler
	Idea         *idea.Handler
	Notification *notification.Handler
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, allowedOrigins []string, logger *slog.Logger) {
	// Apply global middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", swagger.SpecHandler)
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/send-otp", h.Auth.SendOTP)
			sr.Post("/signup", h.Auth.Signup)
			sr.Post("/login", h.Auth.Login)
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)

				pr.Group(func(ar chi.Router) {
					ar.Use(middleware.RequireReviewer(logger))
					ar.Get("/users", h.User.ListUsers)
					ar.Put("/users/{id}/role", h.User.ChangeRole)
					ar.Put("/users/{id}/password", h.User.ResetPassword)
					ar.Delete("/users/{id}", h.User.DeleteUser)
				})
			}

			if h.Idea != nil {
				pr.Route("/ideas", func(ir chi.Router) {
					ir.Get("/", h.Idea.ListIdeas)
					ir.Post("/", h.Idea.CreateIdea)
					ir.Get("/user/{userId}", h.Idea.ListUserIdeas)

					ir.With(middleware.RequireReviewer(logger)).Post("/update-status", h.Idea.UpdateStatuses)

					ir.Put("/{id}", h.Idea.UpdateIdea)
					ir.Delete("/{id}", h.Idea.DeleteIdea)
					ir.Post("/{id}/react", h.Idea.React)
					ir.Get("/{id}/comments", h.Idea.ListComments)
					ir.Post("/{id}/comments", h.Idea.AddComment)
				})
			}

			if h.Notification != nil {
				pr.Get("/notifications", h.Notification.ListNotifications)
				pr.Post("/notifications/mark-read", h.Notification.MarkRead)
			}
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"type":"NOT_FOUND","code":"ROUTE_NOT_FOUND","message":"route not found"}}`))
	})
}
