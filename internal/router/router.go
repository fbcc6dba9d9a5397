package router

import (
	"net/http"

	"pantry-chef-api/internal/handler"
	"pantry-chef-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler          *handler.Handler
	InventoryHandler *handler.InventoryHandler
	MealPlanHandler  *handler.MealPlanHandler
	UserHandler      *handler.UserHandler
	AdminHandler     *handler.AdminHandler
	AuthMiddleware   func(http.Handler) http.Handler
	AllowedOrigins   []string
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Admin-Key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: len(origins) != 1 || origins[0] != "*",
		MaxAge:           300,
	}))

	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
			r.Get("/ready", cfg.Handler.Ready)
		}

		if cfg.AdminHandler != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Use(cfg.AdminHandler.RequireKey)
				r.Get("/stats", cfg.AdminHandler.GetStats)
			})
		}

		// Bearer tokens are optional at this level; handlers that need a user reject anonymous calls.
		r.Group(func(r chi.Router) {
			if cfg.AuthMiddleware != nil {
				r.Use(cfg.AuthMiddleware)
			}

			if cfg.InventoryHandler != nil {
				r.Route("/inventory", func(r chi.Router) {
					r.Get("/", cfg.InventoryHandler.List)
					r.Post("/", cfg.InventoryHandler.Create)
					r.Put("/{id}", cfg.InventoryHandler.Update)
					r.Delete("/{id}", cfg.InventoryHandler.Delete)
				})
			}

			if cfg.MealPlanHandler != nil {
				r.Post("/meal-plan", cfg.MealPlanHandler.Generate)
			}

			if cfg.UserHandler != nil {
				r.Post("/user/sync", cfg.UserHandler.Sync)
			}
		})
	})

	return r
}
