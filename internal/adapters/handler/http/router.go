package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/carmarket/internal/core/domain"
	"github.com/vncsmyrnk/carmarket/internal/core/ports"
)

type HealthHandler struct {
	pool ports.Pool
}

func NewHealthHandler(pool ports.Pool) *HealthHandler {
	return &HealthHandler{pool: pool}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.Ping(r.Context()); err != nil {
		respondError(w, r, domain.Internal(err))
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func NewHandler(
	carHandler *CarHandler,
	userHandler *UserHandler,
	authHandler *AuthHandler,
	healthHandler *HealthHandler,
	verifier ports.TokenVerifier,
	log *zap.Logger,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	auth := Authenticate(verifier)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})
		r.Get("/health", healthHandler.Check)

		r.Route("/cars", func(r chi.Router) {
			r.Get("/", carHandler.List)
			r.Get("/search", carHandler.Search)
			r.Get("/{id}", carHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/sell-car", carHandler.Sell)
				r.Patch("/{id}", carHandler.Update)
				r.Delete("/{id}", carHandler.Delete)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Get("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.With(RequireRole(domain.RoleAdmin)).Get("/", userHandler.List)
				r.Get("/{id}", userHandler.Get)
				r.Patch("/{id}", userHandler.Update)
				r.Delete("/{id}", userHandler.Delete)
				r.Get("/{id}/cars", userHandler.Cars)
			})
		})
	})

	return r
}
