package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"uniaid/internal/config"
	"uniaid/internal/handlers"
	"uniaid/internal/logging"
	"uniaid/internal/middleware"
	"uniaid/internal/model"

	"github.com/go-chi/chi"
	chimw "github.com/go-chi/chi/middleware"
)

type Server struct {
	Serv *http.Server
}

// NewRouter mounts the API under /api.
func NewRouter(cfg *config.Config, handler *handlers.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.LoggingMiddleware(logging.Logg))

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", handler.GetStats)
		r.Get("/session", handler.GetSession)
		r.Get("/campaigns", handler.ListPublicCampaigns)
		r.Get("/campaigns/{id}", handler.GetCampaign)
		r.Get("/campaigns/{id}/donations", handler.GetCampaignDonations)

		r.Route("/user", func(r chi.Router) {
			r.Post("/register", handler.RegisterUser)
			r.Post("/login", handler.LoginUser)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthMiddleware(cfg))
				r.Post("/logout", handler.LogoutUser)
				r.Get("/me", handler.GetMe)
				r.Post("/verification", handler.RequestVerification)
				r.Get("/transactions", handler.GetTransactions)
				r.With(middleware.RequireRole(model.RoleFundraiser)).Get("/campaigns", handler.ListMyCampaigns)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg))
			r.With(middleware.RequireRole(model.RoleDonor, model.RoleFundraiser)).Get("/browse", handler.ListDonorCampaigns)
			r.With(middleware.RequireRole(model.RoleFundraiser)).Post("/campaigns", handler.CreateCampaign)
			r.Patch("/campaigns/{id}", handler.UpdateCampaign)
			r.Post("/campaigns/{id}/donations", handler.Donate)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg))
			r.Use(middleware.RequireRole(model.RoleAdmin))
			r.Get("/campaigns", handler.GetReviewQueue)
			r.Post("/campaigns/{id}/review", handler.ReviewCampaign)
			r.Get("/users", handler.ListUsers)
			r.Get("/verifications", handler.ListPendingVerifications)
			r.Post("/users/{id}/verification", handler.EvaluateVerification)
		})
	})
	return r
}

func New(cfg *config.Config, handler *handlers.Server) *Server {
	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      NewRouter(cfg, handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second + cfg.PaymentDelay,
		IdleTimeout:  60 * time.Second,
	}
	return &Server{Serv: serv}
}

// Start serves in the background. A listen failure is sent on the
// returned channel.
func (s *Server) Start() <-chan error {
	errc := make(chan error, 1)
	go func() {
		logging.Logg.Info("Starting server", "address", s.Serv.Addr)
		if err := s.Serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logg.Error("Server failed to start", "error", err)
			errc <- err
		}
		close(errc)
	}()
	return errc
}

func (s *Server) Shutdown(ctx context.Context) error {
	logging.Logg.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.Serv.Shutdown(shutdownCtx); err != nil {
		logging.Logg.Error("Server shutdown error", "error", err)
		return err
	}

	logging.Logg.Info("Server stopped")
	return nil
}
