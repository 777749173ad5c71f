package httpserver

import (
	"net/http"
	"time"

	"apartment-chores-go/internal/config"
	"apartment-chores-go/internal/transport/httpserver/handler"
	authmw "apartment-chores-go/internal/transport/httpserver/middleware"
	"apartment-chores-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, users authmw.UserEnsurer, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/auth/signup", handlers.SignUp)
		r.Post("/auth/signin", handlers.SignIn)
		r.Post("/auth/signout", handlers.SignOut)
		r.Post("/auth/reset-password", handlers.ResetPassword)

		auth := authmw.NewAuth(cfg.Auth, users, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Post("/apartments", handlers.CreateApartment)
			r.Post("/apartments/join", handlers.JoinApartment)
			r.Get("/apartments/me", handlers.GetApartmentMe)
			r.Get("/apartments/me/members", handlers.ListMembers)

			r.Get("/chores", handlers.ListChores)
			r.Get("/chores/progress", handlers.ChoreProgress)
			r.Get("/chores/lookup", handlers.LookupChores)
			r.Patch("/chores/{chore_id}/completion", handlers.SetChoreCompletion)
			r.Patch("/chores/{chore_id}/assignment", handlers.SetChoreAssignment)
			r.Post("/chores/reset", handlers.ResetChores)
		})
	})

	return r
}
