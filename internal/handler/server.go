// Package handler implements the HTTP handlers for the Easytrip web app.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, auth.go) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/easytrip/backend/internal/domain"
	"github.com/pkordes/easytrip/backend/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Plan(ctx context.Context, req domain.PlanRequest, requester *domain.User) (domain.Trip, error)
	Get(ctx context.Context, id uuid.UUID) (domain.TripDetail, error)
	ListForUser(ctx context.Context, requester *domain.User, limit int) ([]domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID, requester *domain.User) error
}

// AuthServicer defines the account operations the auth handlers depend on.
type AuthServicer interface {
	Signup(ctx context.Context, req service.SignupRequest) (domain.User, domain.Session, error)
	Login(ctx context.Context, username, password string) (domain.User, domain.Session, error)
	Logout(ctx context.Context, token string) error
}

// Renderer writes an HTML page. *view.Renderer satisfies it.
type Renderer interface {
	Render(w http.ResponseWriter, status int, page string, data any) error
}

// Server holds the dependencies shared by every handler.
type Server struct {
	trips         TripServicer
	auth          AuthServicer
	views         Renderer
	log           *slog.Logger
	secureCookies bool
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, auth AuthServicer, views Renderer, log *slog.Logger, secureCookies bool) *Server {
	return &Server{trips: trips, auth: auth, views: views, log: log, secureCookies: secureCookies}
}

// Mount registers every route on r. The session middleware must already be
// installed on r so handlers can read the current user.
func (s *Server) Mount(r chi.Router) {
	r.Get("/healthz", s.GetHealth)

	r.Get("/", s.Home)
	r.Post("/", s.SubmitTrip)
	r.Get("/dashboard", s.Dashboard)

	r.Get("/trips/{id}", s.TripDetail)
	r.Delete("/trips/{id}", s.DeleteTrip)
	r.Post("/trips/{id}/delete", s.DeleteTripForm)

	r.Get("/login", s.LoginPage)
	r.Post("/login", s.Login)
	r.Get("/signup", s.SignupPage)
	r.Post("/signup", s.Signup)
	r.Post("/logout", s.Logout)

	r.NotFound(s.notFound)
}
