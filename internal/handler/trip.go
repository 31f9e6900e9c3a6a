package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/easytrip/backend/internal/domain"
	"github.com/pkordes/easytrip/backend/internal/middleware"
	"github.com/pkordes/easytrip/backend/internal/view"
)

// recentTripsLimit is how many of the user's trips the home page shows.
const recentTripsLimit = 4

// Home handles GET /.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	recent, err := s.trips.ListForUser(r.Context(), user, recentTripsLimit)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, view.PageHome, view.HomeData{User: user, RecentTrips: recent})
}

// SubmitTrip handles POST /. On success it redirects to the new trip.
func (s *Server) SubmitTrip(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.badForm(w, r, err)
		return
	}
	user := middleware.CurrentUser(r.Context())

	req, form, err := parsePlanForm(r.PostForm)
	if err == nil {
		var trip domain.Trip
		trip, err = s.trips.Plan(r.Context(), req, user)
		if err == nil {
			http.Redirect(w, r, "/trips/"+trip.ID.String(), http.StatusSeeOther)
			return
		}
	}

	if !errors.Is(err, domain.ErrValidation) {
		s.serverError(w, r, err)
		return
	}
	recent, listErr := s.trips.ListForUser(r.Context(), user, recentTripsLimit)
	if listErr != nil {
		s.serverError(w, r, listErr)
		return
	}
	s.render(w, r, http.StatusUnprocessableEntity, view.PageHome, view.HomeData{
		User:        user,
		Form:        form,
		Error:       formMessage(err),
		RecentTrips: recent,
	})
}

// TripDetail handles GET /trips/{id}.
func (s *Server) TripDetail(w http.ResponseWriter, r *http.Request) {
	id, err := tripID(chi.URLParam(r, "id"))
	if err != nil {
		s.notFound(w, r)
		return
	}

	detail, err := s.trips.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.notFound(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}

	user := middleware.CurrentUser(r.Context())
	s.render(w, r, http.StatusOK, view.PageDetail, view.DetailData{
		User:      user,
		Trip:      detail.Trip,
		Days:      detail.Days,
		CanDelete: detail.Trip.IsAnonymous() || detail.Trip.OwnedBy(user),
	})
}

// Dashboard handles GET /dashboard. Anonymous visitors get an empty list.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	trips, err := s.trips.ListForUser(r.Context(), user, 0)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, view.PageDashboard, view.DashboardData{User: user, Trips: trips})
}

// DeleteTripForm handles POST /trips/{id}/delete from the HTML forms.
// A forbidden delete is a silent no-op; either way the user lands on the
// dashboard.
func (s *Server) DeleteTripForm(w http.ResponseWriter, r *http.Request) {
	id, err := tripID(chi.URLParam(r, "id"))
	if err != nil {
		s.notFound(w, r)
		return
	}

	if err := s.deleteTrip(r, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.notFound(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// DeleteTrip handles DELETE /trips/{id}: 204 on success or forbidden, 404
// for an unknown trip.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := tripID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	if err := s.deleteTrip(r, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		s.log.ErrorContext(r.Context(), "delete trip failed", "trip_id", id, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteTrip runs the delete and swallows domain.ErrForbidden.
func (s *Server) deleteTrip(r *http.Request, id uuid.UUID) error {
	user := middleware.CurrentUser(r.Context())
	err := s.trips.Delete(r.Context(), id, user)
	if errors.Is(err, domain.ErrForbidden) {
		s.log.InfoContext(r.Context(), "trip delete refused", "trip_id", id)
		return nil
	}
	return err
}
