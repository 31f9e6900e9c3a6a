package handler

import (
	"errors"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/easytrip/backend/internal/domain"
	"github.com/pkordes/easytrip/backend/internal/middleware"
	"github.com/pkordes/easytrip/backend/internal/view"
)

// render writes a page, falling back to a plain 500 if the template fails.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := s.views.Render(w, status, page, data); err != nil {
		s.log.ErrorContext(r.Context(), "render failed",
			"page", page,
			"error", err,
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, view.PageError, view.ErrorData{
		User:    middleware.CurrentUser(r.Context()),
		Status:  http.StatusNotFound,
		Message: "We couldn't find what you were looking for.",
	})
}

// serverError logs err with the request id and shows the generic error page.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
		"request_id", chimiddleware.GetReqID(r.Context()),
	)
	s.render(w, r, http.StatusInternalServerError, view.PageError, view.ErrorData{
		User:    middleware.CurrentUser(r.Context()),
		Status:  http.StatusInternalServerError,
		Message: "Something went wrong on our side. Please try again.",
	})
}

// badForm answers a body that could not be parsed: 413 when it was too
// large, 400 otherwise.
func (s *Server) badForm(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadRequest
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	s.render(w, r, status, view.PageError, view.ErrorData{
		User:    middleware.CurrentUser(r.Context()),
		Status:  status,
		Message: "The submitted form could not be read.",
	})
}

// formMessage turns a wrapped domain.ErrValidation into a sentence for the form.
// e.g. "service.TripService.Plan: validation error: destination is required"
// becomes "Destination is required."
func formMessage(err error) string {
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		msg = msg[i+len(prefix):]
	}
	if msg == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(msg)
	msg = string(unicode.ToUpper(first)) + msg[size:]
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	return msg
}
