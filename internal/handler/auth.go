package handler

import (
	"errors"
	"net/http"

	"github.com/pkordes/easytrip/backend/internal/domain"
	"github.com/pkordes/easytrip/backend/internal/middleware"
	"github.com/pkordes/easytrip/backend/internal/service"
	"github.com/pkordes/easytrip/backend/internal/view"
)

const (
	msgInvalidLogin  = "Invalid username or password. Please try again."
	msgUsernameTaken = "Username is already taken. Please choose another."
)

// LoginPage handles GET /login. Signed-in users go straight home.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.CurrentUser(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, view.PageLogin, view.AuthData{Next: safeNext(r.URL.Query().Get("next"))})
}

// Login handles POST /login. On success it sets the session cookie and
// redirects to ?next= when that is a local path, else to /.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	if middleware.CurrentUser(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.badForm(w, r, err)
		return
	}
	username := r.PostForm.Get("username")
	next := safeNext(r.URL.Query().Get("next"))

	_, sess, err := s.auth.Login(r.Context(), username, r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.render(w, r, http.StatusUnauthorized, view.PageLogin, view.AuthData{
				Error:    msgInvalidLogin,
				Username: username,
				Next:     next,
			})
			return
		}
		s.serverError(w, r, err)
		return
	}

	middleware.SetSessionCookie(w, sess, s.secureCookies)
	if next == "" {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// SignupPage handles GET /signup.
func (s *Server) SignupPage(w http.ResponseWriter, r *http.Request) {
	if middleware.CurrentUser(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, view.PageSignup, view.AuthData{})
}

// Signup handles POST /signup. A new account is signed in immediately.
func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	if middleware.CurrentUser(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.badForm(w, r, err)
		return
	}
	req := service.SignupRequest{
		Username:        r.PostForm.Get("username"),
		Email:           r.PostForm.Get("email"),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirm_password"),
	}

	_, sess, err := s.auth.Signup(r.Context(), req)
	if err != nil {
		data := view.AuthData{Username: req.Username, Email: req.Email}
		switch {
		case errors.Is(err, domain.ErrValidation):
			data.Error = formMessage(err)
			s.render(w, r, http.StatusUnprocessableEntity, view.PageSignup, data)
		case errors.Is(err, domain.ErrConflict):
			data.Error = msgUsernameTaken
			s.render(w, r, http.StatusConflict, view.PageSignup, data)
		default:
			s.serverError(w, r, err)
		}
		return
	}

	middleware.SetSessionCookie(w, sess, s.secureCookies)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout. It always clears the cookie, even if the
// session store could not be reached.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(middleware.SessionCookie); err == nil {
		if err := s.auth.Logout(r.Context(), c.Value); err != nil {
			s.log.WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	middleware.ClearSessionCookie(w, s.secureCookies)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
