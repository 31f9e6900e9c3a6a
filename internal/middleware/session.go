package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pkordes/easytrip/backend/internal/domain"
)

// SessionCookie is the name of the cookie that carries the session token.
const SessionCookie = "easytrip_session"

type userKey struct{}

// Identifier resolves a session token to its user. It returns
// domain.ErrNotFound when the token is unknown or expired.
type Identifier interface {
	Identify(ctx context.Context, token string) (domain.User, error)
}

// NewSessionHandler returns a middleware that resolves the session cookie to
// a user and stores it in the request context. Requests without a valid
// session continue anonymously; a stale cookie is cleared.
func NewSessionHandler(id Identifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookie)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := id.Identify(r.Context(), c.Value)
			switch {
			case err == nil:
				r = r.WithContext(WithUser(r.Context(), &user))
			case errors.Is(err, domain.ErrNotFound):
				ClearSessionCookie(w, false)
			default:
				// Store outage: serve the request anonymously rather than fail it.
				log.WarnContext(r.Context(), "session lookup failed", "error", err)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// CurrentUser returns the signed-in user, or nil for anonymous requests.
func CurrentUser(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userKey{}).(*domain.User)
	return u
}

// SetSessionCookie writes the session cookie for s.
func SetSessionCookie(w http.ResponseWriter, s domain.Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie tells the browser to drop the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
