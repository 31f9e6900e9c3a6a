package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/easytrip/backend/internal/domain"
	"github.com/pkordes/easytrip/backend/internal/handler"
	"github.com/pkordes/easytrip/backend/internal/middleware"
	"github.com/pkordes/easytrip/backend/internal/service"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	plan        func(ctx context.Context, req domain.PlanRequest, requester *domain.User) (domain.Trip, error)
	get         func(ctx context.Context, id uuid.UUID) (domain.TripDetail, error)
	listForUser func(ctx context.Context, requester *domain.User, limit int) ([]domain.Trip, error)
	delete      func(ctx context.Context, id uuid.UUID, requester *domain.User) error
}

func (m *mockTripServicer) Plan(ctx context.Context, req domain.PlanRequest, requester *domain.User) (domain.Trip, error) {
	return m.plan(ctx, req, requester)
}
func (m *mockTripServicer) Get(ctx context.Context, id uuid.UUID) (domain.TripDetail, error) {
	return m.get(ctx, id)
}
func (m *mockTripServicer) ListForUser(ctx context.Context, requester *domain.User, limit int) ([]domain.Trip, error) {
	return m.listForUser(ctx, requester, limit)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID, requester *domain.User) error {
	return m.delete(ctx, id, requester)
}

// mockAuthServicer is a test double for handler.AuthServicer.
type mockAuthServicer struct {
	signup func(ctx context.Context, req service.SignupRequest) (domain.User, domain.Session, error)
	login  func(ctx context.Context, username, password string) (domain.User, domain.Session, error)
	logout func(ctx context.Context, token string) error
}

func (m *mockAuthServicer) Signup(ctx context.Context, req service.SignupRequest) (domain.User, domain.Session, error) {
	return m.signup(ctx, req)
}
func (m *mockAuthServicer) Login(ctx context.Context, username, password string) (domain.User, domain.Session, error) {
	return m.login(ctx, username, password)
}
func (m *mockAuthServicer) Logout(ctx context.Context, token string) error {
	return m.logout(ctx, token)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer = (*mockTripServicer)(nil)
	_ handler.AuthServicer = (*mockAuthServicer)(nil)
)

// fakeRenderer records the last page rendered instead of executing templates.
type fakeRenderer struct {
	page   string
	status int
	data   any
}

func (f *fakeRenderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	f.page, f.status, f.data = page, status, data
	w.WriteHeader(status)
	_, err := io.WriteString(w, page)
	return err
}

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newHTTPHandler wires a Server with the given mocks into a chi router the
// way main.go does. A non-nil user is placed in every request context as the
// session middleware would.
func newHTTPHandler(trips handler.TripServicer, auth handler.AuthServicer, user *domain.User) (http.Handler, *fakeRenderer) {
	views := &fakeRenderer{}
	srv := handler.NewServer(trips, auth, views, discardLogger(), false)

	r := chi.NewRouter()
	if user != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
			})
		})
	}
	srv.Mount(r)
	return r, views
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func userFixture() *domain.User {
	return &domain.User{ID: uuid.New(), Username: "ana"}
}

func noTrips(context.Context, *domain.User, int) ([]domain.Trip, error) {
	return []domain.Trip{}, nil
}

// newServerWithViews is newHTTPHandler with a caller-supplied renderer.
func newServerWithViews(trips handler.TripServicer, views handler.Renderer) http.Handler {
	r := chi.NewRouter()
	handler.NewServer(trips, nil, views, discardLogger(), false).Mount(r)
	return r
}
