// Package view renders the server-side HTML pages from templates embedded in
// the binary.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/pkordes/easytrip/backend/internal/domain"
)

//go:embed templates/*.html
var files embed.FS

// Page names accepted by Render.
const (
	PageHome      = "home"
	PageDetail    = "detail"
	PageDashboard = "dashboard"
	PageLogin     = "login"
	PageSignup    = "signup"
	PageError     = "error"
)

var pages = []string{PageHome, PageDetail, PageDashboard, PageLogin, PageSignup, PageError}

// Interests are the checkboxes offered on the planning form.
var Interests = []string{"Food", "Culture", "History", "Art", "Nature", "Nightlife", "Shopping", "Adventure"}

// TripForm holds the submitted planning form so it can be shown again
// after a validation error.
type TripForm struct {
	Destination string
	TripLength  string
	GroupSize   string
	StartDate   string
	EndDate     string
	Interests   []string
}

// Checked reports whether interest was ticked on the submitted form.
func (f TripForm) Checked(interest string) bool {
	for _, i := range f.Interests {
		if i == interest {
			return true
		}
	}
	return false
}

// HomeData is the model for the home page.
type HomeData struct {
	User        *domain.User
	Form        TripForm
	Error       string
	RecentTrips []domain.Trip
}

// DetailData is the model for the trip detail page.
type DetailData struct {
	User      *domain.User
	Trip      domain.Trip
	Days      []domain.ItineraryDay
	CanDelete bool
}

// DashboardData is the model for the dashboard page.
type DashboardData struct {
	User  *domain.User
	Trips []domain.Trip
}

// AuthData is the model for the login and signup pages. The password is
// never echoed back.
type AuthData struct {
	User     *domain.User
	Error    string
	Username string
	Email    string
	Next     string
}

// ErrorData is the model for the error page.
type ErrorData struct {
	User    *domain.User
	Status  int
	Message string
}

// Renderer executes the page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page together with the shared layout.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("view.New: parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes page with data and writes it with the given status.
// The page is rendered into a buffer first so a template error never leaves
// a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("view.Render: unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("view.Render: %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

var funcs = template.FuncMap{
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"join":       strings.Join,
	"statusText": http.StatusText,
	"interests":  func() []string { return Interests },
}
