package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/easytrip/backend/internal/domain"
	"github.com/pkordes/easytrip/backend/internal/metrics"
	"github.com/pkordes/easytrip/backend/internal/repo"
	"github.com/pkordes/easytrip/backend/internal/session"
)

// maxUsernameLength matches the column width most account systems use.
const maxUsernameLength = 150

// SignupRequest carries the signup form.
type SignupRequest struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// AuthOptions configures an AuthService.
type AuthOptions struct {
	SessionTTL time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost. Tests use bcrypt.MinCost.
	BcryptCost int
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
}

// AuthService is the credential store: accounts, password checks and sessions.
type AuthService struct {
	users     repo.UserRepo
	sessions  session.Store
	ttl       time.Duration
	cost      int
	dummyHash []byte
	now       func() time.Time
	log       *slog.Logger
	metrics   *metrics.Metrics
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repo.UserRepo, sessions session.Store, opts AuthOptions) *AuthService {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 14 * 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	// Compared against when the username is unknown so both failure paths
	// spend the same bcrypt time.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("easytrip-dummy-password"), opts.BcryptCost)
	return &AuthService{
		users:     users,
		sessions:  sessions,
		ttl:       opts.SessionTTL,
		cost:      opts.BcryptCost,
		dummyHash: dummy,
		now:       time.Now,
		log:       opts.Logger,
		metrics:   opts.Metrics,
	}
}

// Signup creates an account and signs it in.
// Returns domain.ErrValidation for bad input (including mismatched
// passwords) and domain.ErrConflict if the username is taken.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (domain.User, domain.Session, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	switch {
	case username == "":
		return domain.User{}, domain.Session{}, fmt.Errorf("%w: username is required", domain.ErrValidation)
	case len(username) > maxUsernameLength:
		return domain.User{}, domain.Session{}, fmt.Errorf("%w: username must be at most %d characters", domain.ErrValidation, maxUsernameLength)
	case req.Password == "":
		return domain.User{}, domain.Session{}, fmt.Errorf("%w: password is required", domain.ErrValidation)
	case req.Password != req.ConfirmPassword:
		return domain.User{}, domain.Session{}, fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return domain.User{}, domain.Session{}, fmt.Errorf("%w: email address is not valid", domain.ErrValidation)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return domain.User{}, domain.Session{}, fmt.Errorf("%w: password is too long", domain.ErrValidation)
		}
		return domain.User{}, domain.Session{}, fmt.Errorf("service.AuthService.Signup: hash: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{Username: username, Email: email, PasswordHash: string(hash)})
	if err != nil {
		return domain.User{}, domain.Session{}, fmt.Errorf("service.AuthService.Signup: %w", err)
	}
	if s.metrics != nil {
		s.metrics.UsersCreated.Inc()
	}

	sess, err := s.issue(ctx, user)
	if err != nil {
		return domain.User{}, domain.Session{}, fmt.Errorf("service.AuthService.Signup: %w", err)
	}
	s.log.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return user, sess, nil
}

// Login checks the credentials and opens a session.
// Returns domain.ErrInvalidCredentials for an unknown user or wrong password.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, domain.Session, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.Session{}, fmt.Errorf("service.AuthService.Login: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		s.countLogin(false)
		return domain.User{}, domain.Session{}, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.countLogin(false)
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return domain.User{}, domain.Session{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, domain.Session{}, fmt.Errorf("service.AuthService.Login: verify: %w", err)
	}

	sess, err := s.issue(ctx, user)
	if err != nil {
		return domain.User{}, domain.Session{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	s.countLogin(true)
	return user, sess, nil
}

// Logout ends the session. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("service.AuthService.Logout: %w", err)
	}
	return nil
}

// Identify resolves a session token to its user.
// Returns domain.ErrNotFound for unknown or expired tokens and for sessions
// whose user no longer exists.
func (s *AuthService) Identify(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, domain.ErrNotFound
	}
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Identify: %w", err)
	}
	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = s.sessions.Delete(ctx, token)
		}
		return domain.User{}, fmt.Errorf("service.AuthService.Identify: %w", err)
	}
	return user, nil
}

func (s *AuthService) issue(ctx context.Context, user domain.User) (domain.Session, error) {
	token, err := session.NewToken()
	if err != nil {
		return domain.Session{}, err
	}
	now := s.now()
	sess := domain.Session{Token: token, UserID: user.ID, CreatedAt: now, ExpiresAt: now.Add(s.ttl)}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

func (s *AuthService) countLogin(success bool) {
	if s.metrics != nil {
		s.metrics.IncLogin(success)
	}
}
