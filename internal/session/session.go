// Package session keeps server-side login sessions keyed by an opaque token.
// The browser only ever holds the token.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/pkordes/easytrip/backend/internal/domain"
)

// Store persists sessions. Get returns domain.ErrNotFound for unknown or
// expired tokens. Delete of an unknown token is not an error.
type Store interface {
	Save(ctx context.Context, s domain.Session) error
	Get(ctx context.Context, token string) (domain.Session, error)
	Delete(ctx context.Context, token string) error
}

// NewToken returns 32 random bytes encoded as unpadded base64url.
func NewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("session.NewToken: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
