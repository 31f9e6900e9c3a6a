package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pkordes/easytrip/backend/internal/domain"
)

func TestTrip_Ownership(t *testing.T) {
	owner := &domain.User{ID: uuid.New()}
	other := &domain.User{ID: uuid.New()}

	owned := domain.Trip{OwnerID: &owner.ID}
	assert.False(t, owned.IsAnonymous())
	assert.True(t, owned.OwnedBy(owner))
	assert.False(t, owned.OwnedBy(other))
	assert.False(t, owned.OwnedBy(nil))

	anon := domain.Trip{}
	assert.True(t, anon.IsAnonymous())
	assert.False(t, anon.OwnedBy(owner), "nobody owns an anonymous trip")
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := domain.Session{ExpiresAt: now}

	assert.False(t, s.Expired(now.Add(-time.Second)))
	assert.True(t, s.Expired(now), "a session expires at ExpiresAt exactly")
	assert.True(t, s.Expired(now.Add(time.Second)))
}
