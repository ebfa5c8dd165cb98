package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/confirm"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("secret", confirm.NewMemoryStore())

	tok, err := m.Issue(&models.User{ID: 42, Email: "p@clinic.test"})
	require.NoError(t, err)

	claims, err := m.Parse(tok)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "p@clinic.test", claims.Email)
	assert.NotEmpty(t, claims.ID)
}

func TestParseRejectsForeignSecretAndExpiry(t *testing.T) {
	m := NewManager("secret", confirm.NewMemoryStore())
	tok, err := m.Issue(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = NewManager("other", confirm.NewMemoryStore()).Parse(tok)
	assert.Error(t, err)

	m.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	_, err = m.Parse(tok)
	assert.Error(t, err)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	m := NewManager("secret", confirm.NewMemoryStore())

	tok, err := m.Issue(&models.User{ID: 1})
	require.NoError(t, err)
	claims, err := m.Parse(tok)
	require.NoError(t, err)

	revoked, err := m.IsRevoked(ctx, claims)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, m.Revoke(ctx, claims))

	revoked, err = m.IsRevoked(ctx, claims)
	require.NoError(t, err)
	assert.True(t, revoked)
}
