package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const tokenTTL = 24 * time.Hour

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid subject")
	}
	return uint(id), nil
}

type Store interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Manager signs bearer tokens and keeps the revocation list.
type Manager struct {
	secret []byte
	store  Store
	now    func() time.Time
}

func NewManager(secret string, store Store) *Manager {
	return &Manager{secret: []byte(secret), store: store, now: time.Now}
}

func (m *Manager) Issue(u *models.User) (string, error) {
	now := m.now()
	claims := Claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func revokedKey(jti string) string {
	return "session:revoked:" + jti
}

// Revoke blacklists a token until it would have expired anyway.
func (m *Manager) Revoke(ctx context.Context, c *Claims) error {
	ttl := time.Minute
	if c.ExpiresAt != nil {
		if left := c.ExpiresAt.Sub(m.now()); left > 0 {
			ttl = left
		}
	}
	return m.store.Put(ctx, revokedKey(c.ID), "revoked", ttl)
}

func (m *Manager) IsRevoked(ctx context.Context, c *Claims) (bool, error) {
	return m.store.Exists(ctx, revokedKey(c.ID))
}
