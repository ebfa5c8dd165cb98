package confirm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// Store keeps single-use values with a TTL. Take must read and delete
// atomically.
type Store interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Take(ctx context.Context, key string) (string, bool, error)
}

// Tokens issues and consumes single-use confirmation tokens bound to a
// purpose, a subject id and the actor that requested them.
type Tokens struct {
	store Store
	ttl   time.Duration
}

func NewTokens(store Store, ttl time.Duration) *Tokens {
	return &Tokens{store: store, ttl: ttl}
}

func key(purpose string, subjectID uint, token string) string {
	return fmt.Sprintf("confirm:%s:%d:%s", purpose, subjectID, token)
}

func (t *Tokens) Issue(
	ctx context.Context,
	purpose string,
	subjectID uint,
	actorID uint,
) (string, error) {
	token := uuid.NewString()
	if err := t.store.Put(ctx, key(purpose, subjectID, token), fmt.Sprint(actorID), t.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Consume burns the token. A missing, expired, reused or foreign token is a
// validation error.
func (t *Tokens) Consume(
	ctx context.Context,
	purpose string,
	subjectID uint,
	actorID uint,
	token string,
) error {
	if token == "" {
		return httperr.ErrBusiness("invalid_confirmation")
	}

	owner, ok, err := t.store.Take(ctx, key(purpose, subjectID, token))
	if err != nil {
		return err
	}
	if !ok || owner != fmt.Sprint(actorID) {
		return httperr.ErrBusiness("invalid_confirmation")
	}
	return nil
}

func (t *Tokens) TTL() time.Duration {
	return t.ttl
}
