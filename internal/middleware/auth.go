package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/session"
)

const (
	ContextActor  = "actor"
	ContextClaims = "claims"
)

// Authenticator turns a bearer token into an access.Actor. The account is
// reloaded on every request so role changes and deactivation apply at once.
type Authenticator struct {
	sessions *session.Manager
	users    user.Repository
	log      *zap.Logger
}

func NewAuthenticator(sessions *session.Manager, users user.Repository, log *zap.Logger) *Authenticator {
	return &Authenticator{sessions: sessions, users: users, log: log}
}

func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Authentication required.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Authentication required.")
			return
		}

		claims, err := a.sessions.Parse(parts[1])
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Authentication required.")
			return
		}

		revoked, err := a.sessions.IsRevoked(c.Request.Context(), claims)
		if err != nil {
			httperr.Respond(c, a.log, err)
			return
		}
		if revoked {
			httperr.Unauthorized(c, "token_revoked", "Authentication required.")
			return
		}

		id, err := claims.UserID()
		if err != nil {
			httperr.Unauthorized(c, "invalid_token_payload", "Authentication required.")
			return
		}

		u, err := a.users.GetUser(c.Request.Context(), id)
		if httperr.IsKind(err, httperr.KindNotFound) {
			httperr.Unauthorized(c, "unauthorized", "Authentication required.")
			return
		}
		if err != nil {
			httperr.Respond(c, a.log, err)
			return
		}
		if !u.IsActive() {
			httperr.Unauthorized(c, "account_inactive", httperr.MessageFor("account_inactive"))
			return
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextActor, access.Actor{ID: u.ID, Email: u.Email, Roles: u.Roles})

		c.Next()
	}
}

// RequireAny lets the request through when the actor holds one of roles.
func RequireAny(roles ...access.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := Actor(c)
		for _, r := range roles {
			if actor.Roles.Has(r) {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "forbidden", httperr.MessageFor("forbidden"))
	}
}

func Actor(c *gin.Context) access.Actor {
	return c.MustGet(ContextActor).(access.Actor)
}

func Claims(c *gin.Context) *session.Claims {
	return c.MustGet(ContextClaims).(*session.Claims)
}
