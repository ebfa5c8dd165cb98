package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/confirm"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authFixture struct {
	router   *gin.Engine
	store    *memory.Store
	sessions *session.Manager
}

func newAuthFixture() *authFixture {
	store := memory.New()
	sessions := session.NewManager("secret", confirm.NewMemoryStore())
	auth := NewAuthenticator(sessions, store, zap.NewNop())

	r := gin.New()
	r.GET("/me", auth.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": Actor(c).ID})
	})
	r.GET("/admin", auth.Middleware(), RequireAny(access.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return &authFixture{router: r, store: store, sessions: sessions}
}

func (f *authFixture) get(path, token string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w.Code
}

func (f *authFixture) user(t *testing.T, roles access.Set) (*models.User, string) {
	t.Helper()
	u := &models.User{Email: "u@clinic.test", Roles: roles, Status: models.UserStatusActive}
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	token, err := f.sessions.Issue(u)
	require.NoError(t, err)
	return u, token
}

func TestAuthenticator(t *testing.T) {
	f := newAuthFixture()
	u, token := f.user(t, access.NewSet())

	assert.Equal(t, http.StatusUnauthorized, f.get("/me", ""))
	assert.Equal(t, http.StatusUnauthorized, f.get("/me", "garbage"))
	assert.Equal(t, http.StatusOK, f.get("/me", token))
	assert.Equal(t, http.StatusForbidden, f.get("/admin", token))

	u.Status = models.UserStatusInactive
	require.NoError(t, f.store.UpdateUser(context.Background(), u))
	assert.Equal(t, http.StatusUnauthorized, f.get("/me", token))
}

func TestRevokedTokenIsRejected(t *testing.T) {
	f := newAuthFixture()
	_, token := f.user(t, access.NewSet(access.RoleAdmin))
	assert.Equal(t, http.StatusNoContent, f.get("/admin", token))

	claims, err := f.sessions.Parse(token)
	require.NoError(t, err)
	require.NoError(t, f.sessions.Revoke(context.Background(), claims))

	assert.Equal(t, http.StatusUnauthorized, f.get("/admin", token))
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(2)
	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"))
}
