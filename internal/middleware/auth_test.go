package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftbus/service-ticketing/internal/middleware"
	"github.com/swiftbus/service-ticketing/internal/session"
)

// stubStore serves a fixed token-to-session mapping.
type stubStore struct {
	sessions map[string]*session.Session
}

func (s *stubStore) Create(_ context.Context, _ session.Session) (string, error) {
	return "", nil
}

func (s *stubStore) Get(_ context.Context, token string) (*session.Session, error) {
	return s.sessions[token], nil
}

func (s *stubStore) Delete(_ context.Context, _ string) error {
	return nil
}

func newTestRouter(store session.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.SessionMiddleware(store))

	r.GET("/open", func(c *gin.Context) {
		_, ok := middleware.GetSession(c)
		c.JSON(http.StatusOK, gin.H{"has_session": ok})
	})
	r.GET("/user", middleware.RequireSession(), func(c *gin.Context) {
		sess, _ := middleware.GetSession(c)
		c.JSON(http.StatusOK, gin.H{"account_id": sess.AccountID})
	})
	r.GET("/admin", middleware.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(r *gin.Engine, token string) func(path string) *httptest.ResponseRecorder {
	return func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}
}

func TestSessionMiddleware_NoCookie(t *testing.T) {
	r := newTestRouter(&stubStore{sessions: map[string]*session.Session{}})
	get := doRequest(r, "")

	assert.Equal(t, http.StatusOK, get("/open").Code)
	assert.Equal(t, http.StatusUnauthorized, get("/user").Code)
	assert.Equal(t, http.StatusUnauthorized, get("/admin").Code)
}

func TestSessionMiddleware_UnknownToken(t *testing.T) {
	r := newTestRouter(&stubStore{sessions: map[string]*session.Session{}})
	get := doRequest(r, "stale-token")

	w := get("/user")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "please log in first")
}

func TestSessionMiddleware_ValidSession(t *testing.T) {
	accountID := uuid.New()
	store := &stubStore{sessions: map[string]*session.Session{
		"good-token": {AccountID: accountID, Username: "asha"},
	}}
	r := newTestRouter(store)
	get := doRequest(r, "good-token")

	w := get("/user")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), accountID.String())

	// A regular session is not enough for admin routes.
	assert.Equal(t, http.StatusForbidden, get("/admin").Code)
}

func TestSessionMiddleware_AdminSession(t *testing.T) {
	store := &stubStore{sessions: map[string]*session.Session{
		"admin-token": {AccountID: uuid.New(), Username: "root", IsAdmin: true},
	}}
	r := newTestRouter(store)
	get := doRequest(r, "admin-token")

	assert.Equal(t, http.StatusOK, get("/admin").Code)
}
