package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapp/internal/session"
)

func newRouter(m *session.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(m.Middleware())

	router.GET("/login", func(c *gin.Context) {
		_ = m.Issue(c, "alice", "a@x.com")
		c.Status(http.StatusOK)
	})
	router.GET("/whoami", func(c *gin.Context) {
		claims, ok := session.Current(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, claims.Username)
	})
	router.GET("/private", session.RequireSession(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func sessionCookie(t *testing.T, resp *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == session.CookieName {
			return cookie
		}
	}
	return nil
}

func TestIssueAndVerify(t *testing.T) {
	m := session.NewManager("secret", 2*time.Minute, time.Minute)
	router := newRouter(m)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/login", nil))

	cookie := sessionCookie(t, resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	claims, err := m.Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(2*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestMiddlewareAttachesSession(t *testing.T) {
	m := session.NewManager("secret", 2*time.Minute, time.Minute)
	router := newRouter(m)

	login := httptest.NewRecorder()
	router.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookie := sessionCookie(t, login)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, "alice", resp.Body.String())
}

func TestAnonymousRequest(t *testing.T) {
	m := session.NewManager("secret", 2*time.Minute, time.Minute)
	router := newRouter(m)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, "anonymous", resp.Body.String())
}

func TestRequireSessionRedirectsToLogin(t *testing.T) {
	m := session.NewManager("secret", 2*time.Minute, time.Minute)
	router := newRouter(m)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/private", nil))

	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/login", resp.Header().Get("Location"))
}

func TestExpiredTokenIsAnonymous(t *testing.T) {
	short := session.NewManager("secret", -time.Minute, time.Minute)
	router := newRouter(short)

	login := httptest.NewRecorder()
	router.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookie := sessionCookie(t, login)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(cookie)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusSeeOther, resp.Code)
}

func TestTamperedTokenIsRejected(t *testing.T) {
	m := session.NewManager("secret", 2*time.Minute, time.Minute)
	other := session.NewManager("different-secret", 2*time.Minute, time.Minute)
	router := newRouter(other)

	login := httptest.NewRecorder()
	newRouter(m).ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookie := sessionCookie(t, login)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(cookie)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusSeeOther, resp.Code)
}

func TestTokenWithoutExpiryIsRejected(t *testing.T) {
	m := session.NewManager("secret", 2*time.Minute, time.Minute)

	// signature-valid token that never expires; must not be honoured
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "alice",
		"email":    "a@x.com",
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Verify(signed)
	assert.Error(t, err)

	router := newRouter(m)
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: signed})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/login", resp.Header().Get("Location"))
}

func TestSlidingExtension(t *testing.T) {
	// duration shorter than the extension puts every request inside the
	// reissue window
	m := session.NewManager("secret", 30*time.Second, time.Minute)
	router := newRouter(m)

	login := httptest.NewRecorder()
	router.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookie := sessionCookie(t, login)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	reissued := sessionCookie(t, resp)
	require.NotNil(t, reissued, "cookie should be reissued inside the extension window")

	claims, err := m.Verify(reissued.Value)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}
