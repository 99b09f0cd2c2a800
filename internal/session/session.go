package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName is the cookie carrying the signed session token.
	CookieName = "blog_session"

	contextKey = "session"
)

// ErrNoSession is returned when a request carries no valid session.
var ErrNoSession = errors.New("no valid session")

// Claims is the payload of the client-held session token.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Manager issues and verifies client-held session tokens. Tokens are HS256
// signed JWTs stored in an HttpOnly cookie; the server keeps no session
// state of its own.
type Manager struct {
	secret    []byte
	duration  time.Duration
	extension time.Duration
}

func NewManager(secret string, duration, extension time.Duration) *Manager {
	return &Manager{
		secret:    []byte(secret),
		duration:  duration,
		extension: extension,
	}
}

// Issue writes a fresh session cookie for the given user, valid for the
// configured duration.
func (m *Manager) Issue(c *gin.Context, username, email string) error {
	return m.setCookie(c, username, email, time.Now().Add(m.duration))
}

// Clear destroys the session by overwriting the cookie with an expired one.
func (m *Manager) Clear(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}

// Middleware parses the session cookie on every request. When the token is
// valid the claims are stored on the context and, if the session is inside
// its final extension window, the cookie is reissued with the expiry pushed
// out - the sliding "active" behaviour. Requests without a valid session
// pass through anonymously.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := m.Verify(token)
		if err != nil {
			// expired or tampered token behaves like no session at all
			m.Clear(c)
			c.Next()
			return
		}

		c.Set(contextKey, claims)

		if remaining := time.Until(claims.ExpiresAt.Time); remaining < m.extension {
			// best effort: a failed reissue leaves the current token in place
			_ = m.setCookie(c, claims.Username, claims.Email, time.Now().Add(m.extension))
		}

		c.Next()
	}
}

// RequireSession gates a route group: anonymous requests are redirected to
// the login page.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := Current(c); !ok {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Current returns the session claims attached to the request, if any.
func Current(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// Verify parses and validates a raw token string.
func (m *Manager) Verify(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrNoSession
	}
	return claims, nil
}

func (m *Manager) setCookie(c *gin.Context, username, email string, expires time.Time) error {
	claims := Claims{
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	maxAge := int(time.Until(expires).Seconds())
	c.SetCookie(CookieName, signed, maxAge, "/", "", false, true)
	return nil
}
