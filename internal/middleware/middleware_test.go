package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growth-assistant-go/pkg/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionRouter(m *token.JWTManager) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(), SessionMiddleware(m, SessionOptions{CookieName: "sid"}))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, SessionID(c)) })
	return r
}

func TestSessionMiddleware_IssuesCookieForNewVisitor(t *testing.T) {
	m := token.NewJWTManager("secret", time.Hour)
	r := sessionRouter(m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	sessionID := w.Body.String()
	assert.NotEmpty(t, sessionID)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	claims, err := m.VerifyToken(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
}

func TestSessionMiddleware_ReusesValidCookie(t *testing.T) {
	m := token.NewJWTManager("secret", time.Hour)
	r := sessionRouter(m)
	signed, err := m.GenerateToken("existing")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: signed})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "existing", w.Body.String())
	assert.Empty(t, w.Result().Cookies())
}

func TestSessionMiddleware_ReplacesForgedCookie(t *testing.T) {
	m := token.NewJWTManager("secret", time.Hour)
	forged, err := token.NewJWTManager("other", time.Hour).GenerateToken("stolen")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: forged})
	w := httptest.NewRecorder()
	sessionRouter(m).ServeHTTP(w, req)

	assert.NotEqual(t, "stolen", w.Body.String())
	assert.Len(t, w.Result().Cookies(), 1)
}

func TestDataAPIKeyMiddleware(t *testing.T) {
	newRouter := func(key string) *gin.Engine {
		r := gin.New()
		r.GET("/data", DataAPIKeyMiddleware(key), func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	tests := []struct {
		name   string
		key    string
		header string
		query  string
		want   int
	}{
		{name: "open when unset", key: "", want: http.StatusOK},
		{name: "header", key: "k1", header: "k1", want: http.StatusOK},
		{name: "query", key: "k1", query: "?api_key=k1", want: http.StatusOK},
		{name: "missing", key: "k1", want: http.StatusUnauthorized},
		{name: "wrong", key: "k1", header: "nope", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/data"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			w := httptest.NewRecorder()
			newRouter(tt.key).ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
