// middleware_test.go tests visitor identity and rate limiting.
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetVisitorID(c))
	})
	return r
}

func visitorCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == VisitorCookie {
			return ck
		}
	}
	t.Fatalf("no %s cookie set", VisitorCookie)
	return nil
}

func TestVisitorTokenRoundTrip(t *testing.T) {
	id := uuid.NewString()
	token, err := IssueVisitorToken(id, testSecret, time.Hour)
	require.NoError(t, err)

	got, err := ParseVisitorToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseVisitorToken(token, "other-secret")
	assert.Error(t, err, "wrong secret")

	expired, err := IssueVisitorToken(id, testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseVisitorToken(expired, testSecret)
	assert.Error(t, err, "expired")

	notUUID, err := IssueVisitorToken("alice", testSecret, time.Hour)
	require.NoError(t, err)
	_, err = ParseVisitorToken(notUUID, testSecret)
	assert.Error(t, err, "subject must be a uuid")
}

func TestVisitor(t *testing.T) {
	r := newRouter(Visitor(testSecret, time.Hour))

	// First visit issues a fresh identity.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	first := w.Body.String()
	_, err := uuid.Parse(first)
	require.NoError(t, err)
	ck := visitorCookie(t, w)
	assert.True(t, ck.HttpOnly)

	// Returning with the cookie keeps it.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, first, w.Body.String())

	// A forged cookie is replaced.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookie, Value: "not-a-jwt"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, first, w.Body.String())
	assert.NotEmpty(t, w.Body.String())
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(2)
	r := newRouter(Visitor(testSecret, time.Hour), rl.RateLimit())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	ck := visitorCookie(t, w)

	codes := []int{}
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(ck)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")

	// Another visitor has its own bucket.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	r := newRouter(NewRateLimiter(0).RateLimit())
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(10)
	rl.allow("a")
	assert.Equal(t, 0, rl.sweep(time.Now()))
	assert.Equal(t, 1, rl.sweep(time.Now().Add(2*time.Hour)))
}

func TestCORS_PreflightAllowsSessionReset(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:8080"}))
	r.DELETE("/api/v1/session", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/session", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
	assert.Equal(t, "http://localhost:8080", w.Header().Get("Access-Control-Allow-Origin"))
}
