package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func signed(t *testing.T, method jwt.SigningMethod, key interface{}) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, jwt.MapClaims{"sub": "phone"}).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestRequestID(t *testing.T) {
	r := newRouter(RequestID(), Logger())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Header().Get(RequestIDHeader))
}

func TestTokenAuth(t *testing.T) {
	secret := "s3cret"
	r := newRouter(TokenAuth(secret))

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"valid", signed(t, jwt.SigningMethodHS256, []byte(secret)), http.StatusOK},
		{"wrong secret", signed(t, jwt.SigningMethodHS256, []byte("other")), http.StatusBadRequest},
		{"wrong algorithm", signed(t, jwt.SigningMethodHS512, []byte(secret)), http.StatusBadRequest},
		{"garbage", "not-a-token", http.StatusBadRequest},
		{"missing", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?token="+tt.token, nil))
			assert.Equal(t, tt.want, w.Code)
			if tt.want != http.StatusOK {
				assert.Contains(t, w.Body.String(), "Invalid token")
			}
		})
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	secret := []byte("s3cret")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)

	_, err = VerifyToken(token, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestRequireUserAgent(t *testing.T) {
	r := newRouter(RequireUserAgent("OwnTracks"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "Owntracks/2.4 (iPhone)")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req.Header.Set("User-Agent", "OwnTracks/2.4 (iPhone)")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"))
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(1, time.Millisecond)
	rl.Allow("10.0.0.1")
	time.Sleep(5 * time.Millisecond)

	assert.Equal(t, 1, rl.Cleanup())
	assert.Empty(t, rl.limiters)
}

func TestRateLimit(t *testing.T) {
	r := newRouter(RateLimit(2, time.Hour))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
