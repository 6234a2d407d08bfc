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

func sessionRouter(cfg SessionConfig) (*gin.Engine, *string) {
	var merchant string
	r := gin.New()
	r.GET("/ping", Session(cfg), func(c *gin.Context) {
		merchant = GetMerchant(c)
		c.Status(http.StatusOK)
	})
	return r, &merchant
}

func signedToken(t *testing.T, secret, dest, issuer string, expiresIn time.Duration) string {
	t.Helper()
	claims := sessionClaims{
		Dest: dest,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestSession_ValidToken(t *testing.T) {
	cfg := SessionConfig{Secret: "topsecret", Issuer: "fulfillbridge"}
	r, merchant := sessionRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "topsecret", "https://shop.example.com", "fulfillbridge", time.Minute))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "shop.example.com", *merchant)
}

func TestSession_WrongSecret(t *testing.T) {
	r, _ := sessionRouter(SessionConfig{Secret: "topsecret"})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "othersecret", "https://shop.example.com", "", time.Minute))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSession_ExpiredToken(t *testing.T) {
	r, _ := sessionRouter(SessionConfig{Secret: "topsecret"})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "topsecret", "https://shop.example.com", "", -time.Minute))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSession_MissingToken(t *testing.T) {
	r, _ := sessionRouter(SessionConfig{Secret: "topsecret"})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSession_HeaderFallbackWithoutSecret(t *testing.T) {
	r, merchant := sessionRouter(SessionConfig{})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(MerchantHeader, "dev-shop.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dev-shop.example.com", *merchant)
}
