package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/fulfillbridge/backend/internal/interfaces/http/dto"
)

const (
	// MerchantKey is the gin context key holding the authenticated merchant
	// domain
	MerchantKey = "merchant"
	// MerchantHeader is the development fallback header used when no
	// session secret is configured
	MerchantHeader = "X-Merchant-Domain"

	authHeaderKey = "Authorization"
	bearerPrefix  = "Bearer "
)

var errInvalidSessionToken = errors.New("invalid session token")

// SessionConfig configures the embedded-app session middleware.
type SessionConfig struct {
	// Secret is the HMAC key session tokens are signed with. When empty,
	// authentication falls back to the merchant header; config validation
	// forbids that outside development.
	Secret string
	// Issuer, when set, must match the token's iss claim.
	Issuer string
}

// sessionClaims are the claims of an embedded-app session token. Dest
// carries the merchant's shop domain as a URL.
type sessionClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

// Session authenticates dashboard requests with the platform's embedded-app
// session token and puts the merchant domain on the context.
func Session(cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Secret == "" {
			merchant := c.GetHeader(MerchantHeader)
			if merchant == "" {
				abortUnauthorized(c, "missing merchant header")
				return
			}
			c.Set(MerchantKey, merchant)
			c.Next()
			return
		}

		authHeader := c.GetHeader(authHeaderKey)
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

		merchant, err := parseSessionToken(tokenString, cfg)
		if err != nil {
			abortUnauthorized(c, "invalid session token")
			return
		}

		c.Set(MerchantKey, merchant)
		c.Next()
	}
}

func parseSessionToken(tokenString string, cfg SessionConfig) (string, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.Issuer))
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	}, parserOpts...)
	if err != nil {
		return "", fmt.Errorf("parse session token: %w", err)
	}
	if !token.Valid || claims.Dest == "" {
		return "", errInvalidSessionToken
	}

	merchant := strings.TrimPrefix(claims.Dest, "https://")
	merchant = strings.TrimPrefix(merchant, "http://")
	merchant = strings.TrimSuffix(merchant, "/")
	if merchant == "" {
		return "", errInvalidSessionToken
	}
	return merchant, nil
}

// GetMerchant returns the authenticated merchant domain, or "" when the
// request did not pass the session middleware.
func GetMerchant(c *gin.Context) string {
	return c.GetString(MerchantKey)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}
