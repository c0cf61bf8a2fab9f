package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jengzang/location-history-go/internal/logging"
	"github.com/jengzang/location-history-go/pkg/response"
)

// TokenParam is the query parameter carrying the update token
const TokenParam = "token"

var errMissingToken = errors.New("missing token")

// VerifyToken checks an HS256 token signed with secret
func VerifyToken(tokenString string, secret []byte) (jwt.MapClaims, error) {
	if tokenString == "" {
		return nil, errMissingToken
	}
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// TokenAuth rejects requests without a valid token query parameter
func TokenAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	log := logging.With("auth")

	return func(c *gin.Context) {
		if _, err := VerifyToken(c.Query(TokenParam), key); err != nil {
			log.Warn().Err(err).Str("client_ip", c.ClientIP()).Msg("rejected token")
			response.Abort(c, http.StatusBadRequest, "Invalid token")
			return
		}
		c.Next()
	}
}

// RequireUserAgent rejects clients whose User-Agent lacks prefix
func RequireUserAgent(prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.UserAgent(), prefix) {
			response.Abort(c, http.StatusBadRequest, "Invalid client")
			return
		}
		c.Next()
	}
}
