package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID   = "user_id"
	ContextUserName = "user_name"
)

var errMissingToken = errors.New("missing bearer token")

// AuthMiddleware 校验 HS256 签名的 Bearer token, 并把 sub 写入 user_id
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		sub, name, err := parseToken(c.GetHeader("Authorization"), key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		c.Set(ContextUserID, sub)
		if name != "" {
			c.Set(ContextUserName, name)
		}
		c.Next()
	}
}

func parseToken(header string, key []byte) (sub, name string, err error) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", errMissingToken
	}
	raw := strings.TrimSpace(header[len(prefix):])

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", "", err
	}

	sub, err = claims.GetSubject()
	if err != nil {
		return "", "", err
	}
	if sub == "" {
		return "", "", errors.New("empty sub claim")
	}
	name, _ = claims["name"].(string)
	return sub, name, nil
}
