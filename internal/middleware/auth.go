package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	appErrors "github.com/noah-isme/smm-analytics-api/pkg/errors"
	"github.com/noah-isme/smm-analytics-api/pkg/response"
)

// ContextWorkerKey is the gin context key storing the authenticated worker id.
const ContextWorkerKey = "currentWorker"

// WorkerAuth protects ingestion routes by requiring a bearer token signed with
// the shared worker secret. When auth is disabled the middleware is a no-op,
// which keeps local automation runs friction-free.
func WorkerAuth(secret string, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		workerID, err := validateWorkerToken(parts[1], secret)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid worker token"))
			c.Abort()
			return
		}

		c.Set(ContextWorkerKey, workerID)
		c.Next()
	}
}

func validateWorkerToken(token, secret string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	subject, _ := claims.GetSubject()
	if subject == "" {
		return "", fmt.Errorf("missing subject claim")
	}
	return subject, nil
}
