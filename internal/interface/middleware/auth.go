package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/notekeeper/internal/application"
	"github.com/oksasatya/notekeeper/pkg/helpers"
	"github.com/oksasatya/notekeeper/pkg/response"
)

const (
	// HeaderAuthToken carries the raw signed session token.
	HeaderAuthToken = "x-auth-token"

	CtxUserIDKey = "userID"
	CtxClaimsKey = "claims"
)

// Auth validates the x-auth-token session token and rejects revoked sessions.
// It sets userID and claims in the Gin context on success.
func Auth(jwt *helpers.JWTManager, revocations application.RevocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderAuthToken)
		if token == "" {
			unauthorized(c, "missing session token")
			return
		}
		claims, err := jwt.ParseSessionToken(token)
		if err != nil {
			unauthorized(c, "invalid session token")
			return
		}
		if revocations != nil && claims.ID != "" {
			revoked, err := revocations.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil || revoked {
				unauthorized(c, "session revoked")
				return
			}
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}

// UserID returns the authenticated user id, or "" outside Auth.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}

// SessionClaims returns the parsed token claims set by Auth.
func SessionClaims(c *gin.Context) *helpers.Claims {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*helpers.Claims)
	return claims
}

func unauthorized(c *gin.Context, msg string) {
	response.Error[any](c, http.StatusUnauthorized, msg, response.ErrorBody{Code: application.Code(application.ErrUnauthorized)})
}
