package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/licitacrm/licitacrm/internal/common"
	"github.com/licitacrm/licitacrm/internal/server/models"
)

const identityKey = "identity"

// RequireAccess verifies the access token of every request it guards and
// answers 401 when it is missing, invalid or expired. The body is the same
// in every case. The token is read from the access cookie, falling back to
// an "Authorization: Bearer" header.
func RequireAccess(tokens AccessVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookieValue(c, common.AccessTokenCookieName)
		if token == "" {
			token = bearerToken(c.GetHeader("Authorization"))
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgInvalidAccess})
			return
		}

		claims, err := tokens.VerifyAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgInvalidAccess})
			return
		}

		c.Set(identityKey, claims.Identity())
		c.Next()
	}
}

// IdentityFrom returns the identity stored by RequireAccess.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
