package authentication

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mehmetcc/user-auth-service/internal/user"
	"github.com/mehmetcc/user-auth-service/internal/utils"
)

// ContextClaimsKey is the key under which verified access claims are stored in the gin context.
const ContextClaimsKey = "claims"

// Guard gates routes on a valid access token cookie and role membership.
// It only verifies the signature; it never loads the user.
type Guard struct {
	signer   utils.Signer
	messages *utils.Catalog
	logger   *zap.Logger
}

func NewGuard(signer utils.Signer, messages *utils.Catalog, logger *zap.Logger) *Guard {
	return &Guard{signer: signer, messages: messages, logger: logger}
}

// Authorize allows any authenticated caller when roles is empty, otherwise
// only callers whose role is exactly one of roles.
func (g *Guard) Authorize(roles ...user.Role) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[string(r)] = struct{}{}
	}

	return func(c *gin.Context) {
		raw, err := c.Cookie(AccessTokenCookie)
		if err != nil || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": g.messages.Message(utils.MsgAccessTokenMissing)})
			return
		}

		claims, err := g.signer.Verify(raw)
		if err != nil {
			g.logger.Warn("access token verification failed", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": g.messages.Message(utils.MsgAccessTokenInvalid)})
			return
		}
		if claims.Type != utils.AccessToken {
			g.logger.Warn("non-access token presented to guard", zap.String("type", string(claims.Type)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": g.messages.Message(utils.MsgAccessTokenInvalid)})
			return
		}

		c.Set(ContextClaimsKey, claims)

		if len(allowed) == 0 {
			c.Next()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": g.messages.Message(utils.MsgForbidden)})
			return
		}
		c.Next()
	}
}

// ClaimsFromContext returns the claims attached by Authorize.
func ClaimsFromContext(c *gin.Context) (*utils.Claims, bool) {
	raw, exists := c.Get(ContextClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := raw.(*utils.Claims)
	return claims, ok
}
