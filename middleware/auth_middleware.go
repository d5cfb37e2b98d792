package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"panelstats/api/utils"
)

// Context keys set by AuthRequired.
const (
	OperatorIDKey    = "operator_id"
	OperatorEmailKey = "operator_email"
	PanelKey         = "panel"
)

// AuthRequired admits requests carrying a valid operator JWT (cookie or
// bearer header). When panelAPIKey is non-empty, a matching X-API-KEY header
// is accepted as well, which is how the touch panels upload their logs.
func AuthRequired(issuer *utils.TokenIssuer, panelAPIKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if panelAPIKey != "" {
			key := c.GetHeader("X-API-KEY")
			if key != "" && subtle.ConstantTimeCompare([]byte(key), []byte(panelAPIKey)) == 1 {
				c.Set(PanelKey, true)
				c.Next()
				return
			}
		}

		tokenString, err := c.Cookie("jwt_token")
		if err != nil {
			tokenString = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
			if tokenString == "" {
				log.Println("AuthRequired: No JWT token found in cookie or header")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token provided"})
				return
			}
		}

		claims, err := issuer.ValidateJWT(tokenString)
		if err != nil {
			log.Printf("AuthRequired: Invalid JWT token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		c.Set(OperatorIDKey, claims.OperatorID)
		c.Set(OperatorEmailKey, claims.Email)
		c.Next()
	}
}
