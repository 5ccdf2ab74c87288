package middleware

import (
	"net/http"

	"studyhall/internal/domain"
	"studyhall/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures that the authenticated user has one of the
// given roles.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		for _, want := range roles {
			if role.(string) == string(want) {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		c.Abort()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}

func MerchantOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleMerchant)
}

func SettlementOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleSettlement, domain.RoleAdmin)
}
