package middleware

import (
	"log"
	"net/http"

	"wellsync/internal/model"
	"wellsync/internal/repository"

	"github.com/gin-gonic/gin"
)

// RequireRole checks that the authenticated user holds one of the allowed
// roles. Roles are loaded from the store, not from the token.
func RequireRole(rbacRepo repository.RBACRepository, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		roles, err := rbacRepo.GetUserRoles(c.Request.Context(), user.ID)
		if err != nil {
			log.Printf("ERROR: failed to load roles for user %s: %v", user.ID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		isAllowed := false
		for _, role := range roles {
			for _, allowedRole := range allowedRoles {
				if role.Name == allowedRole {
					isAllowed = true
					break
				}
			}
		}

		if !isAllowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}

		c.Next()
	}
}

// RequireAdmin checks that the user holds the admin role
func RequireAdmin(rbacRepo repository.RBACRepository) gin.HandlerFunc {
	return RequireRole(rbacRepo, model.RoleAdmin)
}
