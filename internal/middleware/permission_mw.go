package middleware

import (
	"context"
	"log"
	"net/http"

	"wellsync/internal/model"
	"wellsync/internal/service"

	"github.com/gin-gonic/gin"
)

const ResourceDataKey = "resourceData"

// ResourceLoader loads a resource instance by id for predicate evaluation.
// It returns (nil, nil) when the resource does not exist.
type ResourceLoader func(ctx context.Context, id string) (any, error)

// ResourceData returns the instance loaded by RequirePermission
func ResourceData(c *gin.Context) (any, bool) {
	return c.Get(ResourceDataKey)
}

// RequirePermission guards a route with the permission evaluator. Create
// actions are evaluated without data. Other actions load the resource named
// by the :id parameter first; a missing resource is a 404 before any
// permission decision, and the loaded instance is attached to the context
// for the handler.
func RequirePermission(permSvc service.PermissionService, loader ResourceLoader, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var data any
		if action != model.ActionCreate {
			loaded, err := loader(c.Request.Context(), c.Param("id"))
			if err != nil {
				log.Printf("ERROR: failed to load %s for permission check: %v", resource, err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			if loaded == nil {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": resource + " not found"})
				return
			}
			data = loaded
		}

		allowed, err := permSvc.Evaluate(c.Request.Context(), user, resource, action, data)
		if err != nil {
			log.Printf("ERROR: permission evaluation failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}

		if data != nil {
			c.Set(ResourceDataKey, data)
		}
		c.Next()
	}
}
