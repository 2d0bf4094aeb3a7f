package handler

import (
	"net/http"

	"wellsync/internal/model"
	"wellsync/internal/service"

	"github.com/gin-gonic/gin"
)

// RBACHandler exposes the relational permission administration endpoints
type RBACHandler struct {
	service service.PermissionService
}

// NewRBACHandler creates a new RBACHandler
func NewRBACHandler(s service.PermissionService) *RBACHandler {
	return &RBACHandler{service: s}
}

// GetRolePermissions lists a role's permission grants
func (h *RBACHandler) GetRolePermissions(c *gin.Context) {
	grants, err := h.service.GetRolePermissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load role permissions"})
		return
	}
	if grants == nil {
		grants = []model.RolePermission{}
	}
	c.JSON(http.StatusOK, grants)
}

// AssignPermission grants a permission to a role
func (h *RBACHandler) AssignPermission(c *gin.Context) {
	var req model.AssignPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.AssignPermissionToRole(c.Request.Context(), c.Param("id"), req.PermissionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign permission"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Permission assigned"})
}
