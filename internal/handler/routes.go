package handler

import (
	"wellsync/internal/model"

	"github.com/gin-gonic/gin"
)

// PermissionGuard builds a route guard for an action on a fixed resource
type PermissionGuard func(action string) gin.HandlerFunc

// RegisterUserRoutes registers signup, login, OTP and password reset routes
func RegisterUserRoutes(rg *gin.RouterGroup, auth *AuthHandler, otp *OTPHandler, requireVerified, requireUnverified gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.POST("/signup", auth.Signup)
		users.POST("/login", auth.Login)
		users.POST("/request-otp", requireUnverified, otp.RequestOTP)
		users.POST("/verify-otp", requireUnverified, otp.VerifyOTP)
		users.GET("/me", requireVerified, auth.Me)
		users.PUT("/me/location", requireVerified, auth.UpdateLocation)
		users.POST("/request-reset-otp", otp.RequestResetOTP)
		users.POST("/verify-reset-otp", otp.VerifyResetOTP)
		users.POST("/reset-password", auth.ResetPassword)
	}
}

// RegisterTodoRoutes registers todo routes behind the permission evaluator
func RegisterTodoRoutes(rg *gin.RouterGroup, h *TodoHandler, requireVerified gin.HandlerFunc, guard PermissionGuard) {
	todos := rg.Group("/todos", requireVerified)
	{
		todos.POST("", guard(model.ActionCreate), h.Create)
		todos.GET("", h.List)
		todos.GET("/:id", guard(model.ActionView), h.Get)
		todos.PUT("/:id", guard(model.ActionUpdate), h.Update)
		todos.DELETE("/:id", guard(model.ActionDelete), h.Delete)
	}
}

// RegisterCommentRoutes registers comment routes behind the permission evaluator
func RegisterCommentRoutes(rg *gin.RouterGroup, h *CommentHandler, requireVerified gin.HandlerFunc, guard PermissionGuard) {
	comments := rg.Group("/comments", requireVerified)
	{
		comments.POST("", guard(model.ActionCreate), h.Create)
		comments.GET("", h.List)
		comments.GET("/:id", guard(model.ActionView), h.Get)
		comments.PUT("/:id", guard(model.ActionUpdate), h.Update)
	}
}

// RegisterRBACRoutes registers the admin-only permission management routes
func RegisterRBACRoutes(rg *gin.RouterGroup, h *RBACHandler, requireVerified, requireAdmin gin.HandlerFunc) {
	roles := rg.Group("/roles", requireVerified, requireAdmin)
	{
		roles.GET("/:id/permissions", h.GetRolePermissions)
		roles.POST("/:id/permissions", h.AssignPermission)
	}
}
