package middleware

import (
	"net/http"
	"strings"

	"wellsync/internal/model"
	"wellsync/internal/repository"
	"wellsync/internal/utils"

	"github.com/gin-gonic/gin"
)

const AuthUserKey = "authUser"

// CurrentUser returns the authenticated user attached by the auth middleware
func CurrentUser(c *gin.Context) (*model.User, bool) {
	val, exists := c.Get(AuthUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*model.User)
	return user, ok
}

// authenticate runs the shared authentication procedure: extract the bearer
// token, validate it, and load the user it names. On failure the request is
// aborted with 401 and nil is returned.
func authenticate(c *gin.Context, jwtUtil *utils.JWTUtil, userRepo repository.UserRepository) *model.User {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return nil
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := jwtUtil.ValidateToken(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil
	}

	user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil
	}
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return nil
	}
	return user
}

// RequireVerified authenticates the request and requires a verified phone
// number, attaching the user to the context
func RequireVerified(jwtUtil *utils.JWTUtil, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := authenticate(c, jwtUtil, userRepo)
		if user == nil {
			return
		}
		if !user.IsVerified {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Phone number not verified"})
			return
		}
		c.Set(AuthUserKey, user)
		c.Next()
	}
}

// RequireUnverified authenticates the request and requires an unverified
// phone number. It gates the OTP request/verify endpoints so verified users
// cannot re-trigger the flow.
func RequireUnverified(jwtUtil *utils.JWTUtil, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := authenticate(c, jwtUtil, userRepo)
		if user == nil {
			return
		}
		if user.IsVerified {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Phone number already verified"})
			return
		}
		c.Set(AuthUserKey, user)
		c.Next()
	}
}
