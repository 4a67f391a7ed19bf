package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes

	"team_scheduler/internal/domain" // Importing domain models
	"team_scheduler/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"golang.org/x/crypto/bcrypt"   // Password hashing
	"gorm.io/gorm"                 // GORM ORM library
)

// Request struct for profile updates, both fields optional and independent
type UpdateProfileRequest struct {
	Name     string `json:"name"`     // New display name, kept when empty
	Password string `json:"password"` // New password, kept when empty
}

// GetProfileHandler returns the caller's own profile, password excluded
func GetProfileHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, _, ok := callerIdentity(c) // Get caller identity from context
		// Check if identity exists in context
		if !ok {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()            // Use background context for Redis
		cacheKey := utils.ProfileKey(callerID) // Cache key for this profile
		var cached ProfileResponse             // Cached profile, if any
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		// If cached data found, return it
		if err == nil && found {
			c.JSON(http.StatusOK, cached) // Return cached profile
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, callerID).Error; err != nil {
			// Token was valid but the row is gone
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		resp := toProfile(user) // Sanitized response
		// Cache the profile for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, utils.CacheTTL)
		c.JSON(http.StatusOK, resp) // Return the profile
	}
}

// UpdateProfileHandler updates the caller's own name and/or password.
// There is no way to target another user, and the role and email are
// never touched here.
func UpdateProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, _, ok := callerIdentity(c) // Get caller identity from context
		// Check if identity exists in context
		if !ok {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req UpdateProfileRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// At least one field has to be supplied
		if req.Name == "" && req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, callerID).Error; err != nil {
			// Token was valid but the row is gone
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		updates := map[string]any{} // Columns to overwrite
		// Replace the name if supplied
		if req.Name != "" {
			updates["name"] = req.Name
		}
		// Hash and replace the password if supplied
		if req.Password != "" {
			// Enforce the same length rule as registration
			if !isValidPassword(req.Password) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-72 characters"})
				return
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				// If hashing fails, return internal server error
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
				return
			}
			updates["password"] = string(hash)
		}
		// Apply the partial update
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": callerID,    // Target user ID
				"error":   err.Error(), // Error message
			}).Error("Failed to update profile") // Log failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
		// Reflect the new name in the response
		if req.Name != "" {
			user.Name = req.Name
		}
		// Log the profile update, noting which fields changed
		logrus.WithFields(logrus.Fields{
			"user_id":          callerID,           // Target user ID
			"name_changed":     req.Name != "",     // Whether the name changed
			"password_changed": req.Password != "", // Whether the password changed
		}).Info("Profile updated") // Log profile update
		// Invalidate the cached profile
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			ctx := context.Background()                                 // Context for Redis operations
			_ = utils.DeleteCache(ctx, rdb, utils.ProfileKey(callerID)) // Invalidate profile cache
		}
		// Return the updated sanitized profile
		c.JSON(http.StatusOK, toProfile(user))
	}
}
