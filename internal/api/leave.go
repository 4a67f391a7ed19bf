package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Date parsing and formatting

	"team_scheduler/internal/domain" // Importing domain models
	"team_scheduler/internal/policy" // Visibility and review rules
	"team_scheduler/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// dateLayout is the wire format for leave dates
const dateLayout = "2006-01-02"

// CreateLeaveRequest represents a leave creation request
type CreateLeaveRequest struct {
	Reason    string `json:"reason" binding:"required"`    // Reason must be provided
	StartDate string `json:"startDate" binding:"required"` // Start date must be provided
	EndDate   string `json:"endDate" binding:"required"`   // End date must be provided
}

// UpdateStatusRequest represents a review decision
type UpdateStatusRequest struct {
	Status domain.LeaveStatus `json:"status" binding:"required"` // Target status must be provided
}

// LeaveOwner is the owning user's data embedded in reviewer-facing listings
type LeaveOwner struct {
	Name  string `json:"name"`  // Owner display name
	Email string `json:"email"` // Owner email
}

// LeaveResponse represents a leave record returned to clients
type LeaveResponse struct {
	ID        uint               `json:"id"`             // Leave ID
	UserID    uint               `json:"userId"`         // Owning user ID
	Reason    string             `json:"reason"`         // Free-text reason
	StartDate string             `json:"startDate"`      // First day, YYYY-MM-DD
	EndDate   string             `json:"endDate"`        // Last day, YYYY-MM-DD
	Status    domain.LeaveStatus `json:"status"`         // Review status
	CreatedAt int64              `json:"createdAt"`      // Creation timestamp in milliseconds
	User      *LeaveOwner        `json:"user,omitempty"` // Owner, present for reviewer views only
}

// toLeaveResponse maps a leave row to its response form, optionally
// embedding the preloaded owner for reviewer views
func toLeaveResponse(l domain.LeaveRequest, includeOwner bool) LeaveResponse {
	resp := LeaveResponse{
		ID:        l.ID,                             // Leave ID
		UserID:    l.UserID,                         // Owning user ID
		Reason:    l.Reason,                         // Free-text reason
		StartDate: l.StartDate.Format(dateLayout),   // First day
		EndDate:   l.EndDate.Format(dateLayout),     // Last day
		Status:    l.Status,                         // Review status
		CreatedAt: l.CreatedAt,                      // Creation timestamp
	}
	// Embed the owner's name and email for manager and admin listings
	if includeOwner {
		resp.User = &LeaveOwner{Name: l.User.Name, Email: l.User.Email}
	}
	return resp
}

// callerIdentity extracts the authenticated identity set by the JWT middleware
func callerIdentity(c *gin.Context) (uint, domain.Role, bool) {
	userID, exists := c.Get("userID") // Get userID from context
	role, roleExists := c.Get("role") // Get role from context
	if !exists || !roleExists {
		return 0, "", false // Middleware did not run
	}
	id, okID := userID.(uint)       // Assert userID type
	r, okRole := role.(domain.Role) // Assert role type
	return id, r, okID && okRole
}

// ListLeavesHandler returns the leave records visible to the caller.
// Visibility is evaluated server-side on every read: admins see everything,
// managers see employee-owned records, employees see their own.
func ListLeavesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, callerRole, ok := callerIdentity(c) // Get caller identity from context
		// Check if identity exists in context
		if !ok {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()              // Use background context for Redis
		cacheKey := utils.LeaveListKey(callerID) // Cache key for this caller's listing
		var cached []LeaveResponse               // Cached listing, if any
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		// If cached data found, return it
		if err == nil && found {
			c.JSON(http.StatusOK, cached) // Return cached listing
			return
		}
		var leaves []domain.LeaveRequest // Slice to hold visible leaves
		// Apply the visibility scope and fetch newest first, owner preloaded
		q := policy.ScopeVisible(db.Model(&domain.LeaveRequest{}), callerID, callerRole)
		if err := q.Preload("User").Order("leave_requests.created_at desc").Find(&leaves).Error; err != nil {
			// If error occurs, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaves"})
			return
		}
		// Reviewer roles get the owner joined into each record
		includeOwner := callerRole == domain.RoleManager || callerRole == domain.RoleAdmin
		resp := make([]LeaveResponse, len(leaves)) // Prepare response data
		// Map leaves to response format
		for i, l := range leaves {
			resp[i] = toLeaveResponse(l, includeOwner)
		}
		// Cache the listing for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, utils.CacheTTL)
		c.JSON(http.StatusOK, resp) // Return the listing
	}
}

// CreateLeaveHandler files a new leave request owned by the caller.
// The owner and the initial pending status are never taken from the body.
func CreateLeaveHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, _, ok := callerIdentity(c) // Get caller identity from context
		// Check if identity exists in context
		if !ok {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CreateLeaveRequest // Bind JSON request to struct
		// Validate request
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "reason, startDate and endDate are required"})
			return
		}
		// Parse the start date
		start, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			// If unparseable, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be YYYY-MM-DD"})
			return
		}
		// Parse the end date
		end, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			// If unparseable, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be YYYY-MM-DD"})
			return
		}
		// The record invariant: a leave cannot end before it starts.
		// Past start dates are a client-side concern and pass through here.
		if end.Before(start) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must not be before startDate"})
			return
		}
		// Create the record owned by the caller, always pending
		leave := domain.LeaveRequest{
			UserID:    callerID,             // Owner is always the caller
			Reason:    req.Reason,           // Free-text reason
			StartDate: start,                // First day of leave
			EndDate:   end,                  // Last day of leave
			Status:    domain.StatusPending, // Initial status is always pending
		}
		// Save the new leave request
		if err := db.Create(&leave).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": callerID,    // Owner user ID
				"error":   err.Error(), // Error message
			}).Error("Failed to create leave request") // Log failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create leave request"})
			return
		}
		// Log successful creation
		logrus.WithFields(logrus.Fields{
			"user_id":    callerID,      // Owner user ID
			"leave_id":   leave.ID,      // New leave ID
			"start_date": req.StartDate, // First day
			"end_date":   req.EndDate,   // Last day
		}).Info("Leave request created") // Log leave creation
		// Invalidate the caller's cached listing
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			ctx := context.Background()                                  // Context for Redis operations
			_ = utils.DeleteCache(ctx, rdb, utils.LeaveListKey(callerID)) // Invalidate listing cache
		}
		// Return the created record
		c.JSON(http.StatusCreated, toLeaveResponse(leave, false))
	}
}

// UpdateLeaveStatusHandler records a review decision on a leave request.
// Reachable only behind the admin middleware; the target status must be
// approved or rejected. The current status is not consulted, so repeating
// an identical decision is an idempotent success.
func UpdateLeaveStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Parse the leave ID from the path
		leaveID, err := strconv.Atoi(c.Param("id"))
		if err != nil || leaveID <= 0 {
			// If not a positive integer, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Leave request not found"})
			return
		}
		var req UpdateStatusRequest // Bind JSON request to struct
		// Validate request
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}
		// Only approved and rejected are review outcomes
		if !policy.ValidReviewStatus(req.Status) {
			// If any other value, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be approved or rejected"})
			return
		}
		var leave domain.LeaveRequest // Fetch the leave with its owner
		if err := db.Preload("User").First(&leave, leaveID).Error; err != nil {
			// If leave not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Leave request not found"})
			return
		}
		// Overwrite the status field
		if err := db.Model(&leave).Update("status", req.Status).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"leave_id": leaveID,     // Target leave ID
				"status":   req.Status,  // Requested status
				"error":    err.Error(), // Error message
			}).Error("Failed to update leave status") // Log failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update leave status"})
			return
		}
		leave.Status = req.Status // Reflect the new status in the response
		// Log the review decision
		logrus.WithFields(logrus.Fields{
			"leave_id": leave.ID,     // Target leave ID
			"owner_id": leave.UserID, // Owning user ID
			"status":   req.Status,   // New status
		}).Info("Leave status updated") // Log status change
		// Invalidate the owner's cached listing and the reviewer's own
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			ctx := context.Background()                                       // Context for Redis operations
			_ = utils.DeleteCache(ctx, rdb, utils.LeaveListKey(leave.UserID)) // Owner sees the decision immediately
			if callerID, _, ok := callerIdentity(c); ok {
				_ = utils.DeleteCache(ctx, rdb, utils.LeaveListKey(callerID)) // Reviewer listing too
			}
		}
		// Return the updated record with its owner
		c.JSON(http.StatusOK, toLeaveResponse(leave, true))
	}
}
