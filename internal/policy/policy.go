package policy

import (
	"team_scheduler/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// CanView reports whether a caller may read a leave record.
// Admins see everything, managers see employee-owned records,
// employees see their own records only.
func CanView(callerRole domain.Role, callerID uint, ownerID uint, ownerRole domain.Role) bool {
	switch callerRole {
	case domain.RoleAdmin:
		return true // Admins see every record
	case domain.RoleManager:
		return ownerRole == domain.RoleEmployee // Managers see employee leaves only
	case domain.RoleEmployee:
		return ownerID == callerID // Employees see their own leaves only
	}
	return false // Unknown roles see nothing
}

// CanReview reports whether a caller may change a leave record's status
func CanReview(callerRole domain.Role) bool {
	return callerRole == domain.RoleAdmin // Only admins review leaves
}

// ValidReviewStatus reports whether s is an acceptable review outcome.
// The current status of the record is not consulted: re-approving an
// already approved record is allowed and idempotent.
func ValidReviewStatus(s domain.LeaveStatus) bool {
	return s == domain.StatusApproved || s == domain.StatusRejected // pending is not a review outcome
}

// ScopeVisible narrows a LeaveRequest query to the records the caller may
// read, mirroring CanView at the SQL level. Must be applied server-side on
// every list read.
func ScopeVisible(db *gorm.DB, callerID uint, callerRole domain.Role) *gorm.DB {
	switch callerRole {
	case domain.RoleAdmin:
		return db // No filter, admins see everything
	case domain.RoleManager:
		// Join the owner and keep employee-owned records only
		return db.Select("leave_requests.*").
			Joins("JOIN users ON users.id = leave_requests.user_id").
			Where("users.role = ?", domain.RoleEmployee)
	case domain.RoleEmployee:
		return db.Where("user_id = ?", callerID) // Own records only
	}
	return db.Where("1 = 0") // Unknown roles match nothing
}
