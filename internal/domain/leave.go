package domain

import "time"

// LeaveStatus is the closed set of leave request states
type LeaveStatus string

// Leave request states
const (
	StatusPending  LeaveStatus = "pending"  // Initial state, awaiting review
	StatusApproved LeaveStatus = "approved" // Granted by an admin
	StatusRejected LeaveStatus = "rejected" // Denied by an admin
)

// LeaveRequest Model
type LeaveRequest struct {
	ID        uint        `gorm:"primaryKey" json:"id"`                          // Primary key
	UserID    uint        `gorm:"not null;index" json:"userId"`                  // Foreign key to the owning User
	User      User        `json:"-"`                                             // Owning user, preloaded for reviewer views
	Reason    string      `gorm:"not null" json:"reason"`                        // Free-text reason
	StartDate time.Time   `gorm:"not null" json:"startDate"`                     // First day of leave
	EndDate   time.Time   `gorm:"not null" json:"endDate"`                       // Last day of leave
	Status    LeaveStatus `gorm:"type:varchar(16);default:pending" json:"status"` // Review status
	CreatedAt int64       `gorm:"autoCreateTime:milli" json:"createdAt"`         // Timestamp of creation in milliseconds
}
