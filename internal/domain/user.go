package domain

// Role is the closed set of account roles
type Role string

// Account roles
const (
	RoleEmployee Role = "employee" // Regular employee, sees own leaves only
	RoleManager  Role = "manager"  // Manager, sees employee-owned leaves
	RoleAdmin    Role = "admin"    // Admin, sees and reviews everything
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true // Known role
	}
	return false // Anything else is rejected
}

// User Model
type User struct {
	ID       uint           `gorm:"primaryKey" json:"id"`                          // Primary key
	Name     string         `gorm:"not null" json:"name"`                          // Display name
	Email    string         `gorm:"unique;not null" json:"email"`                  // Unique login email
	Password string         `gorm:"not null" json:"-"`                             // Bcrypt hash, never serialized
	Role     Role           `gorm:"type:varchar(16);default:employee" json:"role"` // Account role
	Leaves   []LeaveRequest `gorm:"constraint:OnUpdate:CASCADE" json:"-"`          // One-to-many relationship with LeaveRequest
}
