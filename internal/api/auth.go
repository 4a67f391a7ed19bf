package api

import (
	"net/http" // HTTP status codes
	"regexp"   // Regular expressions
	"strings"  // String manipulation

	"team_scheduler/internal/domain" // Importing domain models
	"team_scheduler/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`     // Display name must be provided
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Response struct for authentication
type AuthResponse struct {
	Token string          `json:"token"` // JWT token
	User  ProfileResponse `json:"user"`  // Sanitized account data
}

// ProfileResponse is the sanitized user representation returned to clients
type ProfileResponse struct {
	ID    uint        `json:"id"`    // User ID
	Name  string      `json:"name"`  // Display name
	Email string      `json:"email"` // Login email
	Role  domain.Role `json:"role"`  // Account role
}

// toProfile maps a user row to its sanitized response form
func toProfile(u domain.User) ProfileResponse {
	return ProfileResponse{
		ID:    u.ID,    // User ID
		Name:  u.Name,  // Display name
		Email: u.Email, // Login email
		Role:  u.Role,  // Account role
	}
}

// emailPattern is a permissive shape check, uniqueness is the real gate
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// isValidEmail checks that the email has a plausible address shape
func isValidEmail(email string) bool {
	return emailPattern.MatchString(email) // Return whether it matched
}

// isValidPassword checks if the password length is between 8 and 72 characters
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 72 // 72 is the bcrypt input limit
}

// RegisterHandler creates a new employee account
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Validate email shape
		if !isValidEmail(req.Email) {
			// If email is invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
			return
		}
		// Validate password length
		if !isValidPassword(req.Password) {
			// If password is invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-72 characters"})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		// Create user with lowercase email to ensure uniqueness.
		// Role is always employee here: manager and admin accounts are
		// provisioned by an operator, never through registration.
		user := domain.User{
			Name:     req.Name,                     // Display name as given
			Email:    strings.ToLower(req.Email),   // Lowercased unique key
			Password: string(hash),                 // Bcrypt hash
			Role:     domain.RoleEmployee,          // Registration always yields an employee
		}
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			// If creation fails (e.g., duplicate email), return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		// Return the sanitized created account
		c.JSON(http.StatusCreated, toProfile(user))
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Generate JWT token carrying identity and role
		token, err := utils.GenerateJWT(user.ID, user.Role, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the token and sanitized account in the response
		c.JSON(http.StatusOK, AuthResponse{Token: token, User: toProfile(user)})
	}
}
