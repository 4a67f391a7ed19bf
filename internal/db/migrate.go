package db

import (
	"team_scheduler/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// Migrate performs automatic migration for the database schema
func Migrate(dsn string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err = db.AutoMigrate(&domain.User{}, &domain.LeaveRequest{})
	if err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	logrus.Info("Migration completed.") // Log successful migration
	return db                           // Return the handle for follow-up steps (seeding)
}

// SeedAdmin upserts an admin account from the given credentials.
// Registration never assigns the admin role, so the first admin has to be
// provisioned out of band; a no-op when email or password is empty.
func SeedAdmin(db *gorm.DB, name, email, password string) {
	if email == "" || password == "" {
		return // Nothing to seed
	}
	if name == "" {
		name = "Administrator" // Fallback display name
	}
	// Hash the seed password before storage
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.Fatalf("failed to hash admin password: %v", err) // Log fatal error if hashing fails
	}
	var user domain.User // Existing account with the seed email, if any
	err = db.Where("email = ?", email).First(&user).Error
	if err == nil {
		// Account exists: promote it and reset the credential
		user.Name = name                 // Update display name
		user.Password = string(hash)     // Update password hash
		user.Role = domain.RoleAdmin     // Ensure admin role
		if err := db.Save(&user).Error; err != nil {
			logrus.Fatalf("failed to update admin account: %v", err) // Log fatal error on update failure
		}
		logrus.WithField("email", email).Info("Admin account updated.") // Log successful update
		return
	}
	// No account yet: create one with the admin role
	user = domain.User{Name: name, Email: email, Password: string(hash), Role: domain.RoleAdmin}
	if err := db.Create(&user).Error; err != nil {
		logrus.Fatalf("failed to create admin account: %v", err) // Log fatal error on create failure
	}
	logrus.WithField("email", email).Info("Admin account created.") // Log successful creation
}
