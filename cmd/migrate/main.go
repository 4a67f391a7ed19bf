package main

import (
	"team_scheduler/internal/config" // Custom import path (Config)
	"team_scheduler/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration

	gdb := db.Migrate(cfg.DSN()) // Run schema migration
	// Provision the admin account when seed credentials are configured
	db.SeedAdmin(gdb, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
}
