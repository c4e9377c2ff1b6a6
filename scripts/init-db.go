package main

import (
	"context"
	"fmt"
	"log"

	"pizzeria/internal/config"
	"pizzeria/internal/database"
	"pizzeria/internal/migrations"
)

func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	adminEmail := cfg.AdminEmail
	if adminEmail == "" {
		adminEmail = "admin@localhost"
	}

	err = migrations.RunMigrations(context.Background(), db, migrations.Defaults{
		AdminUsername: "admin",
		AdminEmail:    adminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("Database initialization completed successfully!")
	fmt.Println("Username: admin")
}
