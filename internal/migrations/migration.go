package migrations

import (
	"context"
	"errors"
	"log"

	"pizzeria/internal/database"
	"pizzeria/internal/models"
	"pizzeria/internal/repository"
	"pizzeria/internal/services"

	"gorm.io/gorm"
)

// Defaults holds the values seeded on a fresh database.
type Defaults struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// RunMigrations migrates the schema and creates the default admin user and
// settings rows when they are missing. Existing rows are left untouched.
func RunMigrations(ctx context.Context, db *gorm.DB, defaults Defaults) error {
	log.Println("Running database migrations...")

	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	if err := createDefaultData(ctx, db, defaults); err != nil {
		log.Printf("Warning: Failed to create default data: %v", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

func createDefaultData(ctx context.Context, db *gorm.DB, defaults Defaults) error {
	log.Println("Creating default data...")

	userService := services.NewUserService(repository.NewUserRepository(db))
	settingsRepo := repository.NewSettingsRepository(db)

	if _, err := userService.GetUserByUsername(ctx, defaults.AdminUsername); err == nil {
		log.Println("Admin user already exists")
	} else {
		admin := &models.User{
			Username: defaults.AdminUsername,
			Email:    defaults.AdminEmail,
			Role:     models.RoleAdmin,
			IsActive: true,
		}
		if err := userService.CreateUser(ctx, admin, defaults.AdminPassword); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Printf("Admin user %q created", defaults.AdminUsername)
		}
	}

	if _, err := settingsRepo.GetNotificationSettings(ctx); errors.Is(err, repository.ErrSettingsNotFound) {
		log.Println("Creating default notification settings...")
		if err := settingsRepo.SaveNotificationSettings(ctx, services.DefaultNotificationSettings()); err != nil {
			return err
		}
	}

	if _, err := settingsRepo.GetPromotionSettings(ctx); errors.Is(err, repository.ErrSettingsNotFound) {
		log.Println("Creating default promotion settings...")
		if err := settingsRepo.SavePromotionSettings(ctx, services.DefaultPromotionSettings()); err != nil {
			return err
		}
	}

	log.Println("Default data created successfully!")
	return nil
}
