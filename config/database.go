package config

import (
	"errors"
	"fmt"

	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB connects to postgres, migrates the schema and seeds the admin account
func InitDB(cfg *Config) error {
	logLevel := logger.Warn
	if !cfg.IsProduction() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		return err
	}
	if err := SeedAdmin(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return err
	}

	DB = db
	utils.LogInfo("Connected to database %s on %s:%s", cfg.DBName, cfg.DBHost, cfg.DBPort)
	return nil
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}
	return nil
}

// SeedAdmin creates the first admin user when none exists yet.
// Nothing is done if username or password is empty.
func SeedAdmin(db *gorm.DB, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	var existing models.User
	err := db.Where("role = ?", utils.RoleAdmin).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %v", err)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %v", err)
	}
	admin := models.User{Username: username, Password: hashed, Role: utils.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %v", err)
	}
	utils.LogInfo("Seeded admin user %s", username)
	return nil
}
