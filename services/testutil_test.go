package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"event-marketplace-server/database"
	"event-marketplace-server/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string, role models.UserRole, approved bool, categories ...string) *models.User {
	t.Helper()
	user := models.User{
		FullName:     name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         role,
		Approved:     approved,
		IsActive:     true,
		Categories:   categories,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return &user
}

func createService(t *testing.T, db *gorm.DB, providerID uint, name, category string) *models.Service {
	t.Helper()
	service := models.Service{
		ProviderID: providerID,
		Name:       name,
		Category:   category,
		BasePrice:  500,
		IsActive:   true,
	}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("failed to create service %s: %v", name, err)
	}
	return &service
}

func notificationsFor(t *testing.T, db *gorm.DB, userID uint, ntype string) []models.Notification {
	t.Helper()
	var notifications []models.Notification
	if err := db.Where("user_id = ? AND type = ?", userID, ntype).Find(&notifications).Error; err != nil {
		t.Fatalf("failed to fetch notifications: %v", err)
	}
	return notifications
}

func appErr(t *testing.T, err error) *AppError {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	return AsAppError(err)
}
