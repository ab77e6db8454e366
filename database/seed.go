package database

import (
	"event_manager/config"
	"event_manager/constants"
	"event_manager/model"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var defaultCategories = []string{"Music", "Conference", "Sports", "Theatre", "Workshop", "Festival"}

// SeedData creates the admin account and default categories when missing.
func SeedData(db *gorm.DB) {
	password := config.ConfigDefault("ADMIN_PASSWORD", "admin123456")
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		zap.L().Error("failed to hash admin password", zap.Error(err))
		return
	}

	admin := model.User{
		Name:     "Administrator",
		Email:    config.ConfigDefault("ADMIN_EMAIL", "admin@event-manager.local"),
		Password: string(bytes),
		Role:     constants.ROLE_ADMIN,
		IsActive: true,
	}
	if err := db.Where(model.User{Email: admin.Email}).FirstOrCreate(&admin).Error; err != nil {
		zap.L().Error("failed to seed admin", zap.String("email", admin.Email), zap.Error(err))
	}

	for _, name := range defaultCategories {
		category := model.Category{Name: name, Slug: slug.Make(name)}
		if err := db.Where(model.Category{Name: name}).FirstOrCreate(&category).Error; err != nil {
			zap.L().Error("failed to seed category", zap.String("name", name), zap.Error(err))
		}
	}
}
