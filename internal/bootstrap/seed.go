package bootstrap

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"zhiyu.io/assistantportal/internal/model"
)

func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&model.User{}, "Roles", &model.UserRole{}); err != nil {
		return err
	}

	return db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Assistant{},
		&model.UserRole{},
		&model.RoleAssistant{},
	)
}

func SeedRoles(db *gorm.DB) error {
	defaultRoles := []model.Role{
		{Name: "admin"},
		{Name: "user"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func SeedAdminUser(db *gorm.DB) error {
	var adminRole model.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("username = ?", "admin").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := model.User{
		Username:     "admin",
		RealName:     "Administrator",
		Email:        "admin@example.com",
		PasswordHash: string(hashedPasswordBytes),
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Roles").Create(&adminUser).Error; err != nil {
			return err
		}

		link := model.UserRole{UserID: adminUser.ID, RoleID: adminRole.ID}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}

		log.Println("Admin user seeded successfully")
		log.Println("   Username: admin")
		log.Println("   Password: admin123")

		return nil
	})
}
