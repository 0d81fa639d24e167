package models

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	console "brandvault/internal/utils/logger"
)

var log = console.New("SEEDER")

var defaultSettings = []SystemSetting{
	{Key: "company_name", Value: datatypes.JSON([]byte(`"Tenda"`))},
	{Key: "storage_limit_gb", Value: datatypes.JSON([]byte(`100`))},
	{Key: "report_max_table_rows", Value: datatypes.JSON([]byte(`12`))},
}

// SeedSystemSettings creates default settings rows if they are missing
func SeedSystemSettings(db *gorm.DB) error {
	for _, setting := range defaultSettings {
		var existing SystemSetting
		err := db.Where("key = ?", setting.Key).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("failed to look up setting %s: %v", setting.Key, err)
		}
		if err := db.Create(&setting).Error; err != nil {
			return fmt.Errorf("failed to create setting %s: %v", setting.Key, err)
		}
		log.Info("Created default setting: %s", setting.Key)
	}
	return nil
}

// CreateAdminFromEnv bootstraps the first admin account
func CreateAdminFromEnv(db *gorm.DB) error {
	var count int64
	db.Model(&User{}).Where("role = ?", UserRoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	email, ok := os.LookupEnv("ADMIN_EMAIL")
	if !ok {
		return fmt.Errorf("ADMIN_EMAIL not set")
	}

	password, ok := os.LookupEnv("ADMIN_PASSWORD")
	if !ok {
		return fmt.Errorf("ADMIN_PASSWORD not set")
	}

	name, ok := os.LookupEnv("ADMIN_NAME")
	if !ok {
		return fmt.Errorf("ADMIN_NAME not set")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	user := User{
		Name:              name,
		Email:             email,
		Role:              UserRoleAdmin,
		Password:          string(hashedPassword),
		ViewerAccessToAll: true,
	}

	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %v", err)
	}

	log.Info("Created admin user: %s", email)
	return nil
}
