package models

import (
	"gorm.io/gorm"
)

// GetUserByEmail retrieves a user from the database by email
func GetUserByEmail(email string, db *gorm.DB) (*User, error) {
	user := &User{}
	if err := db.Where("email = ? AND is_deleted = false", email).First(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func GetAssetByID(id string, db *gorm.DB) (*Asset, error) {
	asset := &Asset{}
	if err := db.Where("id = ? AND is_deleted = false", id).First(asset).Error; err != nil {
		return nil, err
	}
	return asset, nil
}

func GetCampaignByID(id string, db *gorm.DB) (*Campaign, error) {
	campaign := &Campaign{}
	if err := db.Where("id = ? AND is_deleted = false", id).First(campaign).Error; err != nil {
		return nil, err
	}
	return campaign, nil
}

func GetProjectByID(id string, db *gorm.DB) (*Project, error) {
	project := &Project{}
	if err := db.Where("id = ? AND is_deleted = false", id).First(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}
