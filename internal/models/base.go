package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	DeletedAt time.Time `gorm:"index;default:NULL" json:"-" validate:"omitempty"`
	IsDeleted bool      `json:"isDeleted" default:"false"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *Base) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

type UserRole string

const (
	UserRoleAdmin           UserRole = "admin"
	UserRoleEditorMarketing UserRole = "editor_marketing"
	UserRoleEditorTrade     UserRole = "editor_trade"
	UserRoleViewer          UserRole = "viewer"
)

// IsValidUserRole checks if a given role is valid
func IsValidUserRole(role UserRole) bool {
	switch role {
	case UserRoleAdmin, UserRoleEditorMarketing, UserRoleEditorTrade, UserRoleViewer:
		return true
	default:
		return false
	}
}

type AssetType string

const (
	AssetTypeImage    AssetType = "image"
	AssetTypeVideo    AssetType = "video"
	AssetTypeDocument AssetType = "document"
	AssetTypeArchive  AssetType = "archive"
)

// AssetTypes lists the fixed buckets dashboards group by.
var AssetTypes = []AssetType{AssetTypeImage, AssetTypeVideo, AssetTypeDocument, AssetTypeArchive}

type MaterialOrigin string

const (
	OriginHouse       MaterialOrigin = "house"
	OriginEV          MaterialOrigin = "ev"
	OriginTendaVendas MaterialOrigin = "tenda_vendas"
)

type CategoryType string

const (
	CategoryTypeCampaign CategoryType = "campaign"
	CategoryTypeProject  CategoryType = "project"
)

type CampaignStatus string

const (
	CampaignStatusActive   CampaignStatus = "active"
	CampaignStatusInactive CampaignStatus = "inactive"
	CampaignStatusExpiring CampaignStatus = "expiring"
	CampaignStatusArchived CampaignStatus = "archived"
)

type ProjectPhase string

const (
	ProjectPhaseVemAi           ProjectPhase = "vem-ai"
	ProjectPhaseBreveLancamento ProjectPhase = "breve-lancamento"
	ProjectPhaseLancamento      ProjectPhase = "lancamento"
)
