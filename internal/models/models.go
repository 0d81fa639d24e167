package models

import (
	"strings"
	"time"

	"brandvault/internal/events"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	Base
	Email     string   `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	Password  string   `gorm:"not null" json:"-"`
	Name      string   `json:"name" validate:"required,min=2"`
	AvatarURL string   `json:"avatarUrl,omitempty"`
	Role      UserRole `gorm:"not null;default:'viewer'" json:"role" validate:"required,user_role"`
	// Regional doubles as a data-visibility scope for trade editors and
	// non-global viewers; normalized uppercase on every write.
	Regional            string         `gorm:"index" json:"regional"`
	MaterialOriginScope MaterialOrigin `json:"materialOriginScope,omitempty" validate:"omitempty,asset_origin"`
	ViewerAccessToAll   bool           `gorm:"default:false" json:"viewerAccessToAll"`
}

// NormalizeRegional is the single canonicalization point for region codes.
func NormalizeRegional(regional string) string {
	return strings.ToUpper(strings.TrimSpace(regional))
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Regional = NormalizeRegional(u.Regional)
	return nil
}

// RequiresRegional reports whether the role cannot operate without a region.
func (u *User) RequiresRegional() bool {
	if u.Role == UserRoleEditorTrade {
		return true
	}
	return u.Role == UserRoleViewer && !u.ViewerAccessToAll
}

type Asset struct {
	Base
	Name         string         `gorm:"not null" json:"name" validate:"required"`
	Description  string         `json:"description,omitempty"`
	Type         AssetType      `gorm:"not null;index" json:"type" validate:"required,asset_type"`
	Format       string         `json:"format"`
	Size         int64          `gorm:"not null" json:"size" validate:"required,min=1"`
	URL          string         `gorm:"not null" json:"url" validate:"required,url"`
	ThumbnailURL string         `json:"thumbnailUrl,omitempty"`
	Tags         datatypes.JSON `gorm:"type:jsonb" json:"tags,omitempty"`
	CategoryType CategoryType   `gorm:"not null;index" json:"categoryType" validate:"required,category_type"`
	CategoryID   string         `gorm:"type:uuid;not null;index" json:"categoryId" validate:"required,uuid"`
	CategoryName string         `json:"categoryName"`
	ProjectPhase ProjectPhase   `json:"projectPhase,omitempty" validate:"omitempty,project_phase"`
	Origin       MaterialOrigin `gorm:"not null;default:'house'" json:"origin" validate:"required,asset_origin"`
	// Inherited from the category at finalize time, never the uploader's.
	Regional      string         `gorm:"index" json:"regional"`
	IsPublic      bool           `gorm:"default:false" json:"isPublic"`
	DownloadCount int64          `gorm:"default:0" json:"downloadCount"`
	Metadata      datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	UploadedBy    string         `gorm:"type:uuid" json:"uploadedBy"`
	Uploader      *User          `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.Regional = NormalizeRegional(a.Regional)
	return nil
}

type Campaign struct {
	Base
	Name        string     `gorm:"not null" json:"name" validate:"required,min=2"`
	Description string     `json:"description,omitempty"`
	StartDate   time.Time  `gorm:"not null" json:"startDate" validate:"required"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	// Persisted status is a cached view; readers recompute from dates and
	// privileged readers write corrections back. "expiring" is stored as
	// "active".
	Status    CampaignStatus `gorm:"default:'active'" json:"status"`
	Color     string         `json:"color"`
	Regional  string         `gorm:"index" json:"regional"`
	Tags      datatypes.JSON `gorm:"type:jsonb" json:"tags,omitempty"`
	CreatedBy string         `gorm:"type:uuid" json:"createdBy"`
	Creator   *User          `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (c *Campaign) BeforeSave(tx *gorm.DB) error {
	c.Regional = NormalizeRegional(c.Regional)
	return nil
}

func (c *Campaign) AfterCreate(tx *gorm.DB) error {
	events.Emit("campaigns.created", c)
	return nil
}

// AfterFind replaces the cached status with the one derived from the dates,
// so every read surface agrees regardless of how stale the column is.
func (c *Campaign) AfterFind(tx *gorm.DB) error {
	c.Status = c.DerivedStatus(time.Now())
	c.Color = CampaignStatusColor(c.Status)
	return nil
}

type Project struct {
	Base
	Name        string       `gorm:"not null" json:"name" validate:"required,min=2"`
	Description string       `json:"description,omitempty"`
	Image       string       `json:"image" validate:"required,url"`
	Phase       ProjectPhase `gorm:"not null;default:'vem-ai'" json:"projectPhase" validate:"required,project_phase"`
	Regional    string       `gorm:"index" json:"regional"`
	LaunchDate  *time.Time   `json:"launchDate,omitempty"`
	CreatedBy   string       `gorm:"type:uuid" json:"createdBy"`
	Creator     *User        `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (p *Project) BeforeSave(tx *gorm.DB) error {
	p.Regional = NormalizeRegional(p.Regional)
	return nil
}

func (p *Project) AfterCreate(tx *gorm.DB) error {
	events.Emit("projects.created", p)
	return nil
}

type SharedLink struct {
	Base
	AssetID       string     `gorm:"type:uuid;not null;index" json:"assetId" validate:"required,uuid"`
	Asset         *Asset     `json:"asset,omitempty"`
	Token         string     `gorm:"uniqueIndex;not null" json:"token"`
	CreatedBy     string     `gorm:"type:uuid;not null" json:"createdBy"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	DownloadCount int64      `gorm:"default:0" json:"downloadCount"`
	IsActive      bool       `gorm:"default:true" json:"isActive"`
	// Virtual field, resolved against the object store on read
	SignedURL string `gorm:"-" json:"signedUrl,omitempty"`
}

func (l *SharedLink) AfterFind(tx *gorm.DB) error {
	registryMu.RLock()
	resolver := urlResolver
	registryMu.RUnlock()

	if resolver != nil && l.Asset != nil {
		url, err := resolver.GetSignedURL(tx.Statement.Context, l.Asset.URL, time.Hour)
		if err != nil {
			// Link listing must not fail because one object went missing.
			return nil
		}
		l.SignedURL = url
	}
	return nil
}

type UsefulLink struct {
	Base
	Title     string `gorm:"not null" json:"title" validate:"required"`
	URL       string `gorm:"not null" json:"url" validate:"required,url"`
	Category  string `json:"category"`
	SortOrder int    `gorm:"default:0" json:"sortOrder"`
	CreatedBy string `gorm:"type:uuid" json:"createdBy"`
}

type SystemSetting struct {
	Base
	Key   string         `gorm:"uniqueIndex;not null" json:"key" validate:"required"`
	Value datatypes.JSON `gorm:"type:jsonb" json:"value"`
}

// ActivityLog rows are append-only: the application never updates or deletes
// them, it only reassigns user_id when the acting user is removed.
type ActivityLog struct {
	ID         string         `gorm:"type:uuid;primary_key" json:"id"`
	Action     string         `gorm:"not null;index" json:"action" validate:"required"`
	EntityType string         `gorm:"not null" json:"entityType" validate:"required"`
	EntityID   string         `json:"entityId,omitempty"`
	Metadata   datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	UserID     string         `gorm:"type:uuid;index" json:"userId"`
	User       *User          `json:"user,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func (l *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// Activity actions, enumerated verb_noun pairs
const (
	ActionUploadAsset      = "upload_asset"
	ActionUpdateAsset      = "update_asset"
	ActionDeleteAsset      = "delete_asset"
	ActionDownloadAsset    = "download_asset"
	ActionCreateCampaign   = "create_campaign"
	ActionUpdateCampaign   = "update_campaign"
	ActionDeleteCampaign   = "delete_campaign"
	ActionCreateProject    = "create_project"
	ActionUpdateProject    = "update_project"
	ActionDeleteProject    = "delete_project"
	ActionCreateUser       = "create_user"
	ActionUpdateUser       = "update_user"
	ActionDeleteUser       = "delete_user"
	ActionCreateSharedLink = "create_shared_link"
	ActionDeleteSharedLink = "delete_shared_link"
)
