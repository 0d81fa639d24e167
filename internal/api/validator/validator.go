package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"brandvault/internal/models"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ValidationErrors wraps the validator's ValidationErrors
type ValidationErrors []playgroundvalidator.FieldError

// CustomValidator wraps go-playground/validator
type CustomValidator struct {
	validator *playgroundvalidator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() echo.Validator {
	v := playgroundvalidator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	err := v.RegisterValidation("user_role", validateUserRole)
	if err != nil {
		return nil
	}
	err = v.RegisterValidation("asset_type", validateAssetType)
	if err != nil {
		return nil
	}
	err = v.RegisterValidation("asset_origin", validateAssetOrigin)
	if err != nil {
		return nil
	}
	err = v.RegisterValidation("category_type", validateCategoryType)
	if err != nil {
		return nil
	}
	err = v.RegisterValidation("project_phase", validateProjectPhase)
	if err != nil {
		return nil
	}

	return &CustomValidator{validator: v}
}

// Custom validation functions
func validateUserRole(fl playgroundvalidator.FieldLevel) bool {
	return models.IsValidUserRole(models.UserRole(fl.Field().String()))
}

func validateAssetType(fl playgroundvalidator.FieldLevel) bool {
	switch models.AssetType(fl.Field().String()) {
	case models.AssetTypeImage, models.AssetTypeVideo, models.AssetTypeDocument, models.AssetTypeArchive:
		return true
	default:
		return false
	}
}

func validateAssetOrigin(fl playgroundvalidator.FieldLevel) bool {
	switch models.MaterialOrigin(fl.Field().String()) {
	case models.OriginHouse, models.OriginEV, models.OriginTendaVendas:
		return true
	default:
		return false
	}
}

func validateCategoryType(fl playgroundvalidator.FieldLevel) bool {
	switch models.CategoryType(fl.Field().String()) {
	case models.CategoryTypeCampaign, models.CategoryTypeProject:
		return true
	default:
		return false
	}
}

func validateProjectPhase(fl playgroundvalidator.FieldLevel) bool {
	switch models.ProjectPhase(fl.Field().String()) {
	case models.ProjectPhaseVemAi, models.ProjectPhaseBreveLancamento, models.ProjectPhaseLancamento:
		return true
	default:
		return false
	}
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		var validationErrors playgroundvalidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return ValidationErrors(validationErrors)
		}
		return err
	}
	return nil
}

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var fields []string
	for _, err := range ve {
		fields = append(fields, err.Field())
	}
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// UserRequest Request validation structs based on models
type UserRequest struct {
	Email               string `json:"email" validate:"required,email"`
	Password            string `json:"password" validate:"required,min=8"`
	Name                string `json:"name" validate:"required,min=2"`
	Role                string `json:"role" validate:"required,user_role"`
	Regional            string `json:"regional"`
	MaterialOriginScope string `json:"materialOriginScope" validate:"omitempty,asset_origin"`
	ViewerAccessToAll   bool   `json:"viewerAccessToAll"`
}

type CampaignRequest struct {
	Name        string     `json:"name" validate:"required,min=2"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"startDate" validate:"required"`
	EndDate     *time.Time `json:"endDate"`
	Regional    string     `json:"regional" validate:"required"`
	Tags        []string   `json:"tags"`
}

type ProjectRequest struct {
	Name        string     `json:"name" validate:"required,min=2"`
	Description string     `json:"description"`
	Image       string     `json:"image" validate:"required,url"`
	Phase       string     `json:"projectPhase" validate:"required,project_phase"`
	Regional    string     `json:"regional" validate:"required"`
	LaunchDate  *time.Time `json:"launchDate"`
}

type AssetUpdateRequest struct {
	Name        string   `json:"name" validate:"omitempty,min=1"`
	Description string   `json:"description"`
	Origin      string   `json:"origin" validate:"omitempty,asset_origin"`
	Tags        []string `json:"tags"`
	IsPublic    *bool    `json:"isPublic"`
}

type SharedLinkRequest struct {
	AssetID   string     `json:"assetId" validate:"required,uuid"`
	ExpiresAt *time.Time `json:"expiresAt" validate:"omitempty,gt"`
}

type UsefulLinkRequest struct {
	Title     string `json:"title" validate:"required"`
	URL       string `json:"url" validate:"required,url"`
	Category  string `json:"category"`
	SortOrder int    `json:"sortOrder"`
}
