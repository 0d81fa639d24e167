package handlers

import (
	"net/http"
	"time"

	"brandvault/internal/api/middleware"
	"brandvault/internal/models"
	"brandvault/internal/permissions"
	"brandvault/internal/services"
	"brandvault/internal/utils"
	"brandvault/internal/utils/crypto"
	"brandvault/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ShareHandler owns shared-link creation and the public resolution endpoint.
// Creation signs a self-contained RS256 token; resolution verifies it before
// touching the database.
type ShareHandler struct {
	db    *gorm.DB
	audit *services.ActivityLogger
	log   *logger.Logger
}

func NewShareHandler(db *gorm.DB, audit *services.ActivityLogger) *ShareHandler {
	return &ShareHandler{db: db, audit: audit, log: logger.New("share_handler")}
}

type CreateShareRequest struct {
	AssetID   string     `json:"assetId" validate:"required,uuid"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Create handles POST /api/shared-links
// @Summary Create a shared link
// @Description Issue a signed public token for an asset
// @Tags shared-links
// @Accept json
// @Produce json
// @Param request body CreateShareRequest true "Asset and optional expiry"
// @Success 201 {object} models.SharedLink
// @Failure 404 {object} map[string]string "Asset not found"
// @Router /api/shared-links [post]
func (h *ShareHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.GetUserID(c)

	var req CreateShareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		return echo.NewHTTPError(http.StatusBadRequest, "Data de expiração no passado")
	}

	asset, err := models.GetAssetByID(req.AssetID, h.db.WithContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Material não encontrado")
	}

	// Out-of-scope assets must not be shareable
	scope := permissions.ScopeForUser(middleware.CurrentUser(c))
	if !scope.AllowsAsset(asset) {
		return echo.NewHTTPError(http.StatusForbidden, "Você não tem acesso a este material")
	}

	link := models.SharedLink{
		AssetID:   asset.ID,
		CreatedBy: userID,
		ExpiresAt: req.ExpiresAt,
		IsActive:  true,
	}
	if err := h.db.WithContext(ctx).Create(&link).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Erro ao criar o link")
	}

	token, err := crypto.SignShareToken(link.ID, asset.ID, req.ExpiresAt)
	if err != nil {
		h.db.WithContext(ctx).Delete(&link)
		return echo.NewHTTPError(http.StatusInternalServerError, "Erro ao assinar o link")
	}
	if err := h.db.WithContext(ctx).Model(&link).Update("token", token).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Erro ao salvar o link")
	}
	link.Token = token
	link.Asset = asset

	h.audit.Log(ctx, userID, models.ActionCreateSharedLink, "shared_link", link.ID, map[string]interface{}{
		"assetId": asset.ID,
	})

	return c.JSON(http.StatusCreated, link)
}

// Resolve handles GET /share/:token — the only unauthenticated data endpoint.
// @Summary Resolve a shared link
// @Description Verify the token, count the download and return a short-lived signed URL
// @Tags shared-links
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Invalid or expired link"
// @Router /share/{token} [get]
func (h *ShareHandler) Resolve(c echo.Context) error {
	ctx := c.Request().Context()
	tokenString := c.Param("token")

	claims, err := crypto.VerifyShareToken(tokenString)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Link inválido ou expirado")
	}

	var link models.SharedLink
	if err := h.db.WithContext(ctx).Where("id = ? AND is_active = ?", claims.LinkID, true).First(&link).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Link inválido ou expirado")
	}
	if link.ExpiresAt != nil && link.ExpiresAt.Before(time.Now()) {
		return echo.NewHTTPError(http.StatusNotFound, "Link inválido ou expirado")
	}

	asset, err := models.GetAssetByID(claims.AssetID, h.db.WithContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Material não encontrado")
	}

	store := GetObjectStore()
	if store == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Armazenamento não configurado")
	}
	signedURL, err := store.GetSignedURL(ctx, asset.URL, time.Hour)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Erro ao gerar a URL do material")
	}

	// Every resolution counts as one download, on both the link and the asset
	h.db.WithContext(ctx).Model(&link).UpdateColumn("download_count", gorm.Expr("download_count + 1"))
	h.db.WithContext(ctx).Model(asset).UpdateColumn("download_count", gorm.Expr("download_count + 1"))

	h.audit.Log(ctx, link.CreatedBy, models.ActionDownloadAsset, "asset", asset.ID, map[string]interface{}{
		"via":    "shared_link",
		"linkId": link.ID,
	})

	assetView := map[string]interface{}{
		"id":     asset.ID,
		"name":   asset.Name,
		"type":   asset.Type,
		"format": asset.Format,
		"size":   asset.Size,
	}
	if len(asset.Metadata) > 0 {
		if metadata, err := utils.JSONToMap(asset.Metadata); err == nil {
			assetView["metadata"] = metadata
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"asset":     assetView,
		"url":       signedURL,
		"expiresAt": link.ExpiresAt,
	})
}
