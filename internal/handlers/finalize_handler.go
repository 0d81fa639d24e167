package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"brandvault/internal/api/middleware"
	"brandvault/internal/models"
	"brandvault/internal/services"
	"brandvault/internal/tasks/rate"
	"brandvault/internal/uploads"
	"brandvault/internal/utils"
	"brandvault/internal/utils/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// FinalizeHandler promotes a batch of temp uploads into permanent assets:
// one server-side move and one row insert per item, processed sequentially
// in list order. Processing stops at the first failure; per-item results make
// a partial commit visible to the caller instead of hiding it behind a
// whole-batch error.
type FinalizeHandler struct {
	db      *gorm.DB
	audit   *services.ActivityLogger
	limiter *rate.QueueRateLimiter
	log     *logger.Logger
}

func NewFinalizeHandler(db *gorm.DB, audit *services.ActivityLogger, limiter *rate.QueueRateLimiter) *FinalizeHandler {
	return &FinalizeHandler{
		db:      db,
		audit:   audit,
		limiter: limiter,
		log:     logger.New("finalize_handler"),
	}
}

// Finalize handles POST /api/assets/finalize
// @Summary Finalize a batch of uploaded materials
// @Description Move temp objects into permanent category paths and create asset rows
// @Tags assets
// @Accept json
// @Produce json
// @Param request body uploads.FinalizeRequest true "Finalize batch"
// @Success 200 {object} uploads.FinalizeResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 422 {object} uploads.FinalizeResponse "Invalid category"
// @Failure 429 {object} map[string]string "Rate limited"
// @Router /api/assets/finalize [post]
func (h *FinalizeHandler) Finalize(c echo.Context) error {
	userID := middleware.GetUserID(c)

	if h.limiter != nil {
		allowed, err := h.limiter.Allow(c.Request().Context(), userID)
		if err != nil {
			h.log.Warn("rate limiter unavailable, letting request through: %v", err)
		} else if !allowed {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Muitas finalizações em sequência, aguarde um momento")
		}
	}

	var req uploads.FinalizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if msg := h.validateRequest(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, uploads.FinalizeResponse{Success: false, Message: msg})
	}

	store := GetObjectStore()
	if store == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Armazenamento não configurado")
	}

	// The whole batch targets one category; it must exist and carry a
	// regional before anything is committed.
	categoryName, regional, err := h.resolveCategory(c, &req)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, uploads.FinalizeResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	resp := uploads.FinalizeResponse{Success: true}
	for _, item := range req.Items {
		assetID, err := h.finalizeItem(c, store, &req, item, categoryName, regional, userID)
		if err != nil {
			// Stop at the first failure. Everything before this item is
			// already committed and reported as such.
			resp.Success = false
			resp.Message = "Erro ao finalizar materiais"
			resp.Items = append(resp.Items, uploads.FinalizeItemResult{
				OriginalName: item.OriginalName,
				Error:        "Falha ao processar o arquivo",
			})
			_ = h.log.Error(fmt.Sprintf("finalize failed on %s", item.OriginalName), err)
			return c.JSON(http.StatusInternalServerError, resp)
		}
		resp.Items = append(resp.Items, uploads.FinalizeItemResult{
			OriginalName: item.OriginalName,
			AssetID:      assetID,
		})
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *FinalizeHandler) validateRequest(req *uploads.FinalizeRequest) string {
	switch req.CategoryType {
	case models.CategoryTypeCampaign, models.CategoryTypeProject:
	default:
		return "Tipo de categoria inválido"
	}
	if req.CategoryID == "" {
		return "Categoria de destino é obrigatória"
	}
	switch req.Origin {
	case models.OriginHouse, models.OriginEV, models.OriginTendaVendas:
	default:
		return "Origem do material inválida"
	}
	if req.CategoryType == models.CategoryTypeProject {
		switch req.ProjectPhase {
		case models.ProjectPhaseVemAi, models.ProjectPhaseBreveLancamento, models.ProjectPhaseLancamento:
		default:
			return "Fase do empreendimento inválida"
		}
	}
	if len(req.Items) == 0 {
		return "Nenhum arquivo para finalizar"
	}
	for _, item := range req.Items {
		if item.TempPath == "" || !strings.Contains(item.TempPath, "/") {
			return "Arquivo temporário inválido"
		}
	}
	return ""
}

// resolveCategory loads the target campaign or project and returns its
// denormalized name and regional. Assets inherit the category's regional,
// never the uploader's.
func (h *FinalizeHandler) resolveCategory(c echo.Context, req *uploads.FinalizeRequest) (name, regional string, err error) {
	ctx := c.Request().Context()
	switch req.CategoryType {
	case models.CategoryTypeCampaign:
		campaign, err := models.GetCampaignByID(req.CategoryID, h.db.WithContext(ctx))
		if err != nil {
			return "", "", fmt.Errorf("Campanha não encontrada")
		}
		name, regional = campaign.Name, campaign.Regional
	case models.CategoryTypeProject:
		project, err := models.GetProjectByID(req.CategoryID, h.db.WithContext(ctx))
		if err != nil {
			return "", "", fmt.Errorf("Empreendimento não encontrado")
		}
		name, regional = project.Name, project.Regional
	}
	if regional == "" {
		return "", "", fmt.Errorf("Categoria sem regional definida")
	}
	return name, regional, nil
}

func (h *FinalizeHandler) finalizeItem(
	c echo.Context,
	store ObjectStore,
	req *uploads.FinalizeRequest,
	item uploads.FinalizeItem,
	categoryName, regional, userID string,
) (string, error) {
	ctx := c.Request().Context()

	safeBase := uploads.SanitizeFileName(item.BaseName)
	destName := fmt.Sprintf("%s-%s", uuid.New().String(), safeBase)
	if item.Extension != "" {
		destName = fmt.Sprintf("%s.%s", destName, item.Extension)
	}
	destKey := fmt.Sprintf("%s/%s/%s", req.CategoryType, req.CategoryID, destName)

	publicURL, err := store.Move(ctx, item.TempPath, destKey)
	if err != nil {
		return "", err
	}

	assetType := item.AssetType
	if assetType == "" {
		assetType = uploads.DetectAssetType(item.MimeType, item.Extension)
	}

	asset := models.Asset{
		Name:         item.OriginalName,
		Type:         assetType,
		Format:       item.Extension,
		Size:         item.Size,
		URL:          publicURL,
		CategoryType: req.CategoryType,
		CategoryID:   req.CategoryID,
		CategoryName: categoryName,
		Origin:       req.Origin,
		Regional:     regional,
		UploadedBy:   userID,
	}
	if metadata, err := utils.MapToJSON(map[string]string{
		"mimeType": item.MimeType,
		"tempPath": item.TempPath,
	}); err == nil {
		asset.Metadata = metadata
	}
	if len(item.Tags) > 0 {
		if tags, err := utils.StringsToJSON(item.Tags); err == nil {
			asset.Tags = tags
		}
	}
	if req.CategoryType == models.CategoryTypeProject {
		asset.ProjectPhase = req.ProjectPhase
	}
	if assetType == models.AssetTypeImage {
		asset.ThumbnailURL = publicURL
	}

	if err := h.db.WithContext(ctx).Create(&asset).Error; err != nil {
		// The object already moved; the row failed. Surfaced per-item so an
		// operator can reconcile from the logs.
		return "", err
	}

	h.audit.Log(ctx, userID, models.ActionUploadAsset, "asset", asset.ID, map[string]interface{}{
		"fileName":     item.OriginalName,
		"categoryType": string(req.CategoryType),
		"categoryId":   req.CategoryID,
		"size":         item.Size,
	})

	return asset.ID, nil
}
