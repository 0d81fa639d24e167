package dashboard

import (
	"testing"
	"time"

	"brandvault/internal/models"
)

func asset(t models.AssetType, categoryType models.CategoryType, categoryName string, size, downloads int64) models.Asset {
	return models.Asset{
		Type:          t,
		CategoryType:  categoryType,
		CategoryName:  categoryName,
		Size:          size,
		DownloadCount: downloads,
	}
}

func TestCompute_TypeBucketsSumToTotal(t *testing.T) {
	assets := []models.Asset{
		asset(models.AssetTypeImage, models.CategoryTypeCampaign, "Verão 2024", 100, 3),
		asset(models.AssetTypeImage, models.CategoryTypeCampaign, "Verão 2024", 200, 1),
		asset(models.AssetTypeVideo, models.CategoryTypeProject, "Residencial Sol", 300, 0),
		asset(models.AssetTypeDocument, models.CategoryTypeProject, "Residencial Sol", 50, 2),
		asset(models.AssetTypeDocument, models.CategoryTypeCampaign, "Inverno", 150, 0),
	}

	stats := Compute(assets, nil, nil, 7, 10)

	if stats.TotalAssets != len(assets) {
		t.Fatalf("totalAssets = %d, want %d", stats.TotalAssets, len(assets))
	}
	if len(stats.AssetsByType) != 4 {
		t.Fatalf("assetsByType has %d buckets, want 4 (zero-filled)", len(stats.AssetsByType))
	}
	sum := 0
	for _, n := range stats.AssetsByType {
		sum += n
	}
	if sum != len(assets) {
		t.Errorf("type buckets sum to %d, want %d", sum, len(assets))
	}
	if stats.AssetsByType[models.AssetTypeArchive] != 0 {
		t.Error("empty bucket missing or non-zero")
	}
	if stats.TotalDownloads != 6 {
		t.Errorf("totalDownloads = %d, want 6", stats.TotalDownloads)
	}
}

func TestCompute_CategoryGroupings(t *testing.T) {
	assets := []models.Asset{
		asset(models.AssetTypeImage, models.CategoryTypeCampaign, "Verão 2024", 1, 0),
		asset(models.AssetTypeVideo, models.CategoryTypeCampaign, "Verão 2024", 1, 0),
		asset(models.AssetTypeImage, models.CategoryTypeProject, "Residencial Sol", 1, 0),
	}

	stats := Compute(assets, nil, nil, 0, 0)

	if stats.AssetsByCampaign["Verão 2024"] != 2 {
		t.Errorf("campaign grouping = %v", stats.AssetsByCampaign)
	}
	if stats.AssetsByProject["Residencial Sol"] != 1 {
		t.Errorf("project grouping = %v", stats.AssetsByProject)
	}
	if len(stats.AssetsByCampaign) != 1 || len(stats.AssetsByProject) != 1 {
		t.Error("groupings leaked across category types")
	}
}

func TestCompute_StorageUsage(t *testing.T) {
	assets := []models.Asset{
		asset(models.AssetTypeImage, models.CategoryTypeCampaign, "c", 1<<30, 0),
		asset(models.AssetTypeVideo, models.CategoryTypeCampaign, "c", 1<<30, 0),
	}

	stats := Compute(assets, nil, nil, 0, 10)

	if stats.StorageUsedGB != 2 {
		t.Errorf("storageUsedGb = %v, want 2", stats.StorageUsedGB)
	}
	if stats.StoragePercent != 20 {
		t.Errorf("storagePercent = %v, want 20", stats.StoragePercent)
	}

	over := Compute(assets, nil, nil, 0, 1)
	if over.StoragePercent != 100 {
		t.Errorf("storagePercent = %v, want capped at 100", over.StoragePercent)
	}

	noLimit := Compute(assets, nil, nil, 0, 0)
	if noLimit.StoragePercent != 0 {
		t.Errorf("storagePercent without a limit = %v, want 0", noLimit.StoragePercent)
	}
}

func TestCompute_ActiveCampaigns(t *testing.T) {
	now := time.Now()
	past := now.AddDate(0, -1, 0)
	futureEnd := now.AddDate(0, 1, 0)
	expiredEnd := now.AddDate(0, 0, -5)
	expiringEnd := now.AddDate(0, 0, 1)

	campaigns := []models.Campaign{
		{StartDate: past, EndDate: &futureEnd},           // active
		{StartDate: past, EndDate: &expiringEnd},         // expiring, counts as active
		{StartDate: past, EndDate: &expiredEnd},          // archived
		{StartDate: now.AddDate(0, 1, 0), EndDate: nil},  // inactive
	}

	stats := Compute(nil, campaigns, nil, 0, 0)
	if stats.ActiveCampaigns != 2 {
		t.Errorf("activeCampaigns = %d, want 2", stats.ActiveCampaigns)
	}
	if stats.TotalCampaigns != 4 {
		t.Errorf("totalCampaigns = %d, want 4", stats.TotalCampaigns)
	}
}
