// Package dashboard computes the analytics shown on the home screen. It is a
// pure reduction over already-loaded collections, recomputed on every request.
package dashboard

import (
	"time"

	"brandvault/internal/models"
)

const bytesPerGiB = 1 << 30

// Stats is the aggregated view the dashboard and the PDF report consume.
type Stats struct {
	TotalAssets    int   `json:"totalAssets"`
	TotalCampaigns int   `json:"totalCampaigns"`
	TotalProjects  int   `json:"totalProjects"`
	TotalUsers     int   `json:"totalUsers"`
	TotalDownloads int64 `json:"totalDownloads"`

	StorageUsedBytes int64   `json:"storageUsedBytes"`
	StorageUsedGB    float64 `json:"storageUsedGb"`
	StorageLimitGB   float64 `json:"storageLimitGb"`
	StoragePercent   float64 `json:"storagePercent"`

	AssetsByType     map[models.AssetType]int `json:"assetsByType"`
	AssetsByCampaign map[string]int           `json:"assetsByCampaign"`
	AssetsByProject  map[string]int           `json:"assetsByProject"`

	ActiveCampaigns int `json:"activeCampaigns"`
}

// Compute aggregates the collections into dashboard statistics. The four type
// buckets are always present, zero-filled when a type has no assets; campaign
// and project groupings key on the denormalized category name.
func Compute(assets []models.Asset, campaigns []models.Campaign, projects []models.Project, userCount int, limitGB float64) Stats {
	stats := Stats{
		TotalAssets:      len(assets),
		TotalCampaigns:   len(campaigns),
		TotalProjects:    len(projects),
		TotalUsers:       userCount,
		StorageLimitGB:   limitGB,
		AssetsByType:     make(map[models.AssetType]int, len(models.AssetTypes)),
		AssetsByCampaign: make(map[string]int),
		AssetsByProject:  make(map[string]int),
	}
	for _, t := range models.AssetTypes {
		stats.AssetsByType[t] = 0
	}

	for i := range assets {
		a := &assets[i]
		stats.StorageUsedBytes += a.Size
		stats.TotalDownloads += a.DownloadCount
		stats.AssetsByType[a.Type]++

		name := a.CategoryName
		if name == "" {
			name = a.CategoryID
		}
		switch a.CategoryType {
		case models.CategoryTypeCampaign:
			stats.AssetsByCampaign[name]++
		case models.CategoryTypeProject:
			stats.AssetsByProject[name]++
		}
	}

	stats.StorageUsedGB = float64(stats.StorageUsedBytes) / bytesPerGiB
	if limitGB > 0 {
		stats.StoragePercent = stats.StorageUsedGB / limitGB * 100
		if stats.StoragePercent > 100 {
			stats.StoragePercent = 100
		}
	}

	today := time.Now()
	for i := range campaigns {
		switch campaigns[i].DerivedStatus(today) {
		case models.CampaignStatusActive, models.CampaignStatusExpiring:
			stats.ActiveCampaigns++
		}
	}

	return stats
}
