package models

import "time"

// Status colors, fixed palette
var campaignStatusColors = map[CampaignStatus]string{
	CampaignStatusActive:   "#dc2626",
	CampaignStatusInactive: "#2563eb",
	CampaignStatusExpiring: "#facc15",
	CampaignStatusArchived: "#6b7280",
}

// CampaignStatusColor returns the display color for a status.
func CampaignStatusColor(status CampaignStatus) string {
	if color, ok := campaignStatusColors[status]; ok {
		return color
	}
	return campaignStatusColors[CampaignStatusActive]
}

// DeriveCampaignStatus recomputes a campaign's status from its dates.
// Persisted status is never trusted; this runs on every read.
//
// Precedence: inactive (start in the future) > archived (end before today)
// > expiring (end within 2 days) > active. Comparisons are date-only.
func DeriveCampaignStatus(today time.Time, start time.Time, end *time.Time) CampaignStatus {
	day := truncateToDay(today)
	startDay := truncateToDay(start)

	if day.Before(startDay) {
		return CampaignStatusInactive
	}

	if end != nil {
		endDay := truncateToDay(*end)
		if day.After(endDay) {
			return CampaignStatusArchived
		}
		daysLeft := int(endDay.Sub(day).Hours() / 24)
		if daysLeft >= 0 && daysLeft <= 2 {
			return CampaignStatusExpiring
		}
	}

	return CampaignStatusActive
}

// DerivedStatus returns the campaign's current status from its own dates.
func (c *Campaign) DerivedStatus(today time.Time) CampaignStatus {
	return DeriveCampaignStatus(today, c.StartDate, c.EndDate)
}

// PersistableStatus maps a derived status to what is stored: "expiring" is a
// read-time refinement of "active" and is never written to the database.
func PersistableStatus(status CampaignStatus) CampaignStatus {
	if status == CampaignStatusExpiring {
		return CampaignStatusActive
	}
	return status
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
