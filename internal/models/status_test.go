package models

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(t time.Time) *time.Time { return &t }

func TestDeriveCampaignStatus(t *testing.T) {
	today := day(2024, 6, 10)

	tests := []struct {
		name  string
		start time.Time
		end   *time.Time
		want  CampaignStatus
	}{
		{"future start is inactive", day(2024, 7, 1), nil, CampaignStatusInactive},
		{"past end is archived", day(2024, 1, 1), datePtr(day(2024, 6, 9)), CampaignStatusArchived},
		{"one day left is expiring", day(2024, 6, 1), datePtr(day(2024, 6, 11)), CampaignStatusExpiring},
		{"ends today is expiring", day(2024, 6, 1), datePtr(day(2024, 6, 10)), CampaignStatusExpiring},
		{"two days left is expiring", day(2024, 6, 1), datePtr(day(2024, 6, 12)), CampaignStatusExpiring},
		{"three days left is active", day(2024, 6, 1), datePtr(day(2024, 6, 13)), CampaignStatusActive},
		{"open-ended past start is active", day(2024, 1, 1), nil, CampaignStatusActive},
		{"starts today is active", day(2024, 6, 10), nil, CampaignStatusActive},
		// Precedence: a future start wins even when the end window would
		// classify as expiring or archived.
		{"inactive beats expiring", day(2024, 7, 1), datePtr(day(2024, 6, 11)), CampaignStatusInactive},
		{"inactive beats archived", day(2024, 7, 1), datePtr(day(2024, 6, 1)), CampaignStatusInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveCampaignStatus(today, tt.start, tt.end); got != tt.want {
				t.Errorf("DeriveCampaignStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDeriveCampaignStatus_TimeOfDayIgnored(t *testing.T) {
	today := time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC)
	start := time.Date(2024, 6, 10, 8, 30, 0, 0, time.UTC)
	if got := DeriveCampaignStatus(today, start, nil); got != CampaignStatusActive {
		t.Errorf("same-day start with later clock time = %s, want active", got)
	}
}

func TestPersistableStatus(t *testing.T) {
	if got := PersistableStatus(CampaignStatusExpiring); got != CampaignStatusActive {
		t.Errorf("expiring persists as %s, want active", got)
	}
	for _, s := range []CampaignStatus{CampaignStatusActive, CampaignStatusInactive, CampaignStatusArchived} {
		if got := PersistableStatus(s); got != s {
			t.Errorf("PersistableStatus(%s) = %s, want unchanged", s, got)
		}
	}
}

func TestCampaignStatusColor(t *testing.T) {
	if CampaignStatusColor(CampaignStatusExpiring) == CampaignStatusColor(CampaignStatusArchived) {
		t.Error("expiring and archived must not share a color")
	}
	if CampaignStatusColor("bogus") != CampaignStatusColor(CampaignStatusActive) {
		t.Error("unknown status should fall back to the active color")
	}
}

func TestNormalizeRegional(t *testing.T) {
	tests := []struct{ in, want string }{
		{"sp", "SP"},
		{" sp ", "SP"},
		{"SP", "SP"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeRegional(tt.in); got != tt.want {
			t.Errorf("NormalizeRegional(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
