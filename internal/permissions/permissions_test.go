package permissions

import (
	"testing"

	"brandvault/internal/models"
)

func TestHasPermission_Matrix(t *testing.T) {
	tests := []struct {
		name       string
		role       models.UserRole
		permission Permission
		want       bool
	}{
		{"admin can delete campaigns", models.UserRoleAdmin, DeleteCampaigns, true},
		{"admin can manage system", models.UserRoleAdmin, ManageSystem, true},
		{"marketing editor can upload", models.UserRoleEditorMarketing, UploadMaterials, true},
		{"marketing editor can create campaigns", models.UserRoleEditorMarketing, CreateCampaigns, true},
		{"marketing editor cannot delete materials", models.UserRoleEditorMarketing, DeleteMaterials, false},
		{"marketing editor cannot manage users", models.UserRoleEditorMarketing, ViewUsers, false},
		{"trade editor can upload", models.UserRoleEditorTrade, UploadMaterials, true},
		{"trade editor cannot create campaigns", models.UserRoleEditorTrade, CreateCampaigns, false},
		{"trade editor cannot create projects", models.UserRoleEditorTrade, CreateProjects, false},
		{"trade editor cannot delete campaigns", models.UserRoleEditorTrade, DeleteCampaigns, false},
		{"viewer can view materials", models.UserRoleViewer, ViewMaterials, true},
		{"viewer can download", models.UserRoleViewer, DownloadMaterials, true},
		{"viewer cannot upload", models.UserRoleViewer, UploadMaterials, false},
		{"viewer cannot access settings", models.UserRoleViewer, AccessSettings, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermission(tt.role, tt.permission); got != tt.want {
				t.Errorf("HasPermission(%s, %s) = %v, want %v", tt.role, tt.permission, got, tt.want)
			}
		})
	}
}

func TestHasPermission_EmptyRoleFailsClosed(t *testing.T) {
	all := []Permission{
		ViewMaterials, UploadMaterials, EditMaterials, DeleteMaterials,
		DownloadMaterials, ShareMaterials, ViewCampaigns, CreateCampaigns,
		EditCampaigns, DeleteCampaigns, ViewProjects, CreateProjects,
		EditProjects, DeleteProjects, ViewUsers, CreateUsers, EditUsers,
		DeleteUsers, ManagePermissions, ViewDashboard, ViewAnalytics,
		AccessSettings, ManageSystem, ViewSharedLinks, CreateSharedLinks,
		ManageSharedLinks,
	}
	for _, p := range all {
		if HasPermission("", p) {
			t.Errorf("HasPermission(empty role, %s) = true, want false", p)
		}
		if HasPermission("intruder", p) {
			t.Errorf("HasPermission(unknown role, %s) = true, want false", p)
		}
	}
}

func TestHasPermission_Deterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		if !HasPermission(models.UserRoleAdmin, DeleteMaterials) {
			t.Fatal("admin delete_materials flipped across calls")
		}
		if HasPermission(models.UserRoleViewer, DeleteMaterials) {
			t.Fatal("viewer delete_materials flipped across calls")
		}
	}
}

func TestHasAnyPermission(t *testing.T) {
	if !HasAnyPermission(models.UserRoleViewer, DeleteMaterials, ViewMaterials) {
		t.Error("viewer should satisfy OR check containing view_materials")
	}
	if HasAnyPermission(models.UserRoleViewer, DeleteMaterials, UploadMaterials) {
		t.Error("viewer should fail OR check with only write permissions")
	}
	if HasAnyPermission("", ViewMaterials) {
		t.Error("empty role should fail every OR check")
	}
}

func TestHasAllPermissions(t *testing.T) {
	if !HasAllPermissions(models.UserRoleAdmin, ViewMaterials, DeleteMaterials, ManageSystem) {
		t.Error("admin should satisfy AND over full set members")
	}
	if HasAllPermissions(models.UserRoleEditorMarketing, ViewMaterials, DeleteMaterials) {
		t.Error("marketing editor lacks delete_materials, AND must fail")
	}
	if HasAllPermissions("") {
		t.Error("empty role should fail even an empty AND check")
	}
}

func TestCanPerformAction(t *testing.T) {
	if !CanPerformAction(models.UserRoleAdmin, "delete_campaign") {
		t.Error("admin delete_campaign action denied")
	}
	if CanPerformAction(models.UserRoleEditorTrade, "create_campaign") {
		t.Error("trade editor create_campaign action allowed")
	}
	if CanPerformAction(models.UserRoleAdmin, "launch_rocket") {
		t.Error("unknown action must be denied")
	}
}
