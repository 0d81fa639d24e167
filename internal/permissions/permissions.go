// Package permissions holds the static role -> capability matrix and the
// per-user data-visibility scopes. The two are deliberately separate
// mechanisms: the matrix answers "can this role ever do X", scopes answer
// "which rows can this user see".
package permissions

import "brandvault/internal/models"

type Permission string

const (
	// Material permissions
	ViewMaterials     Permission = "view_materials"
	UploadMaterials   Permission = "upload_materials"
	EditMaterials     Permission = "edit_materials"
	DeleteMaterials   Permission = "delete_materials"
	DownloadMaterials Permission = "download_materials"
	ShareMaterials    Permission = "share_materials"

	// Campaign permissions
	ViewCampaigns   Permission = "view_campaigns"
	CreateCampaigns Permission = "create_campaigns"
	EditCampaigns   Permission = "edit_campaigns"
	DeleteCampaigns Permission = "delete_campaigns"

	// Project permissions
	ViewProjects   Permission = "view_projects"
	CreateProjects Permission = "create_projects"
	EditProjects   Permission = "edit_projects"
	DeleteProjects Permission = "delete_projects"

	// User management
	ViewUsers         Permission = "view_users"
	CreateUsers       Permission = "create_users"
	EditUsers         Permission = "edit_users"
	DeleteUsers       Permission = "delete_users"
	ManagePermissions Permission = "manage_permissions"

	// System permissions
	ViewDashboard  Permission = "view_dashboard"
	ViewAnalytics  Permission = "view_analytics"
	AccessSettings Permission = "access_settings"
	ManageSystem   Permission = "manage_system"

	// Shared links
	ViewSharedLinks   Permission = "view_shared_links"
	CreateSharedLinks Permission = "create_shared_links"
	ManageSharedLinks Permission = "manage_shared_links"
)

// rolePermissions is configuration, not state: it never changes at runtime.
var rolePermissions = map[models.UserRole][]Permission{
	models.UserRoleAdmin: {
		ViewMaterials, UploadMaterials, EditMaterials, DeleteMaterials,
		DownloadMaterials, ShareMaterials,
		ViewCampaigns, CreateCampaigns, EditCampaigns, DeleteCampaigns,
		ViewProjects, CreateProjects, EditProjects, DeleteProjects,
		ViewUsers, CreateUsers, EditUsers, DeleteUsers, ManagePermissions,
		ViewDashboard, ViewAnalytics, AccessSettings, ManageSystem,
		ViewSharedLinks, CreateSharedLinks, ManageSharedLinks,
	},
	models.UserRoleEditorMarketing: {
		// No deletes, no user management, no global settings
		ViewMaterials, UploadMaterials, EditMaterials, DownloadMaterials,
		ShareMaterials,
		ViewCampaigns, CreateCampaigns, EditCampaigns,
		ViewProjects, CreateProjects, EditProjects,
		ViewDashboard, ViewAnalytics,
		ViewSharedLinks, CreateSharedLinks,
	},
	models.UserRoleEditorTrade: {
		// Like marketing, but cannot create campaigns or projects
		ViewMaterials, UploadMaterials, EditMaterials, DownloadMaterials,
		ShareMaterials,
		ViewCampaigns, EditCampaigns,
		ViewProjects, EditProjects,
		ViewDashboard,
		ViewSharedLinks, CreateSharedLinks,
	},
	models.UserRoleViewer: {
		// View and download only
		ViewMaterials, DownloadMaterials,
		ViewCampaigns, ViewProjects, ViewSharedLinks,
	},
}

// HasPermission reports whether the role grants the permission. An empty or
// unknown role never does.
func HasPermission(role models.UserRole, permission Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the role grants at least one of the
// given permissions.
func HasAnyPermission(role models.UserRole, perms ...Permission) bool {
	for _, p := range perms {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the role grants every given permission.
// Vacuously true for an empty list only when the role itself is known.
func HasAllPermissions(role models.UserRole, perms ...Permission) bool {
	if _, ok := rolePermissions[role]; !ok {
		return false
	}
	for _, p := range perms {
		if !HasPermission(role, p) {
			return false
		}
	}
	return true
}

// RolePermissions returns a copy of the role's permission set.
func RolePermissions(role models.UserRole) []Permission {
	perms := rolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

var actionPermissions = map[string]Permission{
	"view_materials":      ViewMaterials,
	"upload_material":     UploadMaterials,
	"edit_material":       EditMaterials,
	"delete_material":     DeleteMaterials,
	"download_material":   DownloadMaterials,
	"share_material":      ShareMaterials,
	"create_campaign":     CreateCampaigns,
	"edit_campaign":       EditCampaigns,
	"delete_campaign":     DeleteCampaigns,
	"create_project":      CreateProjects,
	"edit_project":        EditProjects,
	"delete_project":      DeleteProjects,
	"view_dashboard":      ViewDashboard,
	"manage_users":        ViewUsers,
	"access_settings":     AccessSettings,
	"create_shared_link":  CreateSharedLinks,
	"manage_shared_links": ManageSharedLinks,
}

// CanPerformAction maps a UI action name to its permission and checks it.
// Unknown actions are denied.
func CanPerformAction(role models.UserRole, action string) bool {
	permission, ok := actionPermissions[action]
	if !ok {
		return false
	}
	return HasPermission(role, permission)
}
