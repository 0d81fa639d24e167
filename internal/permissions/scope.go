package permissions

import (
	"brandvault/internal/models"

	"gorm.io/gorm"
)

// DataScope restricts which assets a user may see. It is applied at
// query-construction time and again in memory as defense in depth; it is not
// part of the capability matrix.
type DataScope struct {
	Unrestricted bool
	Regional     string
	Origin       models.MaterialOrigin
}

// ScopeForUser derives the data scope from the user record.
//
// Admins and marketing editors see everything. A viewer with the global
// escape hatch set sees everything. Trade editors and non-global viewers are
// pinned to their own regional; a scoped viewer may additionally be pinned to
// one material origin. An absent origin scope means no origin filter, never
// deny-all.
func ScopeForUser(user *models.User) DataScope {
	if user == nil {
		return DataScope{}
	}

	switch user.Role {
	case models.UserRoleAdmin, models.UserRoleEditorMarketing:
		return DataScope{Unrestricted: true}
	case models.UserRoleEditorTrade:
		return DataScope{Regional: models.NormalizeRegional(user.Regional)}
	case models.UserRoleViewer:
		if user.ViewerAccessToAll {
			return DataScope{Unrestricted: true}
		}
		return DataScope{
			Regional: models.NormalizeRegional(user.Regional),
			Origin:   user.MaterialOriginScope,
		}
	default:
		// Unknown role: visible set is empty
		return DataScope{}
	}
}

// AllowsAsset reports whether the asset falls inside the scope.
func (s DataScope) AllowsAsset(asset *models.Asset) bool {
	if s.Unrestricted {
		return true
	}
	if s.Regional == "" {
		return false
	}
	if models.NormalizeRegional(asset.Regional) != s.Regional {
		return false
	}
	if s.Origin != "" && asset.Origin != s.Origin {
		return false
	}
	return true
}

// FilterAssets drops out-of-scope assets. The backend query already filters;
// this re-check guards against an over-returning collaborator.
func (s DataScope) FilterAssets(assets []models.Asset) []models.Asset {
	if s.Unrestricted {
		return assets
	}
	filtered := make([]models.Asset, 0, len(assets))
	for i := range assets {
		if s.AllowsAsset(&assets[i]) {
			filtered = append(filtered, assets[i])
		}
	}
	return filtered
}

// Apply adds the scope's conditions to an asset query. Assets carry both a
// regional and an origin column, so this is the full filter.
func (s DataScope) Apply(query *gorm.DB) *gorm.DB {
	if s.Unrestricted || s.Regional == "" {
		return s.ApplyRegional(query)
	}
	query = s.ApplyRegional(query)
	if s.Origin != "" {
		query = query.Where("origin = ?", s.Origin)
	}
	return query
}

// ApplyRegional adds only the regional condition. Campaign and project tables
// have no origin column; the origin scope restricts materials, not the
// categories they hang off.
func (s DataScope) ApplyRegional(query *gorm.DB) *gorm.DB {
	if s.Unrestricted {
		return query
	}
	if s.Regional == "" {
		// Fail closed: a scoped user without a regional sees nothing.
		return query.Where("1 = 0")
	}
	return query.Where("regional = ?", s.Regional)
}
