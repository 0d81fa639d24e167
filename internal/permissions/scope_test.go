package permissions

import (
	"strings"
	"testing"

	"brandvault/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func scopedAssets() []models.Asset {
	return []models.Asset{
		{Name: "sp-house", Regional: "SP", Origin: models.OriginHouse},
		{Name: "sp-ev", Regional: "SP", Origin: models.OriginEV},
		{Name: "rj-house", Regional: "RJ", Origin: models.OriginHouse},
		{Name: "mg-vendas", Regional: "MG", Origin: models.OriginTendaVendas},
	}
}

func TestScopeForUser_TradeEditorRegionalFilter(t *testing.T) {
	user := &models.User{Role: models.UserRoleEditorTrade, Regional: "sp "}
	scope := ScopeForUser(user)

	if scope.Unrestricted {
		t.Fatal("trade editor must not be unrestricted")
	}
	if scope.Regional != "SP" {
		t.Fatalf("regional = %q, want normalized SP", scope.Regional)
	}

	// Backend over-returns assets from other regionals; the client-side
	// filter must still pin the result to SP.
	filtered := ScopeForUser(user).FilterAssets(scopedAssets())
	if len(filtered) != 2 {
		t.Fatalf("filtered %d assets, want 2", len(filtered))
	}
	for _, a := range filtered {
		if a.Regional != "SP" {
			t.Errorf("asset %s leaked regional %s", a.Name, a.Regional)
		}
	}
}

func TestScopeForUser_GlobalRoles(t *testing.T) {
	for _, u := range []*models.User{
		{Role: models.UserRoleAdmin},
		{Role: models.UserRoleEditorMarketing, Regional: "SP"},
		{Role: models.UserRoleViewer, ViewerAccessToAll: true},
	} {
		scope := ScopeForUser(u)
		if !scope.Unrestricted {
			t.Errorf("role %s should be unrestricted", u.Role)
		}
		if got := scope.FilterAssets(scopedAssets()); len(got) != 4 {
			t.Errorf("role %s filtered to %d assets, want all 4", u.Role, len(got))
		}
	}
}

func TestScopeForUser_ViewerWithoutOriginScope(t *testing.T) {
	// Absence of a material origin scope means no origin filter, not deny-all.
	user := &models.User{Role: models.UserRoleViewer, Regional: "SP"}
	scope := ScopeForUser(user)

	filtered := scope.FilterAssets(scopedAssets())
	if len(filtered) != 2 {
		t.Fatalf("filtered %d assets, want both SP origins", len(filtered))
	}
}

func TestScopeForUser_ViewerWithOriginScope(t *testing.T) {
	user := &models.User{
		Role:                models.UserRoleViewer,
		Regional:            "SP",
		MaterialOriginScope: models.OriginEV,
	}
	filtered := ScopeForUser(user).FilterAssets(scopedAssets())
	if len(filtered) != 1 || filtered[0].Name != "sp-ev" {
		t.Fatalf("filtered = %v, want only sp-ev", filtered)
	}
}

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func TestApply_AssetQueryCarriesBothPredicates(t *testing.T) {
	user := &models.User{
		Role:                models.UserRoleViewer,
		Regional:            "SP",
		MaterialOriginScope: models.OriginEV,
	}
	db := dryRunDB(t)

	var assets []models.Asset
	stmt := ScopeForUser(user).Apply(db.Model(&models.Asset{})).Find(&assets).Statement
	sql := stmt.SQL.String()
	if !strings.Contains(sql, "regional = ?") {
		t.Errorf("asset query missing regional predicate: %s", sql)
	}
	if !strings.Contains(sql, "origin = ?") {
		t.Errorf("asset query missing origin predicate: %s", sql)
	}
}

func TestApplyRegional_CategoryQueriesHaveNoOriginPredicate(t *testing.T) {
	// Campaigns and projects carry no origin column, so a viewer pinned to a
	// material origin must still produce valid SQL against them.
	user := &models.User{
		Role:                models.UserRoleViewer,
		Regional:            "SP",
		MaterialOriginScope: models.OriginEV,
	}
	scope := ScopeForUser(user)

	var campaigns []models.Campaign
	stmt := scope.ApplyRegional(dryRunDB(t).Model(&models.Campaign{})).Find(&campaigns).Statement
	sql := stmt.SQL.String()
	if !strings.Contains(sql, "regional = ?") {
		t.Errorf("campaign query missing regional predicate: %s", sql)
	}
	if strings.Contains(sql, "origin") {
		t.Errorf("campaign query leaked an origin predicate: %s", sql)
	}

	var projects []models.Project
	stmt = scope.ApplyRegional(dryRunDB(t).Model(&models.Project{})).Find(&projects).Statement
	if sql := stmt.SQL.String(); strings.Contains(sql, "origin") {
		t.Errorf("project query leaked an origin predicate: %s", sql)
	}
}

func TestApplyRegional_UnrestrictedAndFailClosed(t *testing.T) {
	var campaigns []models.Campaign

	admin := ScopeForUser(&models.User{Role: models.UserRoleAdmin})
	stmt := admin.ApplyRegional(dryRunDB(t).Model(&models.Campaign{})).Find(&campaigns).Statement
	if sql := stmt.SQL.String(); strings.Contains(sql, "regional") {
		t.Errorf("unrestricted scope added a predicate: %s", sql)
	}

	noRegional := ScopeForUser(&models.User{Role: models.UserRoleViewer})
	stmt = noRegional.ApplyRegional(dryRunDB(t).Model(&models.Campaign{})).Find(&campaigns).Statement
	if sql := stmt.SQL.String(); !strings.Contains(sql, "1 = 0") {
		t.Errorf("scope without regional should fail closed: %s", sql)
	}
}

func TestScopeForUser_NilAndMissingRegional(t *testing.T) {
	if got := ScopeForUser(nil).FilterAssets(scopedAssets()); len(got) != 0 {
		t.Errorf("nil user saw %d assets, want 0", len(got))
	}

	// A scoped user whose regional was never set fails closed.
	user := &models.User{Role: models.UserRoleViewer}
	if got := ScopeForUser(user).FilterAssets(scopedAssets()); len(got) != 0 {
		t.Errorf("viewer without regional saw %d assets, want 0", len(got))
	}
}
