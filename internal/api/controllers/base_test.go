package controllers

import (
	"testing"

	"brandvault/internal/models"
)

func TestToSnake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Name", "name"},
		{"CategoryID", "category_id"},
		{"ThumbnailURL", "thumbnail_url"},
		{"URL", "url"},
		{"ViewerAccessToAll", "viewer_access_to_all"},
	}

	for _, tt := range tests {
		if got := toSnake(tt.in); got != tt.want {
			t.Errorf("toSnake(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFieldToColumn(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"categoryId", "category_id"},
		{"categoryType", "category_type"},
		{"regional", "regional"},
		{"origin", "origin"},
		{"type", "type"},
		// Embedded Base columns
		{"id", "id"},
		{"createdAt", "created_at"},
		{"updatedAt", "updated_at"},
		// Unknown keys must never reach the WHERE clause
		{"password", ""},
		{"; DROP TABLE assets;", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := fieldToColumn[models.Asset](tt.key); got != tt.want {
			t.Errorf("fieldToColumn[Asset](%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestIsFilterableColumnRejectsUnknownKeys(t *testing.T) {
	if isFilterableColumn[models.Asset]("notAField") {
		t.Error("expected unknown key to be rejected")
	}
	if !isFilterableColumn[models.Asset]("categoryId") {
		t.Error("expected json field name to be accepted")
	}
}
