package services

import (
	"reflect"
	"testing"
)

func TestParseActions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "upload_asset", []string{"upload_asset"}},
		{"multiple", "upload_asset,delete_asset", []string{"upload_asset", "delete_asset"}},
		{"spaces and empties", " upload_asset , ,delete_user,", []string{"upload_asset", "delete_user"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseActions(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseActions(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
