package report

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"brandvault/internal/dashboard"
	"brandvault/internal/models"
)

func sampleInput() *Input {
	assets := []models.Asset{
		{Type: models.AssetTypeImage, CategoryType: models.CategoryTypeCampaign, CategoryName: "Verão", Size: 1024, DownloadCount: 4},
		{Type: models.AssetTypeVideo, CategoryType: models.CategoryTypeProject, CategoryName: "Residencial Sol", Size: 2048, DownloadCount: 1},
	}
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return &Input{
		CompanyName: "BrandVault",
		StartDate:   start,
		EndDate:     start.AddDate(0, 1, 0),
		Stats:       dashboard.Compute(assets, nil, nil, 3, 10),
		ActiveLinks: 2,
		RecentActivity: []ActivityEntry{
			{Action: "upload_asset", UserName: "Ana", CreatedAt: start},
		},
		Series: []SeriesPoint{
			{Day: start, Uploads: 3, Downloads: 1},
			{Day: start.AddDate(0, 0, 1), Uploads: 1, Downloads: 5},
			{Day: start.AddDate(0, 0, 2), Uploads: 0, Downloads: 2},
		},
	}
}

func TestRender_IndicatorsDrawInSelectionOrder(t *testing.T) {
	var drawn []string
	spy := func(id string) Renderer {
		return func(d *doc, in *Input) { drawn = append(drawn, id) }
	}

	g := NewGenerator(
		WithRenderer("a", spy("a")),
		WithRenderer("b", spy("b")),
		WithRenderer("c", spy("c")),
	)

	selection := []string{"c", "a", "b", "a"}
	if _, err := g.Render(sampleInput(), selection); err != nil {
		t.Fatalf("render: %v", err)
	}

	if len(drawn) != len(selection) {
		t.Fatalf("drew %v, want %v", drawn, selection)
	}
	for i := range selection {
		if drawn[i] != selection[i] {
			t.Fatalf("drew %v, want selection order %v", drawn, selection)
		}
	}
}

func TestRender_UnknownIndicatorsSkipped(t *testing.T) {
	var drawn []string
	g := NewGenerator(WithRenderer("known", func(d *doc, in *Input) {
		drawn = append(drawn, "known")
	}))

	if _, err := g.Render(sampleInput(), []string{"bogus", "known", "alsoBogus"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(drawn) != 1 || drawn[0] != "known" {
		t.Fatalf("drew %v, want only the known indicator", drawn)
	}
}

func TestRender_ProducesPDF(t *testing.T) {
	g := NewGenerator()
	out, err := g.Render(sampleInput(), DefaultIndicators)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not start with a PDF header: %q", out[:min(8, len(out))])
	}
}

func TestRender_LargeTablesPaginate(t *testing.T) {
	in := sampleInput()
	in.Stats.AssetsByCampaign = make(map[string]int)
	for i := 0; i < 80; i++ {
		in.Stats.AssetsByCampaign[fmt.Sprintf("Campanha %02d", i)] = i
	}

	g := NewGenerator(WithMaxTableRows(100))
	out, err := g.Render(in, []string{IndicatorCampaigns, IndicatorActivity})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty output")
	}
}

func TestRender_EmptyInput(t *testing.T) {
	in := &Input{
		StartDate: time.Now(),
		EndDate:   time.Now(),
		Stats:     dashboard.Compute(nil, nil, nil, 0, 0),
	}
	g := NewGenerator()
	if _, err := g.Render(in, DefaultIndicators); err != nil {
		t.Fatalf("render on empty input: %v", err)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
