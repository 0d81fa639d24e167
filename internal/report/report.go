// Package report renders the analytics PDF export. Layout is procedural: each
// selected indicator has a renderer in a registry, invoked in the caller-given
// order against a shared cursor, with page breaks inserted whenever the next
// block would overflow the page.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"brandvault/internal/dashboard"
	"brandvault/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// Indicator ids accepted by Render.
const (
	IndicatorOverview      = "overview"
	IndicatorAssetTypes    = "assetTypes"
	IndicatorCampaigns     = "campaignDistribution"
	IndicatorProjects      = "projectDistribution"
	IndicatorActivity      = "recentActivity"
	IndicatorUploadsSeries = "uploadsVsDownloads"
)

// DefaultIndicators is the full report in its default order.
var DefaultIndicators = []string{
	IndicatorOverview,
	IndicatorAssetTypes,
	IndicatorCampaigns,
	IndicatorProjects,
	IndicatorUploadsSeries,
	IndicatorActivity,
}

// ActivityEntry is one line of the recent-activity section.
type ActivityEntry struct {
	Action    string
	UserName  string
	CreatedAt time.Time
}

// SeriesPoint is one day of the uploads-vs-downloads chart.
type SeriesPoint struct {
	Day       time.Time
	Uploads   int
	Downloads int
}

// Input carries everything the renderers read. It is assembled by the handler
// from the dashboard stats and a couple of extra queries.
type Input struct {
	CompanyName string
	StartDate   time.Time
	EndDate     time.Time

	Stats       dashboard.Stats
	ActiveLinks int

	RecentActivity []ActivityEntry
	Series         []SeriesPoint
}

// Renderer draws one indicator section and leaves the cursor below it.
type Renderer func(d *doc, in *Input)

// Generator holds the indicator registry. The registry is injectable so the
// rendering order can be observed in tests.
type Generator struct {
	registry     map[string]Renderer
	maxTableRows int
}

type Option func(*Generator)

// WithRenderer overrides or adds one indicator renderer.
func WithRenderer(id string, r Renderer) Option {
	return func(g *Generator) { g.registry[id] = r }
}

// WithMaxTableRows caps distribution tables before the "+N" footer kicks in.
func WithMaxTableRows(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxTableRows = n
		}
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		registry: map[string]Renderer{
			IndicatorOverview:      renderOverview,
			IndicatorAssetTypes:    renderAssetTypes,
			IndicatorCampaigns:     renderCampaignTable,
			IndicatorProjects:      renderProjectTable,
			IndicatorActivity:      renderRecentActivity,
			IndicatorUploadsSeries: renderSeriesChart,
		},
		maxTableRows: 10,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Render produces the PDF bytes for the selected indicators, drawn in the
// exact order given. Unknown ids are skipped.
func (g *Generator) Render(in *Input, indicators []string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	d := &doc{
		pdf:          pdf,
		tr:           pdf.UnicodeTranslatorFromDescriptor(""),
		left:         15,
		top:          15,
		bottom:       15,
		maxTableRows: g.maxTableRows,
	}
	d.pageW, d.pageH = pdf.GetPageSize()
	pdf.AddPage()
	d.y = d.top

	d.header(in)

	for _, id := range indicators {
		renderer, ok := g.registry[id]
		if !ok {
			continue
		}
		renderer(d, in)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report render: %w", err)
	}
	return buf.Bytes(), nil
}

// doc wraps the pdf with the shared cursor and page geometry.
type doc struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string

	y                 float64
	left, top, bottom float64
	pageW, pageH      float64

	maxTableRows int
}

func (d *doc) width() float64 { return d.pageW - 2*d.left }

// ensureSpace starts a fresh page when the next block of height h would run
// past the bottom margin.
func (d *doc) ensureSpace(h float64) {
	if d.y+h > d.pageH-d.bottom {
		d.pdf.AddPage()
		d.y = d.top
	}
}

func (d *doc) header(in *Input) {
	title := in.CompanyName
	if title == "" {
		title = "Relatório de Materiais"
	}
	d.pdf.SetFont("Helvetica", "B", 18)
	d.pdf.SetTextColor(17, 24, 39)
	d.pdf.SetXY(d.left, d.y)
	d.pdf.CellFormat(d.width(), 9, d.tr(title), "", 0, "L", false, 0, "")
	d.y += 9

	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetTextColor(107, 114, 128)
	period := fmt.Sprintf("Período: %s a %s", in.StartDate.Format("02/01/2006"), in.EndDate.Format("02/01/2006"))
	d.pdf.SetXY(d.left, d.y)
	d.pdf.CellFormat(d.width(), 6, d.tr(period), "", 0, "L", false, 0, "")
	d.y += 10
}

func (d *doc) sectionTitle(title string) {
	d.ensureSpace(12)
	d.pdf.SetFont("Helvetica", "B", 13)
	d.pdf.SetTextColor(17, 24, 39)
	d.pdf.SetXY(d.left, d.y)
	d.pdf.CellFormat(d.width(), 8, d.tr(title), "", 0, "L", false, 0, "")
	d.y += 10
}

// renderOverview draws the four metric cards in one row.
func renderOverview(d *doc, in *Input) {
	d.sectionTitle("Visão Geral")

	cards := []struct {
		label string
		value string
	}{
		{"Materiais", fmt.Sprintf("%d", in.Stats.TotalAssets)},
		{"Downloads", fmt.Sprintf("%d", in.Stats.TotalDownloads)},
		{"Usuários", fmt.Sprintf("%d", in.Stats.TotalUsers)},
		{"Links Ativos", fmt.Sprintf("%d", in.ActiveLinks)},
	}

	const cardH = 22
	gap := 4.0
	cardW := (d.width() - gap*float64(len(cards)-1)) / float64(len(cards))

	d.ensureSpace(cardH + 6)
	x := d.left
	for _, card := range cards {
		d.pdf.SetFillColor(243, 244, 246)
		d.pdf.Rect(x, d.y, cardW, cardH, "F")

		d.pdf.SetFont("Helvetica", "B", 15)
		d.pdf.SetTextColor(17, 24, 39)
		d.pdf.SetXY(x, d.y+4)
		d.pdf.CellFormat(cardW, 8, card.value, "", 0, "C", false, 0, "")

		d.pdf.SetFont("Helvetica", "", 9)
		d.pdf.SetTextColor(107, 114, 128)
		d.pdf.SetXY(x, d.y+13)
		d.pdf.CellFormat(cardW, 5, d.tr(card.label), "", 0, "C", false, 0, "")

		x += cardW + gap
	}
	d.y += cardH + 8
}

var assetTypeLabels = map[models.AssetType]string{
	models.AssetTypeImage:    "Imagens",
	models.AssetTypeVideo:    "Vídeos",
	models.AssetTypeDocument: "Documentos",
	models.AssetTypeArchive:  "Arquivos",
}

// renderAssetTypes draws one horizontal bar per type, width proportional to
// the largest bucket.
func renderAssetTypes(d *doc, in *Input) {
	d.sectionTitle("Materiais por Tipo")

	max := 0
	for _, t := range models.AssetTypes {
		if n := in.Stats.AssetsByType[t]; n > max {
			max = n
		}
	}

	const rowH = 8
	labelW := 35.0
	countW := 15.0
	barMax := d.width() - labelW - countW

	for _, t := range models.AssetTypes {
		d.ensureSpace(rowH)
		n := in.Stats.AssetsByType[t]

		d.pdf.SetFont("Helvetica", "", 10)
		d.pdf.SetTextColor(55, 65, 81)
		d.pdf.SetXY(d.left, d.y)
		d.pdf.CellFormat(labelW, rowH, d.tr(assetTypeLabels[t]), "", 0, "L", false, 0, "")

		if max > 0 && n > 0 {
			w := barMax * float64(n) / float64(max)
			d.pdf.SetFillColor(37, 99, 235)
			d.pdf.Rect(d.left+labelW, d.y+1.5, w, rowH-3, "F")
		}

		d.pdf.SetXY(d.left+labelW+barMax, d.y)
		d.pdf.CellFormat(countW, rowH, fmt.Sprintf("%d", n), "", 0, "R", false, 0, "")
		d.y += rowH
	}
	d.y += 6
}

func renderCampaignTable(d *doc, in *Input) {
	renderDistribution(d, "Materiais por Campanha", in.Stats.AssetsByCampaign)
}

func renderProjectTable(d *doc, in *Input) {
	renderDistribution(d, "Materiais por Empreendimento", in.Stats.AssetsByProject)
}

// renderDistribution draws a two-column name/count table, sorted by count
// descending, truncated at the configured row cap with a "+N" footer.
func renderDistribution(d *doc, title string, groups map[string]int) {
	d.sectionTitle(title)

	type row struct {
		name  string
		count int
	}
	rows := make([]row, 0, len(groups))
	for name, count := range groups {
		rows = append(rows, row{name, count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].name < rows[j].name
	})

	const rowH = 7
	nameW := d.width() - 25
	countW := 25.0

	d.ensureSpace(rowH)
	d.pdf.SetFont("Helvetica", "B", 9)
	d.pdf.SetFillColor(243, 244, 246)
	d.pdf.SetTextColor(55, 65, 81)
	d.pdf.SetXY(d.left, d.y)
	d.pdf.CellFormat(nameW, rowH, d.tr("Nome"), "1", 0, "L", true, 0, "")
	d.pdf.CellFormat(countW, rowH, d.tr("Materiais"), "1", 0, "R", true, 0, "")
	d.y += rowH

	visible := rows
	overflow := 0
	if len(rows) > d.maxTableRows {
		visible = rows[:d.maxTableRows]
		overflow = len(rows) - d.maxTableRows
	}

	d.pdf.SetFont("Helvetica", "", 9)
	for _, r := range visible {
		d.ensureSpace(rowH)
		d.pdf.SetXY(d.left, d.y)
		d.pdf.CellFormat(nameW, rowH, d.tr(r.name), "1", 0, "L", false, 0, "")
		d.pdf.CellFormat(countW, rowH, fmt.Sprintf("%d", r.count), "1", 0, "R", false, 0, "")
		d.y += rowH
	}

	if overflow > 0 {
		d.ensureSpace(rowH)
		d.pdf.SetFont("Helvetica", "I", 9)
		d.pdf.SetTextColor(107, 114, 128)
		d.pdf.SetXY(d.left, d.y)
		d.pdf.CellFormat(d.width(), rowH, d.tr(fmt.Sprintf("+%d outros", overflow)), "", 0, "L", false, 0, "")
		d.y += rowH
	}

	if len(rows) == 0 {
		d.ensureSpace(rowH)
		d.pdf.SetFont("Helvetica", "I", 9)
		d.pdf.SetTextColor(107, 114, 128)
		d.pdf.SetXY(d.left, d.y)
		d.pdf.CellFormat(d.width(), rowH, d.tr("Nenhum material no período"), "", 0, "L", false, 0, "")
		d.y += rowH
	}
	d.y += 6
}

func renderRecentActivity(d *doc, in *Input) {
	d.sectionTitle("Atividade Recente")

	const rowH = 6
	if len(in.RecentActivity) == 0 {
		d.ensureSpace(rowH)
		d.pdf.SetFont("Helvetica", "I", 9)
		d.pdf.SetTextColor(107, 114, 128)
		d.pdf.SetXY(d.left, d.y)
		d.pdf.CellFormat(d.width(), rowH, d.tr("Nenhuma atividade no período"), "", 0, "L", false, 0, "")
		d.y += rowH + 6
		return
	}

	d.pdf.SetFont("Helvetica", "", 9)
	for _, entry := range in.RecentActivity {
		d.ensureSpace(rowH)
		line := fmt.Sprintf("%s  ·  %s  ·  %s",
			entry.CreatedAt.Format("02/01 15:04"), entry.UserName, entry.Action)
		d.pdf.SetTextColor(55, 65, 81)
		d.pdf.SetXY(d.left, d.y)
		d.pdf.CellFormat(d.width(), rowH, d.tr(line), "", 0, "L", false, 0, "")
		d.y += rowH
	}
	d.y += 6
}

// renderSeriesChart draws the uploads-vs-downloads lines as explicit
// point-to-point segments with one fixed color per series.
func renderSeriesChart(d *doc, in *Input) {
	d.sectionTitle("Envios x Downloads")

	const chartH = 55.0
	d.ensureSpace(chartH + 14)

	x0 := d.left
	y0 := d.y
	w := d.width()

	// frame and baseline
	d.pdf.SetDrawColor(229, 231, 235)
	d.pdf.SetLineWidth(0.2)
	d.pdf.Rect(x0, y0, w, chartH, "D")

	if len(in.Series) >= 2 {
		max := 1
		for _, p := range in.Series {
			if p.Uploads > max {
				max = p.Uploads
			}
			if p.Downloads > max {
				max = p.Downloads
			}
		}

		step := w / float64(len(in.Series)-1)
		plotY := func(v int) float64 {
			return y0 + chartH - (chartH-4)*float64(v)/float64(max) - 2
		}

		d.pdf.SetLineWidth(0.5)
		d.pdf.SetDrawColor(37, 99, 235) // uploads
		for i := 1; i < len(in.Series); i++ {
			d.pdf.Line(x0+step*float64(i-1), plotY(in.Series[i-1].Uploads),
				x0+step*float64(i), plotY(in.Series[i].Uploads))
		}

		d.pdf.SetDrawColor(220, 38, 38) // downloads
		for i := 1; i < len(in.Series); i++ {
			d.pdf.Line(x0+step*float64(i-1), plotY(in.Series[i-1].Downloads),
				x0+step*float64(i), plotY(in.Series[i].Downloads))
		}
	}

	d.y += chartH + 3

	// legend
	d.pdf.SetFont("Helvetica", "", 8)
	d.pdf.SetFillColor(37, 99, 235)
	d.pdf.Rect(d.left, d.y+1, 4, 3, "F")
	d.pdf.SetTextColor(55, 65, 81)
	d.pdf.SetXY(d.left+6, d.y)
	d.pdf.CellFormat(25, 5, d.tr("Envios"), "", 0, "L", false, 0, "")
	d.pdf.SetFillColor(220, 38, 38)
	d.pdf.Rect(d.left+34, d.y+1, 4, 3, "F")
	d.pdf.SetXY(d.left+40, d.y)
	d.pdf.CellFormat(25, 5, d.tr("Downloads"), "", 0, "L", false, 0, "")
	d.y += 10
}
