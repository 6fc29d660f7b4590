package plot

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"fraudeda/domain/chart"
	"fraudeda/internal/config"
	"fraudeda/internal/errors"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	barColor     = color.RGBA{R: 76, G: 114, B: 176, A: 255}
	densityFill  = color.RGBA{R: 76, G: 114, B: 176, A: 80}
	nonWordChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
)

// Renderer draws chart specs with gonum/plot and saves them as files
type Renderer struct {
	outputDir string
	format    string
	width     vg.Length
	height    vg.Length
}

// NewRenderer creates a renderer writing into cfg.OutputDir, creating it if needed
func NewRenderer(cfg config.EDAConfig) (*Renderer, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating chart directory %s", cfg.OutputDir)
	}
	format := strings.TrimPrefix(strings.ToLower(cfg.Format), ".")
	if format == "" {
		format = "png"
	}
	return &Renderer{
		outputDir: cfg.OutputDir,
		format:    format,
		width:     vg.Length(cfg.Width) * vg.Inch,
		height:    vg.Length(cfg.Height) * vg.Inch,
	}, nil
}

// Histogram renders equal-width bins of h.Values, or one bar per category
// for textual columns. Non-finite values are skipped.
func (r *Renderer) Histogram(h chart.Histogram) (string, error) {
	if len(h.Categories) > 0 {
		p := newPlot(h.Labels)
		if err := addBars(p, h.Categories, h.Counts); err != nil {
			return "", err
		}
		return r.save(p, chart.KindHistogram, h.Column)
	}
	if h.Bins <= 0 {
		return "", errors.InvalidInput(fmt.Sprintf("histogram of %s needs a positive bin count", h.Column))
	}
	p := newPlot(h.Labels)

	values := finite(h.Values)
	if len(values) > 0 {
		hist, err := plotter.NewHist(values, h.Bins)
		if err != nil {
			return "", errors.Wrap(err, "building histogram")
		}
		hist.FillColor = barColor
		hist.LineStyle.Color = color.Black
		p.Add(hist)
	}
	return r.save(p, chart.KindHistogram, h.Column)
}

// BoxPlot renders a horizontal box and whisker plot. No values gives an
// empty axis.
func (r *Renderer) BoxPlot(b chart.BoxPlot) (string, error) {
	p := newPlot(b.Labels)

	values := finite(b.Values)
	if len(values) > 0 {
		box, err := plotter.NewBoxPlot(vg.Points(40), 0, values)
		if err != nil {
			return "", errors.Wrap(err, "building box plot")
		}
		box.Horizontal = true
		box.FillColor = barColor
		p.Add(box)
	}
	p.HideY()
	return r.save(p, chart.KindBoxPlot, b.Column)
}

// Density renders a shaded kernel density curve
func (r *Renderer) Density(d chart.Density) (string, error) {
	p := newPlot(d.Labels)

	if len(d.Curve) > 0 {
		line, err := plotter.NewLine(toXYs(d.Curve))
		if err != nil {
			return "", errors.Wrap(err, "building density curve")
		}
		line.Color = barColor
		line.FillColor = densityFill
		p.Add(line)
	}
	return r.save(p, chart.KindDensity, d.Column)
}

// Scatter renders paired points
func (r *Renderer) Scatter(s chart.Scatter) (string, error) {
	p := newPlot(s.Labels)

	if len(s.Points) > 0 {
		sc, err := plotter.NewScatter(toXYs(s.Points))
		if err != nil {
			return "", errors.Wrap(err, "building scatter plot")
		}
		sc.GlyphStyle.Color = barColor
		sc.GlyphStyle.Radius = vg.Points(2)
		p.Add(sc)
	}
	return r.save(p, chart.KindScatter, s.XColumn, s.YColumn)
}

// Heatmap renders h.Matrix on a diverging [-1, 1] scale with each cell annotated
func (r *Renderer) Heatmap(h chart.Heatmap) (string, error) {
	n := len(h.Names)
	if n == 0 || len(h.Matrix) != n {
		return "", errors.InvalidInput("heat map matrix must be square over its names")
	}
	for _, row := range h.Matrix {
		if len(row) != n {
			return "", errors.InvalidInput("heat map matrix must be square over its names")
		}
	}
	p := newPlot(h.Labels)

	grid := matrixGrid(h.Matrix)
	heat := plotter.NewHeatMap(grid, moreland.SmoothBlueRed().Palette(255))
	heat.Min, heat.Max = -1, 1
	p.Add(heat)

	var xys plotter.XYs
	var texts []string
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			xys = append(xys, plotter.XY{X: grid.X(col), Y: grid.Y(row)})
			texts = append(texts, formatCell(grid.Z(col, row)))
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return "", errors.Wrap(err, "building heat map labels")
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)

	yNames := make([]string, n)
	for i, name := range h.Names {
		yNames[n-1-i] = name
	}
	p.NominalX(h.Names...)
	p.NominalY(yNames...)
	return r.save(p, chart.KindHeatmap, h.Names...)
}

// CountPlot renders one bar per category in the given order
func (r *Renderer) CountPlot(c chart.CountPlot) (string, error) {
	p := newPlot(c.Labels)
	if err := addBars(p, c.Categories, c.Counts); err != nil {
		return "", err
	}
	return r.save(p, chart.KindCount, c.Column)
}

// addBars draws one bar per category with rotated nominal tick labels
func addBars(p *gplot.Plot, categories []string, counts []int) error {
	if len(categories) != len(counts) {
		return errors.InvalidInput("bar chart categories and counts differ in length")
	}
	if len(counts) == 0 {
		return nil
	}
	values := make(plotter.Values, len(counts))
	for i, n := range counts {
		values[i] = float64(n)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return errors.Wrap(err, "building bar chart")
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(categories...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return nil
}

func newPlot(l chart.Labels) *gplot.Plot {
	p := gplot.New()
	p.Title.Text = l.Title
	p.X.Label.Text = l.XLabel
	p.Y.Label.Text = l.YLabel
	return p
}

func (r *Renderer) save(p *gplot.Plot, kind chart.Kind, columns ...string) (string, error) {
	path := filepath.Join(r.outputDir, FileName(kind, r.format, columns...))
	if err := p.Save(r.width, r.height, path); err != nil {
		return "", errors.Wrapf(err, "saving %s chart", kind)
	}
	log.Printf("[Renderer] %s chart written to %s", kind, path)
	return path, nil
}

// FileName builds "<kind>_<col>[_<col>].<format>" with unsafe characters replaced
func FileName(kind chart.Kind, format string, columns ...string) string {
	parts := []string{string(kind)}
	for _, c := range columns {
		clean := strings.Trim(nonWordChars.ReplaceAllString(c, "_"), "_")
		if clean == "" {
			clean = "column"
		}
		parts = append(parts, clean)
	}
	return strings.Join(parts, "_") + "." + format
}

// finite drops NaN and infinite values, which plotter rejects
func finite(data []float64) plotter.Values {
	out := make(plotter.Values, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func toXYs(points []chart.Point) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	return xys
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.2f", v)
}

// matrixGrid adapts a square matrix to plotter.GridXYZ. Row 0 is drawn at
// the top so the layout reads like the printed matrix.
type matrixGrid [][]float64

func (g matrixGrid) Dims() (c, r int) { return len(g[0]), len(g) }

func (g matrixGrid) Z(c, r int) float64 { return g[len(g)-1-r][c] }

func (g matrixGrid) X(c int) float64 { return float64(c) }

func (g matrixGrid) Y(r int) float64 { return float64(r) }
