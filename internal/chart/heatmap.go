package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/reallygood83/mathemotion/domain/survey"
	"github.com/reallygood83/mathemotion/internal/analysis"
)

// correlationGrid adapts a correlation matrix to plotter.GridXYZ. Row 0 is
// drawn at the top.
type correlationGrid struct {
	corr *analysis.Correlation
}

func (g correlationGrid) Dims() (c, r int) {
	n := len(g.corr.Fields)
	return n, n
}

func (g correlationGrid) Z(c, r int) float64 {
	return g.corr.Values[r][c]
}

func (g correlationGrid) X(c int) float64 { return float64(c) }

func (g correlationGrid) Y(r int) float64 {
	return float64(len(g.corr.Fields) - 1 - r)
}

// itemCorrelation draws the annotated Pearson heat map on a fixed [-1,1] scale
func (r *Renderer) itemCorrelation(table *survey.Table) (*Image, error) {
	corr := analysis.Correlate(table, survey.ItemFields, r.opts.Policy)
	grid := correlationGrid{corr: corr}
	names := survey.Labels(survey.ItemFields)
	n := len(names)

	colors := moreland.SmoothBlueRed()
	colors.SetMin(-1)
	colors.SetMax(1)

	heat := plotter.NewHeatMap(grid, colors.Palette(255))
	heat.Min, heat.Max = -1, 1

	p := plot.New()
	p.Title.Text = "문항별 상관관계"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)
	p.Add(heat)

	xTicks := make([]plot.Tick, n)
	yTicks := make([]plot.Tick, n)
	for i, name := range names {
		xTicks[i] = plot.Tick{Value: grid.X(i), Label: name}
		yTicks[i] = plot.Tick{Value: grid.Y(i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	p.X.Tick.Label.Font.Size = vg.Points(10)
	p.Y.Tick.Label.Font.Size = vg.Points(10)

	xys := make(plotter.XYs, 0, n*n)
	texts := make([]string, 0, n*n)
	var styles []text.Style
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			v, defined := corr.At(row, col)
			label := fmt.Sprintf("%.2f", v)
			if !defined {
				label = "n/a"
			}
			xys = append(xys, plotter.XY{X: grid.X(col), Y: grid.Y(row)})
			texts = append(texts, label)

			sty := text.Style{
				Color:   color.Black,
				Font:    labelFont(vg.Points(8)),
				XAlign:  text.XCenter,
				YAlign:  text.YCenter,
				Handler: plot.DefaultTextHandler,
			}
			if math.Abs(v) > 0.6 {
				sty.Color = color.White
			}
			styles = append(styles, sty)
		}
	}
	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}
	annotations.TextStyle = styles
	p.Add(annotations)

	p.X.Min, p.X.Max = -0.5, float64(n)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(n)-0.5

	bar := plot.New()
	bar.Add(&plotter.ColorBar{ColorMap: colors, Vertical: true, Colors: 255})
	bar.HideX()
	bar.Y.Padding = 0
	bar.Y.Tick.Marker = plot.ConstantTicks([]plot.Tick{
		{Value: -1, Label: "-1.0"}, {Value: -0.5, Label: "-0.5"}, {Value: 0, Label: "0.0"},
		{Value: 0.5, Label: "0.5"}, {Value: 1, Label: "1.0"},
	})

	w, h := r.size()
	c, dc := newCanvas(w, h, r.opts.DPI)
	barW := vg.Points(70)
	p.Draw(draw.Crop(dc, 0, -barW, 0, 0))
	bar.Draw(draw.Crop(dc, w-barW+vg.Points(10), 0, vg.Points(90), -vg.Points(40)))

	png, err := encodePNG(c)
	if err != nil {
		return nil, err
	}
	return &Image{PNG: png, Kind: KindItemCorrelation, Series: 1}, nil
}
