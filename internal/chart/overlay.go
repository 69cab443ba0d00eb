package chart

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/reallygood83/mathemotion/domain/survey"
	"github.com/reallygood83/mathemotion/internal/errors"
)

// allStudents draws one line per distinct student over the ten items, with the
// legend in a strip to the right of the plot
func (r *Renderer) allStudents(table *survey.Table) (*Image, error) {
	students := table.Students()
	if len(students) == 0 {
		return nil, errors.EntityNotFound("student", "(any)")
	}

	p := newPlot("모든 학생의 설문 응답 비교", "점수 (1-5)", survey.Labels(survey.ItemFields))
	p.Add(plotter.NewGrid())

	legend := plot.NewLegend()
	legend.Top = true
	legend.Left = true
	legend.TextStyle.Font.Size = vg.Points(9)

	colors := palette.Rainbow(max(len(students), 2), 0, 0.85, 0.9, 0.85, 1).Colors()
	lo, hi := 0.0, 0.0
	for i, name := range students {
		rec, _ := table.FindStudent(name)
		pts := make(plotter.XYs, len(survey.ItemFields))
		for j, f := range survey.ItemFields {
			v := rec.ScoreOrZero(f)
			pts[j] = plotter.XY{X: float64(j), Y: v}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, err
		}
		line.Color = colors[i%len(colors)]
		line.Width = vg.Points(1.5)
		points.Color = colors[i%len(colors)]
		points.Shape = draw.CircleGlyph{}
		points.Radius = vg.Points(3)

		p.Add(line, points)
		legend.Add(name, line, points)
	}
	scoreAxis(p, lo, hi)

	w, h := r.size()
	c, dc := newCanvas(w, h, r.opts.DPI)
	legendW := vg.Points(110)
	p.Draw(draw.Crop(dc, 0, -legendW, 0, 0))

	strip := draw.Crop(dc, w-legendW+vg.Points(8), 0, 0, -vg.Points(40))
	title := text.Style{
		Color:   color.Black,
		Font:    labelFont(vg.Points(10)),
		XAlign:  text.XLeft,
		YAlign:  text.YBottom,
		Handler: plot.DefaultTextHandler,
	}
	strip.FillText(title, vg.Point{X: strip.Min.X, Y: strip.Max.Y + vg.Points(4)}, "학생 이름")
	legend.Draw(strip)

	png, err := encodePNG(c)
	if err != nil {
		return nil, err
	}
	return &Image{PNG: png, Kind: KindAllStudents, Series: len(students)}, nil
}
