package chart

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/reallygood83/mathemotion/domain/survey"
	"github.com/reallygood83/mathemotion/internal/analysis"
	"github.com/reallygood83/mathemotion/internal/errors"
)

var (
	profileColor = color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0xff}
	changeColor  = color.RGBA{R: 0x55, G: 0xa8, B: 0x68, A: 0xff}
	summaryColor = color.RGBA{R: 0xdd, G: 0x84, B: 0x52, A: 0xff}
)

// captionRunes is the wrap width of the evaluation caption
const captionRunes = 90

// studentBars draws one student's first record as bars over fields
func (r *Renderer) studentBars(table *survey.Table, student string, fields []survey.Field, kind Kind) (*Image, error) {
	if student == "" {
		return nil, errors.InvalidInput("a student name is required for " + string(kind))
	}
	rec, ok := table.FindStudent(student)
	if !ok {
		return nil, errors.EntityNotFound("student", student)
	}

	values := make(plotter.Values, len(fields))
	for i, f := range fields {
		values[i] = rec.ScoreOrZero(f) // missing shows as an empty bar
	}

	title := fmt.Sprintf("%s 학생의 설문 응답", student)
	yLabel := "점수 (1-5)"
	barColor := profileColor
	if kind == KindStudentChange {
		title = fmt.Sprintf("%s 학생의 수업 전후 변화", student)
		yLabel = "변화 점수 (1-5)"
		barColor = changeColor
	}

	p := newPlot(title, yLabel, survey.Labels(fields))
	bars, err := plotter.NewBarChart(values, vg.Points(barWidth(len(fields))))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)

	labels, err := valueLabels(values, "%.1f")
	if err != nil {
		return nil, err
	}
	p.Add(labels)
	lo, hi := extent(values)
	scoreAxis(p, lo, hi)

	var caption []string
	if kind == KindStudentProfile {
		caption = evaluationCaption(rec)
	}
	return r.draw(p, kind, 1, caption)
}

// itemSummary draws per-item means with standard-deviation error bars
func (r *Renderer) itemSummary(table *survey.Table) (*Image, error) {
	summaries := analysis.Summarize(table, survey.ItemFields, r.opts.Policy)

	means := make(plotter.Values, len(summaries))
	errs := errorPoints{
		XYs:     make(plotter.XYs, len(summaries)),
		YErrors: make(plotter.YErrors, len(summaries)),
	}
	lo, hi := 0.0, 0.0
	for i, s := range summaries {
		means[i] = s.Mean
		errs.XYs[i] = plotter.XY{X: float64(i), Y: s.Mean}
		errs.YErrors[i].Low = s.Std
		errs.YErrors[i].High = s.Std
		if s.Mean-s.Std < lo {
			lo = s.Mean - s.Std
		}
		if s.Mean+s.Std > hi {
			hi = s.Mean + s.Std
		}
	}

	p := newPlot("문항별 평균 점수 (오차 막대: 표준편차)", "평균 점수 (1-5)", survey.Labels(survey.ItemFields))
	bars, err := plotter.NewBarChart(means, vg.Points(barWidth(len(means))))
	if err != nil {
		return nil, err
	}
	bars.Color = summaryColor
	bars.LineStyle.Width = 0
	p.Add(bars)

	yerr, err := plotter.NewYErrorBars(errs)
	if err != nil {
		return nil, err
	}
	yerr.CapWidth = vg.Points(10)
	yerr.LineStyle.Width = vg.Points(1.2)
	p.Add(yerr)

	labels, err := valueLabels(means, "%.2f")
	if err != nil {
		return nil, err
	}
	// keep mean labels clear of the error bar caps
	for i := range labels.XYs {
		labels.XYs[i].Y += summaries[i].Std
	}
	p.Add(labels)
	scoreAxis(p, lo, hi)

	return r.draw(p, KindItemSummary, 1, nil)
}

// errorPoints pairs bar tops with symmetric error extents
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

func valueLabels(values plotter.Values, format string) (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(values))
	texts := make([]string, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: float64(i), Y: v}
		texts[i] = fmt.Sprintf(format, v)
		if math.Abs(v) >= 1e6 {
			texts[i] = strconv.FormatFloat(v, 'g', 4, 64)
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YBottom
		labels.TextStyle[i].Font.Size = vg.Points(10)
	}
	labels.Offset = vg.Point{Y: vg.Points(3)}
	return labels, nil
}

func barWidth(n int) float64 {
	if n <= 3 {
		return 80
	}
	return 40
}

func extent(values plotter.Values) (lo, hi float64) {
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// evaluationCaption renders summary and self-assessment text as caption lines
func evaluationCaption(rec survey.Record) []string {
	summary := rec.Field(survey.FieldSummaryText).String()
	self := rec.Field(survey.FieldSelfAssessment).String()
	if summary == "" && self == "" {
		return nil
	}
	var lines []string
	if summary != "" {
		lines = append(lines, wrapRunes(survey.FieldSummaryText.Label()+": "+summary, captionRunes)...)
	}
	if self != "" {
		lines = append(lines, wrapRunes(survey.FieldSelfAssessment.Label()+": "+self, captionRunes)...)
	}
	return lines
}

func wrapRunes(s string, width int) []string {
	s = strings.Join(strings.Fields(s), " ")
	var lines []string
	for utf8.RuneCountInString(s) > width {
		runes := []rune(s)
		cut := width
		for i := width; i > width/2; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		lines = append(lines, strings.TrimSpace(string(runes[:cut])))
		s = strings.TrimSpace(string(runes[cut:]))
	}
	if s != "" {
		lines = append(lines, s)
	}
	return lines
}

// draw renders p onto a fresh canvas, reserving space below it for caption lines
func (r *Renderer) draw(p *plot.Plot, kind Kind, series int, caption []string) (*Image, error) {
	w, h := r.size()
	c, dc := newCanvas(w, h, r.opts.DPI)

	lineH := vg.Points(14)
	captionH := vg.Length(len(caption)) * lineH
	if captionH > 0 {
		captionH += vg.Points(10)
	}
	p.Draw(draw.Crop(dc, 0, 0, captionH, 0))

	if len(caption) > 0 {
		sty := text.Style{
			Color:   color.Black,
			Font:    labelFont(vg.Points(10)),
			XAlign:  text.XLeft,
			YAlign:  text.YBottom,
			Handler: plot.DefaultTextHandler,
		}
		for i, line := range caption {
			y := dc.Min.Y + vg.Points(6) + vg.Length(len(caption)-1-i)*lineH
			dc.FillText(sty, vg.Point{X: dc.Min.X + vg.Points(12), Y: y}, line)
		}
	}

	png, err := encodePNG(c)
	if err != nil {
		return nil, err
	}
	return &Image{PNG: png, Kind: kind, Series: series}, nil
}
