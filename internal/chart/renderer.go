package chart

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/reallygood83/mathemotion/domain/survey"
	"github.com/reallygood83/mathemotion/internal"
	"github.com/reallygood83/mathemotion/internal/analysis"
	"github.com/reallygood83/mathemotion/internal/errors"
)

// Options configures the raster output
type Options struct {
	DPI          int
	WidthInches  float64
	HeightInches float64
	Policy       analysis.MissingPolicy
	Fonts        *FontLocator
}

// DefaultOptions renders 12x8 inch charts at 300 DPI with missing cells as zero
func DefaultOptions() Options {
	return Options{
		DPI:          300,
		WidthInches:  12,
		HeightInches: 8,
		Policy:       analysis.MissingAsZero,
	}
}

// Renderer draws the dashboard charts
type Renderer struct {
	opts     Options
	logger   *internal.Logger
	font     *FontChoice
	fontWarn string
}

// NewRenderer creates a renderer and installs a Korean font for every plot.
// Each distinct font setup is searched once; the plot default font is shared
// by the process, so the renderer built last with a located font sets it.
func NewRenderer(opts Options, logger *internal.Logger) *Renderer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	defaults := DefaultOptions()
	if opts.DPI <= 0 {
		opts.DPI = defaults.DPI
	}
	if opts.WidthInches <= 0 {
		opts.WidthInches = defaults.WidthInches
	}
	if opts.HeightInches <= 0 {
		opts.HeightInches = defaults.HeightInches
	}
	if opts.Policy == "" {
		opts.Policy = defaults.Policy
	}
	if opts.Fonts == nil {
		opts.Fonts = NewFontLocator("", nil)
	}

	r := &Renderer{opts: opts, logger: logger}
	r.font, r.fontWarn = installFont(opts.Fonts, logger)
	return r
}

// Font returns the Korean font in use, or nil when the fallback is active
func (r *Renderer) Font() *FontChoice { return r.font }

// Policy returns the missing-value policy used for aggregate charts
func (r *Renderer) Policy() analysis.MissingPolicy { return r.opts.Policy }

// Render draws the requested chart. Unknown students yield EntityNotFound,
// a table without every survey item yields SchemaIncomplete, anything else
// that goes wrong yields RenderFailure.
func (r *Renderer) Render(ctx context.Context, table *survey.Table, req Request) (img *Image, err error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.RenderFailure("render cancelled", err)
	}
	if table == nil || table.Len() == 0 {
		return nil, errors.InvalidInput("no survey data loaded")
	}
	if err := table.RequireItems(); err != nil {
		return nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("[Chart] panic rendering %s: %v", req.Kind, rec)
			img, err = nil, errors.RenderFailure(fmt.Sprintf("rendering %s failed", req.Kind), fmt.Errorf("%v", rec))
		}
	}()

	start := time.Now()
	switch req.Kind {
	case KindStudentProfile:
		img, err = r.studentBars(table, req.Student, survey.ItemFields, KindStudentProfile)
	case KindStudentChange:
		img, err = r.studentBars(table, req.Student, survey.ChangeFields, KindStudentChange)
	case KindItemSummary:
		img, err = r.itemSummary(table)
	case KindItemCorrelation:
		img, err = r.itemCorrelation(table)
	case KindAllStudents:
		img, err = r.allStudents(table)
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown chart kind: %s", req.Kind))
	}
	if err != nil {
		if !errors.IsAppError(err) {
			err = errors.RenderFailure(fmt.Sprintf("rendering %s failed", req.Kind), err)
		}
		return nil, err
	}

	if r.fontWarn != "" {
		img.Warnings = append(img.Warnings, r.fontWarn)
	}
	r.logger.Debug("[Chart] %s rendered in %.2fms (%d bytes)", req.Kind, float64(time.Since(start).Nanoseconds())/1e6, len(img.PNG))
	return img, nil
}

func (r *Renderer) size() (vg.Length, vg.Length) {
	return vg.Length(r.opts.WidthInches) * vg.Inch, vg.Length(r.opts.HeightInches) * vg.Inch
}

// newPlot creates a plot with the shared title and category axis styling
func newPlot(title, yLabel string, categories []string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)
	p.Y.Label.Text = yLabel
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	if len(categories) > 0 {
		p.NominalX(categories...)
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = text.XRight
		p.X.Tick.Label.YAlign = text.YCenter
		p.X.Tick.Label.Font.Size = vg.Points(10)
	}
	return p
}

// scoreAxis fixes the value axis to [0,5] unless the data reaches beyond it
func scoreAxis(p *plot.Plot, lo, hi float64) {
	p.Y.Min = clampAxis(math.Min(0, lo))
	p.Y.Max = clampAxis(math.Max(5, hi))
	p.Y.Tick.Marker = plot.ConstantTicks(axisTicks(p.Y.Min, p.Y.Max))
}

// axisLimit keeps the axis span finite for any coerced number
const axisLimit = 1e300

// maxAxisTicks caps the tick count on ranges wider than the score scale
const maxAxisTicks = 12

func clampAxis(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-axisLimit, math.Min(axisLimit, v))
}

// axisTicks labels every integer on the score scale and a 1-2-2.5-5 step otherwise
func axisTicks(lo, hi float64) []plot.Tick {
	step := 1.0
	if hi-lo > 10 {
		step = niceStep((hi - lo) / 8)
	}
	start := math.Ceil(lo/step) * step
	var ticks []plot.Tick
	for i := 0; i < maxAxisTicks; i++ {
		v := start + float64(i)*step
		if v > hi {
			break
		}
		if v < lo {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', 4, 64)})
	}
	return ticks
}

func niceStep(raw float64) float64 {
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 2.5, 5} {
		if raw <= m*mag {
			return m * mag
		}
	}
	return 10 * mag
}

func labelFont(size vg.Length) font.Font {
	return font.From(plot.DefaultFont, size)
}
