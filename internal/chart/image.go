// Package chart renders survey tables to PNG charts.
package chart

import (
	"bytes"
	"encoding/base64"
	"image/color"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/reallygood83/mathemotion/internal/errors"
)

// Kind names one of the supported charts
type Kind string

const (
	KindStudentProfile  Kind = "student_profile"
	KindItemSummary     Kind = "item_summary"
	KindStudentChange   Kind = "student_change"
	KindItemCorrelation Kind = "item_correlation"
	KindAllStudents     Kind = "all_students"
)

// Kinds lists every chart kind in menu order
var Kinds = []Kind{KindStudentProfile, KindItemSummary, KindStudentChange, KindItemCorrelation, KindAllStudents}

// ParseKind validates a kind name
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.InvalidInput("unknown chart kind: " + s)
}

// NeedsStudent reports whether the kind renders a single student's record
func (k Kind) NeedsStudent() bool {
	return k == KindStudentProfile || k == KindStudentChange
}

// Request selects a chart and, for per-student kinds, the student
type Request struct {
	Kind    Kind   `json:"kind"`
	Student string `json:"student,omitempty"`
}

// Image is a rendered chart
type Image struct {
	PNG      []byte   `json:"-"`
	Kind     Kind     `json:"kind"`
	Series   int      `json:"series"`
	Warnings []string `json:"warnings,omitempty"`
}

// Base64 returns the PNG bytes as standard base64 text
func (img *Image) Base64() string {
	return base64.StdEncoding.EncodeToString(img.PNG)
}

// DataURI returns the image as an inline data URI for HTML
func (img *Image) DataURI() string {
	return "data:image/png;base64," + img.Base64()
}

// newCanvas allocates a white raster canvas of the given size
func newCanvas(width, height vg.Length, dpi int) (*vgimg.Canvas, draw.Canvas) {
	c := vgimg.NewWith(
		vgimg.UseWH(width, height),
		vgimg.UseDPI(dpi),
		vgimg.UseBackgroundColor(color.White),
	)
	return c, draw.New(c)
}

func encodePNG(c *vgimg.Canvas) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return nil, errors.RenderFailure("failed to encode png", err)
	}
	return buf.Bytes(), nil
}
