package model

import (
	"errors"
	"fmt"
	"math"
)

// EMUPerPoint is the number of English Metric Units per typographic point.
// Slide coordinates are expressed in EMU (914400 per inch, 72 points per inch).
const EMUPerPoint = 12700

// ErrDegenerateGeometry reports a page or region with a zero or negative
// dimension. A degenerate page cannot be mapped onto the canvas and is
// excluded from the output rather than silently clamped.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// Canvas is the fixed output surface size in EMU. It is derived once from the
// first page of a document and shared by every page of the conversion, even
// when source pages differ in size.
type Canvas struct {
	Width  int64
	Height int64
}

// CanvasForPage derives the canvas dimensions from a page size.
func CanvasForPage(page Size) (Canvas, error) {
	if !page.IsValid() {
		return Canvas{}, fmt.Errorf("page %.2fx%.2fpt: %w", page.Width, page.Height, ErrDegenerateGeometry)
	}
	return Canvas{
		Width:  int64(math.Round(page.Width * EMUPerPoint)),
		Height: int64(math.Round(page.Height * EMUPerPoint)),
	}, nil
}

// Rect is a rectangle in canvas units (EMU).
type Rect struct {
	X, Y int64
	W, H int64
}

// Transform maps page coordinates (points) into canvas coordinates (EMU).
// Scale factors are independent per axis and always positive; offsets are
// zero except for centered placement.
type Transform struct {
	ScaleX  float64
	ScaleY  float64
	OffsetX int64
	OffsetY int64
}

// NewTransform builds the fill-canvas mapping for a page: each axis is scaled
// independently so the page exactly covers the canvas. Aspect ratio is not
// preserved.
func NewTransform(page Size, c Canvas) (Transform, error) {
	if !page.IsValid() {
		return Transform{}, fmt.Errorf("page %.2fx%.2fpt: %w", page.Width, page.Height, ErrDegenerateGeometry)
	}
	return Transform{
		ScaleX: float64(c.Width) / page.Width,
		ScaleY: float64(c.Height) / page.Height,
	}, nil
}

// CenteredTransform builds the aspect-preserving mapping used when a whole
// page is placed as a single picture: points convert at their native EMU
// ratio and the result is centered on the canvas. Offsets are clamped at
// zero, so a page larger than the canvas anchors at the top-left edge.
func CenteredTransform(page Size, c Canvas) (Transform, error) {
	if !page.IsValid() {
		return Transform{}, fmt.Errorf("page %.2fx%.2fpt: %w", page.Width, page.Height, ErrDegenerateGeometry)
	}
	offset := func(canvas int64, pagePts float64) int64 {
		d := (canvas - int64(math.Round(pagePts*EMUPerPoint))) / 2
		if d < 0 {
			return 0
		}
		return d
	}
	return Transform{
		ScaleX:  EMUPerPoint,
		ScaleY:  EMUPerPoint,
		OffsetX: offset(c.Width, page.Width),
		OffsetY: offset(c.Height, page.Height),
	}, nil
}

// Apply maps a page-space bounding box into canvas units.
func (t Transform) Apply(b BBox) Rect {
	return Rect{
		X: int64(math.Round(b.X*t.ScaleX)) + t.OffsetX,
		Y: int64(math.Round(b.Y*t.ScaleY)) + t.OffsetY,
		W: int64(math.Round(b.Width * t.ScaleX)),
		H: int64(math.Round(b.Height * t.ScaleY)),
	}
}

// ApplyLength maps a page-space length along the X axis into canvas units.
func (t Transform) ApplyLength(pts float64) int64 {
	return int64(math.Round(pts * t.ScaleX))
}
