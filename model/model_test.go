package model

import (
	"errors"
	"math"
	"testing"
)

// ============================================================================
// BBox Tests
// ============================================================================

func TestNewBBox(t *testing.T) {
	bbox := NewBBox(10, 20, 100, 50)
	if bbox.X != 10 || bbox.Y != 20 || bbox.Width != 100 || bbox.Height != 50 {
		t.Errorf("NewBBox() = %+v, want {10, 20, 100, 50}", bbox)
	}
}

func TestNewBBoxFromEdges(t *testing.T) {
	tests := []struct {
		name                     string
		left, top, right, bottom float64
		want                     BBox
	}{
		{"normal", 10, 20, 110, 70, BBox{10, 20, 100, 50}},
		{"zero size", 10, 10, 10, 10, BBox{10, 10, 0, 0}},
		{"unit square", 0, 0, 1, 1, BBox{0, 0, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBBoxFromEdges(tt.left, tt.top, tt.right, tt.bottom)
			if got != tt.want {
				t.Errorf("NewBBoxFromEdges() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBBoxEdges(t *testing.T) {
	bbox := NewBBox(10, 20, 100, 50)

	if bbox.Left() != 10 {
		t.Errorf("Left() = %v, want 10", bbox.Left())
	}
	if bbox.Right() != 110 {
		t.Errorf("Right() = %v, want 110", bbox.Right())
	}
	if bbox.Top() != 20 {
		t.Errorf("Top() = %v, want 20", bbox.Top())
	}
	if bbox.Bottom() != 70 {
		t.Errorf("Bottom() = %v, want 70", bbox.Bottom())
	}
}

func TestBBoxCenter(t *testing.T) {
	bbox := NewBBox(0, 0, 100, 50)
	center := bbox.Center()

	if center.X != 50 || center.Y != 25 {
		t.Errorf("Center() = %+v, want {50, 25}", center)
	}
}

func TestBBoxContains(t *testing.T) {
	bbox := NewBBox(0, 0, 100, 100)

	tests := []struct {
		name     string
		point    Point
		expected bool
	}{
		{"inside", Point{50, 50}, true},
		{"on left edge", Point{0, 50}, true},
		{"on right edge", Point{100, 50}, true},
		{"outside left", Point{-1, 50}, false},
		{"outside right", Point{101, 50}, false},
		{"outside below", Point{50, 101}, false},
		{"outside above", Point{50, -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := bbox.Contains(tt.point)
			if result != tt.expected {
				t.Errorf("Contains(%+v) = %v, want %v", tt.point, result, tt.expected)
			}
		})
	}
}

func TestBBoxIntersects(t *testing.T) {
	bbox := NewBBox(0, 0, 100, 100)

	tests := []struct {
		name     string
		other    BBox
		expected bool
	}{
		{"overlapping", NewBBox(50, 50, 100, 100), true},
		{"touching edge", NewBBox(100, 0, 50, 50), true},
		{"inside", NewBBox(25, 25, 50, 50), true},
		{"containing", NewBBox(-10, -10, 200, 200), true},
		{"no overlap right", NewBBox(150, 0, 50, 50), false},
		{"no overlap left", NewBBox(-100, 0, 50, 50), false},
		{"no overlap below", NewBBox(0, 150, 50, 50), false},
		{"no overlap above", NewBBox(0, -100, 50, 50), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := bbox.Intersects(tt.other)
			if result != tt.expected {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, result, tt.expected)
			}
		})
	}
}

func TestBBoxIntersection(t *testing.T) {
	tests := []struct {
		name string
		a, b BBox
		want BBox
	}{
		{"overlap", NewBBox(0, 0, 100, 100), NewBBox(50, 50, 100, 100), BBox{50, 50, 50, 50}},
		{"contained", NewBBox(0, 0, 100, 100), NewBBox(25, 25, 50, 50), BBox{25, 25, 50, 50}},
		{"disjoint", NewBBox(0, 0, 10, 10), NewBBox(50, 50, 10, 10), BBox{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Intersection(tt.b)
			if got != tt.want {
				t.Errorf("Intersection() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBBoxUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b BBox
		want BBox
	}{
		{"overlap", NewBBox(0, 0, 100, 100), NewBBox(50, 50, 100, 100), BBox{0, 0, 150, 150}},
		{"disjoint", NewBBox(0, 0, 10, 10), NewBBox(50, 50, 10, 10), BBox{0, 0, 60, 60}},
		{"same box", NewBBox(5, 5, 10, 10), NewBBox(5, 5, 10, 10), BBox{5, 5, 10, 10}},
		{"adjacent words", NewBBox(10, 10, 40, 12), NewBBox(55, 10, 50, 12), BBox{10, 10, 95, 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Union(tt.b)
			if got != tt.want {
				t.Errorf("Union() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBBoxArea(t *testing.T) {
	if got := NewBBox(0, 0, 10, 5).Area(); got != 50 {
		t.Errorf("Area() = %v, want 50", got)
	}
}

func TestBBoxExpand(t *testing.T) {
	got := NewBBox(10, 10, 20, 20).Expand(5)
	want := BBox{5, 5, 30, 30}
	if got != want {
		t.Errorf("Expand(5) = %+v, want %+v", got, want)
	}
}

func TestBBoxValidity(t *testing.T) {
	tests := []struct {
		name    string
		bbox    BBox
		valid   bool
		isEmpty bool
	}{
		{"positive", NewBBox(0, 0, 10, 10), true, false},
		{"zero width", NewBBox(0, 0, 0, 10), false, true},
		{"zero height", NewBBox(0, 0, 10, 0), false, true},
		{"negative width", NewBBox(0, 0, -5, 10), false, true},
		{"negative height", NewBBox(0, 0, 10, -5), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bbox.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
			if got := tt.bbox.IsEmpty(); got != tt.isEmpty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.isEmpty)
			}
		})
	}
}

// ============================================================================
// Canvas and Transform Tests
// ============================================================================

func TestCanvasForPage(t *testing.T) {
	c, err := CanvasForPage(Size{Width: 612, Height: 792})
	if err != nil {
		t.Fatalf("CanvasForPage() error = %v", err)
	}
	if c.Width != 612*EMUPerPoint {
		t.Errorf("Width = %d, want %d", c.Width, int64(612*EMUPerPoint))
	}
	if c.Height != 792*EMUPerPoint {
		t.Errorf("Height = %d, want %d", c.Height, int64(792*EMUPerPoint))
	}
}

func TestCanvasForPageDegenerate(t *testing.T) {
	tests := []struct {
		name string
		size Size
	}{
		{"zero width", Size{0, 792}},
		{"zero height", Size{612, 0}},
		{"negative width", Size{-10, 792}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CanvasForPage(tt.size)
			if !errors.Is(err, ErrDegenerateGeometry) {
				t.Errorf("CanvasForPage(%+v) error = %v, want ErrDegenerateGeometry", tt.size, err)
			}
		})
	}
}

func TestNewTransform(t *testing.T) {
	canvas := Canvas{Width: 612 * EMUPerPoint, Height: 792 * EMUPerPoint}

	tests := []struct {
		name           string
		page           Size
		scaleX, scaleY float64
	}{
		{"same as canvas", Size{612, 792}, EMUPerPoint, EMUPerPoint},
		{"half width page", Size{306, 792}, 2 * EMUPerPoint, EMUPerPoint},
		{"double height page", Size{612, 1584}, EMUPerPoint, EMUPerPoint / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewTransform(tt.page, canvas)
			if err != nil {
				t.Fatalf("NewTransform() error = %v", err)
			}
			if math.Abs(tr.ScaleX-tt.scaleX) > 0.001 || math.Abs(tr.ScaleY-tt.scaleY) > 0.001 {
				t.Errorf("scale = (%v, %v), want (%v, %v)", tr.ScaleX, tr.ScaleY, tt.scaleX, tt.scaleY)
			}
			if tr.ScaleX <= 0 || tr.ScaleY <= 0 {
				t.Errorf("scale factors must be strictly positive, got (%v, %v)", tr.ScaleX, tr.ScaleY)
			}
			if tr.OffsetX != 0 || tr.OffsetY != 0 {
				t.Errorf("fill transform offsets = (%d, %d), want zero", tr.OffsetX, tr.OffsetY)
			}
		})
	}
}

func TestNewTransformDegenerate(t *testing.T) {
	canvas := Canvas{Width: 612 * EMUPerPoint, Height: 792 * EMUPerPoint}

	for _, size := range []Size{{0, 792}, {612, 0}, {-1, -1}} {
		if _, err := NewTransform(size, canvas); !errors.Is(err, ErrDegenerateGeometry) {
			t.Errorf("NewTransform(%+v) error = %v, want ErrDegenerateGeometry", size, err)
		}
	}
}

func TestCenteredTransform(t *testing.T) {
	canvas := Canvas{Width: 612 * EMUPerPoint, Height: 792 * EMUPerPoint}

	tests := []struct {
		name             string
		page             Size
		offsetX, offsetY int64
	}{
		{"same size", Size{612, 792}, 0, 0},
		{"smaller page centered", Size{412, 592}, 100 * EMUPerPoint, 100 * EMUPerPoint},
		{"larger page clamps to zero", Size{800, 1000}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := CenteredTransform(tt.page, canvas)
			if err != nil {
				t.Fatalf("CenteredTransform() error = %v", err)
			}
			if tr.OffsetX != tt.offsetX || tr.OffsetY != tt.offsetY {
				t.Errorf("offsets = (%d, %d), want (%d, %d)", tr.OffsetX, tr.OffsetY, tt.offsetX, tt.offsetY)
			}
			if tr.OffsetX < 0 || tr.OffsetY < 0 {
				t.Errorf("centered offsets must not be negative, got (%d, %d)", tr.OffsetX, tr.OffsetY)
			}
		})
	}
}

func TestTransformApply(t *testing.T) {
	tr := Transform{ScaleX: EMUPerPoint, ScaleY: EMUPerPoint}

	got := tr.Apply(NewBBox(10, 20, 100, 50))
	want := Rect{X: 10 * EMUPerPoint, Y: 20 * EMUPerPoint, W: 100 * EMUPerPoint, H: 50 * EMUPerPoint}
	if got != want {
		t.Errorf("Apply() = %+v, want %+v", got, want)
	}
}

func TestTransformApplyWithOffset(t *testing.T) {
	tr := Transform{ScaleX: EMUPerPoint, ScaleY: EMUPerPoint, OffsetX: 500, OffsetY: 700}

	got := tr.Apply(NewBBox(0, 0, 10, 10))
	if got.X != 500 || got.Y != 700 {
		t.Errorf("Apply() position = (%d, %d), want (500, 700)", got.X, got.Y)
	}
	if got.W != 10*EMUPerPoint || got.H != 10*EMUPerPoint {
		t.Errorf("Apply() size = (%d, %d), want (%d, %d)", got.W, got.H, int64(10*EMUPerPoint), int64(10*EMUPerPoint))
	}
}

// ============================================================================
// Content Tests
// ============================================================================

func TestLineText(t *testing.T) {
	line := Line{Spans: []Span{{Text: "Hello "}, {Text: "World"}}}
	if got := line.Text(); got != "Hello World" {
		t.Errorf("Text() = %q, want %q", got, "Hello World")
	}
}

func TestTextBlockText(t *testing.T) {
	block := TextBlock{
		Lines: []Line{
			{Spans: []Span{{Text: "first"}}},
			{Spans: []Span{{Text: "second"}}},
		},
	}
	if got := block.Text(); got != "first\nsecond" {
		t.Errorf("Text() = %q, want %q", got, "first\nsecond")
	}
}

func TestTextBlockIsBlank(t *testing.T) {
	tests := []struct {
		name  string
		block TextBlock
		blank bool
	}{
		{"empty block", TextBlock{}, true},
		{"whitespace only", TextBlock{Lines: []Line{{Spans: []Span{{Text: "  \t "}}}}}, true},
		{"visible text", TextBlock{Lines: []Line{{Spans: []Span{{Text: "x"}}}}}, false},
		{"blank line then text", TextBlock{Lines: []Line{
			{Spans: []Span{{Text: " "}}},
			{Spans: []Span{{Text: "y"}}},
		}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.block.IsBlank(); got != tt.blank {
				t.Errorf("IsBlank() = %v, want %v", got, tt.blank)
			}
		})
	}
}

func TestSourceString(t *testing.T) {
	if SourceStructural.String() != "structural" || SourceRecognition.String() != "recognition" {
		t.Error("Source.String() returned unexpected values")
	}
}

// ============================================================================
// Color Tests
// ============================================================================

func TestUnpackColor(t *testing.T) {
	tests := []struct {
		name  string
		value int
		want  Color
	}{
		{"black", 0x000000, Color{0, 0, 0}},
		{"white", 0xFFFFFF, Color{255, 255, 255}},
		{"red", 0xFF0000, Color{255, 0, 0}},
		{"green", 0x00FF00, Color{0, 255, 0}},
		{"blue", 0x0000FF, Color{0, 0, 255}},
		{"mixed", 0x12AB34, Color{0x12, 0xAB, 0x34}},
		{"no channel bleed", 0x010203, Color{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnpackColor(tt.value); got != tt.want {
				t.Errorf("UnpackColor(%#x) = %+v, want %+v", tt.value, got, tt.want)
			}
		})
	}
}

func TestUnpackColorRoundTrip(t *testing.T) {
	for _, v := range []int{0x000000, 0x123456, 0xFEDCBA, 0xFFFFFF} {
		c := UnpackColor(v)
		back := int(c.R)<<16 | int(c.G)<<8 | int(c.B)
		if back != v {
			t.Errorf("round trip %#x -> %+v -> %#x", v, c, back)
		}
	}
}

// ============================================================================
// Overlay Tests
// ============================================================================

func TestTextOverlayText(t *testing.T) {
	o := TextOverlay{
		Lines: []OverlayLine{
			{Runs: []Run{{Text: "Hello "}, {Text: "World"}}},
			{Runs: []Run{{Text: "again"}}},
		},
	}
	if got := o.Text(); got != "Hello World\nagain" {
		t.Errorf("Text() = %q, want %q", got, "Hello World\nagain")
	}
}
