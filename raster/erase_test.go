package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/tsawler/reslate/model"
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	red   = color.RGBA{R: 220, G: 30, B: 30, A: 255}
	blue  = color.RGBA{R: 30, G: 30, B: 220, A: 255}
	green = color.RGBA{R: 30, G: 220, B: 30, A: 255}
)

func paintRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// ============================================================================
// EraseText Tests
// ============================================================================

func TestEraseText_UniformSurroundings(t *testing.T) {
	// White page with black "text" in the middle. The border strip is all
	// white, so the box fills white and the text disappears.
	img := uniform(60, 60, white)
	paintRect(img, image.Rect(20, 20, 40, 30), black)

	out := EraseText(img, 72, []model.BBox{model.NewBBox(20, 20, 20, 10)})

	if got := out.RGBAAt(30, 25); got != white {
		t.Errorf("text pixel = %v, want erased to white", got)
	}
	if got := out.RGBAAt(10, 10); got != white {
		t.Errorf("untouched pixel = %v, want white", got)
	}
}

func TestEraseText_PadCoversEdges(t *testing.T) {
	// At 144 dpi a (5,5)-(10,10)pt box maps to (10,10)-(20,20)px and pads
	// out to (8,8)-(22,22). Pixels inside the pad are filled; pixels in the
	// sampling strip are not.
	img := uniform(40, 40, white)
	img.SetRGBA(9, 9, black)
	img.SetRGBA(7, 7, black)

	out := EraseText(img, 144, []model.BBox{model.NewBBox(5, 5, 5, 5)})

	if got := out.RGBAAt(9, 9); got != white {
		t.Errorf("padded pixel = %v, want filled white", got)
	}
	if got := out.RGBAAt(7, 7); got != black {
		t.Errorf("strip pixel = %v, want untouched black", got)
	}
}

func TestEraseText_MedianPicksDominantColor(t *testing.T) {
	// Red page with a blue stripe on the right and black "text" inside the
	// box. The border strip is mostly red, so the median fill is red.
	img := uniform(60, 60, red)
	paintRect(img, image.Rect(40, 0, 60, 60), blue)
	paintRect(img, image.Rect(22, 22, 34, 34), black)

	out := EraseText(img, 72, []model.BBox{model.NewBBox(20, 20, 16, 16)})

	if got := out.RGBAAt(30, 30); got != red {
		t.Errorf("fill = %v, want dominant border color %v", got, red)
	}
	// The blue stripe outside the box is untouched.
	if got := out.RGBAAt(50, 30); got != blue {
		t.Errorf("stripe pixel = %v, want %v", got, blue)
	}
}

func TestEraseText_NoBorderFillsWhite(t *testing.T) {
	// A box covering the whole raster leaves nothing to sample.
	img := uniform(20, 20, black)

	out := EraseText(img, 72, []model.BBox{model.NewBBox(0, 0, 20, 20)})

	for _, p := range []image.Point{{0, 0}, {10, 10}, {19, 19}} {
		if got := out.RGBAAt(p.X, p.Y); got != white {
			t.Errorf("pixel %v = %v, want white fallback", p, got)
		}
	}
}

func TestEraseText_LaterBoxesSeeEarlierFills(t *testing.T) {
	// The first box has no border and fills white. The second box then
	// samples that white fill rather than the original green.
	img := uniform(60, 60, green)

	out := EraseText(img, 72, []model.BBox{
		model.NewBBox(0, 0, 60, 60),
		model.NewBBox(20, 20, 10, 10),
	})

	if got := out.RGBAAt(25, 25); got != white {
		t.Errorf("inner fill = %v, want white from the earlier fill", got)
	}
}

func TestEraseText_SkipsDegenerateBoxes(t *testing.T) {
	img := uniform(20, 20, red)

	out := EraseText(img, 72, []model.BBox{
		model.NewBBox(5, 5, 0, 10),
		model.NewBBox(100, 100, 10, 10), // entirely off the raster
	})

	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if got := out.RGBAAt(x, y); got != red {
				t.Fatalf("pixel (%d,%d) = %v, want untouched red", x, y, got)
			}
		}
	}
}

func TestEraseText_DoesNotMutateInput(t *testing.T) {
	img := uniform(30, 30, white)
	paintRect(img, image.Rect(10, 10, 20, 20), black)

	_ = EraseText(img, 72, []model.BBox{model.NewBBox(10, 10, 10, 10)})

	if got := img.RGBAAt(15, 15); got != black {
		t.Errorf("input pixel = %v, want original black", got)
	}
}

// ============================================================================
// Median Tests
// ============================================================================

func TestMedian(t *testing.T) {
	tests := []struct {
		name    string
		samples []uint8
		want    uint8
	}{
		{"single", []uint8{7}, 7},
		{"odd", []uint8{3, 1, 2}, 2},
		{"even takes upper", []uint8{1, 2, 3, 4}, 3},
		{"unsorted", []uint8{200, 10, 10, 10, 200}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.samples); got != tt.want {
				t.Errorf("median(%v) = %d, want %d", tt.samples, got, tt.want)
			}
		})
	}
}
