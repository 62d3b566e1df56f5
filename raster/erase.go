package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/tsawler/reslate/model"
)

const (
	// erasePadPx widens each box slightly so glyph anti-aliasing at the
	// edges is covered by the fill.
	erasePadPx = 1.5
	// eraseStripPx is the thickness of the border band sampled for the
	// fill color.
	eraseStripPx = 4
)

// EraseText returns a copy of img with each box flood-filled by the color of
// its immediate surroundings. Boxes are given in page points and converted
// to pixels at the given dpi. The fill color of a box is the per-channel
// median of a border strip sampled just outside the padded box on all four
// sides, clipped to the raster; a box with no sampleable border pixels fills
// with white. Boxes are processed in input order, so overlapping fills are
// last-write-wins.
func EraseText(img image.Image, dpi float64, boxes []model.BBox) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	scale := dpi / 72.0
	for _, b := range boxes {
		if !b.IsValid() {
			continue
		}
		rect := pixelRect(b, scale, bounds)
		if rect.Empty() {
			continue
		}
		fill := borderMedian(out, rect, bounds)
		draw.Draw(out, rect, &image.Uniform{C: fill}, image.Point{}, draw.Src)
	}
	return out
}

// pixelRect converts a point-space box to a padded, clipped pixel rectangle.
func pixelRect(b model.BBox, scale float64, bounds image.Rectangle) image.Rectangle {
	x0 := int(math.Floor(b.Left()*scale - erasePadPx))
	y0 := int(math.Floor(b.Top()*scale - erasePadPx))
	x1 := int(math.Ceil(b.Right()*scale + erasePadPx))
	y1 := int(math.Ceil(b.Bottom()*scale + erasePadPx))
	return image.Rect(x0, y0, x1, y1).Intersect(bounds)
}

// borderMedian samples the band of pixels surrounding rect and returns the
// per-channel median. The top and bottom strips include the corners; the
// side strips cover only the box's own rows, so no pixel is sampled twice.
func borderMedian(img *image.RGBA, rect, bounds image.Rectangle) color.RGBA {
	s := eraseStripPx
	strips := []image.Rectangle{
		image.Rect(rect.Min.X-s, rect.Min.Y-s, rect.Max.X+s, rect.Min.Y),
		image.Rect(rect.Min.X-s, rect.Max.Y, rect.Max.X+s, rect.Max.Y+s),
		image.Rect(rect.Min.X-s, rect.Min.Y, rect.Min.X, rect.Max.Y),
		image.Rect(rect.Max.X, rect.Min.Y, rect.Max.X+s, rect.Max.Y),
	}

	var rs, gs, bs []uint8
	for _, strip := range strips {
		strip = strip.Intersect(bounds)
		for y := strip.Min.Y; y < strip.Max.Y; y++ {
			for x := strip.Min.X; x < strip.Max.X; x++ {
				c := img.RGBAAt(x, y)
				rs = append(rs, c.R)
				gs = append(gs, c.G)
				bs = append(bs, c.B)
			}
		}
	}
	if len(rs) == 0 {
		return color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	}
	return color.RGBA{R: median(rs), G: median(gs), B: median(bs), A: 0xFF}
}

// median returns the upper median of the samples. The slice is sorted in
// place.
func median(s []uint8) uint8 {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	return s[len(s)/2]
}
