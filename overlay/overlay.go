// Package overlay turns page content into positioned slide overlays. A
// Placer owns the page-to-canvas transform and applies the size floors,
// growth slack, and style mapping that make reflowed text land where the
// original ink was.
package overlay

import (
	"strings"

	"github.com/tsawler/reslate/model"
)

// Minimum mapped box sizes in EMU. Boxes below the floor are dropped before
// any slack is added. Recognition lines carry a wider floor because their
// estimated boxes are noisier.
const (
	minStructuralW  = 5000
	minStructuralH  = 5000
	minRecognitionW = 10000
	minRecognitionH = 5000
)

// Slack grows each surviving box so text reflowed in a different font is not
// clipped at the box edge.
const (
	slackStructural   = 50000
	slackRecognitionW = 100000
	slackRecognitionH = 50000
)

// DefaultFont substitutes for font names that clean down to nothing.
const DefaultFont = "Calibri"

// Placer maps page-space content into canvas-space overlays through a fixed
// per-page transform. The zero Placer is not usable; construct with
// NewPlacer.
type Placer struct {
	t    model.Transform
	fill model.Fill
}

// NewPlacer creates a placer for one page. The fill applies to every text
// overlay the placer emits.
func NewPlacer(t model.Transform, fill model.Fill) *Placer {
	return &Placer{t: t, fill: fill}
}

// PlaceText maps a text block onto the canvas. The mapped box must reach the
// minimum size for the block's source before slack is added; undersized
// blocks report false and are dropped. Placement is deterministic and never
// clamps positions, so text keeps its registration with the background even
// at the page edge.
func (p *Placer) PlaceText(b model.TextBlock) (model.TextOverlay, bool) {
	rect := p.t.Apply(b.BBox)

	minW, minH := int64(minStructuralW), int64(minStructuralH)
	slackW, slackH := int64(slackStructural), int64(slackStructural)
	if b.Source == model.SourceRecognition {
		minW, minH = minRecognitionW, minRecognitionH
		slackW, slackH = slackRecognitionW, slackRecognitionH
	}
	if rect.W < minW || rect.H < minH {
		return model.TextOverlay{}, false
	}
	rect.W += slackW
	rect.H += slackH

	lines := make([]model.OverlayLine, 0, len(b.Lines))
	for _, l := range b.Lines {
		var runs []model.Run
		for _, s := range l.Spans {
			if s.Text == "" {
				continue
			}
			size := s.Size
			if size < 1 {
				size = 1
			}
			runs = append(runs, model.Run{
				Text:   s.Text,
				Size:   size,
				Color:  model.UnpackColor(s.Color),
				Bold:   s.Flags&model.FlagBold != 0,
				Italic: s.Flags&model.FlagItalic != 0,
				Font:   CleanFontName(s.Font),
			})
		}
		// A line with no printable spans still holds its paragraph slot.
		lines = append(lines, model.OverlayLine{Runs: runs})
	}

	return model.TextOverlay{
		Rect:   rect,
		Lines:  lines,
		Fill:   p.fill,
		Source: b.Source,
	}, true
}

// PlaceImage maps an image placement onto the canvas. Degenerate results
// report false; surviving positions are clamped into the canvas at the
// top-left so a picture never starts off-slide.
func (p *Placer) PlaceImage(img model.ImagePlacement) (model.ImageOverlay, bool) {
	rect := p.t.Apply(img.BBox)
	if rect.W <= 0 || rect.H <= 0 {
		return model.ImageOverlay{}, false
	}
	if rect.X < 0 {
		rect.X = 0
	}
	if rect.Y < 0 {
		rect.Y = 0
	}
	return model.ImageOverlay{
		Rect:     rect,
		Identity: img.Identity,
		Data:     img.Data,
		Format:   img.Format,
	}, true
}

// CleanFontName reduces a raw PDF font name to a usable family name:
// any subset prefix up to "+" goes, then everything from the first comma,
// then everything from the first hyphen. "ABCDEF+Arial,Bold" and
// "Times-Italic" become "Arial" and "Times". Names that clean down to
// nothing fall back to DefaultFont.
func CleanFontName(raw string) string {
	if raw == "" {
		return DefaultFont
	}
	if i := strings.Index(raw, "+"); i >= 0 {
		raw = raw[i+1:]
	}
	if i := strings.Index(raw, ","); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.Index(raw, "-"); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultFont
	}
	return raw
}
