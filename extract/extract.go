// Package extract produces the text content of a page. The structural text
// layer is the primary source; pages without one fall back to optical
// recognition over a rendered raster, feeding the same placement logic.
package extract

import (
	"context"
	"image"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/reslate/model"
	"github.com/tsawler/reslate/ocr"
	"github.com/tsawler/reslate/reader"
)

// DefaultDPI is the raster resolution used for recognition. It is
// independent of the background render resolution.
const DefaultDPI = 200

// DefaultLanguages is the recognition language hint order. All hints are
// passed together on the first attempt; the last one alone is the retry.
var DefaultLanguages = []string{"jpn", "eng"}

const (
	// minConfidence is the word confidence floor. Tesseract reports
	// non-word artifacts with negative confidence, so this also drops them.
	minConfidence = 30

	// sizeFloorPt and lineHeightFactor estimate a font size from the pixel
	// height of a recognized line.
	sizeFloorPt      = 6.0
	lineHeightFactor = 0.70
)

// Options configures a Source. Zero values select the defaults.
type Options struct {
	// DPI is the raster resolution for the recognition fallback.
	DPI int
	// Languages is the recognition language hint order.
	Languages []string
	// Logger receives fallback diagnostics. A zero Logger is silent.
	Logger zerolog.Logger
}

// Source extracts the text blocks of a page, preferring the document's
// structural text layer and falling back to recognition when a page has no
// visible text. A Source is safe for concurrent use when its document and
// recognizer are.
type Source struct {
	doc   reader.Document
	rec   ocr.Recognizer
	dpi   int
	langs []string
	log   zerolog.Logger
}

// NewSource creates a text source over doc. rec may be nil, in which case
// pages without a structural text layer yield no text.
func NewSource(doc reader.Document, rec ocr.Recognizer, opts Options) *Source {
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	langs := opts.Languages
	if len(langs) == 0 {
		langs = DefaultLanguages
	}
	return &Source{
		doc:   doc,
		rec:   rec,
		dpi:   dpi,
		langs: langs,
		log:   opts.Logger,
	}
}

// Extract returns the text blocks of a page together with their origin.
//
// The structural path drops blocks whose text trims to nothing; when that
// leaves at least one block, those blocks are returned with origin
// Structural. Otherwise the page is rendered and recognized, and each
// recognized line becomes one block with origin Recognition. A page where
// recognition is unavailable or recovers nothing returns an empty slice and
// origin Recognition; that is a degradation, not an error.
func (s *Source) Extract(ctx context.Context, pageIndex int) ([]model.TextBlock, model.Source, error) {
	raw, err := s.doc.TextBlocks(pageIndex)
	if err != nil {
		return nil, model.SourceStructural, err
	}

	blocks := make([]model.TextBlock, 0, len(raw))
	for _, b := range raw {
		if b.IsBlank() {
			continue
		}
		b.Source = model.SourceStructural
		blocks = append(blocks, b)
	}
	if len(blocks) > 0 {
		return blocks, model.SourceStructural, nil
	}

	return s.recognize(ctx, pageIndex)
}

// recognize renders the page and runs the recognizer over it. Failures
// degrade to an empty result unless the context was cancelled.
func (s *Source) recognize(ctx context.Context, pageIndex int) ([]model.TextBlock, model.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.SourceRecognition, err
	}
	if s.rec == nil {
		return nil, model.SourceRecognition, nil
	}
	ras, ok := s.doc.(reader.Rasterizer)
	if !ok {
		s.log.Debug().Int("page", pageIndex+1).Msg("recognition skipped: document cannot rasterize")
		return nil, model.SourceRecognition, nil
	}

	img, err := ras.Rasterize(pageIndex, s.dpi)
	if err != nil {
		s.log.Warn().Err(err).Int("page", pageIndex+1).Msg("recognition render failed")
		return nil, model.SourceRecognition, nil
	}

	words, err := s.rec.Recognize(ctx, img, s.langs)
	if err != nil && len(s.langs) > 1 {
		// Mixed-language models are not always installed; retry with the
		// last hint alone.
		words, err = s.rec.Recognize(ctx, img, s.langs[len(s.langs)-1:])
	}
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return nil, model.SourceRecognition, cerr
		}
		s.log.Warn().Err(err).Int("page", pageIndex+1).Msg("recognition failed")
		return nil, model.SourceRecognition, nil
	}

	blocks := groupWords(words, s.dpi)
	return blocks, model.SourceRecognition, nil
}

// lineKey identifies one recognized line within the page's layout tree.
type lineKey struct {
	block     int
	paragraph int
	line      int
}

type lineAccum struct {
	words []string
	box   image.Rectangle
}

// groupWords merges word-level recognition results into per-line text
// blocks. Words sharing a (block, paragraph, line) key join into one line:
// union bounding box, text space-joined in input order. Coordinates convert
// from raster pixels to points at the given dpi, and the font size is
// estimated from the line height.
func groupWords(words []ocr.Word, dpi int) []model.TextBlock {
	var order []lineKey
	acc := make(map[lineKey]*lineAccum)

	for _, w := range words {
		text := strings.TrimSpace(w.Text)
		if text == "" || w.Confidence < minConfidence {
			continue
		}
		k := lineKey{block: w.Block, paragraph: w.Paragraph, line: w.Line}
		a, ok := acc[k]
		if !ok {
			a = &lineAccum{box: w.Box}
			acc[k] = a
			order = append(order, k)
		} else {
			a.box = a.box.Union(w.Box)
		}
		a.words = append(a.words, text)
	}

	scale := 72.0 / float64(dpi)
	blocks := make([]model.TextBlock, 0, len(order))
	for _, k := range order {
		a := acc[k]
		text := norm.NFC.String(strings.Join(a.words, " "))
		if strings.TrimSpace(text) == "" {
			continue
		}

		bbox := model.BBox{
			X:      float64(a.box.Min.X) * scale,
			Y:      float64(a.box.Min.Y) * scale,
			Width:  float64(a.box.Dx()) * scale,
			Height: float64(a.box.Dy()) * scale,
		}
		size := bbox.Height * lineHeightFactor
		if size < sizeFloorPt {
			size = sizeFloorPt
		}

		blocks = append(blocks, model.TextBlock{
			BBox: bbox,
			Lines: []model.Line{{
				Spans: []model.Span{{
					Text:  text,
					Size:  size,
					Color: 0x000000,
				}},
			}},
			Source: model.SourceRecognition,
		})
	}
	return blocks
}
