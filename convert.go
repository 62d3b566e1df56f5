package reslate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tsawler/reslate/format"
	"github.com/tsawler/reslate/model"
	"github.com/tsawler/reslate/ocr"
	"github.com/tsawler/reslate/pptx"
	"github.com/tsawler/reslate/raster"
	"github.com/tsawler/reslate/reader"
)

// ErrSourceDecode indicates the input could not be opened or recognized as a
// PDF. It is fatal for the whole conversion and is reported before any page
// is processed.
var ErrSourceDecode = errors.New("source document cannot be decoded")

// Converter provides a fluent interface for converting a PDF document into
// an editable PowerPoint deck. Each configuration method returns a new
// Converter instance, making it safe for concurrent use and allowing method
// chaining.
type Converter struct {
	// Source
	filename string
	input    io.Reader

	// Document backend
	doc reader.Document

	// Lifecycle
	ownsDoc   bool // true if we opened the document and should close it
	docOpened bool // true if doc has been opened

	// Collaborators
	rec ocr.Recognizer
	log zerolog.Logger

	// Configuration
	options ConvertOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []Warning
}

// clone creates a shallow copy of the Converter with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (c *Converter) clone() *Converter {
	newConv := &Converter{
		filename:  c.filename,
		input:     c.input,
		doc:       c.doc,
		ownsDoc:   c.ownsDoc,
		docOpened: c.docOpened,
		rec:       c.rec,
		log:       c.log,
		options:   c.options.clone(),
		err:       c.err,
		warnings:  append([]Warning(nil), c.warnings...),
	}
	return newConv
}

// ensureDocument opens the document backend if not already open.
func (c *Converter) ensureDocument() error {
	if c.docOpened {
		return nil
	}

	if c.input != nil {
		data, err := io.ReadAll(c.input)
		if err != nil {
			return fmt.Errorf("%w: reading input: %w", ErrSourceDecode, err)
		}
		if format.DetectFromMagic(data) != format.PDF {
			return fmt.Errorf("%w: input is not a PDF", ErrSourceDecode)
		}
		doc, err := reader.OpenBytes(data)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSourceDecode, err)
		}
		c.doc = doc
		c.ownsDoc = true
		c.docOpened = true
		return nil
	}

	if c.filename == "" {
		return fmt.Errorf("no filename specified")
	}
	if f := format.Detect(c.filename); f != format.PDF && f != format.Unknown {
		return fmt.Errorf("%w: unsupported input format %s", ErrSourceDecode, f)
	}
	doc, err := reader.Open(c.filename)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSourceDecode, err)
	}
	c.doc = doc
	c.ownsDoc = true
	c.docOpened = true
	return nil
}

// Close releases resources associated with the Converter.
// It is safe to call Close multiple times.
func (c *Converter) Close() error {
	if c.ownsDoc && c.doc != nil {
		err := c.doc.Close()
		c.doc = nil
		c.ownsDoc = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// Mode selects the conversion mode: ModeEdit (default) reconstructs pages
// into background plus editable overlays, ModeImage places each page as a
// single centered picture.
//
// Example:
//
//	summary, _, err := reslate.Open("slides.pdf").Mode(reslate.ModeImage).ConvertFile("slides.pptx")
func (c *Converter) Mode(m Mode) *Converter {
	newConv := c.clone()
	newConv.options.mode = m
	return newConv
}

// Strategy selects how edit mode keeps original text from showing through
// the overlays: StrategyErase (default) cleans text pixels out of the
// background, StrategyOpaque covers them with white boxes.
//
// Example:
//
//	summary, _, err := reslate.Open("report.pdf").Strategy(reslate.StrategyOpaque).ConvertFile("report.pptx")
func (c *Converter) Strategy(s Strategy) *Converter {
	newConv := c.clone()
	newConv.options.strategy = s
	return newConv
}

// Pages specifies which pages to convert (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	summary, _, err := reslate.Open("report.pdf").Pages(1, 3, 5).ConvertFile("report.pptx")
func (c *Converter) Pages(pages ...int) *Converter {
	newConv := c.clone()
	newConv.options.pages = append(newConv.options.pages, pages...)
	return newConv
}

// PageRange specifies a range of pages to convert (1-indexed, inclusive).
//
// Example:
//
//	summary, _, err := reslate.Open("report.pdf").PageRange(5, 10).ConvertFile("report.pptx")
func (c *Converter) PageRange(start, end int) *Converter {
	newConv := c.clone()
	for i := start; i <= end; i++ {
		newConv.options.pages = append(newConv.options.pages, i)
	}
	return newConv
}

// DPI sets the raster resolution for background and image-mode renders.
// The default is raster.DefaultDPI.
//
// Example:
//
//	summary, _, err := reslate.Open("report.pdf").DPI(200).ConvertFile("report.pptx")
func (c *Converter) DPI(dpi int) *Converter {
	newConv := c.clone()
	newConv.options.dpi = dpi
	return newConv
}

// RecognitionDPI sets the raster resolution for recognition fallback
// renders, independent of the background resolution. The default is
// extract.DefaultDPI.
//
// Example:
//
//	summary, _, err := reslate.Open("scan.pdf").RecognitionDPI(300).ConvertFile("scan.pptx")
func (c *Converter) RecognitionDPI(dpi int) *Converter {
	newConv := c.clone()
	newConv.options.recognitionDPI = dpi
	return newConv
}

// Languages sets the recognition language hints. All hints are passed
// together on the first attempt; the last one alone is the retry. The
// default is extract.DefaultLanguages.
//
// Example:
//
//	summary, _, err := reslate.Open("scan.pdf").Languages("deu", "eng").ConvertFile("scan.pptx")
func (c *Converter) Languages(langs ...string) *Converter {
	newConv := c.clone()
	newConv.options.languages = append([]string(nil), langs...)
	return newConv
}

// Workers enables a bounded worker pool over pages. Results are reassembled
// in page order, so the emitted deck is identical to a sequential run.
// Values below 2 keep the default strictly sequential processing.
//
// Example:
//
//	summary, _, err := reslate.Open("report.pdf").Workers(4).ConvertFile("report.pptx")
func (c *Converter) Workers(n int) *Converter {
	newConv := c.clone()
	newConv.options.workers = n
	return newConv
}

// JPEGBackgrounds encodes page backgrounds as JPEG instead of PNG. This
// trades exact reproduction for a much smaller deck on photo-heavy pages.
//
// Example:
//
//	summary, _, err := reslate.Open("photos.pdf").JPEGBackgrounds().ConvertFile("photos.pptx")
func (c *Converter) JPEGBackgrounds() *Converter {
	newConv := c.clone()
	newConv.options.jpegBackgrounds = true
	return newConv
}

// Title sets the deck title recorded in the document properties. The
// default is the input filename without its extension.
//
// Example:
//
//	summary, _, err := reslate.Open("q3.pdf").Title("Q3 Review").ConvertFile("q3.pptx")
func (c *Converter) Title(title string) *Converter {
	newConv := c.clone()
	newConv.options.title = title
	return newConv
}

// WithLogger attaches a logger for per-page diagnostics. The default logger
// discards everything.
//
// Example:
//
//	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	summary, _, err := reslate.Open("report.pdf").WithLogger(logger).ConvertFile("report.pptx")
func (c *Converter) WithLogger(log zerolog.Logger) *Converter {
	newConv := c.clone()
	newConv.log = log
	return newConv
}

// WithRecognizer attaches a text recognizer for pages without a structural
// text layer. Without one, such pages yield no text overlays.
//
// Example:
//
//	rec, err := ocr.New(200)
//	if err != nil {
//	    // handle error
//	}
//	defer rec.Close()
//	summary, _, err := reslate.Open("scan.pdf").WithRecognizer(rec).ConvertFile("scan.pptx")
func (c *Converter) WithRecognizer(rec ocr.Recognizer) *Converter {
	newConv := c.clone()
	newConv.rec = rec
	return newConv
}

// ============================================================================
// Terminal Operations (execute conversion and return results)
// ============================================================================

// Convert runs the conversion and writes the deck to w.
// This is a terminal operation that closes the underlying document.
//
// Returns the conversion summary, any warnings encountered during
// processing, and an error if conversion failed. Warnings indicate
// non-fatal degradations (e.g. a skipped page, an omitted background)
// where conversion succeeded but the deck may be incomplete.
//
// Example:
//
//	var buf bytes.Buffer
//	summary, warnings, err := reslate.Open("report.pdf").Convert(&buf)
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", reslate.FormatWarnings(warnings))
//	}
func (c *Converter) Convert(w io.Writer) (model.Summary, []Warning, error) {
	return c.ConvertContext(context.Background(), w)
}

// ConvertContext is Convert with cancellation. The context is honored at
// page granularity: when it is cancelled, remaining pages are abandoned and
// the conversion returns the context's error.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
//	defer cancel()
//	summary, warnings, err := reslate.Open("report.pdf").ConvertContext(ctx, &buf)
func (c *Converter) ConvertContext(ctx context.Context, w io.Writer) (model.Summary, []Warning, error) {
	if c.err != nil {
		return model.Summary{}, nil, c.err
	}
	if err := c.options.validate(); err != nil {
		return model.Summary{}, nil, err
	}

	if err := c.ensureDocument(); err != nil {
		return model.Summary{}, nil, err
	}
	defer c.Close()

	caps := c.resolveCapabilities()
	if c.options.mode == ModeImage && !caps.rasterize {
		return model.Summary{}, nil, fmt.Errorf("image mode: %w", raster.ErrNoRasterizer)
	}

	pageIndices, err := c.resolvePages()
	if err != nil {
		return model.Summary{}, nil, err
	}

	canvas, err := c.resolveCanvas(pageIndices)
	if err != nil {
		return model.Summary{}, nil, err
	}

	results, err := c.runPipeline(ctx, canvas, caps, pageIndices)
	if err != nil {
		return model.Summary{}, c.warnings, err
	}

	writer := pptx.NewWriter(canvas)
	writer.SetTitle(c.deckTitle())

	summary := model.Summary{Canvas: canvas}
	for _, r := range results {
		summary.Pages++
		c.warnings = append(c.warnings, r.warnings...)
		if !r.ok {
			summary.PagesFailed++
			continue
		}
		summary.TextOverlays += len(r.page.Texts)
		summary.ImageOverlays += len(r.page.Images)
		if r.recognitionUsed {
			summary.RecognitionPages++
		}
		if r.degradedBackground {
			summary.DegradedBackgrounds++
		}
		writer.AddSlide(r.page)
	}

	if err := writer.Save(w); err != nil {
		return summary, c.warnings, fmt.Errorf("writing deck: %w", err)
	}

	c.log.Info().
		Int("pages", summary.Pages).
		Int("failed", summary.PagesFailed).
		Int("texts", summary.TextOverlays).
		Int("images", summary.ImageOverlays).
		Int("recognized", summary.RecognitionPages).
		Msg("conversion complete")

	return summary, c.warnings, nil
}

// ConvertFile runs the conversion and writes the deck to the named file.
// This is a terminal operation that closes the underlying document.
//
// Example:
//
//	summary, warnings, err := reslate.Open("report.pdf").ConvertFile("report.pptx")
func (c *Converter) ConvertFile(path string) (model.Summary, []Warning, error) {
	f, err := os.Create(path)
	if err != nil {
		return model.Summary{}, nil, fmt.Errorf("creating %s: %w", path, err)
	}

	summary, warnings, convErr := c.Convert(f)
	if closeErr := f.Close(); convErr == nil && closeErr != nil {
		convErr = fmt.Errorf("writing %s: %w", path, closeErr)
	}
	return summary, warnings, convErr
}

// PageCount returns the total number of pages in the document.
// Note: This does NOT close the document, allowing further operations.
//
// Example:
//
//	conv := reslate.Open("report.pdf")
//	defer conv.Close()
//	count, err := conv.PageCount()
func (c *Converter) PageCount() (int, error) {
	if c.err != nil {
		return 0, c.err
	}

	if err := c.ensureDocument(); err != nil {
		return 0, err
	}

	return c.doc.PageCount(), nil
}

// PageSizes returns the physical size of every page in points.
// Note: This does NOT close the document, allowing further operations.
//
// Example:
//
//	conv := reslate.Open("report.pdf")
//	defer conv.Close()
//	sizes, err := conv.PageSizes()
func (c *Converter) PageSizes() ([]model.Size, error) {
	if c.err != nil {
		return nil, c.err
	}

	if err := c.ensureDocument(); err != nil {
		return nil, err
	}

	sizes := make([]model.Size, c.doc.PageCount())
	for i := range sizes {
		size, err := c.doc.PageSize(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		sizes[i] = size
	}
	return sizes, nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// resolvePages converts 1-indexed page numbers to 0-indexed and validates
// them. If no pages were selected, returns all pages.
func (c *Converter) resolvePages() ([]int, error) {
	pageCount := c.doc.PageCount()
	if pageCount == 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrSourceDecode)
	}

	// If no pages specified, use all pages
	if len(c.options.pages) == 0 {
		pageIndices := make([]int, pageCount)
		for i := 0; i < pageCount; i++ {
			pageIndices[i] = i
		}
		return pageIndices, nil
	}

	// Convert 1-indexed to 0-indexed and validate
	seen := make(map[int]bool)
	var pageIndices []int
	for _, p := range c.options.pages {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, pageCount)
		}
		zeroIndexed := p - 1
		if !seen[zeroIndexed] {
			seen[zeroIndexed] = true
			pageIndices = append(pageIndices, zeroIndexed)
		}
	}

	// Sort pages in order
	sort.Ints(pageIndices)
	return pageIndices, nil
}

// resolveCanvas derives the deck canvas from the first selected page with
// usable geometry. The canvas is fixed for the whole conversion and is
// never re-derived per page.
func (c *Converter) resolveCanvas(pageIndices []int) (model.Canvas, error) {
	for _, pageNum := range pageIndices {
		size, err := c.doc.PageSize(pageNum)
		if err != nil {
			continue
		}
		canvas, err := model.CanvasForPage(size)
		if err != nil {
			continue
		}
		return canvas, nil
	}
	return model.Canvas{}, fmt.Errorf("deriving canvas: %w", model.ErrDegenerateGeometry)
}

// deckTitle resolves the title written to the document properties.
func (c *Converter) deckTitle() string {
	if c.options.title != "" {
		return c.options.title
	}
	if c.filename == "" {
		return ""
	}
	base := filepath.Base(c.filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
