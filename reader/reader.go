package reader

import (
	"errors"
	"image"

	"github.com/tsawler/reslate/model"
)

// ErrPdfiumNotEnabled is returned by OpenPdfium when pdfium support was not
// compiled in. Rebuild with -tags pdfium to enable it.
var ErrPdfiumNotEnabled = errors.New("pdfium support not enabled; rebuild with -tags pdfium")

// Document provides read-only, page-at-a-time access to a source document.
// Page indexes are 0-based.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int
	// PageSize returns the physical page size in points.
	PageSize(pageIndex int) (model.Size, error)
	// TextBlocks returns the structural text blocks of a page, or an empty
	// slice when the page has no extractable text layer.
	TextBlocks(pageIndex int) ([]model.TextBlock, error)
	// Images returns the raw image placements of a page. Backends without
	// image enumeration return an empty slice.
	Images(pageIndex int) ([]model.ImagePlacement, error)
	// Close releases resources held by the document.
	Close() error
}

// Rasterizer is the optional rendering capability of a Document. Backends
// that can render pages implement it in addition to Document.
type Rasterizer interface {
	// Rasterize renders a full page to an RGB raster at the given
	// resolution.
	Rasterize(pageIndex int, dpi int) (image.Image, error)
}

// Open opens a document with the most capable backend that was compiled in:
// the pdfium reader when available, otherwise the pure Go structural reader.
func Open(path string) (Document, error) {
	doc, err := OpenPdfium(path)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, ErrPdfiumNotEnabled) {
		return nil, err
	}
	return OpenPDF(path)
}

// OpenBytes opens an in-memory document the same way Open does.
func OpenBytes(data []byte) (Document, error) {
	doc, err := OpenPdfiumBytes(data)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, ErrPdfiumNotEnabled) {
		return nil, err
	}
	return OpenPDFBytes(data)
}

// CanRasterize reports whether the document supports page rendering.
func CanRasterize(doc Document) bool {
	_, ok := doc.(Rasterizer)
	return ok
}
