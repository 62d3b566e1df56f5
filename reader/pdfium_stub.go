//go:build !pdfium

package reader

import (
	"image"

	"github.com/tsawler/reslate/model"
)

// PdfiumDocument is a stub reader used when pdfium support is not compiled
// in. All open functions return ErrPdfiumNotEnabled, and [Open] falls back
// to the pure Go structural reader.
//
// To enable the full-capability backend, rebuild with the "pdfium" build
// tag:
//
//	go build -tags pdfium
type PdfiumDocument struct{}

// OpenPdfium returns an error indicating pdfium support is not enabled.
func OpenPdfium(path string) (*PdfiumDocument, error) {
	return nil, ErrPdfiumNotEnabled
}

// OpenPdfiumBytes returns an error indicating pdfium support is not enabled.
func OpenPdfiumBytes(data []byte) (*PdfiumDocument, error) {
	return nil, ErrPdfiumNotEnabled
}

// PageCount returns zero for the stub document.
func (d *PdfiumDocument) PageCount() int { return 0 }

// PageSize returns ErrPdfiumNotEnabled.
func (d *PdfiumDocument) PageSize(pageIndex int) (model.Size, error) {
	return model.Size{}, ErrPdfiumNotEnabled
}

// TextBlocks returns ErrPdfiumNotEnabled.
func (d *PdfiumDocument) TextBlocks(pageIndex int) ([]model.TextBlock, error) {
	return nil, ErrPdfiumNotEnabled
}

// Images returns ErrPdfiumNotEnabled.
func (d *PdfiumDocument) Images(pageIndex int) ([]model.ImagePlacement, error) {
	return nil, ErrPdfiumNotEnabled
}

// Rasterize returns ErrPdfiumNotEnabled.
func (d *PdfiumDocument) Rasterize(pageIndex int, dpi int) (image.Image, error) {
	return nil, ErrPdfiumNotEnabled
}

// Close is a no-op for the stub document. It is safe to call on a nil
// document.
func (d *PdfiumDocument) Close() error { return nil }
