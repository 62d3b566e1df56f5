//go:build !pdfium

package reader

import (
	"errors"
	"testing"
)

func TestOpenPdfiumReturnsError(t *testing.T) {
	doc, err := OpenPdfium("any.pdf")
	if !errors.Is(err, ErrPdfiumNotEnabled) {
		t.Errorf("Expected ErrPdfiumNotEnabled, got: %v", err)
	}
	if doc != nil {
		t.Error("Expected nil document when pdfium is disabled")
	}
}

func TestOpenPdfiumBytesReturnsError(t *testing.T) {
	if _, err := OpenPdfiumBytes([]byte("%PDF-1.4")); !errors.Is(err, ErrPdfiumNotEnabled) {
		t.Errorf("Expected ErrPdfiumNotEnabled, got: %v", err)
	}
}

func TestStubDocumentMethods(t *testing.T) {
	var doc *PdfiumDocument

	if n := doc.PageCount(); n != 0 {
		t.Errorf("PageCount() = %d, want 0", n)
	}
	if _, err := doc.PageSize(0); !errors.Is(err, ErrPdfiumNotEnabled) {
		t.Errorf("PageSize error = %v, want ErrPdfiumNotEnabled", err)
	}
	if _, err := doc.Rasterize(0, 150); !errors.Is(err, ErrPdfiumNotEnabled) {
		t.Errorf("Rasterize error = %v, want ErrPdfiumNotEnabled", err)
	}
	if err := doc.Close(); err != nil {
		t.Errorf("Close on nil document should not error: %v", err)
	}
}
