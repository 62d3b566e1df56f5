// Package reslate provides a fluent API for converting paginated documents
// (PDF) into editable PowerPoint decks. Each page is decomposed into a
// background raster carrying the non-text graphics and a set of overlay
// boxes carrying the text, re-anchored at the original position, size, and
// approximate style. Pages without a text layer fall back to optical
// recognition over a rendered raster.
//
// Basic usage:
//
//	summary, warnings, err := reslate.Open("report.pdf").ConvertFile("report.pptx")
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", reslate.FormatWarnings(warnings))
//	}
//
// With options:
//
//	summary, _, err := reslate.Open("scan.pdf").
//	    Strategy(reslate.StrategyOpaque).
//	    DPI(200).
//	    Workers(4).
//	    ConvertFile("scan.pptx")
//
// For advanced use cases, the lower-level reader, raster, and pptx packages
// are also available.
package reslate

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/tsawler/reslate/model"
	"github.com/tsawler/reslate/reader"
)

// Open opens a PDF file and returns a Converter for fluent configuration.
// The returned Converter must be closed when done, either explicitly via
// Close() or implicitly when calling a terminal operation like Convert().
//
// Example:
//
//	summary, warnings, err := reslate.Open("report.pdf").ConvertFile("report.pptx")
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  defaultOptions(),
		log:      zerolog.Nop(),
	}
}

// OpenReader creates a Converter that reads its input from r. The stream is
// consumed and buffered in memory when the first terminal operation runs.
//
// Example:
//
//	resp, err := http.Get(url)
//	if err != nil {
//	    // handle error
//	}
//	defer resp.Body.Close()
//	summary, warnings, err := reslate.OpenReader(resp.Body).Convert(&buf)
func OpenReader(r io.Reader) *Converter {
	return &Converter{
		input:   r,
		options: defaultOptions(),
		log:     zerolog.Nop(),
	}
}

// FromDocument creates a Converter from an already-opened reader.Document.
// This is useful when you need more control over the document lifecycle, or
// to convert through a custom backend.
// Note: The caller is responsible for closing the document.
//
// Example:
//
//	doc, err := reader.Open("report.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer doc.Close()
//	summary, warnings, err := reslate.FromDocument(doc).Convert(&buf)
func FromDocument(doc reader.Document) *Converter {
	return &Converter{
		doc:       doc,
		docOpened: true,
		options:   defaultOptions(),
		log:       zerolog.Nop(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := reslate.Must(reslate.Open("report.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustSummary is a helper that wraps a call to Convert or ConvertFile and
// panics if the error is non-nil. It discards warnings and returns just the
// summary. It is intended for use in scripts or tests where error handling
// would be cumbersome.
//
// Example:
//
//	summary := reslate.MustSummary(reslate.Open("report.pdf").ConvertFile("report.pptx"))
func MustSummary(s model.Summary, _ []Warning, err error) model.Summary {
	if err != nil {
		panic(err)
	}
	return s
}
