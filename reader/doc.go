// Package reader provides page-level access to source documents.
//
// The engine consumes documents through the [Document] interface: page
// count, page sizes, positioned text blocks, and raw image placements.
// Rendering is an optional capability expressed by the [Rasterizer]
// interface; backends that cannot render simply do not implement it and the
// engine degrades accordingly.
//
// # Backends
//
// Two adapters are provided:
//
//   - [OpenPDF] - a pure Go structural reader. Always available. Provides
//     page sizes and the native text layer with approximate line and block
//     grouping; it cannot enumerate embedded images or render pages.
//   - [OpenPdfium] - a full-capability reader backed by the pdfium library,
//     compiled in with the "pdfium" build tag. Adds rasterization and image
//     placement enumeration.
//
// [Open] picks the most capable backend that was compiled in:
//
//	doc, err := reader.Open("slides.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer doc.Close()
//
// # Capability Probing
//
// Callers decide what the document supports once, at setup:
//
//	if r, ok := doc.(reader.Rasterizer); ok {
//	    // rendering available
//	}
package reader
