// Package model provides the intermediate representation (IR) for page
// reconstruction.
//
// This package defines the data structures exchanged between the document
// reader, the reconstruction pipeline, and the slide serializer. Readers
// report page content as [TextBlock] and [ImagePlacement] values; the
// pipeline turns each page into a [ReconstructedPage].
//
// # Coordinate Systems
//
// Two coordinate systems are in play:
//
//   - Page space: points, top-left origin. All reader output ([BBox],
//     [TextBlock], [ImagePlacement]) lives here.
//   - Canvas space: EMU (English Metric Units, 914400 per inch), the native
//     unit of the output slide surface. All placement output ([Rect],
//     [TextOverlay], [ImageOverlay]) lives here.
//
// [Transform] carries a page into the canvas. The fill mapping
// ([NewTransform]) scales each axis independently so every page covers the
// whole canvas; the centered mapping ([CenteredTransform]) preserves aspect
// ratio and centers the page, clamping offsets at zero. Both fail with
// [ErrDegenerateGeometry] for pages with a non-positive dimension.
//
// # Canvas
//
// The [Canvas] is computed once from the first page of a document and shared
// by every page of the conversion:
//
//	canvas, err := model.CanvasForPage(firstPage)
//
// # Content
//
// A [TextBlock] groups [Line] values of styled [Span] runs and records its
// [Source]: structural extraction carries font, size, color, and style flags
// per span; recognition fallback carries plain text with an estimated size.
//
// # Geometry
//
// Geometric primitives support position and layout calculations:
//
//   - [BBox] - bounding box with intersection, union, and expansion
//   - [Point] - 2D point
//   - [Size] - physical page size in points
package model
