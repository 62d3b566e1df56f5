// Package raster renders page backgrounds and reworks them at the pixel
// level. Rendering needs a capable reader backend; the pixel operations are
// pure Go and always available.
package raster

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/tsawler/reslate/reader"
)

// DefaultDPI is the background render resolution.
const DefaultDPI = 150

// ErrNoRasterizer is returned by Render when the document's backend cannot
// render pages.
var ErrNoRasterizer = errors.New("document backend cannot render pages")

// Render produces a full-page raster at the given resolution. The page
// content is untouched; callers wanting text removed pass the result through
// EraseText.
func Render(ctx context.Context, doc reader.Document, pageIndex int, dpi int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ras, ok := doc.(reader.Rasterizer)
	if !ok {
		return nil, ErrNoRasterizer
	}
	img, err := ras.Rasterize(pageIndex, dpi)
	if err != nil {
		return nil, fmt.Errorf("rendering page %d: %w", pageIndex+1, err)
	}
	return img, nil
}
