package ocr

import (
	"context"
	"errors"
	"image"
)

// ErrNotEnabled is returned when recognition is requested but OCR support
// was not compiled in. Rebuild with -tags ocr to enable it.
var ErrNotEnabled = errors.New("ocr support not enabled; rebuild with -tags ocr")

// Word is a single recognized word in the raster's own pixel space.
type Word struct {
	Text       string
	Confidence float64 // 0-100
	Block      int
	Paragraph  int
	Line       int
	Box        image.Rectangle
}

// Recognizer turns a raster into word-level recognition results. The
// language hints for one call are passed together (a multi-language model);
// callers wanting a single-language retry issue a second call.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, langs []string) ([]Word, error)
	Close() error
}
