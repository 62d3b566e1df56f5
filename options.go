package reslate

import (
	"fmt"

	"github.com/tsawler/reslate/extract"
	"github.com/tsawler/reslate/raster"
)

// Mode selects how pages become slides.
type Mode int

const (
	// ModeEdit reconstructs each page as a background raster plus editable
	// overlay boxes. This is the default.
	ModeEdit Mode = iota
	// ModeImage places each page as a single centered picture. Requires a
	// rasterizing document backend.
	ModeImage
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "edit"
	case ModeImage:
		return "image"
	default:
		return "unknown"
	}
}

// ParseMode converts a mode name ("edit" or "image") into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "edit":
		return ModeEdit, nil
	case "image":
		return ModeImage, nil
	default:
		return ModeEdit, fmt.Errorf("unknown mode %q (want edit or image)", s)
	}
}

// Strategy selects how edit mode keeps original text from showing through
// the editable overlays.
type Strategy int

const (
	// StrategyErase removes text pixels from the background raster and
	// places transparent text boxes over the cleaned surface. Embedded
	// pictures stay baked into the background. This is the default.
	StrategyErase Strategy = iota
	// StrategyOpaque leaves the background raster untouched and covers
	// original text with opaque white boxes. Discrete pictures are placed
	// as individual movable objects.
	StrategyOpaque
)

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyErase:
		return "erase"
	case StrategyOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a strategy name ("erase" or "opaque") into a
// Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "erase":
		return StrategyErase, nil
	case "opaque":
		return StrategyOpaque, nil
	default:
		return StrategyErase, fmt.Errorf("unknown strategy %q (want erase or opaque)", s)
	}
}

// ConvertOptions holds configuration for a conversion.
type ConvertOptions struct {
	// Slide construction
	mode     Mode
	strategy Strategy

	// Page selection (1-indexed in API, stored as-is)
	pages []int

	// Raster resolution in dots per inch
	dpi            int // background and image-mode renders
	recognitionDPI int // recognition fallback renders

	// Recognition language hints, first attempt order
	languages []string

	// Page worker pool size; values below 2 mean sequential
	workers int

	// Background encoding; PNG unless JPEG was requested
	jpegBackgrounds bool

	// Deck title; empty means derive from the input filename
	title string
}

// defaultOptions returns the default conversion options.
func defaultOptions() ConvertOptions {
	return ConvertOptions{
		mode:           ModeEdit,
		strategy:       StrategyErase,
		pages:          nil, // nil means all pages
		dpi:            raster.DefaultDPI,
		recognitionDPI: extract.DefaultDPI,
		languages:      nil, // nil means extract.DefaultLanguages
		workers:        1,
	}
}

// clone creates a deep copy of ConvertOptions.
func (o ConvertOptions) clone() ConvertOptions {
	newOpts := ConvertOptions{
		mode:            o.mode,
		strategy:        o.strategy,
		dpi:             o.dpi,
		recognitionDPI:  o.recognitionDPI,
		workers:         o.workers,
		jpegBackgrounds: o.jpegBackgrounds,
		title:           o.title,
	}

	// Deep copy slices
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}
	if o.languages != nil {
		newOpts.languages = make([]string, len(o.languages))
		copy(newOpts.languages, o.languages)
	}

	return newOpts
}

// validate rejects option combinations that cannot produce a deck.
func (o ConvertOptions) validate() error {
	if o.mode != ModeEdit && o.mode != ModeImage {
		return fmt.Errorf("unknown mode %d", int(o.mode))
	}
	if o.strategy != StrategyErase && o.strategy != StrategyOpaque {
		return fmt.Errorf("unknown strategy %d", int(o.strategy))
	}
	if o.dpi <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", o.dpi)
	}
	if o.recognitionDPI <= 0 {
		return fmt.Errorf("recognition dpi must be positive, got %d", o.recognitionDPI)
	}
	return nil
}
