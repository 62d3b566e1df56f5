package model

// Color represents an RGB color
type Color struct {
	R, G, B uint8
}

// UnpackColor splits a packed 24-bit 0xRRGGBB value into its channels.
func UnpackColor(v int) Color {
	return Color{
		R: uint8(v >> 16 & 0xFF),
		G: uint8(v >> 8 & 0xFF),
		B: uint8(v & 0xFF),
	}
}

// Fill selects how a text overlay is backed.
type Fill int

const (
	// FillNone leaves the box transparent so the cleaned background shows
	// through.
	FillNone Fill = iota
	// FillOpaque covers the original pixels with a solid white box.
	FillOpaque
)

// Run is a styled run of text resolved for placement.
type Run struct {
	Text   string
	Size   float64 // points
	Color  Color
	Bold   bool
	Italic bool
	Font   string // cleaned family name
}

// OverlayLine is one paragraph line of a text overlay.
type OverlayLine struct {
	Runs []Run
}

// TextOverlay is an editable text box positioned in canvas space.
type TextOverlay struct {
	Rect   Rect
	Lines  []OverlayLine
	Fill   Fill
	Source Source
}

// Text returns the overlay content with lines joined by newlines.
func (o TextOverlay) Text() string {
	var out string
	for i, l := range o.Lines {
		if i > 0 {
			out += "\n"
		}
		for _, r := range l.Runs {
			out += r.Text
		}
	}
	return out
}

// ImageOverlay is a discrete movable picture positioned in canvas space.
type ImageOverlay struct {
	Rect     Rect
	Identity string
	Data     []byte
	Format   string
}

// Background is the raster placed beneath all overlays of a page.
type Background struct {
	Data   []byte // encoded raster
	Format string // "png" or "jpeg"
	Rect   Rect   // full canvas in edit mode, centered page rect in image mode
}

// ReconstructedPage is the per-page output of the reconstruction pipeline:
// one optional background placement plus ordered overlays. Overlay order is
// significant for z-ordering; the background is always beneath, image
// overlays beneath text overlays.
type ReconstructedPage struct {
	Number     int
	Background *Background // nil when rasterization was unavailable
	Images     []ImageOverlay
	Texts      []TextOverlay
}

// Summary aggregates the outcome of a whole conversion. Degradation counts
// make silent per-page fallbacks visible to the caller.
type Summary struct {
	Pages               int
	PagesFailed         int
	TextOverlays        int
	ImageOverlays       int
	RecognitionPages    int // pages whose text came from the recognition fallback
	DegradedBackgrounds int // pages whose background was left untouched or omitted
	Canvas              Canvas
}
