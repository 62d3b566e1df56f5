package model

import "strings"

// Source identifies how a text block was obtained.
type Source int

const (
	// SourceStructural marks text read from the document's native text layer,
	// with position, font, and color available per span.
	SourceStructural Source = iota
	// SourceRecognition marks text discovered by optical recognition over a
	// rendered raster, carrying only an estimated font size.
	SourceRecognition
)

func (s Source) String() string {
	switch s {
	case SourceStructural:
		return "structural"
	case SourceRecognition:
		return "recognition"
	default:
		return "unknown"
	}
}

// Style flag bits carried on a Span, matching the bitmask convention of
// structural PDF text extractors.
const (
	FlagItalic = 1 << 1
	FlagBold   = 1 << 4
)

// Span is a run of uniformly styled text within a line.
type Span struct {
	Text  string
	Size  float64 // font size in points
	Color int     // packed 0xRRGGBB
	Flags int     // style bitmask (FlagBold, FlagItalic)
	Font  string  // raw font name as reported by the reader
}

// Line is one visual line of text inside a block.
type Line struct {
	Spans []Span
}

// Text returns the concatenated span text of the line.
func (l Line) Text() string {
	var sb strings.Builder
	for _, s := range l.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// TextBlock is a positioned block of text in page space.
type TextBlock struct {
	BBox   BBox
	Lines  []Line
	Source Source
}

// Text returns the block content with lines joined by newlines.
func (b TextBlock) Text() string {
	parts := make([]string, 0, len(b.Lines))
	for _, l := range b.Lines {
		parts = append(parts, l.Text())
	}
	return strings.Join(parts, "\n")
}

// IsBlank returns true if the block contains no visible text.
func (b TextBlock) IsBlank() bool {
	return strings.TrimSpace(b.Text()) == ""
}

// ImagePlacement is a raw image occurrence reported by the document reader.
type ImagePlacement struct {
	BBox BBox
	// Identity is a stable content key for reusable embedded images, used to
	// deduplicate media in the output. It is empty for inline or masked
	// images that were re-rasterized from the page.
	Identity string
	Data     []byte
	Format   string // "png", "jpeg", ...
}
