package reader

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/reslate/model"
)

// PDFDocument reads the structural text layer of a PDF with a pure Go
// parser. It provides page sizes and positioned text blocks; it cannot
// enumerate embedded images or render pages, so conversions running on this
// backend alone degrade to text-only reconstruction.
type PDFDocument struct {
	file   *os.File // nil when opened from memory
	reader *pdf.Reader
}

// OpenPDF opens a PDF file for structural extraction.
func OpenPDF(path string) (*PDFDocument, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &PDFDocument{file: f, reader: r}, nil
}

// OpenPDFBytes opens an in-memory PDF for structural extraction.
func OpenPDFBytes(data []byte) (*PDFDocument, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &PDFDocument{reader: r}, nil
}

// PageCount returns the number of pages.
func (d *PDFDocument) PageCount() int {
	return d.reader.NumPage()
}

// PageSize returns the page's MediaBox dimensions in points. The MediaBox
// may be inherited from an ancestor pages node.
func (d *PDFDocument) PageSize(pageIndex int) (model.Size, error) {
	p := d.reader.Page(pageIndex + 1)
	if p.V.IsNull() {
		return model.Size{}, fmt.Errorf("page %d: not found", pageIndex+1)
	}
	box := inherited(p.V, "MediaBox")
	if box.IsNull() || box.Len() < 4 {
		return model.Size{}, fmt.Errorf("page %d: missing MediaBox", pageIndex+1)
	}
	x0, y0 := box.Index(0).Float64(), box.Index(1).Float64()
	x1, y1 := box.Index(2).Float64(), box.Index(3).Float64()
	return model.Size{Width: x1 - x0, Height: y1 - y0}, nil
}

// TextBlocks extracts the page's native text layer grouped into positioned
// blocks. The underlying parser can panic on malformed content streams;
// those pages report an error instead of crashing the conversion.
func (d *PDFDocument) TextBlocks(pageIndex int) (blocks []model.TextBlock, err error) {
	p := d.reader.Page(pageIndex + 1)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d: not found", pageIndex+1)
	}
	size, err := d.PageSize(pageIndex)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: content parse failure: %v", pageIndex+1, r)
		}
	}()
	content := p.Content()
	return buildBlocks(content.Text, size.Height), nil
}

// Images always returns an empty slice: the pure Go backend has no image
// enumeration.
func (d *PDFDocument) Images(pageIndex int) ([]model.ImagePlacement, error) {
	return nil, nil
}

// Close releases the underlying file, if any.
func (d *PDFDocument) Close() error {
	if d.file != nil {
		err := d.file.Close()
		d.file = nil
		return err
	}
	return nil
}

// inherited looks key up on a page dictionary, walking the Parent chain for
// attributes inherited from ancestor pages nodes.
func inherited(v pdf.Value, key string) pdf.Value {
	for ; !v.IsNull(); v = v.Key("Parent") {
		if r := v.Key(key); !r.IsNull() {
			return r
		}
	}
	return pdf.Value{}
}

// ============================================================================
// Block building
// ============================================================================

// ascentRatio approximates how much of the font size sits above the
// baseline. The parser reports baselines only, so line boxes are estimated
// from it.
const ascentRatio = 0.8

// textLine is an intermediate grouping of fragments sharing a baseline.
type textLine struct {
	texts []pdf.Text
	baseY float64 // PDF-space baseline (origin bottom-left)
	size  float64 // dominant font size
}

// buildBlocks turns raw positioned fragments into text blocks. Fragments
// are grouped into lines by baseline proximity, ordered left to right, then
// lines are grouped into blocks wherever the vertical gap stays within
// normal leading. Coordinates flip from the parser's bottom-left origin to
// the engine's top-left page space.
func buildBlocks(texts []pdf.Text, pageHeight float64) []model.TextBlock {
	kept := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S == "" || t.FontSize <= 0 {
			continue
		}
		kept = append(kept, t)
	}
	if len(kept) == 0 {
		return nil
	}

	// Top of page first, then reading order within a line.
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Y != kept[j].Y {
			return kept[i].Y > kept[j].Y
		}
		return kept[i].X < kept[j].X
	})

	lines := groupLines(kept)

	var blocks []model.TextBlock
	var current []textLine
	for i, ln := range lines {
		if i > 0 {
			prev := lines[i-1]
			if prev.baseY-ln.baseY > 1.5*prev.size {
				blocks = append(blocks, blockFromLines(current, pageHeight))
				current = nil
			}
		}
		current = append(current, ln)
	}
	if len(current) > 0 {
		blocks = append(blocks, blockFromLines(current, pageHeight))
	}
	return blocks
}

// groupLines clusters fragments whose baselines sit within half a font size
// of each other.
func groupLines(texts []pdf.Text) []textLine {
	var lines []textLine
	current := textLine{texts: []pdf.Text{texts[0]}, baseY: texts[0].Y, size: texts[0].FontSize}

	for _, t := range texts[1:] {
		tolerance := 0.5 * maxFloat(current.size, t.FontSize)
		if absFloat(t.Y-current.baseY) <= tolerance {
			current.texts = append(current.texts, t)
			if t.FontSize > current.size {
				current.size = t.FontSize
			}
			continue
		}
		lines = append(lines, current)
		current = textLine{texts: []pdf.Text{t}, baseY: t.Y, size: t.FontSize}
	}
	lines = append(lines, current)

	for i := range lines {
		sort.SliceStable(lines[i].texts, func(a, b int) bool {
			return lines[i].texts[a].X < lines[i].texts[b].X
		})
	}
	return lines
}

// blockFromLines converts grouped lines into a model block, flipping into
// top-left page space and unioning the line boxes.
func blockFromLines(lines []textLine, pageHeight float64) model.TextBlock {
	block := model.TextBlock{Source: model.SourceStructural}
	var bbox model.BBox
	for i, ln := range lines {
		lineBox := lineBBox(ln, pageHeight)
		if i == 0 {
			bbox = lineBox
		} else {
			bbox = bbox.Union(lineBox)
		}
		block.Lines = append(block.Lines, model.Line{Spans: lineSpans(ln.texts)})
	}
	block.BBox = bbox
	return block
}

func lineBBox(ln textLine, pageHeight float64) model.BBox {
	left := ln.texts[0].X
	right := left
	for _, t := range ln.texts {
		if t.X < left {
			left = t.X
		}
		if t.X+t.W > right {
			right = t.X + t.W
		}
	}
	return model.BBox{
		X:      left,
		Y:      pageHeight - ln.baseY - ascentRatio*ln.size,
		Width:  right - left,
		Height: ln.size,
	}
}

// lineSpans assembles a line's fragments into styled spans, merging
// consecutive fragments of the same font and size and inserting a space
// wherever the horizontal gap indicates a word boundary.
func lineSpans(texts []pdf.Text) []model.Span {
	var spans []model.Span
	for i, t := range texts {
		if i > 0 && len(spans) > 0 {
			prev := texts[i-1]
			gap := t.X - (prev.X + prev.W)
			spaceWidth := prev.FontSize * 0.25
			last := &spans[len(spans)-1]
			if gap >= spaceWidth*0.5 &&
				!strings.HasSuffix(last.Text, " ") && !strings.HasPrefix(t.S, " ") {
				last.Text += " "
			}
		}
		if len(spans) > 0 {
			last := &spans[len(spans)-1]
			if last.Font == t.Font && last.Size == t.FontSize {
				last.Text += t.S
				continue
			}
		}
		spans = append(spans, model.Span{
			Text:  t.S,
			Size:  t.FontSize,
			Color: 0x000000,
			Flags: styleFlags(t.Font),
			Font:  t.Font,
		})
	}
	return spans
}

// styleFlags derives bold/italic bits from the raw font name. The parser
// exposes no font descriptor flags, so the name is the only signal.
func styleFlags(fontName string) int {
	lower := strings.ToLower(fontName)
	flags := 0
	if strings.Contains(lower, "bold") {
		flags |= model.FlagBold
	}
	if strings.Contains(lower, "italic") || strings.Contains(lower, "oblique") {
		flags |= model.FlagItalic
	}
	return flags
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
