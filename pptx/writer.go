package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/tsawler/reslate/model"
)

// appName identifies the producer in the document properties.
const appName = "reslate"

// Writer builds a PPTX deck incrementally: add slides in order, then Save
// assembles the package. A Writer is single-use and not safe for concurrent
// use.
type Writer struct {
	canvas model.Canvas
	title  string
	slides []slidePart
	media  []mediaPart
	shared map[string]int // media identity -> index into media
}

type slidePart struct {
	content slideXML
	rels    []relationshipXML
}

type mediaPart struct {
	name string // file name under ppt/media/
	data []byte
}

// NewWriter creates a writer for a deck with the given canvas size.
func NewWriter(canvas model.Canvas) *Writer {
	return &Writer{
		canvas: canvas,
		shared: make(map[string]int),
	}
}

// SetTitle sets the deck title recorded in the document properties.
func (w *Writer) SetTitle(title string) {
	w.title = title
}

// SlideCount returns the number of slides added so far.
func (w *Writer) SlideCount() int {
	return len(w.slides)
}

// AddSlide appends one slide built from a reconstructed page. Shapes are
// written background first, then pictures, then text boxes; the shape order
// is the z-order. Pictures carrying the same identity share one media part
// across the whole deck.
func (w *Writer) AddSlide(page model.ReconstructedPage) {
	slide := slidePart{
		content: newSlideXML(),
		rels: []relationshipXML{{
			ID:     "rId1",
			Type:   relTypeSlideLayout,
			Target: "../slideLayouts/slideLayout1.xml",
		}},
	}
	tree := &slide.content.CSld.SpTree
	shapeID := 2 // id 1 is the root group

	addPic := func(name string, rect model.Rect, data []byte, format, identity string) {
		mediaName := w.addMedia(identity, data, format)
		rid := fmt.Sprintf("rId%d", len(slide.rels)+1)
		slide.rels = append(slide.rels, relationshipXML{
			ID:     rid,
			Type:   relTypeImage,
			Target: "../media/" + mediaName,
		})
		tree.Pics = append(tree.Pics, picXML{
			NvPicPr: nvPicPrXML{
				CNvPr:    cNvPrXML{ID: shapeID, Name: name},
				CNvPicPr: cNvPicPrXML{PicLocks: picLocksXML{NoChangeAspect: 1}},
			},
			BlipFill: blipFillXML{Blip: blipXML{Embed: rid}},
			SpPr: spPrXML{
				Xfrm:     rectXfrm(rect),
				PrstGeom: prstGeomXML{Prst: "rect"},
			},
		})
		shapeID++
	}

	if bg := page.Background; bg != nil {
		addPic(fmt.Sprintf("Background %d", page.Number), bg.Rect, bg.Data, bg.Format, "")
	}
	for i, img := range page.Images {
		addPic(fmt.Sprintf("Picture %d", i+1), img.Rect, img.Data, img.Format, img.Identity)
	}
	for i, txt := range page.Texts {
		tree.Shapes = append(tree.Shapes, textShape(shapeID, fmt.Sprintf("TextBox %d", i+1), txt))
		shapeID++
	}

	w.slides = append(w.slides, slide)
}

// Save writes the deck as a PPTX package.
func (w *Writer) Save(out io.Writer) error {
	zw := zip.NewWriter(out)

	if err := writeXMLPart(zw, "[Content_Types].xml", w.contentTypes()); err != nil {
		return err
	}

	rootRels := relationshipsXML{Xmlns: nsPackageRels, Rels: []relationshipXML{
		{ID: "rId1", Type: relTypeOfficeDocument, Target: "ppt/presentation.xml"},
		{ID: "rId2", Type: relTypeCoreProps, Target: "docProps/core.xml"},
		{ID: "rId3", Type: relTypeExtProps, Target: "docProps/app.xml"},
	}}
	if err := writeXMLPart(zw, "_rels/.rels", rootRels); err != nil {
		return err
	}
	if err := w.writeDocProps(zw); err != nil {
		return err
	}
	if err := w.writePresentation(zw); err != nil {
		return err
	}
	if err := w.writeScaffold(zw); err != nil {
		return err
	}

	for i, s := range w.slides {
		if err := writeXMLPart(zw, fmt.Sprintf("ppt/slides/slide%d.xml", i+1), s.content); err != nil {
			return err
		}
		rels := relationshipsXML{Xmlns: nsPackageRels, Rels: s.rels}
		if err := writeXMLPart(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), rels); err != nil {
			return err
		}
	}

	for _, m := range w.media {
		f, err := zw.Create("ppt/media/" + m.name)
		if err != nil {
			return fmt.Errorf("creating media part %s: %w", m.name, err)
		}
		if _, err := f.Write(m.data); err != nil {
			return fmt.Errorf("writing media part %s: %w", m.name, err)
		}
	}

	return zw.Close()
}

// addMedia registers image data and returns its media part name. An empty
// identity always creates a fresh part.
func (w *Writer) addMedia(identity string, data []byte, format string) string {
	if identity != "" {
		if i, ok := w.shared[identity]; ok {
			return w.media[i].name
		}
	}
	name := fmt.Sprintf("image%d.%s", len(w.media)+1, mediaExt(format))
	w.media = append(w.media, mediaPart{name: name, data: data})
	if identity != "" {
		w.shared[identity] = len(w.media) - 1
	}
	return name
}

func (w *Writer) contentTypes() contentTypesXML {
	ct := contentTypesXML{
		Xmlns: nsContentTypes,
		Defaults: []ctDefaultXML{
			{Extension: "rels", ContentType: ctRelationships},
			{Extension: "xml", ContentType: ctXML},
		},
		Overrides: []ctOverrideXML{
			{PartName: "/ppt/presentation.xml", ContentType: ctPresentation},
			{PartName: "/ppt/slideMasters/slideMaster1.xml", ContentType: ctSlideMaster},
			{PartName: "/ppt/slideLayouts/slideLayout1.xml", ContentType: ctSlideLayout},
			{PartName: "/ppt/theme/theme1.xml", ContentType: ctTheme},
			{PartName: "/docProps/core.xml", ContentType: ctCoreProps},
			{PartName: "/docProps/app.xml", ContentType: ctExtProps},
		},
	}

	seen := make(map[string]bool)
	for _, m := range w.media {
		ext := m.name[strings.LastIndexByte(m.name, '.')+1:]
		if !seen[ext] {
			seen[ext] = true
			ct.Defaults = append(ct.Defaults, ctDefaultXML{Extension: ext, ContentType: mediaContentType(ext)})
		}
	}
	for i := range w.slides {
		ct.Overrides = append(ct.Overrides, ctOverrideXML{
			PartName:    fmt.Sprintf("/ppt/slides/slide%d.xml", i+1),
			ContentType: ctSlide,
		})
	}
	return ct
}

func (w *Writer) writePresentation(zw *zip.Writer) error {
	pres := presentationXML{
		NSA: nsDrawingML,
		NSR: nsRelationships,
		NSP: nsPresentationML,
		SldMasterIdLst: sldMasterIdListXML{
			IDs: []sldMasterIdXML{{ID: "2147483648", RID: "rId1"}},
		},
		SldSz:   sldSzXML{Cx: w.canvas.Width, Cy: w.canvas.Height},
		NotesSz: sldSzXML{Cx: 6858000, Cy: 9144000},
	}
	rels := relationshipsXML{Xmlns: nsPackageRels, Rels: []relationshipXML{
		{ID: "rId1", Type: relTypeSlideMaster, Target: "slideMasters/slideMaster1.xml"},
	}}
	for i := range w.slides {
		rid := fmt.Sprintf("rId%d", i+2)
		pres.SldIdLst.IDs = append(pres.SldIdLst.IDs, sldIdXML{ID: 256 + i, RID: rid})
		rels.Rels = append(rels.Rels, relationshipXML{
			ID:     rid,
			Type:   relTypeSlide,
			Target: fmt.Sprintf("slides/slide%d.xml", i+1),
		})
	}

	if err := writeXMLPart(zw, "ppt/presentation.xml", pres); err != nil {
		return err
	}
	return writeXMLPart(zw, "ppt/_rels/presentation.xml.rels", rels)
}

func (w *Writer) writeScaffold(zw *zip.Writer) error {
	masterRels := relationshipsXML{Xmlns: nsPackageRels, Rels: []relationshipXML{
		{ID: "rId1", Type: relTypeSlideLayout, Target: "../slideLayouts/slideLayout1.xml"},
		{ID: "rId2", Type: relTypeTheme, Target: "../theme/theme1.xml"},
	}}
	layoutRels := relationshipsXML{Xmlns: nsPackageRels, Rels: []relationshipXML{
		{ID: "rId1", Type: relTypeSlideMaster, Target: "../slideMasters/slideMaster1.xml"},
	}}

	if err := writeRawPart(zw, "ppt/slideMasters/slideMaster1.xml", slideMasterXML); err != nil {
		return err
	}
	if err := writeXMLPart(zw, "ppt/slideMasters/_rels/slideMaster1.xml.rels", masterRels); err != nil {
		return err
	}
	if err := writeRawPart(zw, "ppt/slideLayouts/slideLayout1.xml", slideLayoutXML); err != nil {
		return err
	}
	if err := writeXMLPart(zw, "ppt/slideLayouts/_rels/slideLayout1.xml.rels", layoutRels); err != nil {
		return err
	}
	return writeRawPart(zw, "ppt/theme/theme1.xml", themeXML)
}

func (w *Writer) writeDocProps(zw *zip.Writer) error {
	now := time.Now().UTC().Format("2006-01-02T15:04:05Z")
	core := corePropertiesXML{
		NSCP:           "http://schemas.openxmlformats.org/package/2006/metadata/core-properties",
		NSDC:           "http://purl.org/dc/elements/1.1/",
		NSDCTerms:      "http://purl.org/dc/terms/",
		NSXSI:          "http://www.w3.org/2001/XMLSchema-instance",
		Title:          w.title,
		Creator:        appName,
		LastModifiedBy: appName,
		Revision:       1,
		Created:        w3cdtfXML{Type: "dcterms:W3CDTF", Value: now},
		Modified:       w3cdtfXML{Type: "dcterms:W3CDTF", Value: now},
	}
	if err := writeXMLPart(zw, "docProps/core.xml", core); err != nil {
		return err
	}

	app := appPropertiesXML{
		Xmlns:       "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties",
		Application: appName,
		Slides:      len(w.slides),
	}
	return writeXMLPart(zw, "docProps/app.xml", app)
}

func newSlideXML() slideXML {
	return slideXML{
		NSA: nsDrawingML,
		NSR: nsRelationships,
		NSP: nsPresentationML,
		CSld: cSldXML{SpTree: spTreeXML{
			NvGrpSpPr: nvGrpSpPrXML{CNvPr: cNvPrXML{ID: 1}},
		}},
	}
}

// textShape renders a text overlay as an editable text box. Opaque overlays
// get a solid white fill; transparent ones explicitly no fill, so the
// cleaned background shows through. Boxes never carry an outline, insets
// are zero, and wrapping follows the overlay source: structural boxes wrap
// like the original block, recognition lines stay on one line.
func textShape(id int, name string, o model.TextOverlay) spXML {
	wrap := "square"
	if o.Source == model.SourceRecognition {
		wrap = "none"
	}

	paragraphs := make([]paragraphXML, 0, len(o.Lines))
	for _, line := range o.Lines {
		var runs []runXML
		for _, r := range line.Runs {
			runs = append(runs, runXML{
				RPr: rPrXML{
					Sz:    int(math.Round(r.Size * 100)),
					B:     boolAttr(r.Bold),
					I:     boolAttr(r.Italic),
					Fill:  solidFillXML{Color: srgbClrXML{Val: hexColor(r.Color)}},
					Latin: latinXML{Typeface: r.Font},
				},
				T: r.Text,
			})
		}
		paragraphs = append(paragraphs, paragraphXML{Runs: runs})
	}

	sp := spXML{
		NvSpPr: nvSpPrXML{
			CNvPr:   cNvPrXML{ID: id, Name: name},
			CNvSpPr: cNvSpPrXML{TxBox: 1},
		},
		SpPr: spPrXML{
			Xfrm:     rectXfrm(o.Rect),
			PrstGeom: prstGeomXML{Prst: "rect"},
			Ln:       &lnXML{},
		},
		TxBody: txBodyXML{
			BodyPr:     bodyPrXML{Wrap: wrap},
			Paragraphs: paragraphs,
		},
	}
	if o.Fill == model.FillOpaque {
		sp.SpPr.SolidFill = &solidFillXML{Color: srgbClrXML{Val: "FFFFFF"}}
	} else {
		sp.SpPr.NoFill = &emptyXML{}
	}
	return sp
}

func rectXfrm(r model.Rect) xfrmXML {
	return xfrmXML{
		Off: offXML{X: r.X, Y: r.Y},
		Ext: extXML{Cx: r.W, Cy: r.H},
	}
}

func boolAttr(b bool) int {
	if b {
		return 1
	}
	return 0
}

func hexColor(c model.Color) string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// mediaExt normalizes a reader-reported image format into a part extension.
func mediaExt(format string) string {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return "jpeg"
	case "":
		return "png"
	default:
		return strings.ToLower(format)
	}
}

func mediaContentType(ext string) string {
	switch ext {
	case "png":
		return "image/png"
	case "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tiff":
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}

func writeXMLPart(zw *zip.Writer, name string, v any) error {
	data, err := xml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling part %s: %w", name, err)
	}
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating part %s: %w", name, err)
	}
	if _, err := io.WriteString(f, xml.Header); err != nil {
		return fmt.Errorf("writing part %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing part %s: %w", name, err)
	}
	return nil
}

func writeRawPart(zw *zip.Writer, name, content string) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating part %s: %w", name, err)
	}
	if _, err := io.WriteString(f, content); err != nil {
		return fmt.Errorf("writing part %s: %w", name, err)
	}
	return nil
}
