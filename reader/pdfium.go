//go:build pdfium

package reader

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/enums"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/single_threaded"

	"github.com/tsawler/reslate/model"
)

// imageRenderDPI is the resolution used when image placements are recovered
// by re-rasterizing their page region (twice the 72dpi point grid).
const imageRenderDPI = 144

// instanceTimeout bounds how long we wait for a pdfium worker.
const instanceTimeout = 30 * time.Second

// PdfiumDocument is the full-capability reader: structural text, image
// placements, and page rendering, backed by the pdfium library. It is not
// safe for concurrent use; callers serialize access per document.
type PdfiumDocument struct {
	pool     pdfium.Pool
	instance pdfium.Pdfium
	document references.FPDF_DOCUMENT
	pages    int
}

// OpenPdfium opens a PDF file with the pdfium backend.
func OpenPdfium(path string) (*PdfiumDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return OpenPdfiumBytes(data)
}

// OpenPdfiumBytes opens an in-memory PDF with the pdfium backend.
func OpenPdfiumBytes(data []byte) (*PdfiumDocument, error) {
	pool := single_threaded.Init(single_threaded.Config{})
	instance, err := pool.GetInstance(instanceTimeout)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("pdfium instance: %w", err)
	}

	doc, err := instance.OpenDocument(&requests.OpenDocument{File: &data})
	if err != nil {
		instance.Close()
		pool.Close()
		return nil, fmt.Errorf("open document: %w", err)
	}

	count, err := instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{Document: doc.Document})
	if err != nil {
		instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: doc.Document})
		instance.Close()
		pool.Close()
		return nil, fmt.Errorf("page count: %w", err)
	}

	return &PdfiumDocument{
		pool:     pool,
		instance: instance,
		document: doc.Document,
		pages:    count.PageCount,
	}, nil
}

func (d *PdfiumDocument) page(pageIndex int) requests.Page {
	return requests.Page{ByIndex: &requests.PageByIndex{Document: d.document, Index: pageIndex}}
}

// PageCount returns the number of pages.
func (d *PdfiumDocument) PageCount() int {
	return d.pages
}

// PageSize returns the page dimensions in points.
func (d *PdfiumDocument) PageSize(pageIndex int) (model.Size, error) {
	res, err := d.instance.GetPageSize(&requests.GetPageSize{Page: d.page(pageIndex)})
	if err != nil {
		return model.Size{}, fmt.Errorf("page %d size: %w", pageIndex+1, err)
	}
	return model.Size{Width: res.Width, Height: res.Height}, nil
}

// TextBlocks extracts the native text layer with font information. Each
// reported rect becomes one single-line block; coordinates flip from
// pdfium's bottom-left page origin into top-left page space.
func (d *PdfiumDocument) TextBlocks(pageIndex int) ([]model.TextBlock, error) {
	size, err := d.PageSize(pageIndex)
	if err != nil {
		return nil, err
	}

	res, err := d.instance.GetPageTextStructured(&requests.GetPageTextStructured{
		Page:                   d.page(pageIndex),
		Mode:                   requests.GetPageTextStructuredModeRects,
		CollectFontInformation: true,
	})
	if err != nil {
		return nil, fmt.Errorf("page %d text: %w", pageIndex+1, err)
	}

	blocks := make([]model.TextBlock, 0, len(res.Rects))
	for _, rect := range res.Rects {
		if rect == nil {
			continue
		}
		span := model.Span{
			Text:  rect.Text,
			Color: 0x000000,
		}
		if fi := rect.FontInformation; fi != nil {
			span.Size = fi.Size
			span.Font = fi.Name
			if fi.Weight >= 600 {
				span.Flags |= model.FlagBold
			}
			// Bit 7 of the PDF font descriptor flags marks italic.
			if fi.Flags&64 != 0 {
				span.Flags |= model.FlagItalic
			}
		}
		if span.Size <= 0 {
			span.Size = rect.Top - rect.Bottom
		}
		blocks = append(blocks, model.TextBlock{
			BBox:   model.NewBBoxFromEdges(rect.Left, size.Height-rect.Top, rect.Right, size.Height-rect.Bottom),
			Lines:  []model.Line{{Spans: []model.Span{span}}},
			Source: model.SourceStructural,
		})
	}
	return blocks, nil
}

// Images enumerates image objects on the page. Object pixel data is
// recovered by rendering the page once and cropping each object's bounds,
// which sidesteps undecodable inline and masked streams; identity is a
// content hash of the crop so repeated images still deduplicate.
func (d *PdfiumDocument) Images(pageIndex int) ([]model.ImagePlacement, error) {
	size, err := d.PageSize(pageIndex)
	if err != nil {
		return nil, err
	}

	loaded, err := d.instance.FPDF_LoadPage(&requests.FPDF_LoadPage{Document: d.document, Index: pageIndex})
	if err != nil {
		return nil, fmt.Errorf("load page %d: %w", pageIndex+1, err)
	}
	defer d.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{Page: loaded.Page})

	count, err := d.instance.FPDFPage_CountObjects(&requests.FPDFPage_CountObjects{Page: loaded.Page})
	if err != nil {
		return nil, fmt.Errorf("count objects page %d: %w", pageIndex+1, err)
	}

	var boxes []model.BBox
	for i := 0; i < count.Count; i++ {
		obj, err := d.instance.FPDFPage_GetObject(&requests.FPDFPage_GetObject{Page: loaded.Page, Index: i})
		if err != nil {
			continue
		}
		typ, err := d.instance.FPDFPageObj_GetType(&requests.FPDFPageObj_GetType{PageObject: obj.PageObject})
		if err != nil || typ.Type != enums.FPDF_PAGEOBJ_IMAGE {
			continue
		}
		bounds, err := d.instance.FPDFPageObj_GetBounds(&requests.FPDFPageObj_GetBounds{PageObject: obj.PageObject})
		if err != nil {
			continue
		}
		boxes = append(boxes, model.NewBBoxFromEdges(
			float64(bounds.Left),
			size.Height-float64(bounds.Top),
			float64(bounds.Right),
			size.Height-float64(bounds.Bottom),
		))
	}
	if len(boxes) == 0 {
		return nil, nil
	}

	raster, err := d.Rasterize(pageIndex, imageRenderDPI)
	if err != nil {
		return nil, fmt.Errorf("render page %d for images: %w", pageIndex+1, err)
	}

	scale := float64(imageRenderDPI) / 72.0
	placements := make([]model.ImagePlacement, 0, len(boxes))
	for _, box := range boxes {
		if !box.IsValid() {
			continue
		}
		crop := image.Rect(
			int(math.Round(box.Left()*scale)),
			int(math.Round(box.Top()*scale)),
			int(math.Round(box.Right()*scale)),
			int(math.Round(box.Bottom()*scale)),
		).Intersect(raster.Bounds())
		if crop.Empty() {
			continue
		}

		sub := raster.(interface {
			SubImage(r image.Rectangle) image.Image
		}).SubImage(crop)

		var buf bytes.Buffer
		if err := png.Encode(&buf, sub); err != nil {
			continue
		}
		sum := sha1.Sum(buf.Bytes())
		placements = append(placements, model.ImagePlacement{
			BBox:     box,
			Identity: hex.EncodeToString(sum[:]),
			Data:     buf.Bytes(),
			Format:   "png",
		})
	}
	return placements, nil
}

// Rasterize renders a full page at the given resolution.
func (d *PdfiumDocument) Rasterize(pageIndex int, dpi int) (image.Image, error) {
	res, err := d.instance.RenderPageInDPI(&requests.RenderPageInDPI{
		DPI:  dpi,
		Page: d.page(pageIndex),
	})
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", pageIndex+1, err)
	}
	return res.Result.Image, nil
}

// Close releases the document and the pdfium worker.
func (d *PdfiumDocument) Close() error {
	if d.instance == nil {
		return nil
	}
	_, docErr := d.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: d.document})
	instErr := d.instance.Close()
	d.pool.Close()
	d.instance = nil
	if docErr != nil {
		return fmt.Errorf("close document: %w", docErr)
	}
	return instErr
}
