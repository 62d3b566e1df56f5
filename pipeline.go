package reslate

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/tsawler/reslate/classify"
	"github.com/tsawler/reslate/extract"
	"github.com/tsawler/reslate/model"
	"github.com/tsawler/reslate/ocr"
	"github.com/tsawler/reslate/overlay"
	"github.com/tsawler/reslate/raster"
	"github.com/tsawler/reslate/reader"
)

// capabilities are the feature flags of one conversion, resolved once from
// configuration plus adapter presence. Pipeline stages receive resolved
// booleans and never probe the backend again.
type capabilities struct {
	rasterize bool // backend can render page rasters
	recognize bool // a recognizer is configured
	erase     bool // erase strategy selected and rendering available
}

func (c *Converter) resolveCapabilities() capabilities {
	rasterize := reader.CanRasterize(c.doc)
	return capabilities{
		rasterize: rasterize,
		recognize: c.rec != nil,
		erase:     c.options.strategy == StrategyErase && rasterize,
	}
}

// pageEnv is the read-only state shared by every page of one conversion.
type pageEnv struct {
	doc        reader.Document
	src        *extract.Source
	classifier *classify.Classifier
	canvas     model.Canvas
	caps       capabilities
}

// pageResult carries one page's outcome back to the assembly loop.
type pageResult struct {
	page model.ReconstructedPage
	ok   bool // false when the page was skipped

	recognitionUsed    bool // text came from the recognition fallback
	degradedBackground bool // background render unavailable or failed
	warnings           []Warning
}

// runPipeline converts the selected pages and returns one result per page,
// in page order. A non-nil error means the conversion was abandoned.
func (c *Converter) runPipeline(ctx context.Context, canvas model.Canvas, caps capabilities, pageIndices []int) ([]pageResult, error) {
	workers := c.options.workers
	if workers > len(pageIndices) {
		workers = len(pageIndices)
	}

	doc := c.doc
	rec := c.rec
	if workers > 1 {
		// Backends are not required to support concurrent page access;
		// serialize them behind the shared interfaces.
		doc = lockDocument(doc)
		rec = lockRecognizer(rec)
	}

	src := extract.NewSource(doc, rec, extract.Options{
		DPI:       c.options.recognitionDPI,
		Languages: c.options.languages,
		Logger:    c.log,
	})
	env := &pageEnv{
		doc:        doc,
		src:        src,
		classifier: classify.NewClassifier(),
		canvas:     canvas,
		caps:       caps,
	}

	results := make([]pageResult, len(pageIndices))

	if workers <= 1 {
		for i, pageNum := range pageIndices {
			r, err := c.convertPage(ctx, env, pageNum)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
		return results, nil
	}

	poolCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg      sync.WaitGroup
		errOnce sync.Once
		poolErr error
	)
	jobs := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r, err := c.convertPage(poolCtx, env, pageIndices[i])
				if err != nil {
					errOnce.Do(func() {
						poolErr = err
						cancel()
					})
					return
				}
				results[i] = r
			}
		}()
	}

feed:
	for i := range pageIndices {
		select {
		case jobs <- i:
		case <-poolCtx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if poolErr != nil {
		return nil, poolErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// convertPage runs the per-page pipeline. A non-nil error abandons the
// whole conversion; per-page failures come back as a skipped result with
// warnings attached.
func (c *Converter) convertPage(ctx context.Context, env *pageEnv, pageNum int) (pageResult, error) {
	if err := ctx.Err(); err != nil {
		return pageResult{}, err
	}
	if c.options.mode == ModeImage {
		return c.convertImagePage(ctx, env, pageNum)
	}
	return c.convertEditPage(ctx, env, pageNum)
}

// convertEditPage reconstructs one page: extract its text, classify its
// images, build the background raster, then place the overlays. The shape
// order is constant across pages: background, then discrete pictures, then
// text boxes.
func (c *Converter) convertEditPage(ctx context.Context, env *pageEnv, pageNum int) (pageResult, error) {
	var res pageResult
	pageNo := pageNum + 1

	size, err := env.doc.PageSize(pageNum)
	if err != nil {
		res.warnings = append(res.warnings, Warning{Page: pageNo, Message: fmt.Sprintf("skipped: %v", err)})
		c.log.Warn().Err(err).Int("page", pageNo).Msg("page skipped")
		return res, nil
	}

	t, err := model.NewTransform(size, env.canvas)
	if err != nil {
		res.warnings = append(res.warnings, Warning{Page: pageNo, Message: fmt.Sprintf("skipped: %v", err)})
		c.log.Warn().Err(err).Int("page", pageNo).Msg("page skipped")
		return res, nil
	}

	blocks, origin, err := env.src.Extract(ctx, pageNum)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return res, cerr
		}
		res.warnings = append(res.warnings, Warning{Page: pageNo, Message: fmt.Sprintf("skipped: extracting text: %v", err)})
		c.log.Warn().Err(err).Int("page", pageNo).Msg("page skipped")
		return res, nil
	}
	blocks = env.classifier.FilterBlocks(blocks)

	if origin == model.SourceRecognition {
		switch {
		case len(blocks) > 0:
			res.recognitionUsed = true
		case !env.caps.recognize || !env.caps.rasterize:
			res.warnings = append(res.warnings, Warning{Page: pageNo, Message: "no text layer and recognition is unavailable"})
		}
	}

	// Image enumeration failure degrades to none; the background raster
	// still carries everything visually.
	images, err := env.doc.Images(pageNum)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return res, cerr
		}
		res.warnings = append(res.warnings, Warning{Page: pageNo, Message: fmt.Sprintf("listing images: %v", err)})
		images = nil
	}
	background, discrete := env.classifier.Split(images, size)

	var bg *model.Background
	switch {
	case !env.caps.rasterize:
		res.degradedBackground = true
		res.warnings = append(res.warnings, Warning{Page: pageNo, Message: fmt.Sprintf("background omitted: %v", raster.ErrNoRasterizer)})
	default:
		img, err := raster.Render(ctx, env.doc, pageNum, c.options.dpi)
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return res, cerr
			}
			res.degradedBackground = true
			res.warnings = append(res.warnings, Warning{Page: pageNo, Message: fmt.Sprintf("background omitted: %v", err)})
			break
		}
		if env.caps.erase && len(blocks) > 0 {
			boxes := make([]model.BBox, len(blocks))
			for i, b := range blocks {
				boxes[i] = b.BBox
			}
			img = raster.EraseText(img, float64(c.options.dpi), boxes)
		}
		bg, err = c.encodeBackground(img, model.Rect{W: env.canvas.Width, H: env.canvas.Height})
		if err != nil {
			res.degradedBackground = true
			res.warnings = append(res.warnings, Warning{Page: pageNo, Message: fmt.Sprintf("background omitted: %v", err)})
		}
	}

	fill := model.FillNone
	if c.options.strategy == StrategyOpaque {
		fill = model.FillOpaque
	}
	placer := overlay.NewPlacer(t, fill)

	var imgOverlays []model.ImageOverlay
	if c.options.strategy == StrategyOpaque {
		for _, img := range discrete {
			if o, ok := placer.PlaceImage(img); ok {
				imgOverlays = append(imgOverlays, o)
			}
		}
	}

	var textOverlays []model.TextOverlay
	for _, b := range blocks {
		if o, ok := placer.PlaceText(b); ok {
			textOverlays = append(textOverlays, o)
		}
	}

	c.log.Debug().
		Int("page", pageNo).
		Str("origin", origin.String()).
		Int("texts", len(textOverlays)).
		Int("pictures", len(imgOverlays)).
		Int("background_images", len(background)).
		Msg("page reconstructed")

	res.page = model.ReconstructedPage{
		Number:     pageNo,
		Background: bg,
		Images:     imgOverlays,
		Texts:      textOverlays,
	}
	res.ok = true
	return res, nil
}

// convertImagePage renders one page and places it as a single centered
// picture. Rendering here is not allowed to degrade: without a raster the
// slide would be empty, so a failed render skips the page.
func (c *Converter) convertImagePage(ctx context.Context, env *pageEnv, pageNum int) (pageResult, error) {
	var res pageResult
	pageNo := pageNum + 1

	size, err := env.doc.PageSize(pageNum)
	if err != nil {
		res.warnings = append(res.warnings, Warning{Page: pageNo, Message: fmt.Sprintf("skipped: %v", err)})
		c.log.Warn().Err(err).Int("page", pageNo).Msg("page skipped")
		return res, nil
	}

	t, err := model.CenteredTransform(size, env.canvas)
	if err != nil {
		res.warnings = append(res.warnings, Warning{Page: pageNo, Message: fmt.Sprintf("skipped: %v", err)})
		c.log.Warn().Err(err).Int("page", pageNo).Msg("page skipped")
		return res, nil
	}

	img, err := raster.Render(ctx, env.doc, pageNum, c.options.dpi)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return res, cerr
		}
		res.warnings = append(res.warnings, Warning{Page: pageNo, Message: fmt.Sprintf("skipped: rendering page: %v", err)})
		c.log.Warn().Err(err).Int("page", pageNo).Msg("page skipped")
		return res, nil
	}

	rect := t.Apply(model.NewBBox(0, 0, size.Width, size.Height))
	bg, err := c.encodeBackground(img, rect)
	if err != nil {
		res.warnings = append(res.warnings, Warning{Page: pageNo, Message: fmt.Sprintf("skipped: encoding page render: %v", err)})
		return res, nil
	}

	res.page = model.ReconstructedPage{Number: pageNo, Background: bg}
	res.ok = true
	return res, nil
}

// encodeBackground encodes a rendered page raster for placement.
func (c *Converter) encodeBackground(img image.Image, rect model.Rect) (*model.Background, error) {
	if c.options.jpegBackgrounds {
		data, err := raster.EncodeJPEG(img)
		if err != nil {
			return nil, err
		}
		return &model.Background{Data: data, Format: "jpeg", Rect: rect}, nil
	}
	data, err := raster.EncodePNG(img)
	if err != nil {
		return nil, err
	}
	return &model.Background{Data: data, Format: "png", Rect: rect}, nil
}

// lockedDocument serializes page access to a backend that is not safe for
// concurrent use.
type lockedDocument struct {
	mu  sync.Mutex
	doc reader.Document
}

// lockDocument wraps doc so every call holds a mutex. Documents that can
// rasterize come back still able to rasterize.
func lockDocument(doc reader.Document) reader.Document {
	ld := &lockedDocument{doc: doc}
	if reader.CanRasterize(doc) {
		return &lockedRasterDocument{ld}
	}
	return ld
}

func (d *lockedDocument) PageCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.PageCount()
}

func (d *lockedDocument) PageSize(pageIndex int) (model.Size, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.PageSize(pageIndex)
}

func (d *lockedDocument) TextBlocks(pageIndex int) ([]model.TextBlock, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.TextBlocks(pageIndex)
}

func (d *lockedDocument) Images(pageIndex int) ([]model.ImagePlacement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Images(pageIndex)
}

func (d *lockedDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Close()
}

// lockedRasterDocument adds the serialized Rasterize call for backends that
// support rendering.
type lockedRasterDocument struct {
	*lockedDocument
}

func (d *lockedRasterDocument) Rasterize(pageIndex int, dpi int) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.(reader.Rasterizer).Rasterize(pageIndex, dpi)
}

// lockedRecognizer serializes recognition calls; the gosseract client keeps
// per-call state.
type lockedRecognizer struct {
	mu  sync.Mutex
	rec ocr.Recognizer
}

func lockRecognizer(rec ocr.Recognizer) ocr.Recognizer {
	if rec == nil {
		return nil
	}
	return &lockedRecognizer{rec: rec}
}

func (r *lockedRecognizer) Recognize(ctx context.Context, img image.Image, langs []string) ([]ocr.Word, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec.Recognize(ctx, img, langs)
}

func (r *lockedRecognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec.Close()
}
