// Package classify decides how raw page content participates in
// reconstruction: full-bleed images become page background, everything else
// stays a discrete placeable object.
package classify

import "github.com/tsawler/reslate/model"

// Kind is the classification of a raw image placement.
type Kind int

const (
	// Discrete marks an image placed as an individual movable object.
	Discrete Kind = iota
	// Background marks an image that covers most of the page. It is folded
	// into the background raster and never placed individually.
	Background
)

func (k Kind) String() string {
	switch k {
	case Background:
		return "background"
	default:
		return "discrete"
	}
}

// DefaultAreaRatio is the fraction of page area above which an image counts
// as background. The value is empirical; an image at exactly the boundary
// still classifies as Discrete.
const DefaultAreaRatio = 0.80

// Classifier applies the background-vs-discrete heuristic to image
// placements and filters degenerate geometry.
type Classifier struct {
	areaRatio float64
}

// NewClassifier creates a classifier with the default area ratio.
func NewClassifier() *Classifier {
	return &Classifier{areaRatio: DefaultAreaRatio}
}

// NewClassifierWithRatio creates a classifier with a custom area ratio.
// Values outside (0, 1] fall back to the default.
func NewClassifierWithRatio(ratio float64) *Classifier {
	if ratio <= 0 || ratio > 1 {
		ratio = DefaultAreaRatio
	}
	return &Classifier{areaRatio: ratio}
}

// Classify reports whether an image placement is page background or a
// discrete object. The comparison is strict: an image covering exactly the
// threshold fraction of the page is Discrete.
func (c *Classifier) Classify(img model.ImagePlacement, page model.Size) Kind {
	pageArea := page.Area()
	if pageArea <= 0 {
		return Discrete
	}
	if img.BBox.Area() > c.areaRatio*pageArea {
		return Background
	}
	return Discrete
}

// IsDegenerate reports whether a bounding box has no usable area. Degenerate
// boxes are dropped before any further processing, for images and text
// blocks alike.
func (c *Classifier) IsDegenerate(b model.BBox) bool {
	return !b.IsValid()
}

// Split partitions a page's raw images into background and discrete groups,
// dropping degenerate boxes. Order within each group follows input order.
func (c *Classifier) Split(images []model.ImagePlacement, page model.Size) (background, discrete []model.ImagePlacement) {
	for _, img := range images {
		if c.IsDegenerate(img.BBox) {
			continue
		}
		if c.Classify(img, page) == Background {
			background = append(background, img)
		} else {
			discrete = append(discrete, img)
		}
	}
	return background, discrete
}

// FilterBlocks drops text blocks that are degenerate or contain no visible
// text. Surviving blocks keep their input order.
func (c *Classifier) FilterBlocks(blocks []model.TextBlock) []model.TextBlock {
	kept := make([]model.TextBlock, 0, len(blocks))
	for _, b := range blocks {
		if c.IsDegenerate(b.BBox) || b.IsBlank() {
			continue
		}
		kept = append(kept, b)
	}
	return kept
}
