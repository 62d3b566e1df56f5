//go:build ocr

// Package ocr provides the optical text recognition used when a page has no
// structural text layer.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// Recognition of non-Latin scripts needs the matching language data packages
// (for example tesseract-ocr-jpn).
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client performs word-level recognition with Tesseract. A fresh engine
// instance is created per call, so a Client is safe for concurrent use.
type Client struct {
	dpi int
}

// New creates a recognition client. dpi tells the engine the resolution the
// incoming rasters were rendered at; pass 0 to let Tesseract guess.
func New(dpi int) (*Client, error) {
	return &Client{dpi: dpi}, nil
}

// Close releases recognition resources.
func (c *Client) Close() error {
	return nil
}

// Recognize runs Tesseract over the raster and returns word-level results
// with their (block, paragraph, line) grouping indices. Words that come back
// empty after trimming are dropped; confidence filtering is left to the
// caller.
func (c *Client) Recognize(ctx context.Context, img image.Image, langs []string) ([]Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode raster: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	if len(langs) > 0 {
		if err := client.SetLanguage(langs...); err != nil {
			return nil, fmt.Errorf("set languages %v: %w", langs, err)
		}
	}
	if c.dpi > 0 {
		if err := client.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(c.dpi)); err != nil {
			return nil, fmt.Errorf("set dpi: %w", err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}

	boxes, err := client.GetBoundingBoxesVerbose()
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		words = append(words, Word{
			Text:       text,
			Confidence: b.Confidence,
			Block:      b.BlockNum,
			Paragraph:  b.ParNum,
			Line:       b.LineNum,
			Box:        b.Box,
		})
	}
	return words, nil
}
