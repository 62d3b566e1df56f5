//go:build !ocr

// Package ocr provides the optical text recognition used when a page has no
// structural text layer.
//
// This is the stub implementation used when the "ocr" build tag is not set.
// All functions return ErrNotEnabled, and the engine degrades pages without
// structural text to zero text overlays.
//
// To enable recognition, rebuild with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"context"
	"image"
)

// Client is a stub recognition client that returns errors for all
// operations.
type Client struct{}

// New returns an error indicating recognition support is not enabled.
// To enable it, rebuild with: go build -tags ocr
func New(dpi int) (*Client, error) {
	return nil, ErrNotEnabled
}

// Close is a no-op for the stub client.
// It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// Recognize returns an error indicating recognition support is not enabled.
func (c *Client) Recognize(ctx context.Context, img image.Image, langs []string) ([]Word, error) {
	return nil, ErrNotEnabled
}
