//go:build ocr

package ocr

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"os/exec"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// textImage renders a line of text onto a white raster so Tesseract has
// something legible to work with.
func textImage(text string, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, height/2),
	}
	d.DrawString(text)
	return img
}

func requireTesseract(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skipf("tesseract binary not available: %v", err)
	}
}

func TestNew(t *testing.T) {
	client, err := New(200)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	if client == nil {
		t.Error("Expected non-nil client")
	}
}

func TestRecognize(t *testing.T) {
	requireTesseract(t)

	client, err := New(70)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	img := textImage("HELLO WORLD", 200, 40)
	words, err := client.Recognize(context.Background(), img, []string{"eng"})
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}

	for _, w := range words {
		if w.Text == "" {
			t.Error("Recognize returned an empty word")
		}
		if w.Confidence < 0 || w.Confidence > 100 {
			t.Errorf("confidence %v outside 0-100", w.Confidence)
		}
		if w.Box.Empty() {
			t.Errorf("word %q has an empty box", w.Text)
		}
	}
}

func TestRecognizeCancelledContext(t *testing.T) {
	client, err := New(200)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if _, err := client.Recognize(ctx, img, nil); err == nil {
		t.Error("Recognize with cancelled context should fail")
	}
}
