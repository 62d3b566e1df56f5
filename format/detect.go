// Package format provides file format detection for conversion inputs and
// outputs.
package format

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"
)

// Format represents a document format the engine deals with.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document, the conversion input.
	PDF
	// PPTX indicates a PowerPoint (.pptx) deck, the conversion output.
	PPTX
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case PPTX:
		return "PPTX"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case PPTX:
		return ".pptx"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".pptx":
		return PPTX
	default:
		return Unknown
	}
}

// DetectFromMagic checks content bytes to determine format. This is more
// reliable than extension-based detection: a PDF starts with %PDF, and a
// PPTX is a ZIP archive containing a ppt/ part tree.
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// PDF magic: %PDF
	if data[0] == '%' && data[1] == 'P' && data[2] == 'D' && data[3] == 'F' {
		return PDF
	}

	// ZIP magic: PK\x03\x04
	if data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
		return detectZIPFormat(data)
	}

	return Unknown
}

// detectZIPFormat inspects a ZIP archive for the PPTX part tree.
func detectZIPFormat(data []byte) Format {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Unknown
	}
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/") {
			return PPTX
		}
	}
	return Unknown
}
