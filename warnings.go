package reslate

import (
	"fmt"
	"strings"
)

// Warning describes a non-fatal problem encountered during conversion.
// Warnings indicate degradations (e.g. a page skipped for degenerate
// geometry, a background that could not be rendered) where conversion
// succeeded but the deck may be incomplete.
type Warning struct {
	// Page is the 1-indexed page the warning applies to, or 0 when the
	// warning concerns the document as a whole.
	Page int

	// Message describes what was degraded or skipped.
	Message string
}

// String returns the warning as a single human-readable line.
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings joins warnings into a single string, one warning per line.
//
// Example:
//
//	summary, warnings, err := reslate.Open("report.pdf").ConvertFile("report.pptx")
//	if len(warnings) > 0 {
//	    log.Println("Warnings:\n" + reslate.FormatWarnings(warnings))
//	}
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
