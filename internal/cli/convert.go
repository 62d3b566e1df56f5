package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tsawler/reslate"
	"github.com/tsawler/reslate/extract"
	"github.com/tsawler/reslate/internal/config"
	"github.com/tsawler/reslate/internal/logger"
	"github.com/tsawler/reslate/ocr"
	"github.com/tsawler/reslate/raster"
)

var convertCmd = &cobra.Command{
	Use:   "convert [input.pdf]",
	Short: "Convert a PDF into an editable PowerPoint deck",
	Long: `Convert renders each PDF page to a background image, erases or covers the
regions occupied by text, and lays editable text boxes over them. The
output defaults to the input name with a .pptx extension.`,
	Example: `  reslate convert deck.pdf
  reslate convert deck.pdf -o slides.pptx --strategy opaque
  reslate convert scan.pdf --langs jpn+eng --ocr-dpi 300
  reslate convert report.pdf --mode image --dpi 200 --pages 2-9`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	flags := convertCmd.Flags()
	flags.StringP("output", "o", "", "output file (default: input name with .pptx)")
	flags.String("mode", reslate.ModeEdit.String(), "conversion mode: edit or image")
	flags.String("strategy", reslate.StrategyErase.String(), "text regions on the background: erase or opaque")
	flags.Int("dpi", raster.DefaultDPI, "render resolution for page backgrounds")
	flags.Int("ocr-dpi", extract.DefaultDPI, "render resolution for text recognition")
	flags.String("langs", strings.Join(extract.DefaultLanguages, "+"), "recognition languages, joined with +")
	flags.Int("workers", 1, "pages converted in parallel")
	flags.String("pages", "", "pages to convert: N, N-M, or a comma list (default all)")
	flags.String("title", "", "presentation title (default: input name)")
	flags.Bool("jpeg", false, "encode backgrounds as JPEG instead of PNG")
	flags.BoolP("verbose", "v", false, "enable debug logging")
}

func runConvert(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	input := args[0]

	if verbose, _ := flags.GetBool("verbose"); verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log := logger.WithComponent("convert")

	modeName, _ := flags.GetString("mode")
	mode, err := reslate.ParseMode(modeName)
	if err != nil {
		return err
	}
	strategyName, _ := flags.GetString("strategy")
	strategy, err := reslate.ParseStrategy(strategyName)
	if err != nil {
		return err
	}

	// Flags beat environment defaults, which beat library defaults.
	dpi := cfg.DPI
	if flags.Changed("dpi") {
		dpi, _ = flags.GetInt("dpi")
	}
	langs := cfg.Languages
	if flags.Changed("langs") {
		spec, _ := flags.GetString("langs")
		langs = config.ParseLanguages(spec)
	}
	ocrDPI, _ := flags.GetInt("ocr-dpi")
	workers, _ := flags.GetInt("workers")

	output, _ := flags.GetString("output")
	if output == "" {
		output = defaultOutput(input)
	}

	conv := reslate.Open(input).
		Mode(mode).
		Strategy(strategy).
		DPI(dpi).
		RecognitionDPI(ocrDPI).
		Languages(langs...).
		Workers(workers).
		WithLogger(log)

	if jpeg, _ := flags.GetBool("jpeg"); jpeg {
		conv = conv.JPEGBackgrounds()
	}
	if title, _ := flags.GetString("title"); title != "" {
		conv = conv.Title(title)
	}
	if spec, _ := flags.GetString("pages"); spec != "" {
		pages, err := parsePageSpec(spec)
		if err != nil {
			return err
		}
		conv = conv.Pages(pages...)
	}

	// Recognition is best-effort: without the ocr build tag or a tesseract
	// installation the converter still runs, it just cannot recover text
	// from image-only pages.
	rec, recErr := ocr.New(ocrDPI)
	if recErr != nil {
		if flags.Changed("langs") || flags.Changed("ocr-dpi") {
			log.Warn().Err(recErr).Msg("text recognition unavailable")
		} else {
			log.Debug().Err(recErr).Msg("text recognition unavailable")
		}
	} else {
		defer rec.Close()
		conv = conv.WithRecognizer(rec)
	}

	ctx, cancel := interruptContext()
	defer cancel()

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}

	start := time.Now()
	sum, warns, err := conv.ConvertContext(ctx, out)
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("writing %s: %w", output, closeErr)
	}
	if err != nil {
		os.Remove(output)
		switch {
		case errors.Is(err, context.Canceled):
			return errors.New("conversion interrupted")
		case errors.Is(err, raster.ErrNoRasterizer):
			return fmt.Errorf("%w (image mode needs the pdfium backend; rebuild with -tags pdfium)", err)
		}
		return err
	}

	elapsed := time.Since(start).Round(10 * time.Millisecond)
	fmt.Printf("wrote %s: %d slides, %d text overlays, %d image overlays in %s\n",
		output, sum.Pages-sum.PagesFailed, sum.TextOverlays, sum.ImageOverlays, elapsed)
	if sum.RecognitionPages > 0 {
		fmt.Printf("  recognized pages: %d\n", sum.RecognitionPages)
	}
	if sum.DegradedBackgrounds > 0 {
		fmt.Printf("  degraded backgrounds: %d\n", sum.DegradedBackgrounds)
	}
	if sum.PagesFailed > 0 {
		fmt.Printf("  skipped pages: %d\n", sum.PagesFailed)
	}
	if len(warns) > 0 {
		fmt.Fprintln(os.Stderr, reslate.FormatWarnings(warns))
	}
	return nil
}

// interruptContext returns a context cancelled on SIGINT or SIGTERM so a
// half-written deck can be abandoned cleanly.
func interruptContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// parsePageSpec parses a 1-indexed page selection: "3", "2-9", or "1,3,8".
// Ranges are inclusive on both ends.
func parsePageSpec(spec string) ([]int, error) {
	var pages []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
			end, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
			if end < start {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
			for p := start; p <= end; p++ {
				pages = append(pages, p)
			}
			continue
		}
		p, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid page %q", part)
		}
		pages = append(pages, p)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("empty page selection %q", spec)
	}
	return pages, nil
}

// defaultOutput derives the output filename from the input:
// deck.pdf becomes deck.pptx.
func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".pptx"
}
