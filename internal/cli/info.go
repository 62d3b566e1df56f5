package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tsawler/reslate"
)

var infoCmd = &cobra.Command{
	Use:     "info [input.pdf]",
	Short:   "Show page count and page sizes for a PDF",
	Example: "  reslate info deck.pdf",
	Args:    cobra.ExactArgs(1),
	RunE:    runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	conv := reslate.Open(args[0])
	defer conv.Close()

	sizes, err := conv.PageSizes()
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d pages\n", filepath.Base(args[0]), len(sizes))
	for i, s := range sizes {
		fmt.Printf("  page %3d: %7.1f x %7.1f pt  (%.0f x %.0f mm)\n",
			i+1, s.Width, s.Height, toMillimetres(s.Width), toMillimetres(s.Height))
	}
	return nil
}

func toMillimetres(pt float64) float64 {
	return pt * 25.4 / 72
}
