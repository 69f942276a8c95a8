package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/placer/pkg/bitmap"
	"github.com/matzehuels/placer/pkg/palette"
)

// previewCommand renders the image as it will appear after quantization.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		configPath string
		image      string
		metric     string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the quantized image in the terminal",
		Long: `Render the image as it will be placed: every opaque pixel is mapped to its
nearest palette color, transparent pixels are left blank.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pal, err := loadPalette(configPath, metric)
			if err != nil {
				return err
			}
			bm, err := loadBitmap(image)
			if err != nil {
				return err
			}

			fmt.Fprint(c.Out, renderPreview(bm, pal))
			printKeyValue(c.Out, "Size", fmt.Sprintf("%dx%d", bm.Width(), bm.Height()))
			printKeyValue(c.Out, "Format", bm.Format())
			printKeyValue(c.Out, "Opaque", fmt.Sprintf("%d pixels", bm.Opaque()))
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&image, "image", "", "image to preview (default: built-in logo)")
	cmd.Flags().StringVar(&metric, "metric", "", "color distance: rgb or lab")
	return cmd
}

// renderPreview draws two terminal cells per pixel.
func renderPreview(bm *bitmap.Bitmap, pal palette.Palette) string {
	var sb strings.Builder
	for y := range bm.Height() {
		for x := range bm.Width() {
			if bm.Transparent(x, y) {
				sb.WriteString("  ")
				continue
			}
			idx := pal.Nearest(palette.FromColor(bm.At(x, y)))
			e, _ := pal.Color(idx)
			sb.WriteString(swatch(e.RGB, 2))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
