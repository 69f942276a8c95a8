package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/placer/pkg/config"
	"github.com/matzehuels/placer/pkg/palette"
)

// paletteCommand prints the palette with color swatches.
func (c *CLI) paletteCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Show the canvas palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pal, err := loadPalette(configPath, "")
			if err != nil {
				return err
			}

			fmt.Fprintln(c.Out, StyleTitle.Render("Palette")+" "+StyleDim.Render("("+string(pal.Metric())+" distance)"))
			for _, e := range pal.Entries() {
				fmt.Fprintf(c.Out, "%s %s  %s\n",
					StyleNumber.Render(fmt.Sprintf("%3d", e.Index)),
					swatch(e.RGB, 4),
					StyleValue.Render(e.Hex()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	return cmd
}

// loadPalette builds the configured palette, optionally overriding the metric.
func loadPalette(configPath, metric string) (palette.Palette, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return palette.Palette{}, err
	}
	if metric != "" {
		cfg.Metric = metric
	}
	return cfg.BuildPalette()
}
