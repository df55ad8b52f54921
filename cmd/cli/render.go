package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/egandro/temperature-heatmap/pkg/config"
	"github.com/egandro/temperature-heatmap/pkg/executor"
	"github.com/egandro/temperature-heatmap/pkg/svg"
)

func newRenderCmd() *cobra.Command {
	var src sourceOptions
	var output string
	var format string
	var title string
	var open bool

	cfg := config.Load(config.ConstantConfigFilename)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the heat map to an SVG image or HTML page",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := outputFormat(output, format)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ds, err := loadDataset(cmd.Context(), &src)
			if err != nil {
				return err
			}
			c, err := buildChart(cfg, ds)
			if err != nil {
				return err
			}

			h := svg.New(c, svg.ModeStandalone).WithTitle(title)
			var doc string
			if f == formatHTML {
				doc, err = h.Page("")
			} else {
				doc, err = h.Generate()
			}
			if err != nil {
				return err
			}

			// #nosec G306 -- rendered documents are meant to be shared
			if err := os.WriteFile(filepath.Clean(output), []byte(doc), 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %s (%d cells)\n", output, c.Grid.Len())

			if open {
				return executor.NewOpener(&executor.DefaultExecutor{}).Open(cmd.Context(), output)
			}
			return nil
		},
	}
	addSourceFlags(cmd, &src, cfg)
	cmd.Flags().StringVarP(&output, "output", "o", "heatmap.html", "Output file")
	cmd.Flags().StringVar(&format, "format", "", "Output format: svg or html (default from the file extension)")
	cmd.Flags().StringVar(&title, "title", svg.DefaultTitle, "Heading of the document")
	cmd.Flags().StringVar(&cfg.Palette, "palette", cfg.Palette, "Color palette: turbo or rdylbu")
	cmd.Flags().IntVar(&cfg.LegendSteps, "legend-steps", cfg.LegendSteps, "Number of legend colors")
	cmd.Flags().BoolVar(&open, "open", false, "Open the result in the default viewer")
	return cmd
}
