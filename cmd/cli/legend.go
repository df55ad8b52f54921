package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/egandro/temperature-heatmap/pkg/config"
)

func newLegendCmd() *cobra.Command {
	var src sourceOptions
	var jsonOutput bool

	cfg := config.Load(config.ConstantConfigFilename)

	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Show the color legend bins of the heat map",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			if jsonOutput {
				return writeJSON(os.Stdout, c.Legend)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "BIN\tCOLOR\tFROM (℃)\tTO (℃)")
			for i, s := range c.Legend.Swatches {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\n", i, s.Color, s.Lo, s.Hi)
			}
			if c.Legend.Degenerate {
				_, _ = fmt.Fprintln(w, "\t(single color, temperature range too narrow)\t\t")
			}
			return w.Flush()
		},
	}
	addSourceFlags(cmd, &src, cfg)
	cmd.Flags().StringVar(&cfg.Palette, "palette", cfg.Palette, "Color palette: turbo or rdylbu")
	cmd.Flags().IntVar(&cfg.LegendSteps, "legend-steps", cfg.LegendSteps, "Number of legend colors")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}
