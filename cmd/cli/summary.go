package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/egandro/temperature-heatmap/pkg/chart"
	"github.com/egandro/temperature-heatmap/pkg/config"
)

func newSummaryCmd() *cobra.Command {
	var src sourceOptions
	var jsonOutput bool

	cfg := config.Load(config.ConstantConfigFilename)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize the temperature dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context(), &src)
			if err != nil {
				return err
			}

			s := ds.Summarize()
			if jsonOutput {
				return writeJSON(os.Stdout, s)
			}

			fmt.Println(chart.Description(ds))
			fmt.Printf("Observations: %d (%d years)\n", s.Observations, s.DistinctYears)
			fmt.Printf("Temperature:  %.2f℃ .. %.2f℃\n", s.MinTemperature, s.MaxTemperature)
			fmt.Printf("Variance:     %+.2f℃ .. %+.2f℃\n", s.MinVariance, s.MaxVariance)
			return nil
		},
	}
	addSourceFlags(cmd, &src, cfg)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}
