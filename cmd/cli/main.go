package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "temperature-heatmap-cli",
		Short:        "Render the monthly global land-surface temperature heat map",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newLegendCmd())
	rootCmd.AddCommand(newSummaryCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
