package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/egandro/temperature-heatmap/pkg/chart"
	"github.com/egandro/temperature-heatmap/pkg/config"
	"github.com/egandro/temperature-heatmap/pkg/dataset"
	"github.com/egandro/temperature-heatmap/pkg/logger"
	"github.com/egandro/temperature-heatmap/pkg/provider"
)

const (
	formatSVG  = "svg"
	formatHTML = "html"
)

// sourceOptions binds the data source flags shared by every command to the config.
type sourceOptions struct {
	cfg   *config.Config
	quiet bool
}

func addSourceFlags(cmd *cobra.Command, o *sourceOptions, cfg *config.Config) {
	o.cfg = cfg
	cmd.Flags().StringVar(&cfg.DataURL, "url", cfg.DataURL, "URL of the temperature JSON")
	cmd.Flags().StringVar(&cfg.DataFile, "file", cfg.DataFile, "Read the temperature JSON from a local file instead")
	cmd.Flags().IntVar(&cfg.FetchTimeout, "timeout", cfg.FetchTimeout, "Fetch timeout in seconds")
	cmd.Flags().BoolVarP(&o.quiet, "quiet", "q", false, "Disable progress spinner")
}

func (o *sourceOptions) source() provider.Source {
	return provider.FromConfig(o.cfg.DataFile, o.cfg.DataURL, o.cfg.FetchTimeoutDuration())
}

// cliLogger reports warnings to stderr without the service's log file.
func cliLogger() *slog.Logger {
	return slog.New(logger.New(os.Stderr, slog.LevelWarn))
}

func loadDataset(ctx context.Context, o *sourceOptions) (*dataset.Dataset, error) {
	src := o.source()

	var s *spinner.Spinner
	if !o.quiet {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Suffix = fmt.Sprintf(" Loading temperature data (%s)...", src.Name())
		s.Start()
	}

	res := <-provider.NewLoader(src, nil, cliLogger()).LoadAsync(ctx)

	if s != nil {
		s.Stop()
	}
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Dataset, nil
}

func buildChart(cfg *config.Config, ds *dataset.Dataset) (*chart.Chart, error) {
	opts, err := chart.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return chart.NewBuilder(nil, cliLogger()).Build(ds, opts)
}

// outputFormat picks the document type from the flag, else from the file extension.
func outputFormat(path, format string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if format == "htm" {
			format = formatHTML
		}
	}
	switch format {
	case formatSVG, formatHTML:
		return format, nil
	case "":
		return "", errors.New("cannot derive output format, use --format svg|html")
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
