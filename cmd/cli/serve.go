package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/egandro/temperature-heatmap/pkg/config"
	"github.com/egandro/temperature-heatmap/pkg/metrics"
	"github.com/egandro/temperature-heatmap/pkg/service"
)

// serveMetrics registers the collectors with the default registry once per process.
var serveMetrics = sync.OnceValue(metrics.NewMetrics)

func newServeCmd() *cobra.Command {
	var src sourceOptions

	cfg := config.Load(config.ConstantConfigFilename)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive heat map in the foreground",
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
			s, err := service.New(cfg.ServiceHost, cfg.ServicePort, c, serveMetrics())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- s.Start() }()
			fmt.Fprintf(os.Stderr, "Serving on http://%s:%d/ (Ctrl-C to stop)\n", cfg.ServiceHost, cfg.ServicePort)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return s.Shutdown(shutdownCtx)
			}
		},
	}
	addSourceFlags(cmd, &src, cfg)
	cmd.Flags().StringVar(&cfg.ServiceHost, "host", cfg.ServiceHost, "HTTP service host")
	cmd.Flags().IntVar(&cfg.ServicePort, "port", cfg.ServicePort, "HTTP service port")
	cmd.Flags().BoolVar(&cfg.InsecureAllowRemote, "insecure-allow-remote", cfg.InsecureAllowRemote, "Allow binding to non-localhost addresses")
	cmd.Flags().StringVar(&cfg.Palette, "palette", cfg.Palette, "Color palette: turbo or rdylbu")
	return cmd
}
