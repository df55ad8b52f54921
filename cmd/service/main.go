package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/egandro/temperature-heatmap/pkg/chart"
	"github.com/egandro/temperature-heatmap/pkg/config"
	"github.com/egandro/temperature-heatmap/pkg/logger"
	"github.com/egandro/temperature-heatmap/pkg/metrics"
	"github.com/egandro/temperature-heatmap/pkg/provider"
	"github.com/egandro/temperature-heatmap/pkg/service"
)

type overrides struct {
	host                string
	port                int
	logFile             string
	logLevel            string
	dataFile            string
	insecureAllowRemote bool
}

func (o overrides) apply(cfg *config.Config) {
	if o.host != "" {
		cfg.ServiceHost = o.host
	}
	if o.port != 0 {
		cfg.ServicePort = o.port
	}
	if o.logFile != "" {
		cfg.LogFile = o.logFile
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.dataFile != "" {
		cfg.DataFile = o.dataFile
	}
	if o.insecureAllowRemote {
		cfg.InsecureAllowRemote = true
	}
}

// swapWriter lets the log file be reopened on SIGHUP while handlers keep
// their writer.
type swapWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *swapWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *swapWriter) Swap(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
}

func main() {
	var o overrides
	configFile := flag.String("config", config.ConstantConfigFilename, "Path to config file")
	flag.StringVar(&o.host, "host", "", "HTTP service host")
	flag.IntVar(&o.port, "port", 0, "HTTP service port")
	flag.StringVar(&o.logFile, "log-file", "", "Path to log file")
	flag.StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, notice, warn, error)")
	flag.StringVar(&o.dataFile, "data-file", "", "Read the temperature JSON from a local file")
	flag.BoolVar(&o.insecureAllowRemote, "insecure-allow-remote", false, "Allow binding to non-localhost addresses")
	toStdout := flag.Bool("stdout", false, "Log to stdout")

	flag.Parse()

	cfg := config.Load(*configFile)
	o.apply(cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	var logF *os.File
	output := &swapWriter{w: os.Stdout}

	if !*toStdout {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v. Logging to stdout.\n", cfg.LogFile, err)
		} else {
			logF = f
			output.Swap(f)
		}
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v, defaulting to INFO\n", err)
	}
	slog.SetDefault(slog.New(logger.New(output, level)))

	m := metrics.NewMetrics()

	src := provider.FromConfig(cfg.DataFile, cfg.DataURL, cfg.FetchTimeoutDuration())
	res := provider.NewLoader(src, m, slog.Default()).Load(context.Background())
	if res.Err != nil {
		slog.Error("Failed to load temperature data", "source", src.Name(), "error", res.Err)
		os.Exit(1)
	}

	opts, err := chart.OptionsFromConfig(cfg)
	if err != nil {
		slog.Error("Invalid chart options", "error", err)
		os.Exit(1)
	}
	c, err := chart.NewBuilder(m, slog.Default()).Build(res.Dataset, opts)
	if err != nil {
		slog.Error("Failed to build chart", "error", err)
		os.Exit(1)
	}

	s, err := service.New(cfg.ServiceHost, cfg.ServicePort, c, m)
	if err != nil {
		slog.Error("Failed to initialize service", "error", err)
		os.Exit(1)
	}
	s.AccessLog = output

	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("Service failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	for sig := range sigChan {
		switch sig {
		case syscall.SIGHUP:
			if logF != nil {
				newF, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
				if err == nil {
					output.Swap(newF)
					_ = logF.Close()
					logF = newF
					slog.Info("Log file rotated")
				} else {
					slog.Error("Failed to rotate log", "error", err)
				}
			}
		case syscall.SIGINT, syscall.SIGTERM:
			slog.Info("Shutting down service...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.Shutdown(ctx); err != nil {
				slog.Error("Shutdown error", "error", err)
			}
			return
		}
	}
}
