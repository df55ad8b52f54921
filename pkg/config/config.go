package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/egandro/temperature-heatmap/pkg/colormap"
)

const (
	// Logging defaults
	ConstantLogDir      = "/var/log"
	ConstantLogFilename = "temperature-heatmap.log"
	ConstantLogFile     = ConstantLogDir + "/" + ConstantLogFilename

	ConstantConfigFilename = "/etc/default/temperature-heatmap"

	// DefaultDataURL is the monthly global land-surface temperature series
	// (1753-2015) published with the freeCodeCamp project data.
	DefaultDataURL      = "https://raw.githubusercontent.com/freeCodeCamp/ProjectReferenceData/master/global-temperature.json"
	DefaultFetchTimeout = 15 // in seconds

	// Layout defaults. Inner plot size is the outer size minus margins.
	DefaultOuterWidth   = 1150
	DefaultOuterHeight  = 1050
	DefaultMarginTop    = 13
	DefaultMarginRight  = 60
	DefaultMarginBottom = 80
	DefaultMarginLeft   = 60

	// Legend defaults
	DefaultLegendSteps = 9
	DefaultLegendWidth = 400

	// Color calibration: the plausible absolute temperature range, not the data extremes.
	DefaultCalibrationMin = 0.0
	DefaultCalibrationMax = 11.0
	DefaultPalette        = colormap.PaletteTurbo

	// Service defaults
	DefaultServicePort         = 8246
	DefaultServiceHost         = "127.0.0.1"
	DefaultInsecureAllowRemote = false

	// logger
	DefaultLogLevel = "info"
)

type Margins struct {
	Top, Right, Bottom, Left int
}

type Config struct {
	DataURL             string
	DataFile            string
	FetchTimeout        int // in seconds
	OuterWidth          int
	OuterHeight         int
	Margins             Margins
	LegendSteps         int
	LegendWidth         int
	CalibrationMin      float64
	CalibrationMax      float64
	Palette             string
	ServiceHost         string
	ServicePort         int
	InsecureAllowRemote bool
	LogLevel            string
	LogFile             string
}

// PlotWidth is the width of the cell grid.
func (c *Config) PlotWidth() int {
	return c.OuterWidth - c.Margins.Left - c.Margins.Right
}

// PlotHeight is the height of the cell grid.
func (c *Config) PlotHeight() int {
	return c.OuterHeight - c.Margins.Top - c.Margins.Bottom
}

func (c *Config) FetchTimeoutDuration() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

func (c *Config) Validate() error {
	if c.PlotWidth() <= 0 || c.PlotHeight() <= 0 {
		return fmt.Errorf("plot area %dx%d is empty, check HM_WIDTH/HM_HEIGHT against the margins", c.PlotWidth(), c.PlotHeight())
	}
	if c.LegendSteps < 1 {
		return fmt.Errorf("legend steps must be at least 1, got %d", c.LegendSteps)
	}
	if c.LegendWidth <= 0 {
		return fmt.Errorf("legend width must be positive, got %d", c.LegendWidth)
	}
	if c.CalibrationMin >= c.CalibrationMax {
		return fmt.Errorf("calibration range [%g, %g] is empty", c.CalibrationMin, c.CalibrationMax)
	}
	if _, err := colormap.ByName(c.Palette); err != nil {
		return err
	}
	if c.DataURL == "" && c.DataFile == "" {
		return fmt.Errorf("no data source: set HM_DATA_URL or HM_DATA_FILE")
	}

	if !isLocalhostAddr(c.ServiceHost) {
		if !c.InsecureAllowRemote {
			return fmt.Errorf(`binding to non-localhost address %q exposes the service to the network.

If you understand the risks and want to proceed anyway, use:
    --insecure-allow-remote
    or set HM_INSECURE_ALLOW_REMOTE=true`, c.ServiceHost)
		}
		fmt.Fprintf(os.Stderr, "WARNING: Binding to %q - the service will be network-accessible!\n", c.ServiceHost)
	}
	return nil
}

func isLocalhostAddr(host string) bool {
	switch host {
	case "127.0.0.1", "localhost", "::1", "":
		return true
	}
	return false
}

func Load(filename string) *Config {
	if filename == "" {
		filename = ConstantConfigFilename
	}
	_ = godotenv.Load(filename)

	return &Config{
		DataURL:      getEnv("HM_DATA_URL", DefaultDataURL),
		DataFile:     getEnv("HM_DATA_FILE", ""),
		FetchTimeout: getEnvInt("HM_FETCH_TIMEOUT", DefaultFetchTimeout),
		OuterWidth:   getEnvInt("HM_WIDTH", DefaultOuterWidth),
		OuterHeight:  getEnvInt("HM_HEIGHT", DefaultOuterHeight),
		Margins: Margins{
			Top:    DefaultMarginTop,
			Right:  DefaultMarginRight,
			Bottom: DefaultMarginBottom,
			Left:   DefaultMarginLeft,
		},
		LegendSteps:         getEnvInt("HM_LEGEND_STEPS", DefaultLegendSteps),
		LegendWidth:         getEnvInt("HM_LEGEND_WIDTH", DefaultLegendWidth),
		CalibrationMin:      getEnvFloat("HM_CALIBRATION_MIN", DefaultCalibrationMin),
		CalibrationMax:      getEnvFloat("HM_CALIBRATION_MAX", DefaultCalibrationMax),
		Palette:             getEnv("HM_PALETTE", DefaultPalette),
		ServiceHost:         getEnv("HM_HOST", DefaultServiceHost),
		ServicePort:         getEnvInt("HM_PORT", DefaultServicePort),
		InsecureAllowRemote: getEnvBool("HM_INSECURE_ALLOW_REMOTE", DefaultInsecureAllowRemote),
		LogLevel:            getEnv("HM_LOG_LEVEL", DefaultLogLevel),
		LogFile:             getEnv("HM_LOG_FILE", ConstantLogFile),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
