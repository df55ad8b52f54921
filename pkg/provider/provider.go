package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/egandro/temperature-heatmap/pkg/dataset"
	"github.com/egandro/temperature-heatmap/pkg/metrics"
)

// Source delivers the raw payload. Implementations do not interpret it.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (dataset.Payload, error)
}

// HTTPSource fetches the payload from a URL.
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

// NewHTTPSource creates an HTTP source with the given request timeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Name() string {
	return "http"
}

func (s *HTTPSource) Fetch(ctx context.Context) (dataset.Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return dataset.Payload{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return dataset.Payload{}, fmt.Errorf("fetch %s: %w", s.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return dataset.Payload{}, fmt.Errorf("fetch %s: status %d: %s", s.url, resp.StatusCode, body)
	}

	var p dataset.Payload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return dataset.Payload{}, &dataset.IngestionError{Field: "payload", Reason: err.Error()}
	}
	return p, nil
}

// FileSource reads the payload from a local JSON file.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return "file"
}

func (s *FileSource) Fetch(_ context.Context) (dataset.Payload, error) {
	// #nosec G304 -- path comes from the operator's configuration
	f, err := os.Open(filepath.Clean(s.path))
	if err != nil {
		return dataset.Payload{}, fmt.Errorf("open data file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var p dataset.Payload
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		return dataset.Payload{}, &dataset.IngestionError{Field: "payload", Reason: err.Error()}
	}
	return p, nil
}

// Result is the outcome of a one-shot load.
type Result struct {
	Dataset  *dataset.Dataset
	Duration time.Duration
	Err      error
}

// Loader fetches and ingests a dataset exactly once per call.
type Loader struct {
	source  Source
	clock   clockwork.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewLoader creates a loader. metrics may be nil.
func NewLoader(source Source, m *metrics.Metrics, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{source: source, clock: clockwork.NewRealClock(), metrics: m, logger: logger}
}

// WithClock swaps the time source used for durations.
func (l *Loader) WithClock(c clockwork.Clock) *Loader {
	l.clock = c
	return l
}

// Load fetches the payload and ingests it. The dataset is only returned
// once ingestion has fully succeeded.
func (l *Loader) Load(ctx context.Context) Result {
	start := l.clock.Now()
	p, err := l.source.Fetch(ctx)
	d := l.clock.Since(start)

	if l.metrics != nil {
		l.metrics.FetchDuration.WithLabelValues(l.source.Name()).Observe(d.Seconds())
	}
	if err != nil {
		l.fail()
		return Result{Duration: d, Err: err}
	}

	ds, err := dataset.Ingest(p)
	if err != nil {
		l.fail()
		return Result{Duration: d, Err: err}
	}

	if l.metrics != nil {
		l.metrics.Observations.Set(float64(ds.Len()))
	}
	l.logger.Info("Dataset loaded", "source", l.source.Name(), "observations", ds.Len(), "duration", d.Round(time.Millisecond))
	return Result{Dataset: ds, Duration: d}
}

// LoadAsync runs Load in the background. The channel delivers exactly one Result.
func (l *Loader) LoadAsync(ctx context.Context) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		ch <- l.Load(ctx)
	}()
	return ch
}

func (l *Loader) fail() {
	if l.metrics != nil {
		l.metrics.FetchErrors.WithLabelValues(l.source.Name()).Inc()
	}
}

// FromConfig picks the file source when a path is set, HTTP otherwise.
func FromConfig(dataFile, dataURL string, timeout time.Duration) Source {
	if dataFile != "" {
		return NewFileSource(dataFile)
	}
	return NewHTTPSource(dataURL, timeout)
}
