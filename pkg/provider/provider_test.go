package provider

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/egandro/temperature-heatmap/pkg/dataset"
	"github.com/egandro/temperature-heatmap/pkg/metrics"
)

const (
	sampleFile        = "testdata/global-temperature-sample.json"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

// MockSource is a mock implementation of Source using testify/mock.
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Name() string {
	return m.Called().String(0)
}

func (m *MockSource) Fetch(ctx context.Context) (dataset.Payload, error) {
	args := m.Called(ctx)
	return args.Get(0).(dataset.Payload), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleBody(t *testing.T) []byte {
	t.Helper()
	body, err := os.ReadFile(sampleFile)
	require.NoError(t, err)
	return body
}

func TestHTTPSource_Fetch(t *testing.T) {
	body := sampleBody(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, contentTypeJSON, r.Header.Get("Accept"))
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	p, err := NewHTTPSource(srv.URL, 5*time.Second).Fetch(context.Background())
	require.NoError(t, err)

	require.NotNil(t, p.BaseTemperature)
	assert.Equal(t, 8.66, *p.BaseTemperature)
	assert.Len(t, p.MonthlyVariance, 24)
	assert.Equal(t, 1, p.MonthlyVariance[0].Month, "sources hand over one-based months")
}

func TestHTTPSource_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone fishing", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, 5*time.Second).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
	assert.Contains(t, err.Error(), "gone fishing")
}

func TestHTTPSource_Malformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, 5*time.Second).Fetch(context.Background())
	assert.ErrorIs(t, err, dataset.ErrIngestion)
}

func TestHTTPSource_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPSource(srv.URL, 5*time.Second).Fetch(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFileSource(t *testing.T) {
	p, err := NewFileSource(sampleFile).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, p.MonthlyVariance, 24)

	_, err = NewFileSource("testdata/does-not-exist.json").Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open data file")
}

func TestLoader_Load(t *testing.T) {
	clock := clockwork.NewFakeClock()
	body := sampleBody(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		clock.Advance(1500 * time.Millisecond)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	m := metrics.NewMetricsForTesting()
	l := NewLoader(NewHTTPSource(srv.URL, 5*time.Second), m, testLogger()).WithClock(clock)

	res := l.Load(context.Background())
	require.NoError(t, res.Err)
	require.NotNil(t, res.Dataset)

	assert.Equal(t, 1500*time.Millisecond, res.Duration)
	assert.Equal(t, 24, res.Dataset.Len())
	assert.Equal(t, 0, res.Dataset.At(0).Month)
	assert.Equal(t, 24.0, testutil.ToFloat64(m.Observations))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FetchErrors.WithLabelValues("http")))
}

func TestLoader_IngestionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"monthlyVariance": []}`))
	}))
	defer srv.Close()

	m := metrics.NewMetricsForTesting()
	res := NewLoader(NewHTTPSource(srv.URL, 5*time.Second), m, testLogger()).Load(context.Background())

	assert.Nil(t, res.Dataset)
	assert.ErrorIs(t, res.Err, dataset.ErrIngestion)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchErrors.WithLabelValues("http")))
}

func TestLoader_LoadAsync(t *testing.T) {
	l := NewLoader(NewFileSource(sampleFile), nil, testLogger())

	select {
	case res := <-l.LoadAsync(context.Background()):
		require.NoError(t, res.Err)
		assert.Equal(t, 8.66, res.Dataset.BaseTemperature())
	case <-time.After(5 * time.Second):
		t.Fatal("load did not resolve")
	}
}

func TestFromConfig(t *testing.T) {
	assert.Equal(t, "file", FromConfig("/tmp/x.json", "https://example.com", time.Second).Name())
	assert.Equal(t, "http", FromConfig("", "https://example.com", time.Second).Name())
}

func TestLoader_SourceError(t *testing.T) {
	src := new(MockSource)
	src.On("Name").Return("mock").Maybe()
	src.On("Fetch", mock.Anything).Return(dataset.Payload{}, errors.New("connection refused")).Once()

	m := metrics.NewMetricsForTesting()
	res := NewLoader(src, m, testLogger()).Load(context.Background())

	assert.Nil(t, res.Dataset)
	assert.EqualError(t, res.Err, "connection refused")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchErrors.WithLabelValues("mock")))
	src.AssertExpectations(t)
}

func TestLoader_IngestsOnlyCompletePayloads(t *testing.T) {
	base := 8.66
	src := new(MockSource)
	src.On("Name").Return("mock").Maybe()
	src.On("Fetch", mock.Anything).Return(dataset.Payload{
		BaseTemperature: &base,
		MonthlyVariance: []dataset.Record{{Year: 1753, Month: 1, Variance: -1.366}, {Year: 1753, Month: 13, Variance: 0}},
	}, nil)

	res := NewLoader(src, nil, testLogger()).Load(context.Background())

	assert.Nil(t, res.Dataset)
	var ierr *dataset.IngestionError
	require.ErrorAs(t, res.Err, &ierr)
	src.AssertExpectations(t)
}
