package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// MonthsPerYear is the size of the month axis.
const MonthsPerYear = 12

// ErrIngestion is matched by every IngestionError via errors.Is.
var ErrIngestion = errors.New("ingestion failed")

// IngestionError reports a malformed or incomplete source payload.
// Nothing can be rendered when ingestion fails.
type IngestionError struct {
	Field  string
	Reason string
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("invalid payload: %s: %s", e.Field, e.Reason)
}

func (e *IngestionError) Is(target error) bool {
	return target == ErrIngestion
}

// Record is one raw sample as delivered by the data provider. Month is one-based.
type Record struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Variance float64 `json:"variance"`
}

// Payload mirrors the source JSON document.
type Payload struct {
	BaseTemperature *float64 `json:"baseTemperature"`
	MonthlyVariance []Record `json:"monthlyVariance"`
}

// Observation is a normalized sample. Month is a zero-based index in [0,11].
type Observation struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Variance float64 `json:"variance"`
}

// Temperature returns the absolute temperature for the given base.
func (o Observation) Temperature(base float64) float64 {
	return base + o.Variance
}

// Dataset is the immutable, normalized time series.
type Dataset struct {
	baseTemperature float64
	observations    []Observation
}

// Ingest validates the payload and builds a Dataset. Months are shifted to
// zero-based indices here and nowhere else; the payload itself is left untouched.
func Ingest(p Payload) (*Dataset, error) {
	if p.BaseTemperature == nil {
		return nil, &IngestionError{Field: "baseTemperature", Reason: "missing"}
	}
	if len(p.MonthlyVariance) == 0 {
		return nil, &IngestionError{Field: "monthlyVariance", Reason: "no records"}
	}

	obs := make([]Observation, len(p.MonthlyVariance))
	for i, r := range p.MonthlyVariance {
		if r.Month < 1 || r.Month > MonthsPerYear {
			return nil, &IngestionError{
				Field:  fmt.Sprintf("monthlyVariance[%d].month", i),
				Reason: fmt.Sprintf("%d is outside 1..12", r.Month),
			}
		}
		obs[i] = Observation{Year: r.Year, Month: r.Month - 1, Variance: r.Variance}
	}

	return &Dataset{baseTemperature: *p.BaseTemperature, observations: obs}, nil
}

// Decode reads a JSON payload and ingests it.
func Decode(r io.Reader) (*Dataset, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, &IngestionError{Field: "payload", Reason: err.Error()}
	}
	return Ingest(p)
}

func (d *Dataset) BaseTemperature() float64 {
	return d.baseTemperature
}

func (d *Dataset) Len() int {
	return len(d.observations)
}

// Observations returns a copy of the samples in source order.
func (d *Dataset) Observations() []Observation {
	out := make([]Observation, len(d.observations))
	copy(out, d.observations)
	return out
}

// At returns the i-th observation in source order.
func (d *Dataset) At(i int) Observation {
	return d.observations[i]
}

// Years returns the distinct years in ascending order.
func (d *Dataset) Years() []int {
	seen := make(map[int]struct{})
	var years []int
	for _, o := range d.observations {
		if _, ok := seen[o.Year]; ok {
			continue
		}
		seen[o.Year] = struct{}{}
		years = append(years, o.Year)
	}
	sort.Ints(years)
	return years
}

// Months returns the twelve zero-based month indices.
func (d *Dataset) Months() []int {
	months := make([]int, MonthsPerYear)
	for i := range months {
		months[i] = i
	}
	return months
}

// Temperatures returns base+variance for every observation, in source order.
func (d *Dataset) Temperatures() []float64 {
	out := make([]float64, len(d.observations))
	for i, o := range d.observations {
		out[i] = o.Temperature(d.baseTemperature)
	}
	return out
}

// TemperatureRange returns the observed minimum and maximum absolute temperature.
func (d *Dataset) TemperatureRange() (float64, float64) {
	temps := d.Temperatures()
	lo, hi := temps[0], temps[0]
	for _, t := range temps[1:] {
		if t < lo {
			lo = t
		}
		if t > hi {
			hi = t
		}
	}
	return lo, hi
}

// FirstYear is the year of the first record in source order.
func (d *Dataset) FirstYear() int {
	return d.observations[0].Year
}

// LastYear is the year of the last record in source order.
func (d *Dataset) LastYear() int {
	return d.observations[len(d.observations)-1].Year
}

// Summary describes a dataset for logs and the CLI.
type Summary struct {
	BaseTemperature float64 `json:"base_temperature"`
	Observations    int     `json:"observations"`
	FirstYear       int     `json:"first_year"`
	LastYear        int     `json:"last_year"`
	DistinctYears   int     `json:"distinct_years"`
	MinTemperature  float64 `json:"min_temperature"`
	MaxTemperature  float64 `json:"max_temperature"`
	MinVariance     float64 `json:"min_variance"`
	MaxVariance     float64 `json:"max_variance"`
}

// Summarize computes the dataset summary.
func (d *Dataset) Summarize() Summary {
	lo, hi := d.TemperatureRange()
	return Summary{
		BaseTemperature: d.baseTemperature,
		Observations:    len(d.observations),
		FirstYear:       d.FirstYear(),
		LastYear:        d.LastYear(),
		DistinctYears:   len(d.Years()),
		MinTemperature:  lo,
		MaxTemperature:  hi,
		MinVariance:     lo - d.baseTemperature,
		MaxVariance:     hi - d.baseTemperature,
	}
}
