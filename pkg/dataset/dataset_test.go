package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func base(v float64) *float64 {
	return &v
}

func fullYears(years ...int) []Record {
	var records []Record
	for _, y := range years {
		for m := 1; m <= 12; m++ {
			records = append(records, Record{Year: y, Month: m, Variance: float64(m) / 10})
		}
	}
	return records
}

func TestIngest_NormalizesMonths(t *testing.T) {
	p := Payload{BaseTemperature: base(8.0), MonthlyVariance: fullYears(2000, 2001)}

	ds, err := Ingest(p)
	require.NoError(t, err)

	assert.Equal(t, 24, ds.Len())
	for _, o := range ds.Observations() {
		assert.GreaterOrEqual(t, o.Month, 0)
		assert.LessOrEqual(t, o.Month, 11)
	}
	assert.Equal(t, 0, ds.At(0).Month)
	assert.Equal(t, 11, ds.At(11).Month)
}

func TestIngest_DoesNotMutatePayload(t *testing.T) {
	p := Payload{BaseTemperature: base(8.0), MonthlyVariance: fullYears(2000)}

	first, err := Ingest(p)
	require.NoError(t, err)
	second, err := Ingest(p)
	require.NoError(t, err)

	assert.Equal(t, 1, p.MonthlyVariance[0].Month, "payload must keep one-based months")
	assert.Equal(t, first.Observations(), second.Observations())
}

func TestIngest_ObservationsAreCopies(t *testing.T) {
	ds, err := Ingest(Payload{BaseTemperature: base(8.0), MonthlyVariance: fullYears(2000)})
	require.NoError(t, err)

	obs := ds.Observations()
	obs[0].Month = 7

	assert.Equal(t, 0, ds.At(0).Month)
}

func TestIngest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		field   string
	}{
		{"missing base", Payload{MonthlyVariance: fullYears(2000)}, "baseTemperature"},
		{"no records", Payload{BaseTemperature: base(8.0)}, "monthlyVariance"},
		{"month zero", Payload{BaseTemperature: base(8.0), MonthlyVariance: []Record{{Year: 2000, Month: 0}}}, "monthlyVariance[0].month"},
		{"month thirteen", Payload{BaseTemperature: base(8.0), MonthlyVariance: []Record{{Year: 2000, Month: 1}, {Year: 2000, Month: 13}}}, "monthlyVariance[1].month"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Ingest(tt.payload)
			assert.Nil(t, ds)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrIngestion))

			var ie *IngestionError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.field, ie.Field)
		})
	}
}

func TestDecode(t *testing.T) {
	body := `{"baseTemperature": 8.66, "monthlyVariance": [
		{"year": 1753, "month": 1, "variance": -1.366},
		{"year": 1753, "month": 2, "variance": -2.223},
		{"year": 2015, "month": 9, "variance": 0.9}
	]}`

	ds, err := Decode(strings.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, 8.66, ds.BaseTemperature())
	assert.Equal(t, 1753, ds.FirstYear())
	assert.Equal(t, 2015, ds.LastYear())
	assert.Equal(t, []int{1753, 2015}, ds.Years())
	assert.Equal(t, 8, ds.At(2).Month)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"baseTemperature": "hot"`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIngestion)
}

func TestYearsAscendingAndDistinct(t *testing.T) {
	records := []Record{
		{Year: 2002, Month: 1}, {Year: 2000, Month: 1}, {Year: 2002, Month: 2}, {Year: 2001, Month: 1},
	}
	ds, err := Ingest(Payload{BaseTemperature: base(0), MonthlyVariance: records})
	require.NoError(t, err)

	assert.Equal(t, []int{2000, 2001, 2002}, ds.Years())
	assert.Len(t, ds.Months(), 12)
}

func TestTemperatureRangeAndSummary(t *testing.T) {
	records := []Record{
		{Year: 2000, Month: 1, Variance: -0.5},
		{Year: 2000, Month: 2, Variance: 1.25},
		{Year: 2001, Month: 1, Variance: 0},
	}
	ds, err := Ingest(Payload{BaseTemperature: base(8.0), MonthlyVariance: records})
	require.NoError(t, err)

	lo, hi := ds.TemperatureRange()
	assert.Equal(t, 7.5, lo)
	assert.Equal(t, 9.25, hi)

	s := ds.Summarize()
	assert.Equal(t, 3, s.Observations)
	assert.Equal(t, 2, s.DistinctYears)
	assert.InDelta(t, -0.5, s.MinVariance, 1e-9)
	assert.InDelta(t, 1.25, s.MaxVariance, 1e-9)
}
