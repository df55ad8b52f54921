package grid

import (
	"testing"
)

func FuzzParseAttributes(f *testing.F) {
	f.Add("2000", "0", "7.5", "-0.5")
	f.Add("1753", "11", "7.294", "-1.366")
	f.Add("", "", "", "")
	f.Add("x", "-1", "NaN", "+Inf")
	f.Add("99999999999999999999", "12", "1e400", "0x1p-2")

	f.Fuzz(func(t *testing.T, year, month, temp, variance string) {
		p, err := ParseAttributes(map[string]string{
			AttrYear:        year,
			AttrMonth:       month,
			AttrTemperature: temp,
			AttrVariance:    variance,
		})
		if err != nil {
			return
		}
		if p.Month < 0 || p.Month > 11 {
			t.Fatalf("month %d accepted", p.Month)
		}
	})
}
