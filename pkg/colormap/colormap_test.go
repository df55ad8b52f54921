package colormap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurbo_Endpoints(t *testing.T) {
	assert.Equal(t, "#23171b", Turbo(0).Hex())
	assert.Equal(t, "#900c00", Turbo(1).Hex())
}

func TestTurbo_Clamps(t *testing.T) {
	assert.Equal(t, Turbo(0).Hex(), Turbo(-3).Hex())
	assert.Equal(t, Turbo(1).Hex(), Turbo(42).Hex())
}

func TestRdYlBu_Stops(t *testing.T) {
	assert.Equal(t, "#313695", RdYlBu(0).Hex())
	assert.Equal(t, "#ffffbf", RdYlBu(0.5).Hex())
	assert.Equal(t, "#d73027", RdYlBu(1).Hex())
	assert.Equal(t, RdYlBu(0).Hex(), RdYlBu(-1).Hex())
}

func TestInterpolatorsAreDeterministic(t *testing.T) {
	for _, name := range Names() {
		ip, err := ByName(name)
		require.NoError(t, err)
		for _, v := range []float64{0.1, 0.33, 0.5, 0.9} {
			assert.Equal(t, ip(v).Hex(), ip(v).Hex(), "%s(%v)", name, v)
		}
	}
}

func TestByName(t *testing.T) {
	_, err := ByName(PaletteTurbo)
	assert.NoError(t, err)

	_, err = ByName("jet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown palette")
}

func TestTextColor(t *testing.T) {
	assert.Equal(t, "white", TextColor(rgb(49, 54, 149)))
	assert.Equal(t, "black", TextColor(rgb(255, 255, 191)))
}
