package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in    string
		hex   string
		alpha float64
	}{
		{"#fff", "#ffffff", 1},
		{"#1F77B4", "#1f77b4", 1},
		{"rgb(255, 0, 0)", "#ff0000", 1},
		{"rgba(0, 0, 255, 0.5)", "#0000ff", 0.5},
		{"navy", "#000080", 1},
		{"transparent", "#000000", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.hex, c.Hex())
			assert.Equal(t, tt.alpha, c.A)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "hsl(0,0%,0%)", "rgb(1,2)", "#12"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestString(t *testing.T) {
	c, err := Parse("rgba(10, 20, 30, 0.25)")
	require.NoError(t, err)
	assert.Equal(t, "rgba(10, 20, 30, 0.25)", c.String())

	c.A = 1
	assert.Equal(t, "#0a141e", c.String())
}

func TestCombine(t *testing.T) {
	assert.Equal(t, "#ff0000", Combine("#ff0000", "#ffffff"))
	assert.Equal(t, "#ffffff", Combine("transparent", "#ffffff"))
	assert.Equal(t, "#808080", Combine("rgba(0, 0, 0, 0.5)", "#ffffff"))
}

func TestContrast(t *testing.T) {
	assert.True(t, IsDark("#000"))
	assert.False(t, IsDark("#fff"))
	assert.Equal(t, Background, Contrast("#1f1f1f"))
	assert.Equal(t, DefaultLine, Contrast("#f0f0f0"))
}

func TestReadability(t *testing.T) {
	assert.InDelta(t, 21, Readability("#000", "#fff"), 0.01)
	assert.InDelta(t, 1, Readability("#abc", "#abc"), 1e-9)
	assert.Less(t, Readability("#fefefe", "#fff"), 1.5)
}

func TestAddOpacity(t *testing.T) {
	assert.Equal(t, "rgba(255, 255, 255, 0.8)", AddOpacity("#fff", 0.8))
	assert.Equal(t, "bogus", AddOpacity("bogus", 0.5))
	assert.Equal(t, 0.0, Opacity("bogus"))
}
