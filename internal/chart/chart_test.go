package chart

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Hover/internal/calc/hover"
)

func TestDefault(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "AS350 B2", set.Aircraft)
	assert.Equal(t, []float64{-20, 0, 20, 35, 40, 50}, set.IGE.Temperatures())
	assert.Equal(t, []float64{-20, 0, 20, 35, 40, 50}, set.OGE.Temperatures())

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, set, again)

	// The two charts only differ on the upper part of the warm lines.
	assert.Equal(t, 4100.0, hover.EstimateMaxWeight(set.IGE, 20000, -20))
	assert.Equal(t, 4150.0, hover.EstimateMaxWeight(set.OGE, 20000, -20))
	assert.Equal(t, 3700.0, hover.EstimateMaxWeight(set.IGE, 16000, 20))
	assert.Equal(t, 3750.0, hover.EstimateMaxWeight(set.OGE, 16000, 20))
}

func TestDefaultCalculator(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)

	res, err := set.Calculator().Calculate(hover.Input{PressureAltitudeFt: 5000, OATC: 15, ActualWeightLb: 4800})
	require.NoError(t, err)

	// 0C line: 5000, 20C line: 4750 at 5000 ft; 15C is three quarters of the way.
	assert.Equal(t, 4812.5, res.IGE.MaxWeightLb)
	assert.Equal(t, 4812.5, res.OGE.MaxWeightLb)
	assert.True(t, res.IGE.CanHover)
	assert.True(t, res.OGE.CanHover)
}

func TestParse(t *testing.T) {
	set, err := Parse([]byte(`
aircraft: Test
ige:
  "20":
    pa: [0, 10000]
    wt: [4500, 3500]
  "0":
    pa: [0, 10000]
    wt: [5000, 4000]
oge:
  "-5.5":
    pa: [0]
    wt: [4000]
`))
	require.NoError(t, err)
	assert.Equal(t, "Test", set.Aircraft)
	assert.Equal(t, []float64{0, 20}, set.IGE.Temperatures())
	assert.Equal(t, []float64{-5.5}, set.OGE.Temperatures())
	assert.Equal(t, 4250.0, hover.EstimateMaxWeight(set.IGE, 5000, 10))
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"duplicate numeric key": `
ige:
  "20": {pa: [0], wt: [1]}
  "20.0": {pa: [0], wt: [2]}
oge:
  "0": {pa: [0], wt: [1]}
`,
		"non numeric key": `
ige:
  "warm": {pa: [0], wt: [1]}
oge:
  "0": {pa: [0], wt: [1]}
`,
		"missing oge": `
ige:
  "0": {pa: [0], wt: [1]}
`,
		"empty curve": `
ige:
  "0": {pa: [], wt: []}
oge:
  "0": {pa: [0], wt: [1]}
`,
		"altitudes not increasing": `
ige:
  "0": {pa: [0, 2000, 2000], wt: [3, 2, 1]}
oge:
  "0": {pa: [0], wt: [1]}
`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			var ite *hover.InvalidTableError
			assert.True(t, errors.As(err, &ite), "got %v", err)
		})
	}

	_, err := Parse([]byte("ige: [1, 2"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.yaml")
	require.NoError(t, os.WriteFile(path, defaultChart, 0600))

	set, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "AS350 B2", set.Aircraft)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
