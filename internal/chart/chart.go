// Package chart loads hover performance charts. A chart file is YAML with
// one mapping per flight condition, keyed by outside air temperature:
//
//	aircraft: AS350 B2
//	ige:
//	  "-20":
//	    pa: [0, 2000, 4000]
//	    wt: [5250, 5200, 5100]
//	oge:
//	  ...
//
// Tables built here are never modified afterwards.
package chart

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"Hover/internal/calc/hover"
)

//go:embed as350b2.yaml
var defaultChart []byte

type line struct {
	PA []float64 `yaml:"pa"`
	WT []float64 `yaml:"wt"`
}

type file struct {
	Aircraft string          `yaml:"aircraft"`
	IGE      map[string]line `yaml:"ige"`
	OGE      map[string]line `yaml:"oge"`
}

// Set is the pair of tables for one aircraft.
type Set struct {
	Aircraft string
	IGE      *hover.PerformanceTable
	OGE      *hover.PerformanceTable
}

func (s *Set) Calculator() *hover.Calculator {
	return &hover.Calculator{Aircraft: s.Aircraft, IGE: s.IGE, OGE: s.OGE}
}

func Parse(b []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("chart: %w", err)
	}
	if f.Aircraft == "" {
		f.Aircraft = "unknown aircraft"
	}

	ige, err := buildTable(f.IGE)
	if err != nil {
		return nil, fmt.Errorf("chart %s IGE: %w", f.Aircraft, err)
	}
	oge, err := buildTable(f.OGE)
	if err != nil {
		return nil, fmt.Errorf("chart %s OGE: %w", f.Aircraft, err)
	}

	return &Set{Aircraft: f.Aircraft, IGE: ige, OGE: oge}, nil
}

func buildTable(lines map[string]line) (*hover.PerformanceTable, error) {
	curves := make(map[float64]hover.AltitudeCurve, len(lines))
	keys := make(map[float64]string, len(lines))

	for key, l := range lines {
		temp, err := cast.ToFloat64E(key)
		if err != nil {
			return nil, &hover.InvalidTableError{Reason: fmt.Sprintf("temperature key %q is not a number", key)}
		}
		if prev, ok := keys[temp]; ok {
			return nil, &hover.InvalidTableError{
				Reason: fmt.Sprintf("temperature keys %q and %q are both %g", prev, key, temp),
			}
		}
		keys[temp] = key

		c, err := hover.NewAltitudeCurve(l.PA, l.WT)
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", key, err)
		}
		curves[temp] = c
	}

	return hover.NewPerformanceTable(curves)
}

func Load(path string) (*Set, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

var loadDefault = sync.OnceValues(func() (*Set, error) {
	return Parse(defaultChart)
})

// Default returns the built-in AS350 B2 chart. It is parsed once per process.
func Default() (*Set, error) {
	return loadDefault()
}
