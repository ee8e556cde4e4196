// Package ceiling inverts the hover charts: for a weight and temperature it
// finds the highest pressure altitude at which that weight can still hover.
package ceiling

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"Hover/internal/calc/hover"
)

type Input struct {
	OATC           float64 `json:"oat_c"`
	ActualWeightLb float64 `json:"actual_weight_lb"`
}

func (in *Input) UnmarshalJSON(data []byte) error {
	var raw struct {
		OATC           *float64 `json:"oat_c"`
		ActualWeightLb *float64 `json:"actual_weight_lb"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %v", hover.ErrInvalidInput, err)
	}
	if raw.OATC == nil || raw.ActualWeightLb == nil {
		return fmt.Errorf("%w: oat_c and actual_weight_lb are required", hover.ErrInvalidInput)
	}
	*in = Input{OATC: *raw.OATC, ActualWeightLb: *raw.ActualWeightLb}
	return nil
}

type ConditionCeiling struct {
	Condition hover.Condition `json:"condition"`
	// CeilingFt is meaningful only when Hoverable is set.
	CeilingFt float64 `json:"ceiling_ft"`
	Hoverable bool    `json:"hoverable"`
	// AtChartTop is set when the weight still hovers at the highest altitude
	// charted for this temperature, so the real ceiling may be higher.
	AtChartTop bool `json:"at_chart_top"`
}

type Result struct {
	IGE   ConditionCeiling `json:"ige"`
	OGE   ConditionCeiling `json:"oge"`
	Notes string           `json:"notes"`
}

func Calculate(calc *hover.Calculator, in Input) (Result, error) {
	if math.IsNaN(in.OATC) || math.IsInf(in.OATC, 0) || math.IsNaN(in.ActualWeightLb) ||
		math.IsInf(in.ActualWeightLb, 0) || in.ActualWeightLb < 0 {
		return Result{}, fmt.Errorf("%w: weight and temperature must be finite and weight non-negative", hover.ErrInvalidInput)
	}
	return Result{
		IGE:   solve(hover.IGE, calc.IGE, in),
		OGE:   solve(hover.OGE, calc.OGE, in),
		Notes: "Highest charted pressure altitude at which the weight can hover.",
	}, nil
}

// breakpoints returns the sampled altitudes of the table within the range
// every curve used at oat covers. The estimate is linear between consecutive
// breakpoints.
func breakpoints(t *hover.PerformanceTable, oat float64) []float64 {
	lo, hi := t.AltitudeRange(oat)
	if lo > hi {
		// The bracketing curves share no altitudes.
		lo, hi = math.Inf(-1), math.Inf(1)
	}
	seen := make(map[float64]bool)
	var out []float64
	for _, temp := range t.Temperatures() {
		c, err := t.CurveAt(temp)
		if err != nil {
			continue
		}
		for _, a := range c.Altitudes() {
			if a >= lo && a <= hi && !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	sort.Float64s(out)
	return out
}

func solve(cond hover.Condition, t *hover.PerformanceTable, in Input) ConditionCeiling {
	res := ConditionCeiling{Condition: cond}
	alts := breakpoints(t, in.OATC)
	w := in.ActualWeightLb

	est := func(pa float64) float64 {
		return hover.EstimateMaxWeight(t, pa, in.OATC)
	}

	n := len(alts)
	hi := est(alts[n-1])
	if w <= hi {
		res.CeilingFt, res.Hoverable, res.AtChartTop = alts[n-1], true, true
		return res
	}
	for k := n - 1; k > 0; k-- {
		lo := est(alts[k-1])
		if w <= lo {
			// lo >= w > hi, so the span is never flat.
			res.CeilingFt = alts[k-1] + (w-lo)*(alts[k]-alts[k-1])/(hi-lo)
			res.Hoverable = true
			return res
		}
		hi = lo
	}
	return res
}
