package hover

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var ErrInvalidInput = errors.New("invalid input")

type Input struct {
	PressureAltitudeFt float64 `json:"pressure_altitude_ft"`
	OATC               float64 `json:"oat_c"`
	ActualWeightLb     float64 `json:"actual_weight_lb"`
}

// UnmarshalJSON requires all three fields and rejects unknown ones, so a
// misspelled key cannot silently become a zero.
func (in *Input) UnmarshalJSON(data []byte) error {
	var raw struct {
		PressureAltitudeFt *float64 `json:"pressure_altitude_ft"`
		OATC               *float64 `json:"oat_c"`
		ActualWeightLb     *float64 `json:"actual_weight_lb"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var missing []string
	if raw.PressureAltitudeFt == nil {
		missing = append(missing, "pressure_altitude_ft")
	}
	if raw.OATC == nil {
		missing = append(missing, "oat_c")
	}
	if raw.ActualWeightLb == nil {
		missing = append(missing, "actual_weight_lb")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", ErrInvalidInput, missing)
	}

	*in = Input{
		PressureAltitudeFt: *raw.PressureAltitudeFt,
		OATC:               *raw.OATC,
		ActualWeightLb:     *raw.ActualWeightLb,
	}
	return nil
}

type ConditionResult struct {
	Condition   Condition `json:"condition"`
	MaxWeightLb float64   `json:"max_weight_lb"`
	// MarginLb is negative by the weight that has to come off to hover.
	MarginLb float64 `json:"margin_lb"`
	CanHover bool    `json:"can_hover"`
	Clamped  bool    `json:"clamped"`
}

type Result struct {
	Input Input           `json:"input"`
	IGE   ConditionResult `json:"ige"`
	OGE   ConditionResult `json:"oge"`
	Notes string          `json:"notes"`
}

// Calculator pairs the IGE and OGE tables of one aircraft.
type Calculator struct {
	Aircraft string
	IGE      *PerformanceTable
	OGE      *PerformanceTable
}

func (c *Calculator) Calculate(in Input) (Result, error) {
	for _, v := range []float64{in.PressureAltitudeFt, in.OATC, in.ActualWeightLb} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, fmt.Errorf("%w: non-finite value", ErrInvalidInput)
		}
	}
	if in.ActualWeightLb < 0 {
		return Result{}, fmt.Errorf("%w: negative weight", ErrInvalidInput)
	}

	res := Result{
		Input: in,
		IGE:   evaluate(IGE, c.IGE, in),
		OGE:   evaluate(OGE, c.OGE, in),
		Notes: "Linear interpolation of the " + c.Aircraft + " hover charts, clamped at the chart edges.",
	}

	return res, nil
}

func evaluate(cond Condition, table *PerformanceTable, in Input) ConditionResult {
	est := EstimateMaxWeight(table, in.PressureAltitudeFt, in.OATC)

	return ConditionResult{
		Condition:   cond,
		MaxWeightLb: est,
		MarginLb:    est - in.ActualWeightLb,
		CanHover:    in.ActualWeightLb <= est,
		Clamped:     Clamped(table, in.PressureAltitudeFt, in.OATC),
	}
}

// Verdict is the operator-facing wording for one condition.
func (r ConditionResult) Verdict() string {
	if r.CanHover {
		return fmt.Sprintf("You CAN hover %s.", r.Condition)
	}
	return fmt.Sprintf("You CANNOT hover %s.", r.Condition)
}
