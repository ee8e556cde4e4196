package hover

import (
	"fmt"
	"math"
	"sort"
)

type Condition string

const (
	IGE Condition = "IGE"
	OGE Condition = "OGE"
)

func (c Condition) String() string {
	return string(c)
}

// InvalidTableError is returned when chart data cannot form a usable table.
type InvalidTableError struct {
	Reason string
}

func (e *InvalidTableError) Error() string {
	return "invalid performance table: " + e.Reason
}

type NotFoundError struct {
	Temperature float64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no curve for temperature %g", e.Temperature)
}

// AltitudeCurve is max hover weight against pressure altitude at one temperature.
// Altitudes are strictly increasing.
type AltitudeCurve struct {
	pa []float64
	wt []float64
}

func NewAltitudeCurve(pa, wt []float64) (AltitudeCurve, error) {
	if len(pa) == 0 {
		return AltitudeCurve{}, &InvalidTableError{Reason: "curve has no samples"}
	}
	if len(pa) != len(wt) {
		return AltitudeCurve{}, &InvalidTableError{
			Reason: fmt.Sprintf("curve has %d altitudes but %d weights", len(pa), len(wt)),
		}
	}
	for i := 1; i < len(pa); i++ {
		if !(pa[i] > pa[i-1]) {
			return AltitudeCurve{}, &InvalidTableError{
				Reason: fmt.Sprintf("altitude %g at index %d does not increase over %g", pa[i], i, pa[i-1]),
			}
		}
	}
	if math.IsNaN(pa[0]) {
		return AltitudeCurve{}, &InvalidTableError{Reason: "altitude is NaN"}
	}

	return AltitudeCurve{
		pa: append([]float64(nil), pa...),
		wt: append([]float64(nil), wt...),
	}, nil
}

func (c AltitudeCurve) Len() int {
	return len(c.pa)
}

func (c AltitudeCurve) Sample(i int) (pressureAltitude, maxWeight float64) {
	return c.pa[i], c.wt[i]
}

func (c AltitudeCurve) Altitudes() []float64 {
	return append([]float64(nil), c.pa...)
}

func (c AltitudeCurve) Weights() []float64 {
	return append([]float64(nil), c.wt...)
}

// PerformanceTable holds the temperature lines of one chart. It is never
// mutated after construction, so it can be shared between goroutines.
type PerformanceTable struct {
	temps  []float64
	curves map[float64]AltitudeCurve
}

type Bounds struct {
	MinTemperature float64 `json:"min_temperature_c"`
	MaxTemperature float64 `json:"max_temperature_c"`
	MinAltitude    float64 `json:"min_pressure_altitude_ft"`
	MaxAltitude    float64 `json:"max_pressure_altitude_ft"`
}

func NewPerformanceTable(curves map[float64]AltitudeCurve) (*PerformanceTable, error) {
	if len(curves) == 0 {
		return nil, &InvalidTableError{Reason: "no temperature lines"}
	}

	t := &PerformanceTable{
		temps:  make([]float64, 0, len(curves)),
		curves: make(map[float64]AltitudeCurve, len(curves)),
	}
	for temp, c := range curves {
		if math.IsNaN(temp) {
			return nil, &InvalidTableError{Reason: "temperature key is NaN"}
		}
		if c.Len() == 0 {
			return nil, &InvalidTableError{Reason: fmt.Sprintf("curve at %g has no samples", temp)}
		}
		t.temps = append(t.temps, temp)
		t.curves[temp] = c
	}
	sort.Float64s(t.temps)

	return t, nil
}

// Temperatures returns the temperature keys in ascending order.
func (t *PerformanceTable) Temperatures() []float64 {
	return append([]float64(nil), t.temps...)
}

func (t *PerformanceTable) CurveAt(temperature float64) (AltitudeCurve, error) {
	c, ok := t.curves[temperature]
	if !ok {
		return AltitudeCurve{}, &NotFoundError{Temperature: temperature}
	}

	return c, nil
}

func (t *PerformanceTable) Bounds() Bounds {
	b := Bounds{
		MinTemperature: t.temps[0],
		MaxTemperature: t.temps[len(t.temps)-1],
		MinAltitude:    math.Inf(1),
		MaxAltitude:    math.Inf(-1),
	}
	for _, c := range t.curves {
		b.MinAltitude = math.Min(b.MinAltitude, c.pa[0])
		b.MaxAltitude = math.Max(b.MaxAltitude, c.pa[len(c.pa)-1])
	}

	return b
}
