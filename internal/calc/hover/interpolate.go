package hover

import (
	"math"
	"sort"
)

func lerp(x, x0, y0, x1, y1 float64) float64 {
	if x1 == x0 {
		return y0
	}
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}

// weightAt evaluates one temperature line at pressure altitude pa. Values
// outside the sampled altitudes are clamped to the end samples.
func (c AltitudeCurve) weightAt(pa float64) float64 {
	n := len(c.pa)
	if pa <= c.pa[0] {
		return c.wt[0]
	}
	if pa >= c.pa[n-1] {
		return c.wt[n-1]
	}

	// First index with c.pa[i] >= pa; i is in [1, n-1] here.
	i := sort.SearchFloat64s(c.pa, pa)
	if c.pa[i] == pa {
		return c.wt[i]
	}

	return lerp(pa, c.pa[i-1], c.wt[i-1], c.pa[i], c.wt[i])
}

// EstimateMaxWeight returns the maximum hover weight for the given pressure
// altitude and outside air temperature. Both axes clamp to the chart edges:
// nothing is extrapolated.
func EstimateMaxWeight(table *PerformanceTable, pressureAltitude, oat float64) float64 {
	temps := table.temps
	n := len(temps)

	if oat <= temps[0] {
		return table.curves[temps[0]].weightAt(pressureAltitude)
	}
	if oat >= temps[n-1] {
		return table.curves[temps[n-1]].weightAt(pressureAltitude)
	}

	i := sort.SearchFloat64s(temps, oat)
	if temps[i] == oat {
		return table.curves[temps[i]].weightAt(pressureAltitude)
	}

	tLow, tHigh := temps[i-1], temps[i]
	wLow := table.curves[tLow].weightAt(pressureAltitude)
	wHigh := table.curves[tHigh].weightAt(pressureAltitude)

	return lerp(oat, tLow, wLow, tHigh, wHigh)
}

// bracket returns the curves EstimateMaxWeight blends at oat: one when oat
// is clamped or an exact key, two otherwise.
func (t *PerformanceTable) bracket(oat float64) []AltitudeCurve {
	temps := t.temps
	n := len(temps)
	if oat <= temps[0] {
		return []AltitudeCurve{t.curves[temps[0]]}
	}
	if oat >= temps[n-1] {
		return []AltitudeCurve{t.curves[temps[n-1]]}
	}
	i := sort.SearchFloat64s(temps, oat)
	if temps[i] == oat {
		return []AltitudeCurve{t.curves[temps[i]]}
	}
	return []AltitudeCurve{t.curves[temps[i-1]], t.curves[temps[i]]}
}

// AltitudeRange returns the pressure altitudes sampled by every curve used at
// oat. Outside it the estimate rests on clamped edge values.
func (t *PerformanceTable) AltitudeRange(oat float64) (lo, hi float64) {
	lo, hi = math.Inf(-1), math.Inf(1)
	for _, c := range t.bracket(oat) {
		lo = math.Max(lo, c.pa[0])
		hi = math.Min(hi, c.pa[len(c.pa)-1])
	}
	return lo, hi
}

// Clamped reports whether EstimateMaxWeight had to pin either input to the
// edge of the chart. It does not affect the estimate.
func Clamped(table *PerformanceTable, pressureAltitude, oat float64) bool {
	temps := table.temps
	if oat < temps[0] || oat > temps[len(temps)-1] {
		return true
	}
	lo, hi := table.AltitudeRange(oat)
	return pressureAltitude < lo || pressureAltitude > hi
}
