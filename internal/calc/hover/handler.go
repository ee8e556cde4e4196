package hover

import (
	"encoding/json"
	"errors"
	"net/http"

	"Hover/internal/log"
)

type Handler struct {
	Calc   *Calculator
	Logger *log.Logger
}

func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var input Input
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		http.Error(w, "Invalid request payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	res, err := h.Calc.Calculate(input)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.Logger.Error("hover calculation failed", "error", err)
		http.Error(w, "Calculation error", http.StatusInternalServerError)
		return
	}
	h.Logger.Debug("hover calculation",
		"pressure_altitude_ft", input.PressureAltitudeFt,
		"oat_c", input.OATC,
		"ige_max_lb", res.IGE.MaxWeightLb,
		"oge_max_lb", res.OGE.MaxWeightLb)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

type chartLine struct {
	TemperatureC float64   `json:"temperature_c"`
	AltitudesFt  []float64 `json:"pressure_altitude_ft"`
	WeightsLb    []float64 `json:"max_weight_lb"`
}

type chartSummary struct {
	Condition Condition   `json:"condition"`
	Bounds    Bounds      `json:"bounds"`
	Lines     []chartLine `json:"lines"`
}

func summarize(cond Condition, t *PerformanceTable) chartSummary {
	s := chartSummary{Condition: cond, Bounds: t.Bounds()}
	for _, temp := range t.Temperatures() {
		c, err := t.CurveAt(temp)
		if err != nil {
			continue
		}
		s.Lines = append(s.Lines, chartLine{
			TemperatureC: temp,
			AltitudesFt:  c.Altitudes(),
			WeightsLb:    c.Weights(),
		})
	}
	return s
}

// Charts lists the loaded chart data so a client can draw it.
func (h *Handler) Charts(w http.ResponseWriter, r *http.Request) {
	out := struct {
		Aircraft string         `json:"aircraft"`
		Charts   []chartSummary `json:"charts"`
	}{
		Aircraft: h.Calc.Aircraft,
		Charts: []chartSummary{
			summarize(IGE, h.Calc.IGE),
			summarize(OGE, h.Calc.OGE),
		},
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
