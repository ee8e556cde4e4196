package batch

import (
	"encoding/json"
	"net/http"

	"Hover/internal/calc/hover"
)

type Handler struct {
	Calc *hover.Calculator
}

func (h *Handler) Hover(w http.ResponseWriter, r *http.Request) {
	var input HoverBatchInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		http.Error(w, "Invalid request payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	res, err := CalculateHover(r.Context(), h.Calc, input)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
