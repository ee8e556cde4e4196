package importer

import (
	"encoding/json"
	"math"
	"net/http"
	"strings"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"

	"Hover/internal/calc/batch"
	"Hover/internal/calc/hover"
)

const maxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Calc *hover.Calculator
}

type HoverImportResult struct {
	Count   int            `json:"count"`
	Skipped int            `json:"skipped"`
	Results []hover.Result `json:"results"`
}

// Hover reads the first sheet of an uploaded workbook and evaluates one query
// per row. See ParseRows for the column layout.
func (h *Handler) Hover(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil || len(rows) < 2 {
		http.Error(w, "Empty sheet", http.StatusBadRequest)
		return
	}

	items, skipped := ParseRows(rows[1:])
	out := HoverImportResult{Skipped: skipped, Results: []hover.Result{}}
	if len(items) > 0 {
		res, err := batch.CalculateHover(r.Context(), h.Calc, batch.HoverBatchInput{Items: items})
		if err != nil {
			http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
			return
		}
		out.Results = res.Results
	}
	out.Count = len(out.Results)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// ParseRows converts data rows (header already removed) into queries.
// Expected columns: pressure_altitude_ft, oat_c, actual_weight_lb. Blank or
// unparsable rows are skipped and counted.
func ParseRows(rows [][]string) (items []hover.Input, skipped int) {
	for _, row := range rows {
		in, ok := parseHoverRow(row)
		if !ok {
			skipped++
			continue
		}
		items = append(items, in)
	}
	return items, skipped
}

func parseHoverRow(row []string) (hover.Input, bool) {
	if len(row) < 3 {
		return hover.Input{}, false
	}
	var vals [3]float64
	for i := range vals {
		v, err := cast.ToFloat64E(strings.TrimSpace(row[i]))
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return hover.Input{}, false
		}
		vals[i] = v
	}
	return hover.Input{
		PressureAltitudeFt: vals[0],
		OATC:               vals[1],
		ActualWeightLb:     vals[2],
	}, true
}
