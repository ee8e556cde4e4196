package report

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/phpdave11/gofpdf"

	"Hover/internal/calc/hover"
	"Hover/internal/log"
)

type Input struct {
	Project string       `json:"project"`
	Author  string       `json:"author"`
	Title   string       `json:"title"`
	Notes   string       `json:"notes"`
	Hover   *hover.Input `json:"input"`
}

type Handler struct {
	Calc   *hover.Calculator
	Logger *log.Logger
}

// Render writes a one page PDF summarising res.
func Render(out io.Writer, in Input, aircraft string, res hover.Result, date time.Time) error {
	if in.Title == "" {
		in.Title = aircraft + " - IGE/OGE Hover Calculation"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, in.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", in.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", in.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", date.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Inputs")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Pressure altitude: %.0f ft", res.Input.PressureAltitudeFt))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Outside air temperature: %g C", res.Input.OATC))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Actual weight: %.0f lbs", res.Input.ActualWeightLb))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Results")
	pdf.Ln(8)
	for _, cr := range []hover.ConditionResult{res.IGE, res.OGE} {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 6, fmt.Sprintf("%s Max Weight: %.0f lbs", cr.Condition, cr.MaxWeightLb))
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 11)
		if cr.CanHover {
			pdf.SetTextColor(0, 128, 0)
		} else {
			pdf.SetTextColor(200, 0, 0)
		}
		pdf.Cell(0, 6, cr.Verdict())
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("Margin: %+.0f lbs", cr.MarginLb))
		pdf.Ln(6)
		if cr.Clamped {
			pdf.Cell(0, 6, "Inputs outside the chart; edge values used.")
			pdf.Ln(6)
		}
		pdf.Ln(2)
	}

	pdf.Ln(4)
	pdf.MultiCell(0, 6, res.Notes, "", "L", false)
	if in.Notes != "" {
		pdf.Ln(2)
		pdf.MultiCell(0, 6, in.Notes, "", "L", false)
	}

	return pdf.Output(out)
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		http.Error(w, "Invalid request payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if input.Hover == nil {
		http.Error(w, "Invalid request payload: missing input", http.StatusBadRequest)
		return
	}
	res, err := h.Calc.Calculate(*input.Hover)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"hover-report.pdf\"")
	if err := Render(w, input, h.Calc.Aircraft, res, time.Now()); err != nil {
		h.Logger.Error("report generation failed", "error", err)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}
