package report

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Hover/internal/calc/hover"
	"Hover/internal/chart"
)

func handler(t *testing.T) *Handler {
	set, err := chart.Default()
	require.NoError(t, err)
	return &Handler{Calc: set.Calculator()}
}

func TestRender(t *testing.T) {
	h := handler(t)
	in := Input{Project: "Ridge survey", Author: "ops", Hover: &hover.Input{PressureAltitudeFt: 16000, OATC: 45, ActualWeightLb: 4000}}
	res, err := h.Calc.Calculate(*in.Hover)
	require.NoError(t, err)
	require.True(t, res.IGE.Clamped)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, in, h.Calc.Aircraft, res, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestGenerate(t *testing.T) {
	h := handler(t)

	body, _ := json.Marshal(Input{Title: "Hover check", Hover: &hover.Input{PressureAltitudeFt: 5000, OATC: 15, ActualWeightLb: 4800}})
	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"input":{"actual_weight_lb":-1}}`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, body := range []string{
		`{}`,
		`{"title": "Hover check"}`,
		`{"input": {}}`,
		`{"input": {"pressure_altitude_ft": 5000, "oat_c": 15}}`,
		`{"input": {"pressure_altitude": 5000, "oat_c": 15, "actual_weight_lb": 4800}}`,
		`{"inputs": {"pressure_altitude_ft": 5000, "oat_c": 15, "actual_weight_lb": 4800}}`,
	} {
		rec = httptest.NewRecorder()
		h.Generate(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(body))))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}
