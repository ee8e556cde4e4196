package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "Hover/internal/auth"
	hover "Hover/internal/calc/hover"
	chart "Hover/internal/chart"
	config "Hover/internal/config"
)

func testServer(t *testing.T) *httptest.Server {
	hash, err := auth.HashPassword("rotor-wash")
	require.NoError(t, err)
	cfg := config.Config{
		TokenKey:             "test-key",
		OperatorLogin:        "pilot",
		OperatorPasswordHash: hash,
		RateLimit:            1000,
		RateBurst:            1000,
	}
	charts, err := loadCharts(cfg)
	require.NoError(t, err)

	router := mux.NewRouter()
	HandleList(router, cfg, charts, nil)
	ts := httptest.NewServer(CORS(router))
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, token string, body any) *http.Response {
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHoverFlow(t *testing.T) {
	ts := testServer(t)
	query := hover.Input{PressureAltitudeFt: 5000, OATC: 15, ActualWeightLb: 4800}

	resp := post(t, ts.URL+"/api/user/tools/hover/calc", "", query)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = post(t, ts.URL+"/api/login", "", map[string]string{"login": "pilot", "password": "rotor-wash"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tok map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tok))
	// Served without TLS, so the cookie must not be HTTPS-only.
	require.Len(t, resp.Cookies(), 1)
	assert.False(t, resp.Cookies()[0].Secure)

	resp = post(t, ts.URL+"/api/user/tools/hover/calc", tok["token"], map[string]any{"oat_c": 10})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, ts.URL+"/api/user/tools/hover/calc", tok["token"], query)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res hover.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, 4812.5, res.IGE.MaxWeightLb)
	assert.True(t, res.IGE.CanHover)
	assert.True(t, res.OGE.CanHover)

	resp = post(t, ts.URL+"/api/user/tools/hover/report", tok["token"], map[string]any{"input": query})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestChartsIsPublic(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/charts")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Aircraft string `json:"aircraft"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "AS350 B2", out.Aircraft)
}

func TestLoadChartsFromFile(t *testing.T) {
	_, err := loadCharts(config.Config{ChartFile: t.TempDir() + "/missing.yaml"})
	assert.Error(t, err)

	set, err := loadCharts(config.Config{})
	require.NoError(t, err)
	def, err := chart.Default()
	require.NoError(t, err)
	assert.Same(t, def, set)
}

func TestCORSPreflight(t *testing.T) {
	ts := testServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/user/tools/hover/calc", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
