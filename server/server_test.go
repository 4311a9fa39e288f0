// SPDX-License-Identifier: MIT

package server_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvsdp/config"
	"github.com/katalvlaran/lvsdp/sdp"
	"github.com/katalvlaran/lvsdp/sdp/sdptest"
	"github.com/katalvlaran/lvsdp/server"
	"github.com/katalvlaran/lvsdp/solver"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, maxBody int64) *gin.Engine {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	d, err := solver.New(solver.WithLogger(log))
	require.NoError(t, err)
	cfg := config.Default().Server
	if maxBody > 0 {
		cfg.MaxBodyBytes = maxBody
	}
	return server.New(d, log, cfg)
}

func problemBody(t *testing.T, p *sdp.Problem, f sdp.Format) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, sdp.EncodeProblem(&buf, f, p, nil))
	return &buf
}

func do(router http.Handler, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	t.Parallel()

	w := do(newRouter(t, 0), http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	require.NotEmpty(t, w.Header().Get(server.RequestIDHeader))
}

func TestBackends(t *testing.T) {
	t.Parallel()

	w := do(newRouter(t, 0), http.MethodGet, "/v1/backends", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var infos []solver.BackendInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &infos))
	require.Len(t, infos, 2)
	require.Equal(t, sdp.FamilyPrimal, infos[0].Family)
	require.True(t, infos[1].Capabilities.WarmStart)
}

func TestSolve(t *testing.T) {
	t.Parallel()

	router := newRouter(t, 0)
	tests := []struct {
		name        string
		target      string
		format      sdp.Format
		contentType string
		backend     string
	}{
		{"json default backend", "/v1/solve", sdp.FormatJSON, "application/json", "primal-form"},
		{"json dual", "/v1/solve?backend=dual", sdp.FormatJSON, "application/json", "dual-form"},
		{"yaml", "/v1/solve?backend=A", sdp.FormatYAML, "application/yaml", "primal-form"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := do(router, http.MethodPost, tt.target, problemBody(t, sdptest.Feasible(), tt.format), tt.contentType)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp server.SolveResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Equal(t, w.Header().Get(server.RequestIDHeader), resp.RequestID)
			require.Equal(t, int(sdp.Optimal), resp.Result.Termination)
			require.Equal(t, tt.backend, resp.Result.Backend)
			require.InDelta(t, sdptest.FeasibleValue, resp.Result.Objective[0], 1e-4)
			require.NotNil(t, resp.Result.Report)
			require.Less(t, resp.Result.Report.PrimalResidual, 1e-5)
		})
	}
}

func TestSolveInfeasibleIsStillOK(t *testing.T) {
	t.Parallel()

	w := do(newRouter(t, 0), http.MethodPost, "/v1/solve",
		problemBody(t, sdptest.Infeasible(), sdp.FormatJSON), "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	var resp server.SolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, sdp.PrimalInfeasible.String(), resp.Result.TerminationName)
}

func TestSolveRejections(t *testing.T) {
	t.Parallel()

	wide := `{"blocks":[2],"c":[{"dense":[[1,0,0],[0,1,0]]}],"constraints":[]}`
	tests := []struct {
		name    string
		target  string
		body    string
		maxBody int64
		want    int
	}{
		{"malformed json", "/v1/solve", `{"blocks":`, 0, http.StatusBadRequest},
		{"unknown field", "/v1/solve", `{"blockz":[2]}`, 0, http.StatusBadRequest},
		{"unknown backend", "/v1/solve?backend=family-Q", problemJSON(t), 0, http.StatusBadRequest},
		{"shape mismatch", "/v1/solve", wide, 0, http.StatusUnprocessableEntity},
		{"too large", "/v1/solve", problemJSON(t), 16, http.StatusRequestEntityTooLarge},
		{"block too large", "/v1/solve", `{"blocks":[50000],"c":[{}],"constraints":[]}`, 0, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := do(newRouter(t, tt.maxBody), http.MethodPost, tt.target, bytes.NewBufferString(tt.body), "application/json")
			require.Equal(t, tt.want, w.Code, w.Body.String())

			var resp server.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotEmpty(t, resp.Error)
			require.NotEmpty(t, resp.RequestID)
		})
	}
}

func problemJSON(t *testing.T) string {
	t.Helper()
	return problemBody(t, sdptest.Feasible(), sdp.FormatJSON).String()
}

func TestRequestIDIsEchoed(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(server.RequestIDHeader, "abc-123")
	newRouter(t, 0).ServeHTTP(w, req)
	require.Equal(t, "abc-123", w.Header().Get(server.RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	router := newRouter(t, 0)
	w := do(router, http.MethodPost, "/v1/solve", problemBody(t, sdptest.Feasible(), sdp.FormatJSON), "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "lvsdp_solver_solves_total")
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	require.Equal(t, http.StatusBadRequest, server.StatusFor(sdp.ErrBadFormat))
	require.Equal(t, http.StatusUnprocessableEntity, server.StatusFor(sdp.ErrAsymmetry))
	require.Equal(t, http.StatusUnprocessableEntity, server.StatusFor(sdp.ErrBadWarmStart))
	require.Equal(t, http.StatusRequestEntityTooLarge, server.StatusFor(&http.MaxBytesError{Limit: 1}))
	require.Equal(t, http.StatusRequestEntityTooLarge, server.StatusFor(fmt.Errorf("block 1: %w", server.ErrProblemTooLarge)))
	require.Equal(t, http.StatusInternalServerError, server.StatusFor(errors.New("other")))
}
