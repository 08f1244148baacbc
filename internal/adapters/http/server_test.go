package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/internal/loader"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/session"
)

// parensDoc is the inline document form of a balanced-parentheses
// recognizer, as a client would post it.
func parensDoc() map[string]any {
	return map[string]any{
		"name":           "parens",
		"states":         []any{"q0", "qf"},
		"input_alphabet": []any{"(", ")"},
		"stack_alphabet": []any{"Z", "P"},
		"initial_state":  "q0",
		"initial_stack":  "Z",
		"final_states":   []any{"qf"},
		"transitions": []any{
			map[string]any{"from": "q0", "to": "q0", "read": "(", "pop": "Z", "push": []any{"Z", "P"}},
			map[string]any{"from": "q0", "to": "q0", "read": "(", "pop": "P", "push": []any{"P", "P"}},
			map[string]any{"from": "q0", "to": "q0", "read": ")", "pop": "P"},
			map[string]any{"from": "q0", "to": "qf", "read": "ε", "pop": "Z", "push": []any{"Z"}},
		},
	}
}

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	def, err := loader.FromMap(parensDoc(), "test")
	require.NoError(t, err)

	lib := memory.NewLibrary()
	require.NoError(t, lib.Register(def))

	srv := &Server{
		Library:  lib,
		Sessions: session.NewManager(memory.NewStore()),
		Runs:     memory.NewRunStore(),
	}
	return srv, NewHandler(srv)
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return doRequest(t, h, http.MethodPost, path, body)
}

type runResponseWire struct {
	Definition string `json:"definition"`
	Input      string `json:"input"`
	Mode       string `json:"mode"`
	Result     struct {
		Verdict  string `json:"verdict"`
		Reason   string `json:"reason"`
		Expanded int    `json:"expanded"`
		Trace    []any  `json:"trace"`
	} `json:"result"`
}

func TestHandleRun_InlineDefinition(t *testing.T) {
	_, h := newTestServer(t)

	rr := postJSON(t, h, "/v1/run", map[string]any{
		"definition": parensDoc(),
		"input":      "(())",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp runResponseWire
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "parens", resp.Definition)
	assert.Equal(t, "(())", resp.Input)
	assert.Equal(t, "final_state", resp.Mode)
	assert.Equal(t, "accepted", resp.Result.Verdict)
	assert.NotEmpty(t, resp.Result.Trace)
}

func TestHandleRun_LibraryDefinition(t *testing.T) {
	_, h := newTestServer(t)

	rr := postJSON(t, h, "/v1/run", map[string]any{
		"library": "parens",
		"input":   "(()",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp runResponseWire
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "rejected", resp.Result.Verdict)
	assert.NotEmpty(t, resp.Result.Reason)
}

func TestHandleRun_UnknownLibrary(t *testing.T) {
	_, h := newTestServer(t)

	rr := postJSON(t, h, "/v1/run", map[string]any{
		"library": "does-not-exist",
		"input":   "()",
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleRun_DefinitionAndLibraryExclusive(t *testing.T) {
	_, h := newTestServer(t)

	rr := postJSON(t, h, "/v1/run", map[string]any{
		"definition": parensDoc(),
		"library":    "parens",
		"input":      "()",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleRun_RequiresDefinitionOrLibrary(t *testing.T) {
	_, h := newTestServer(t)

	rr := postJSON(t, h, "/v1/run", map[string]any{"input": "()"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleRun_StepLimitSettlesInconclusive(t *testing.T) {
	_, h := newTestServer(t)

	rr := postJSON(t, h, "/v1/run", map[string]any{
		"library":   "parens",
		"input":     "(())",
		"max_steps": 1,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp runResponseWire
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "inconclusive", resp.Result.Verdict)
	assert.Equal(t, domain.ReasonStepLimit, resp.Result.Reason)
}

func TestHandleRun_OversizedInput(t *testing.T) {
	_, h := newTestServer(t)

	rr := postJSON(t, h, "/v1/run", map[string]any{
		"library": "parens",
		"input":   strings.Repeat("(", 5000),
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleRun_RecordsHistory(t *testing.T) {
	srv, h := newTestServer(t)

	rr := postJSON(t, h, "/v1/run", map[string]any{
		"library": "parens",
		"input":   "()",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	recs, err := srv.Runs.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "parens", recs[0].Definition)
	assert.Equal(t, "library:parens", recs[0].Source)
	assert.Equal(t, domain.VerdictAccepted, recs[0].Verdict)
	assert.NotEmpty(t, recs[0].ID)
}

func TestHandleValidate_Valid(t *testing.T) {
	_, h := newTestServer(t)

	rr := postJSON(t, h, "/v1/validate", map[string]any{"library": "parens"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Valid    bool     `json:"valid"`
		Errors   []string `json:"errors"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Errors)
	assert.Empty(t, resp.Warnings)
}

func TestHandleValidate_BrokenDefinition(t *testing.T) {
	_, h := newTestServer(t)

	doc := parensDoc()
	doc["initial_state"] = "ghost"

	rr := postJSON(t, h, "/v1/validate", map[string]any{"definition": doc})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, strings.Join(resp.Errors, "\n"), "ghost")
}

func TestHandleValidate_WarnsOnUnreachableState(t *testing.T) {
	_, h := newTestServer(t)

	doc := parensDoc()
	doc["states"] = []any{"q0", "qf", "orphan"}

	rr := postJSON(t, h, "/v1/validate", map[string]any{"definition": doc})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Valid    bool     `json:"valid"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	require.NotEmpty(t, resp.Warnings)
	assert.Contains(t, strings.Join(resp.Warnings, "\n"), "orphan")
}

func TestHandleDiagram_Mermaid(t *testing.T) {
	_, h := newTestServer(t)

	rr := postJSON(t, h, "/v1/diagram", map[string]any{"library": "parens"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Definition string `json:"definition"`
		Format     string `json:"format"`
		Diagram    string `json:"diagram"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "parens", resp.Definition)
	assert.Equal(t, "mermaid", resp.Format)
	assert.Contains(t, resp.Diagram, "stateDiagram-v2")
	assert.Contains(t, resp.Diagram, "[*] --> q0")
}

func TestHandleDiagram_Unicode(t *testing.T) {
	_, h := newTestServer(t)

	rr := postJSON(t, h, "/v1/diagram", map[string]any{
		"library": "parens",
		"format":  "unicode",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Format  string `json:"format"`
		Diagram string `json:"diagram"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "unicode", resp.Format)
	assert.Contains(t, resp.Diagram, "q0")
}

func TestHandleDiagram_UnknownFormat(t *testing.T) {
	_, h := newTestServer(t)

	rr := postJSON(t, h, "/v1/diagram", map[string]any{
		"library": "parens",
		"format":  "dot",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHealthz(t *testing.T) {
	_, h := newTestServer(t)

	rr := doRequest(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestMetricsExposition(t *testing.T) {
	_, h := newTestServer(t)

	rr := postJSON(t, h, "/v1/run", map[string]any{"library": "parens", "input": "()"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, "espalier_runs_total")
	assert.Contains(t, body, `verdict="accepted"`)
	assert.Contains(t, body, "espalier_expanded_configurations_total")
}

func TestCORSPreflight(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/run", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
