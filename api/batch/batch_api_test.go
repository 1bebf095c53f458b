package batch

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"multiplot.GO/api"
	"multiplot.GO/core/logging"
	"multiplot.GO/generator"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	reg := generator.NewRegistry(nil)
	m := reg.Module("Gas", "")
	m.MustRegister("SO2", generator.Generator{Func: func(ctx context.Context, q generator.Query) (any, error) {
		return map[string]string{"volcano": q.Volcano}, nil
	}})
	m.MustRegister("CO2", generator.Generator{Func: func(context.Context, generator.Query) (any, error) {
		return nil, generator.ErrNoData
	}})
	m.MustRegister("H2S", generator.Generator{Func: func(context.Context, generator.Query) (any, error) {
		return nil, errors.New("timeout")
	}})
	reg.Freeze()

	e := echo.New()
	RegisterBatchRoutes(e.Group("/api"), &api.Deps{Plots: reg})
	return e
}

func post(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/plots/batch", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBatch(t *testing.T) {
	rec := post(newServer(t), `{"requests":[
		{"plotType":"Gas|SO2","volcano":"Okmok"},
		{"plotType":"Gas|CO2"},
		{"plotType":"Gas|H2S"},
		{"plotType":"Gas|SO2","dateFrom":"someday"},
		{"plotType":"Seismic|Nothing"}
	]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var body struct {
		Results []PlotResult `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	want := []int{http.StatusOK, http.StatusNotFound, http.StatusInternalServerError, http.StatusBadRequest, http.StatusNotFound}
	if len(body.Results) != len(want) {
		t.Fatalf("got %d results", len(body.Results))
	}
	for i, status := range want {
		if body.Results[i].Status != status {
			t.Errorf("result %d (%s): status = %d, want %d", i, body.Results[i].PlotType, body.Results[i].Status, status)
		}
	}
	if data, _ := body.Results[0].Data.(map[string]interface{}); data["volcano"] != "Okmok" {
		t.Errorf("data = %v", body.Results[0].Data)
	}
	if rec.Header().Get("X-Request-Duration-ms") == "" {
		t.Error("missing duration header")
	}
}

func TestBatch_Validation(t *testing.T) {
	e := newServer(t)
	if rec := post(e, `{"requests":[]}`); rec.Code != http.StatusBadRequest {
		t.Errorf("empty batch: status = %d", rec.Code)
	}
	many := `{"requests":[` + strings.TrimSuffix(strings.Repeat(`{"plotType":"Gas|SO2"},`, MaxRequests+1), ",") + `]}`
	if rec := post(e, many); rec.Code != http.StatusBadRequest {
		t.Errorf("oversized batch: status = %d", rec.Code)
	}
}

func TestBatch_LogsGeneratorFailures(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "info", Output: &buf})
	defer logging.Init(logging.Config{})

	rec := post(newServer(t), `{"requests":[
		{"plotType":"Gas|H2S","volcano":"Okmok"},
		{"plotType":"Gas|CO2"},
		{"plotType":"Gas|SO2"}
	]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	out := buf.String()
	if n := strings.Count(out, "plot generation failed"); n != 1 {
		t.Fatalf("logged %d failures, want 1:\n%s", n, out)
	}
	for _, want := range []string{`"level":"error"`, `"plotType":"Gas|H2S"`, `"volcano":"Okmok"`, "timeout"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s:\n%s", want, out)
		}
	}
}
