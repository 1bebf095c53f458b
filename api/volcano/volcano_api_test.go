package volcano

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"multiplot.GO/api"
	volcanoService "multiplot.GO/service/volcano"
)

func TestVolcanoes(t *testing.T) {
	e := echo.New()
	RegisterVolcanoRoutes(e, &api.Deps{Volcanoes: volcanoService.NewVolcanoService(nil)})

	req := httptest.NewRequest(http.MethodGet, "/volcanoes", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Volcanoes []volcanoService.View `json:"volcanoes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Volcanoes) == 0 || body.Volcanoes[0].Name != "Redoubt" {
		t.Errorf("volcanoes = %+v, want Redoubt (easternmost) first", body.Volcanoes)
	}
}

func TestVolcanoes_NotLoaded(t *testing.T) {
	e := echo.New()
	RegisterVolcanoRoutes(e, &api.Deps{})
	req := httptest.NewRequest(http.MethodGet, "/volcanoes", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
