package graphql

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"multiplot.GO/api"
	"multiplot.GO/generator"
	"multiplot.GO/generators/sample"
	gqlregistry "multiplot.GO/graphql/registry"
	"multiplot.GO/service/volcano"
)

func runQuery(t *testing.T, query string) map[string]interface{} {
	t.Helper()
	reg := generator.NewRegistry(nil)
	if err := sample.Register(reg); err != nil {
		t.Fatal(err)
	}
	reg.Freeze()

	e := echo.New()
	RegisterGraphQLRoutes(e, &api.Deps{
		Plots:     reg,
		Volcanoes: volcano.NewVolcanoService(nil),
		DataTypes: func(context.Context) (map[string][]string, error) {
			return map[string][]string{"Remote Sensing|Gas Flux": {"airborne"}}, nil
		},
	})

	bodyBytes, _ := json.Marshal(map[string]interface{}{"query": query})
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Data   map[string]interface{}
		Errors []struct{ Message string }
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Errors) > 0 {
		t.Fatalf("errors: %v", resp.Errors)
	}
	return resp.Data
}

func TestQuery_Categories(t *testing.T) {
	data := runQuery(t, `query { categories { name description plotTypes { tag renderer dataTypes } } }`)
	cats := data["categories"].([]interface{})
	if len(cats) != 4 {
		t.Fatalf("len(categories) = %d, want 4", len(cats))
	}
	remote := cats[2].(map[string]interface{})
	if remote["name"] != "Remote Sensing" {
		t.Fatalf("categories not sorted: %v", cats)
	}
	pt := remote["plotTypes"].([]interface{})[0].(map[string]interface{})
	if pt["tag"] != "Remote Sensing|Gas Flux" || pt["renderer"] != "multi_cat_plot" {
		t.Errorf("plot type = %v", pt)
	}
	if types := pt["dataTypes"].([]interface{}); len(types) != 1 || types[0] != "airborne" {
		t.Errorf("dataTypes = %v", types)
	}
}

func TestQuery_PlotType(t *testing.T) {
	data := runQuery(t, `query { plotType(tag: "Example Category|String Description Example") { label description } missing: plotType(tag: "Nope|Nothing") { label } }`)
	pt := data["plotType"].(map[string]interface{})
	if pt["description"] != "A simple description for this dataset." {
		t.Errorf("description = %v", pt["description"])
	}
	if data["missing"] != nil {
		t.Errorf("missing = %v, want null", data["missing"])
	}
}

func TestQuery_DescriptionsAndVolcanoes(t *testing.T) {
	data := runQuery(t, `query { descriptions(category: "Sample Category") { label text } volcanoes { name zoom } }`)
	descs := data["descriptions"].([]interface{})
	if len(descs) != 3 {
		t.Errorf("descriptions = %v, want category row plus two labels", descs)
	}
	if len(data["volcanoes"].([]interface{})) != len(volcano.Curated) {
		t.Errorf("volcanoes = %v", data["volcanoes"])
	}
}

func TestQuery_Extension(t *testing.T) {
	gqlregistry.Register("plotCount", func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return map[string]interface{}{"category": args["category"]}, nil
	})
	defer gqlregistry.Unregister("plotCount")

	data := runQuery(t, `query { _extension(name: "plotCount", args: "{\"category\":\"Gas Data\"}") }`)
	if data["_extension"] != `{"category":"Gas Data"}` {
		t.Errorf("_extension = %v", data["_extension"])
	}
}
