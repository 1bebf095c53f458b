package volcano

import (
	"context"
	"errors"
	"testing"

	"multiplot.GO/model/entity"
)

type fakeRepo struct {
	monitored []entity.Volcano
	children  []entity.Volcano
	err       error
}

func (f *fakeRepo) Monitored(context.Context, []string) ([]entity.Volcano, error) {
	return f.monitored, f.err
}

func (f *fakeRepo) Children(context.Context, []int) ([]entity.Volcano, error) {
	return f.children, nil
}

func TestLoad(t *testing.T) {
	repo := &fakeRepo{
		monitored: []entity.Volcano{
			{VolcanoID: 1, VolcanoName: "Augustine", Latitude: 59.36, Longitude: -153.43, ParentID: 1},
			{VolcanoID: 9, VolcanoName: "Spurr", Latitude: 61.3, Longitude: -152.25, ParentID: 9},
		},
		children: []entity.Volcano{{VolcanoID: 10, VolcanoName: "Crater Peak", ParentID: 9}},
	}
	s := NewVolcanoService(repo)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	if id, ok := s.ID("Spurr"); !ok || id != 9 {
		t.Errorf("ID(Spurr) = %d, %v", id, ok)
	}
	if _, ok := s.ID("Bogoslof"); ok {
		t.Error("Bogoslof has an id without a database row")
	}

	views := s.Views()
	if len(views) != len(Curated)+1 {
		t.Fatalf("got %d views, want %d", len(views), len(Curated)+1)
	}
	if views[0].Name != "Spurr" || views[0].Zoom != DefaultZoom || len(views[0].Children) != 1 {
		t.Errorf("first view = %+v, want Spurr with its child", views[0])
	}
	for i := 1; i < len(views); i++ {
		if views[i].Longitude > views[i-1].Longitude {
			t.Errorf("views not sorted east to west at %d: %v", i, views)
		}
	}
	for _, v := range views {
		if v.Name == "Augustine" && (v.ID != 1 || v.Zoom != 12) {
			t.Errorf("Augustine = %+v, want curated view with id 1", v)
		}
	}
}

func TestLoad_ErrorKeepsCurated(t *testing.T) {
	s := NewVolcanoService(&fakeRepo{err: errors.New("connection refused")})
	if err := s.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(s.Views()) != len(Curated) {
		t.Errorf("Views = %d, want curated list", len(s.Views()))
	}
}

func TestLoad_NoRepository(t *testing.T) {
	s := NewVolcanoService(nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := len(s.Views()); got != len(Curated) {
		t.Errorf("views = %d, want the %d curated ones", got, len(Curated))
	}
	if _, ok := s.ID("Okmok"); ok {
		t.Error("ids known without a database")
	}
}
