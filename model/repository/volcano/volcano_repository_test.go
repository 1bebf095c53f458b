package volcano

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"multiplot.GO/model/entity"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entity.Volcano{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db.Create(&[]entity.Volcano{
		{VolcanoID: 1, VolcanoName: "Augustine", Latitude: 59.36, Longitude: -153.43, ParentID: 1, Observatory: "avo", Monitored: true},
		{VolcanoID: 2, VolcanoName: "Okmok", Latitude: 53.43, Longitude: -168.13, ParentID: 2, Observatory: "avo", Monitored: true},
		{VolcanoID: 3, VolcanoName: "Ahmanilix", Latitude: 53.4, Longitude: -168.1, ParentID: 2, Observatory: "avo", Monitored: true},
		{VolcanoID: 4, VolcanoName: "Kilauea", Latitude: 19.4, Longitude: -155.3, ParentID: 4, Observatory: "hvo", Monitored: true},
		{VolcanoID: 5, VolcanoName: "Hayes", Latitude: 61.6, Longitude: -152.5, ParentID: 5, Observatory: "avo", Monitored: false},
	})
	return db
}

func TestMonitored(t *testing.T) {
	repo := NewVolcanoRepository(testDB(t))
	got, err := repo.Monitored(context.Background(), []string{"Hayes"})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, v := range got {
		names = append(names, v.VolcanoName)
	}
	want := []string{"Hayes", "Augustine", "Okmok"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names = %v, want %v", names, want)
			break
		}
	}
}

func TestChildren(t *testing.T) {
	repo := NewVolcanoRepository(testDB(t))
	got, err := repo.Children(context.Background(), []int{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].VolcanoName != "Ahmanilix" {
		t.Errorf("Children = %+v", got)
	}
	if got, err := repo.Children(context.Background(), nil); err != nil || got != nil {
		t.Errorf("Children(nil) = %v, %v", got, err)
	}
}
