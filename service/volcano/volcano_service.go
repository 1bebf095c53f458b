package volcano

import (
	"context"
	"sort"
	"sync"

	"multiplot.GO/model/entity"
)

// DefaultZoom is the map zoom of volcanoes without a curated view.
const DefaultZoom = 10

// Child is a sub-feature of a volcano.
type Child struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// View is a volcano as shown in the volcano selector: the map centre, which
// may differ from the summit location, and its zoom level.
type View struct {
	Name      string  `json:"name"`
	ID        int     `json:"id,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      int     `json:"zoom"`
	Children  []Child `json:"children,omitempty"`
}

// Curated view centres for volcanoes with data.
var Curated = []View{
	{Name: "Augustine", Latitude: 59.3626, Longitude: -153.435, Zoom: 12},
	{Name: "Bogoslof", Latitude: 53.9272, Longitude: -168.0344, Zoom: 11},
	{Name: "Redoubt", Latitude: 60.4852, Longitude: -152.7438, Zoom: 11},
	{Name: "Cleveland", Latitude: 52.8222, Longitude: -169.945, Zoom: 10},
	{Name: "Okmok", Latitude: 53.397, Longitude: -168.166, Zoom: 10},
	{Name: "Pavlof", Latitude: 55.4173, Longitude: -161.8937, Zoom: 11},
	{Name: "Shishaldin", Latitude: 54.7554, Longitude: -163.9711, Zoom: 11},
	{Name: "Veniaminof", Latitude: 56.1979, Longitude: -159.3931, Zoom: 10},
}

// Repository is the volcano store.
type Repository interface {
	Monitored(ctx context.Context, names []string) ([]entity.Volcano, error)
	Children(ctx context.Context, parentIDs []int) ([]entity.Volcano, error)
}

// VolcanoService keeps the volcano list and the name to id map used by
// generators. Load it once at startup.
type VolcanoService struct {
	repo Repository

	mu    sync.RWMutex
	views []View
	ids   map[string]int
}

func NewVolcanoService(repo Repository) *VolcanoService {
	s := &VolcanoService{repo: repo, ids: map[string]int{}}
	s.views = append(s.views, Curated...)
	sortViews(s.views)
	return s
}

// Load merges the curated views with the monitored volcanoes of the
// database. Without a repository the curated views stay as they are.
func (s *VolcanoService) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	names := make([]string, len(Curated))
	byName := make(map[string]*View, len(Curated))
	views := make([]View, len(Curated))
	copy(views, Curated)
	for i := range views {
		names[i] = views[i].Name
	}

	rows, err := s.repo.Monitored(ctx, names)
	if err != nil {
		return err
	}
	parentIDs := make([]int, 0, len(rows))
	ids := make(map[string]int, len(rows))
	for _, v := range rows {
		ids[v.VolcanoName] = v.VolcanoID
		parentIDs = append(parentIDs, v.VolcanoID)
	}
	children, err := s.repo.Children(ctx, parentIDs)
	if err != nil {
		return err
	}
	kids := make(map[int][]Child)
	for _, c := range children {
		kids[c.ParentID] = append(kids[c.ParentID], Child{ID: c.VolcanoID, Name: c.VolcanoName})
	}

	for i := range views {
		byName[views[i].Name] = &views[i]
	}
	for _, v := range rows {
		if cur, ok := byName[v.VolcanoName]; ok {
			cur.ID = v.VolcanoID
			cur.Children = kids[v.VolcanoID]
			continue
		}
		views = append(views, View{
			Name:      v.VolcanoName,
			ID:        v.VolcanoID,
			Latitude:  v.Latitude,
			Longitude: v.Longitude,
			Zoom:      DefaultZoom,
			Children:  kids[v.VolcanoID],
		})
	}
	sortViews(views)

	s.mu.Lock()
	s.views, s.ids = views, ids
	s.mu.Unlock()
	return nil
}

// Views returns the volcanoes east to west.
func (s *VolcanoService) Views() []View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]View, len(s.views))
	copy(out, s.views)
	return out
}

// ID returns the database id of the named volcano.
func (s *VolcanoService) ID(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.ids[name]
	return id, ok
}

func sortViews(v []View) {
	sort.SliceStable(v, func(i, j int) bool { return v[i].Longitude > v[j].Longitude })
}
