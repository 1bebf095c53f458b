package volcano

import (
	"context"

	"gorm.io/gorm"

	"multiplot.GO/model/entity"
)

// Observatory whose monitored volcanoes are always listed.
const Observatory = "avo"

type VolcanoRepository struct {
	db *gorm.DB
}

func NewVolcanoRepository(db *gorm.DB) *VolcanoRepository {
	return &VolcanoRepository{db: db}
}

// Monitored returns the named volcanoes plus every monitored top-level
// volcano of the observatory, east to west.
func (r *VolcanoRepository) Monitored(ctx context.Context, names []string) ([]entity.Volcano, error) {
	var out []entity.Volcano
	err := r.db.WithContext(ctx).
		Where("volcano_name IN ? OR (observatory = ? AND monitored = ? AND volcano_id = volcano_parent_id)",
			names, Observatory, true).
		Order("longitude DESC").
		Find(&out).Error
	return out, err
}

// Children returns the sub-features of the given volcanoes.
func (r *VolcanoRepository) Children(ctx context.Context, parentIDs []int) ([]entity.Volcano, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var out []entity.Volcano
	err := r.db.WithContext(ctx).
		Where("volcano_parent_id IN ? AND volcano_id <> volcano_parent_id", parentIDs).
		Order("volcano_name").
		Find(&out).Error
	return out, err
}
