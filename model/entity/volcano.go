package entity

// Volcano represents the geodiva volcano table
type Volcano struct {
	VolcanoID   int     `gorm:"column:volcano_id;primaryKey" json:"volcano_id"`
	VolcanoName string  `gorm:"column:volcano_name;type:varchar(255);not null" json:"volcano_name"`
	Latitude    float64 `gorm:"column:latitude" json:"latitude"`
	Longitude   float64 `gorm:"column:longitude" json:"longitude"`
	ParentID    int     `gorm:"column:volcano_parent_id" json:"volcano_parent_id"`
	Observatory string  `gorm:"column:observatory;type:varchar(32)" json:"observatory"`
	Monitored   bool    `gorm:"column:monitored" json:"monitored"`
}

func (Volcano) TableName() string {
	return "volcano"
}
