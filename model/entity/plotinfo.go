package entity

import "gorm.io/datatypes"

// PlotCategory represents the categories table of the multiplot database
type PlotCategory struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"column:name;type:varchar(255);not null;uniqueIndex" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
}

func (PlotCategory) TableName() string {
	return "categories"
}

// PlotInfo describes one database-backed plot: where its rows live and how
// the client should draw them.
type PlotInfo struct {
	ID          uint         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string       `gorm:"column:title;type:varchar(255);not null" json:"title"`
	CategoryID  uint         `gorm:"column:category;not null" json:"category_id"`
	Category    PlotCategory `gorm:"foreignKey:CategoryID" json:"category"`
	DataTable   string       `gorm:"column:tablename;type:varchar(255);not null" json:"tablename"`
	ValueColumn string       `gorm:"column:value_column;type:varchar(255);not null" json:"value_column"`
	// Units is a string, or an object keyed by record type.
	Units datatypes.JSON `gorm:"column:units" json:"units"`
	// Types lists the record types to split the data by; null for none.
	Types       datatypes.JSON `gorm:"column:types" json:"types"`
	PlotFormat  datatypes.JSON `gorm:"column:plot_format" json:"plot_format"`
	Description string         `gorm:"column:description;type:text" json:"description"`
}

func (PlotInfo) TableName() string {
	return "plotinfo"
}
