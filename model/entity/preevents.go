package entity

import "gorm.io/datatypes"

// PreeventsFlag holds multiplot's display settings for one PREEVENTS
// dataset variable.
type PreeventsFlag struct {
	DatasetID  int            `gorm:"column:dataset_id;primaryKey;autoIncrement:false" json:"dataset_id"`
	VariableID int            `gorm:"column:variable_id;primaryKey;autoIncrement:false" json:"variable_id"`
	Hidden     bool           `gorm:"column:hidden;not null;default:false" json:"hidden"`
	Overrides  datatypes.JSON `gorm:"column:overrides" json:"overrides"`
}

func (PreeventsFlag) TableName() string {
	return "preevents"
}
