package preevents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"multiplot.GO/model/entity"
)

// ErrNotFound is returned when no datastream matches a plot.
var ErrNotFound = errors.New("preevents: no matching datastreams")

// categoricalUnitID marks variables that cannot be plotted as a series.
const categoricalUnitID = 6

// Label is one plottable PREEVENTS variable. DisplayName carries the
// dataset name when the display name is shared by several datasets.
type Label struct {
	DisplayName         string `gorm:"column:enhanced_displayname"`
	Discipline          string `gorm:"column:discipline_name"`
	DatasetID           int    `gorm:"column:dataset_id"`
	VariableID          int    `gorm:"column:variable_id"`
	VariableName        string `gorm:"column:variable_name"`
	VariableDescription string `gorm:"column:variable_description"`
	DatasetDescription  string `gorm:"column:dataset_description"`
}

// Key identifies a dataset variable.
type Key struct {
	DatasetID  int
	VariableID int
}

// Key returns the label's dataset variable.
func (l Label) Key() Key {
	return Key{DatasetID: l.DatasetID, VariableID: l.VariableID}
}

// Stream is one datastream of a plot: a device recording the variable.
type Stream struct {
	DatastreamID int    `gorm:"column:datastream_id"`
	Device       string `gorm:"column:device_name"`
	Unit         string `gorm:"column:unit_name"`
	DatasetID    int    `gorm:"column:dataset_id"`
	VariableID   int    `gorm:"column:variable_id"`
}

// Filter keeps only timestamps where another variable of the same device
// satisfies Column Op Value. Key selects a field of a JSON column.
type Filter struct {
	VariableID int
	Column     string
	Key        string
	Op         string
	Value      interface{}
}

// DataQuery selects datavalues of a set of datastreams.
type DataQuery struct {
	DatastreamIDs []int
	Start         *time.Time
	End           *time.Time
	Filters       []Filter
}

// Point is one datavalue.
type Point struct {
	Timestamp time.Time `gorm:"column:timestamp"`
	Value     float64   `gorm:"column:datavalue"`
	Device    string    `gorm:"column:device_name"`
}

type PreeventsRepository struct {
	multiplot *gorm.DB
	preevents *gorm.DB
}

// NewPreeventsRepository reads data from the PREEVENTS database and display
// settings from the multiplot database.
func NewPreeventsRepository(multiplot, preevents *gorm.DB) *PreeventsRepository {
	return &PreeventsRepository{multiplot: multiplot, preevents: preevents}
}

const labelsSQL = `
WITH displayname_dataset_counts AS (
    SELECT dn.displayname, disciplines.discipline_name, COUNT(DISTINCT datasets.dataset_id) AS dataset_count
    FROM disciplines
    INNER JOIN datasets ON datasets.discipline_id = disciplines.discipline_id
    INNER JOIN datastreams ON datastreams.dataset_id = datasets.dataset_id
    INNER JOIN variables ON variables.variable_id = datastreams.variable_id
    INNER JOIN displaynames AS dn ON dn.displayname_id = variables.displayname_id
    WHERE variables.unit_id != ?
    GROUP BY dn.displayname, disciplines.discipline_name
)
SELECT DISTINCT ON (enhanced_displayname, discipline_name)
    CASE
        WHEN ddc.dataset_count > 1 THEN dn.displayname || ' (' || datasets.dataset_name || ')'
        ELSE dn.displayname
    END AS enhanced_displayname,
    disciplines.discipline_name,
    datasets.dataset_id,
    datastreams.variable_id,
    variables.variable_name,
    COALESCE(variables.variable_description, '') AS variable_description,
    COALESCE(datasets.dataset_description, '') AS dataset_description
FROM disciplines
INNER JOIN datasets ON datasets.discipline_id = disciplines.discipline_id
INNER JOIN datastreams ON datastreams.dataset_id = datasets.dataset_id
INNER JOIN variables ON variables.variable_id = datastreams.variable_id
INNER JOIN displaynames AS dn ON dn.displayname_id = variables.displayname_id
INNER JOIN displayname_dataset_counts AS ddc
    ON ddc.displayname = dn.displayname AND ddc.discipline_name = disciplines.discipline_name
WHERE variables.unit_id != ?
ORDER BY discipline_name, enhanced_displayname`

// Labels lists every plottable variable, one per display name and discipline.
func (r *PreeventsRepository) Labels(ctx context.Context) ([]Label, error) {
	var out []Label
	err := r.preevents.WithContext(ctx).Raw(labelsSQL, categoricalUnitID, categoricalUnitID).Scan(&out).Error
	return out, err
}

// Flags returns the hidden flag of every dataset variable multiplot knows.
func (r *PreeventsRepository) Flags(ctx context.Context) (map[Key]bool, error) {
	var rows []entity.PreeventsFlag
	if err := r.multiplot.WithContext(ctx).Select("dataset_id", "variable_id", "hidden").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[Key]bool, len(rows))
	for _, f := range rows {
		out[Key{DatasetID: f.DatasetID, VariableID: f.VariableID}] = f.Hidden
	}
	return out, nil
}

// Overrides returns the plot format overrides of a dataset variable, or nil.
func (r *PreeventsRepository) Overrides(ctx context.Context, k Key) (datatypes.JSON, error) {
	var f entity.PreeventsFlag
	err := r.multiplot.WithContext(ctx).
		Where("dataset_id = ? AND variable_id = ?", k.DatasetID, k.VariableID).
		Limit(1).Find(&f).Error
	if err != nil {
		return nil, err
	}
	return f.Overrides, nil
}

// Streams returns the datastreams plotted for a display name at a volcano,
// restricted to devices when given. Only the first dataset variable is
// used when a display name matches several.
func (r *PreeventsRepository) Streams(ctx context.Context, discipline, displayName string, volcanoID int, devices []string) ([]Stream, error) {
	db := r.preevents.WithContext(ctx).
		Table("datastreams").
		Select("datastreams.datastream_id, devices.device_name, units.unit_name, datastreams.dataset_id, datastreams.variable_id").
		Joins("INNER JOIN datasets ON datastreams.dataset_id = datasets.dataset_id").
		Joins("INNER JOIN disciplines ON disciplines.discipline_id = datasets.discipline_id").
		Joins("INNER JOIN devices ON devices.device_id = datastreams.device_id").
		Joins("INNER JOIN variables ON variables.variable_id = datastreams.variable_id").
		Joins("INNER JOIN displaynames ON variables.displayname_id = displaynames.displayname_id").
		Joins("INNER JOIN units ON variables.unit_id = units.unit_id").
		Where("disciplines.discipline_name = ? AND displaynames.displayname = ? AND datastreams.volcano_id = ?",
			discipline, displayName, volcanoID)
	if len(devices) > 0 {
		db = db.Where("devices.device_name IN ?", devices)
	}

	var rows []Stream
	if err := db.Order("datastreams.dataset_id, datastreams.variable_id, datastreams.datastream_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s - %s", ErrNotFound, discipline, displayName)
	}
	first := Key{DatasetID: rows[0].DatasetID, VariableID: rows[0].VariableID}
	out := rows[:0]
	for _, s := range rows {
		if (Key{DatasetID: s.DatasetID, VariableID: s.VariableID}) == first {
			out = append(out, s)
		}
	}
	return out, nil
}

// Data returns the non-null values of q's datastreams that pass every
// filter, ordered by device and time.
func (r *PreeventsRepository) Data(ctx context.Context, q DataQuery) ([]Point, error) {
	sql, args, err := buildDataSQL(q)
	if err != nil {
		return nil, err
	}
	var out []Point
	err = r.preevents.WithContext(ctx).Raw(sql, args...).Scan(&out).Error
	return out, err
}

var filterOps = map[string]bool{"=": true, "!=": true, ">=": true, "<=": true, ">": true, "<": true}

// buildDataSQL composes the datavalue query. Each filter adds a CTE of the
// filter variable's datastreams and a join on the matching value.
func buildDataSQL(q DataQuery) (string, []interface{}, error) {
	var (
		withs []string
		joins []string
		args  []interface{}
	)

	base := `base AS (
    SELECT dv.timestamp, dv.datavalue, ds.device_id, ds.volcano_id, ds.dataset_id
    FROM datavalues dv
    INNER JOIN datastreams ds ON ds.datastream_id = dv.datastream_id
    WHERE dv.datastream_id IN ?
    AND dv.datavalue IS NOT NULL
    AND dv.datavalue::text != 'NaN'`
	args = append(args, q.DatastreamIDs)
	if q.Start != nil {
		base += "\n    AND dv.timestamp >= ?"
		args = append(args, *q.Start)
	}
	if q.End != nil {
		base += "\n    AND dv.timestamp <= ?"
		args = append(args, *q.End)
	}
	withs = append(withs, base+"\n)")

	for i, f := range q.Filters {
		if !filterOps[f.Op] {
			return "", nil, fmt.Errorf("preevents: unsupported operator %q", f.Op)
		}
		field := fmt.Sprintf("dv%d.%s", i, quoteIdent(f.Column))
		if f.Key != "" {
			field = fmt.Sprintf("%s->>?", field)
		}
		withs = append(withs, fmt.Sprintf(`filter_%d AS (
    SELECT datastream_id, device_id, dataset_id, volcano_id
    FROM datastreams
    WHERE variable_id = ?
)`, i))
		args = append(args, f.VariableID)

		joins = append(joins, fmt.Sprintf(`JOIN filter_%[1]d f%[1]d
    ON f%[1]d.device_id = b.device_id
    AND f%[1]d.dataset_id = b.dataset_id
    AND f%[1]d.volcano_id = b.volcano_id
JOIN datavalues dv%[1]d
    ON dv%[1]d.timestamp = b.timestamp
    AND dv%[1]d.datastream_id = f%[1]d.datastream_id
    AND %[2]s %[3]s ?`, i, field, f.Op))
	}
	// Join placeholders come after every CTE placeholder.
	for _, f := range q.Filters {
		if f.Key != "" {
			args = append(args, f.Key)
		}
		args = append(args, f.Value)
	}

	sql := "WITH " + strings.Join(withs, ",\n") + `
SELECT b.timestamp, b.datavalue, d.device_name
FROM base b
` + strings.Join(joins, "\n") + `
JOIN devices d ON d.device_id = b.device_id
ORDER BY d.device_name, b.timestamp`
	return sql, args, nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
