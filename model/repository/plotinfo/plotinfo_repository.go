package plotinfo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/gorm"

	"multiplot.GO/model/entity"
)

// ErrNotFound is returned when no plotinfo row matches a tag.
var ErrNotFound = errors.New("plotinfo: no such plot")

// Label is a plot title with its category name.
type Label struct {
	Category string
	Title    string
}

// DescriptionRow is one plot or category description. Title is empty for
// category rows.
type DescriptionRow struct {
	Category    string
	Title       string
	Description string
}

// DataQuery selects rows of a plot's data table.
type DataQuery struct {
	Table     string
	Value     string
	Extra     []string // optional columns: error, error2, type
	VolcanoID int
	Start     *time.Time
	End       *time.Time
	Types     []string
}

type PlotInfoRepository struct {
	db *gorm.DB
}

func NewPlotInfoRepository(db *gorm.DB) *PlotInfoRepository {
	return &PlotInfoRepository{db: db}
}

// Labels lists every configured plot ordered by category and title.
func (r *PlotInfoRepository) Labels(ctx context.Context) ([]Label, error) {
	var out []Label
	err := r.db.WithContext(ctx).
		Table("plotinfo").
		Select("categories.name AS category, plotinfo.title AS title").
		Joins("INNER JOIN categories ON categories.id = plotinfo.category").
		Order("categories.name, plotinfo.title").
		Scan(&out).Error
	return out, err
}

// FindByTag returns the plot titled title in the named category.
func (r *PlotInfoRepository) FindByTag(ctx context.Context, category, title string) (*entity.PlotInfo, error) {
	db := r.db.WithContext(ctx)
	var info entity.PlotInfo
	err := db.
		Where("title = ? AND category = (?)", title,
			db.Model(&entity.PlotCategory{}).Select("id").Where("name = ?", category)).
		First(&info).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s - %s", ErrNotFound, category, title)
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Descriptions returns plot descriptions followed by category descriptions.
func (r *PlotInfoRepository) Descriptions(ctx context.Context) ([]DescriptionRow, error) {
	db := r.db.WithContext(ctx)
	var plots []DescriptionRow
	err := db.Table("plotinfo").
		Select("categories.name AS category, plotinfo.title AS title, plotinfo.description AS description").
		Joins("INNER JOIN categories ON categories.id = plotinfo.category").
		Where("plotinfo.description IS NOT NULL AND plotinfo.description <> ''").
		Scan(&plots).Error
	if err != nil {
		return nil, err
	}

	var cats []entity.PlotCategory
	if err := db.Where("description IS NOT NULL AND description <> ''").Find(&cats).Error; err != nil {
		return nil, err
	}
	for _, c := range cats {
		plots = append(plots, DescriptionRow{Category: c.Name, Description: c.Description})
	}
	return plots, nil
}

// DataTypes maps "category|title" to the record types of plots that have
// them.
func (r *PlotInfoRepository) DataTypes(ctx context.Context) (map[string][]string, error) {
	var rows []struct {
		Category string
		Title    string
		Types    []byte
	}
	err := r.db.WithContext(ctx).
		Table("plotinfo").
		Select("categories.name AS category, plotinfo.title AS title, plotinfo.types AS types").
		Joins("INNER JOIN categories ON categories.id = plotinfo.category").
		Where("plotinfo.types IS NOT NULL").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(rows))
	for _, row := range rows {
		var types []string
		if err := json.Unmarshal(row.Types, &types); err != nil {
			return nil, fmt.Errorf("plotinfo types of %s|%s: %w", row.Category, row.Title, err)
		}
		out[row.Category+"|"+row.Title] = types
	}
	return out, nil
}

// Columns lists the column names of a data table.
func (r *PlotInfoRepository) Columns(ctx context.Context, table string) ([]string, error) {
	cols, err := r.db.WithContext(ctx).Migrator().ColumnTypes(table)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
	}
	return names, nil
}

// Data returns datetime, value and the extra columns ordered by datetime.
// Table and column names must come from plotinfo and Columns, never from
// the request.
func (r *PlotInfoRepository) Data(ctx context.Context, q DataQuery) ([]map[string]interface{}, error) {
	quote := r.db.Statement.Quote
	fields := []string{quote("datetime"), quote(q.Value) + " AS value"}
	for _, col := range q.Extra {
		fields = append(fields, quote(col))
	}

	db := r.db.WithContext(ctx).
		Table(q.Table).
		Select(strings.Join(fields, ", ")).
		Where("volcano = ?", q.VolcanoID)
	if q.Start != nil {
		db = db.Where("datetime >= ?", *q.Start)
	}
	if q.End != nil {
		db = db.Where("datetime <= ?", *q.End)
	}
	if len(q.Types) > 0 {
		db = db.Where("type IN ?", q.Types)
	}

	var rows []map[string]interface{}
	err := db.Order("datetime").Find(&rows).Error
	return rows, err
}
