package repository

import (
	"fmt"
	"strings"

	"github.com/noah-isme/sis-api/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageBounds normalises page/size and returns the LIMIT/OFFSET values.
func pageBounds(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	return size, (page - 1) * size
}

// whereBuilder accumulates positional Postgres conditions.
type whereBuilder struct {
	conditions []string
	args       []interface{}
}

func (w *whereBuilder) add(format string, value interface{}) {
	w.args = append(w.args, value)
	w.conditions = append(w.conditions, fmt.Sprintf(format, len(w.args)))
}

func (w *whereBuilder) raw(condition string) {
	w.conditions = append(w.conditions, condition)
}

func (w *whereBuilder) clause() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " AND " + strings.Join(w.conditions, " AND ")
}

// gradeNumberExpr extracts the first number from a free-text grade level column.
func gradeNumberExpr(column string) string {
	return fmt.Sprintf("NULLIF(substring(%s from '[0-9]+'), '')::int", column)
}

// band restricts a grade level column to the grade range of a level band.
func (w *whereBuilder) band(column string, band *models.LevelBand) {
	if band == nil || !band.Valid() {
		return
	}
	low, high := band.GradeRange()
	expr := gradeNumberExpr(column)
	w.add(expr+" >= $%d", low)
	w.add(expr+" <= $%d", high)
}

func sortOrder(raw, fallback string) string {
	switch strings.ToUpper(raw) {
	case "ASC":
		return "ASC"
	case "DESC":
		return "DESC"
	default:
		return fallback
	}
}
