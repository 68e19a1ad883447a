package repository

import (
	"strings"
	"time"

	"github.com/sangkips/dairy-pos/pkg/pagination"
	"gorm.io/gorm"
)

// Paginate returns a GORM scope applying offset and limit from params.
// A nil params leaves the query unbounded.
func Paginate(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			return db
		}
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}

// DateBetween filters column to the inclusive [from, to] day range; nil bounds are open
func DateBetween(column string, from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where(column+" >= ?", *from)
		}
		if to != nil {
			db = db.Where(column+" <= ?", *to)
		}
		return db
	}
}

// Search matches term case-insensitively against any of columns
func Search(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, c := range columns {
			clauses[i] = c + " ILIKE ?"
			args[i] = "%" + term + "%"
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// orderBy returns a safe ORDER BY clause, falling back to def when sortBy is not allowed
func orderBy(sortBy, sortOrder, def string, allowed ...string) string {
	col := def
	for _, a := range allowed {
		if a == sortBy {
			col = sortBy
			break
		}
	}
	dir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "ASC"
	}
	return col + " " + dir
}
