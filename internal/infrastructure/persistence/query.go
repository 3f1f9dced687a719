package persistence

import (
	"strings"

	"github.com/opsboard/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// listPage counts the rows matched by query and loads one page of them.
// Scopes apply to the page query only, which keeps preloads out of the count.
func listPage[M any](query *gorm.DB, f shared.Filter, allowed map[string]bool, defaultField string, scopes ...func(*gorm.DB) *gorm.DB) ([]M, int64, error) {
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []M
	if err := paginate(query, f, allowed, defaultField).Scopes(scopes...).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// paginate applies validated ordering and paging. Ties break on id so page
// boundaries stay stable.
func paginate(query *gorm.DB, f shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(f.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(f.OrderDir)).Order("id ASC")
	if f.PageSize > 0 {
		query = query.Offset(f.Offset()).Limit(f.PageSize)
	}
	return query
}

// likePattern builds a case-insensitive LIKE pattern matched against LOWER(column).
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// dateRange restricts column to [from, to], either bound optional.
func dateRange(query *gorm.DB, column string, from, to *shared.Date) *gorm.DB {
	if from != nil {
		query = query.Where(column+" >= ?", *from)
	}
	if to != nil {
		query = query.Where(column+" <= ?", *to)
	}
	return query
}
