package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes a sort direction to ASC or DESC, defaulting to DESC.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, otherwise defaultField.
func ValidateSortField(sortField string, allowed map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowed[trimmed] {
		return trimmed
	}
	return defaultField
}

var CompanySortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"contact_name": true,
	"email":        true,
}

var EngineerSortFields = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"name":        true,
	"email":       true,
	"hourly_rate": true,
}

var ProjectSortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"code":           true,
	"name":           true,
	"status":         true,
	"start_date":     true,
	"end_date":       true,
	"contract_value": true,
}

var DailyLogSortFields = map[string]bool{
	"created_at": true,
	"log_date":   true,
	"hours":      true,
}

var ExpenseSortFields = map[string]bool{
	"created_at":   true,
	"expense_date": true,
	"amount":       true,
	"category":     true,
}

var InvoiceSortFields = map[string]bool{
	"created_at":   true,
	"invoice_date": true,
	"number":       true,
	"amount":       true,
}

var NotificationSortFields = map[string]bool{
	"computed_at":  true,
	"position":     true,
	"related_date": true,
	"kind":         true,
	"amount":       true,
}

var UserSortFields = map[string]bool{
	"created_at":    true,
	"username":      true,
	"display_name":  true,
	"role":          true,
	"last_login_at": true,
}
