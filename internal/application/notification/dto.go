package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/notification"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ListFilter represents filter options for the notification list
type ListFilter struct {
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
	Kind      string `form:"kind" binding:"omitempty,oneof=invalid_date_range overdue_total overdue_payment missing_invoice missing_log"`
	Search    string `form:"search"`
	Page      int    `form:"page,default=1" binding:"min=1"`
	PageSize  int    `form:"page_size,default=50" binding:"min=1,max=500"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// RefreshRequest selects what to refresh; an empty ProjectID means every project
type RefreshRequest struct {
	ProjectID string `json:"project_id" form:"project_id" binding:"omitempty,uuid"`
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID          uuid.UUID       `json:"id"`
	Kind        string          `json:"kind"`
	KindLabel   string          `json:"kind_label"`
	ProjectID   uuid.UUID       `json:"project_id"`
	Message     string          `json:"message"`
	RelatedDate *shared.Date    `json:"related_date"`
	Count       int             `json:"count"`
	Amount      decimal.Decimal `json:"amount"`
	RefID       *uuid.UUID      `json:"ref_id,omitempty"`
}

// RefreshResponse reports the outcome of one project refresh
type RefreshResponse struct {
	ProjectID     uuid.UUID           `json:"project_id"`
	Notifications int                 `json:"notifications"`
	Totals        notification.Totals `json:"totals"`
	ComputedAt    time.Time           `json:"computed_at"`
}

// RefreshAllResponse reports a portfolio refresh.
// Queued is set when the work was handed to the background workers.
type RefreshAllResponse struct {
	Projects  int         `json:"projects"`
	Refreshed int         `json:"refreshed"`
	Queued    int         `json:"queued"`
	Failed    []uuid.UUID `json:"failed,omitempty"`
	Async     bool        `json:"async"`
}

// PreviewResponse is a derivation that was not stored
type PreviewResponse struct {
	ProjectID     uuid.UUID              `json:"project_id"`
	Today         shared.Date            `json:"today"`
	Bucket        string                 `json:"bucket"`
	Notifications []NotificationResponse `json:"notifications"`
	Totals        []notification.Row     `json:"totals"`
}

// SummaryResponse is the portfolio summary served to the dashboard
type SummaryResponse struct {
	Totals             []notification.Row `json:"totals"`
	ProjectCount       int                `json:"project_count"`
	ProjectsWithAlerts int                `json:"projects_with_alerts"`
	OverdueAmount      decimal.Decimal    `json:"overdue_amount"`
	GeneratedAt        time.Time          `json:"generated_at"`
	Cached             bool               `json:"cached"`
}

// RefreshedEvent is the payload published after a project refresh
type RefreshedEvent struct {
	ProjectID     uuid.UUID           `json:"project_id"`
	Notifications int                 `json:"notifications"`
	Totals        notification.Totals `json:"totals"`
	ComputedAt    time.Time           `json:"computed_at"`
}

// ToNotificationResponse converts a domain notification to a response DTO
func ToNotificationResponse(n notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		Kind:        n.Kind.String(),
		KindLabel:   n.Kind.Label(),
		ProjectID:   n.ProjectID,
		Message:     n.Message,
		RelatedDate: n.RelatedDate,
		Count:       n.Count,
		Amount:      n.Amount,
		RefID:       n.RefID,
	}
}

// ToNotificationResponses converts a slice of domain notifications
func ToNotificationResponses(notifications []notification.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = ToNotificationResponse(n)
	}
	return responses
}

// ToSummaryResponse converts a portfolio summary to a response DTO
func ToSummaryResponse(s notification.PortfolioSummary, cached bool) SummaryResponse {
	return SummaryResponse{
		Totals:             s.Totals.Rows(),
		ProjectCount:       s.ProjectCount,
		ProjectsWithAlerts: s.ProjectsWithAlerts,
		OverdueAmount:      s.Totals.OverdueAmount(),
		GeneratedAt:        s.GeneratedAt,
		Cached:             cached,
	}
}
