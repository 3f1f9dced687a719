package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	notificationapp "github.com/opsboard/backend/internal/application/notification"
	"github.com/opsboard/backend/internal/infrastructure/export"
	"github.com/opsboard/backend/internal/interfaces/http/dto"
)

// NotificationHandler serves the derived notification table and its summary
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *notificationapp.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List lists stored notifications
// GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	var filter notificationapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	items, total, err := h.notificationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Refresh recomputes notifications for one project, or for all of them when
// no project is given. A portfolio refresh handed to the workers answers 202.
// POST /notifications/refresh
func (h *NotificationHandler) Refresh(c *gin.Context) {
	var req notificationapp.RefreshRequest
	if err := c.ShouldBind(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if req.ProjectID != "" {
		projectID, err := uuid.Parse(req.ProjectID)
		if err != nil {
			h.BadRequest(c, "Invalid project_id")
			return
		}
		result, err := h.notificationService.RefreshProject(c.Request.Context(), projectID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, result)
		return
	}

	result, err := h.notificationService.TriggerRefreshAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Async {
		c.JSON(http.StatusAccepted, dto.NewSuccessResponse(result))
		return
	}
	h.Success(c, result)
}

// Summary returns portfolio totals per notification kind
// GET /notifications/summary
func (h *NotificationHandler) Summary(c *gin.Context) {
	summary, err := h.notificationService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Export streams the notification table as a spreadsheet
// GET /notifications/export
func (h *NotificationHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	filename, err := h.notificationService.Export(c.Request.Context(), &buf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// ForProject lists the stored notifications of one project
// GET /projects/:id/notifications
func (h *NotificationHandler) ForProject(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	items, err := h.notificationService.ForProject(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Preview derives notifications for a project without storing them.
// An optional ?today= evaluates the rules as of another date.
// GET /projects/:id/notifications/preview
func (h *NotificationHandler) Preview(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	today, ok := h.parseTodayQuery(c)
	if !ok {
		return
	}

	preview, err := h.notificationService.Preview(c.Request.Context(), id, today)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}
