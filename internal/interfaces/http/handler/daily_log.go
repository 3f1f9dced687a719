package handler

import (
	"github.com/gin-gonic/gin"
	projectapp "github.com/opsboard/backend/internal/application/project"
)

// DailyLogHandler handles daily work log HTTP requests.
// Engineer restrictions are enforced by the service from the caller's actor.
type DailyLogHandler struct {
	BaseHandler
	logService *projectapp.DailyLogService
}

// NewDailyLogHandler creates a new daily log handler
func NewDailyLogHandler(logService *projectapp.DailyLogService) *DailyLogHandler {
	return &DailyLogHandler{logService: logService}
}

// Create records a day of work
// POST /daily-logs
func (h *DailyLogHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req projectapp.CreateDailyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	log, err := h.logService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, log)
}

// GetByID returns one daily log
// GET /daily-logs/:id
func (h *DailyLogHandler) GetByID(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	log, err := h.logService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, log)
}

// List lists daily logs
// GET /daily-logs
func (h *DailyLogHandler) List(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var filter projectapp.DailyLogListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	logs, total, err := h.logService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, logs, total, filter.Page, filter.PageSize)
}

// Update updates a daily log
// PUT /daily-logs/:id
func (h *DailyLogHandler) Update(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req projectapp.UpdateDailyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	log, err := h.logService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, log)
}

// Delete deletes a daily log
// DELETE /daily-logs/:id
func (h *DailyLogHandler) Delete(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.logService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
