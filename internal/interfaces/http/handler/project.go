package handler

import (
	"github.com/gin-gonic/gin"
	projectapp "github.com/opsboard/backend/internal/application/project"
	"github.com/opsboard/backend/internal/domain/shared"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	BaseHandler
	projectService *projectapp.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *projectapp.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// parseTodayQuery reads the optional ?today=YYYY-MM-DD override
func (h *BaseHandler) parseTodayQuery(c *gin.Context) (*shared.Date, bool) {
	raw := c.Query("today")
	if raw == "" {
		return nil, true
	}
	d, err := shared.ParseDate(raw)
	if err != nil {
		h.BadRequest(c, "Invalid today parameter, expected YYYY-MM-DD")
		return nil, false
	}
	return &d, true
}

// Create creates a project
// POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectapp.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, project)
}

// GetByID returns one project
// GET /projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, project)
}

// List lists projects. Engineers only see projects they are assigned to.
// GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var filter projectapp.ProjectListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}
	if !actor.IsAdmin() {
		if actor.EngineerID == nil {
			h.HandleError(c, projectapp.ErrNoEngineer)
			return
		}
		filter.EngineerID = actor.EngineerID.String()
	}

	projects, total, err := h.projectService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, projects, total, filter.Page, filter.PageSize)
}

// Update updates a project
// PUT /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req projectapp.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, project)
}

// Delete deletes a project with its logs, expenses and invoices
// DELETE /projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AssignEngineer adds an engineer to the project team
// POST /projects/:id/engineers
func (h *ProjectHandler) AssignEngineer(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req projectapp.AssignEngineerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	project, err := h.projectService.AssignEngineer(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, project)
}

// UnassignEngineer removes an engineer from the project team
// DELETE /projects/:id/engineers/:engineer_id
func (h *ProjectHandler) UnassignEngineer(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	engineerID, ok := h.parseUUIDParam(c, "engineer_id")
	if !ok {
		return
	}

	if err := h.projectService.UnassignEngineer(c.Request.Context(), id, engineerID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Bucket returns the display bucket and the dates open for logging
// GET /projects/:id/bucket
func (h *ProjectHandler) Bucket(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	today, ok := h.parseTodayQuery(c)
	if !ok {
		return
	}

	bucket, err := h.projectService.Bucket(c.Request.Context(), id, today)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bucket)
}
