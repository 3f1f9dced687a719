package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/opsboard/backend/internal/application/partner"
)

// CompanyHandler handles client company HTTP requests
type CompanyHandler struct {
	BaseHandler
	companyService *partner.CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService *partner.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Create creates a company
// POST /companies
func (h *CompanyHandler) Create(c *gin.Context) {
	var req partner.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	company, err := h.companyService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, company)
}

// GetByID returns one company
// GET /companies/:id
func (h *CompanyHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	company, err := h.companyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// List lists companies
// GET /companies
func (h *CompanyHandler) List(c *gin.Context) {
	var filter partner.CompanyListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	companies, total, err := h.companyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, companies, total, filter.Page, filter.PageSize)
}

// Update updates a company
// PUT /companies/:id
func (h *CompanyHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req partner.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	company, err := h.companyService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// Delete deletes a company without projects
// DELETE /companies/:id
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.companyService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// EngineerHandler handles engineer HTTP requests
type EngineerHandler struct {
	BaseHandler
	engineerService *partner.EngineerService
}

// NewEngineerHandler creates a new engineer handler
func NewEngineerHandler(engineerService *partner.EngineerService) *EngineerHandler {
	return &EngineerHandler{engineerService: engineerService}
}

// Create creates an engineer
// POST /engineers
func (h *EngineerHandler) Create(c *gin.Context) {
	var req partner.CreateEngineerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	engineer, err := h.engineerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, engineer)
}

// GetByID returns one engineer
// GET /engineers/:id
func (h *EngineerHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	engineer, err := h.engineerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, engineer)
}

// List lists engineers
// GET /engineers
func (h *EngineerHandler) List(c *gin.Context) {
	var filter partner.EngineerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	engineers, total, err := h.engineerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, engineers, total, filter.Page, filter.PageSize)
}

// Update updates an engineer
// PUT /engineers/:id
func (h *EngineerHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req partner.UpdateEngineerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	engineer, err := h.engineerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, engineer)
}

// Delete deletes an engineer
// DELETE /engineers/:id
func (h *EngineerHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.engineerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
