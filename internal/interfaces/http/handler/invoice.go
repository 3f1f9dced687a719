package handler

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	projectapp "github.com/opsboard/backend/internal/application/project"
	"github.com/opsboard/backend/internal/interfaces/http/dto"
)

// defaultMaxUploadSize applies when no limit is configured
const defaultMaxUploadSize = 10 << 20

// InvoiceHandler handles invoice HTTP requests
type InvoiceHandler struct {
	BaseHandler
	invoiceService *projectapp.InvoiceService
	maxUploadSize  int64
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *projectapp.InvoiceService, maxUploadSize int64) *InvoiceHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}
	return &InvoiceHandler{invoiceService: invoiceService, maxUploadSize: maxUploadSize}
}

// DocumentURLResponse is a time-limited download link
type DocumentURLResponse struct {
	URL string `json:"url"`
}

// Create records an invoice
// POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req projectapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetByID returns one invoice
// GET /invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List lists invoices
// GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter projectapp.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// Update updates an invoice
// PUT /invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req projectapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// MarkPaid records payment, defaulting to today
// POST /invoices/:id/pay
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req projectapp.MarkInvoicePaidRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.ValidationError(c, err)
			return
		}
	}

	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// MarkUnpaid reverts a recorded payment
// POST /invoices/:id/unpay
func (h *InvoiceHandler) MarkUnpaid(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.MarkUnpaid(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// UploadDocument stores the invoice scan from the multipart "file" field
// POST /invoices/:id/document
func (h *InvoiceHandler) UploadDocument(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file field")
		return
	}
	if header.Size > h.maxUploadSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidationRange, "File exceeds the maximum upload size")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	file, err := header.Open()
	if err != nil {
		h.BadRequest(c, "Unreadable file")
		return
	}
	defer file.Close()

	invoice, err := h.invoiceService.UploadDocument(c.Request.Context(), id, projectapp.UploadDocumentRequest{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
	}, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// DocumentURL returns a download link for the invoice document
// GET /invoices/:id/document
func (h *InvoiceHandler) DocumentURL(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	url, err := h.invoiceService.DocumentURL(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, DocumentURLResponse{URL: url})
}

// Delete deletes an invoice and its document
// DELETE /invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
