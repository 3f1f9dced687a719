package project

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/project"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/opsboard/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// ErrStorageUnavailable is returned when no document store is configured
var ErrStorageUnavailable = shared.NewDomainError("STORAGE_UNAVAILABLE", "Document storage is not configured")

// allowedDocumentTypes lists the content types accepted for invoice documents
var allowedDocumentTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
}

// DocumentStore persists invoice documents
type DocumentStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	DownloadURL(ctx context.Context, key string) (string, error)
	KeyFromURL(u string) (string, bool)
}

// InvoiceService handles invoice operations
type InvoiceService struct {
	invoiceRepo project.InvoiceRepository
	projectRepo project.ProjectRepository
	documents   DocumentStore
	refresh     RefreshQueue
	today       clock
	logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService. documents may be nil.
func NewInvoiceService(
	invoiceRepo project.InvoiceRepository,
	projectRepo project.ProjectRepository,
	documents DocumentStore,
	loc *time.Location,
	logger *zap.Logger,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		projectRepo: projectRepo,
		documents:   documents,
		refresh:     noopRefreshQueue{},
		today:       newClock(loc),
		logger:      logger,
	}
}

// SetRefreshQueue sets where invoice changes are reported
func (s *InvoiceService) SetRefreshQueue(q RefreshQueue) {
	if q != nil {
		s.refresh = q
	}
}

// Create issues an unpaid invoice
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	invoiceDate, err := parseRequiredDate(req.InvoiceDate, "invoice_date")
	if err != nil {
		return nil, err
	}
	if _, err := s.projectRepo.FindByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	invoice, err := project.NewInvoice(req.ProjectID, req.Number, invoiceDate, req.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	s.refresh.Enqueue(ctx, invoice.ProjectID)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves a page of invoices
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := project.InvoiceFilter{
		Filter: toSharedFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
		Paid:   filter.Paid,
	}

	var err error
	if domainFilter.ProjectID, err = parseOptionalID(filter.ProjectID); err != nil {
		return nil, 0, err
	}
	if domainFilter.From, err = parseFilterDate(filter.From, "from"); err != nil {
		return nil, 0, err
	}
	if domainFilter.To, err = parseFilterDate(filter.To, "to"); err != nil {
		return nil, 0, err
	}

	invoices, total, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToInvoiceResponses(invoices), total, nil
}

// Update updates an invoice; nil fields are left unchanged
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	number, invoiceDate, amount := invoice.Number, invoice.InvoiceDate, invoice.Amount
	if req.Number != nil {
		number = *req.Number
	}
	if req.InvoiceDate != nil {
		if invoiceDate, err = parseRequiredDate(*req.InvoiceDate, "invoice_date"); err != nil {
			return nil, err
		}
	}
	if req.Amount != nil {
		amount = *req.Amount
	}
	if err := invoice.Update(number, invoiceDate, amount); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	s.refresh.Enqueue(ctx, invoice.ProjectID)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// MarkPaid records payment of an invoice
func (s *InvoiceService) MarkPaid(ctx context.Context, id uuid.UUID, req MarkInvoicePaidRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	paidOn := s.today()
	if req.PaidDate != "" {
		if paidOn, err = parseRequiredDate(req.PaidDate, "paid_date"); err != nil {
			return nil, err
		}
	}
	if err := invoice.MarkPaid(paidOn); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	s.refresh.Enqueue(ctx, invoice.ProjectID)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// MarkUnpaid reverts a recorded payment
func (s *InvoiceService) MarkUnpaid(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	invoice.MarkUnpaid()

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	s.refresh.Enqueue(ctx, invoice.ProjectID)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// UploadDocument stores the invoice document and records its URL.
// A previously attached document is removed after the new one is saved.
func (s *InvoiceService) UploadDocument(ctx context.Context, id uuid.UUID, req UploadDocumentRequest, body io.Reader) (*InvoiceResponse, error) {
	if s.documents == nil {
		return nil, ErrStorageUnavailable
	}
	if !allowedDocumentTypes[req.ContentType] {
		return nil, shared.NewDomainError("INVALID_FILE_TYPE", "Invoice documents must be PDF, PNG or JPEG")
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := storage.InvoiceDocumentKey(invoice.ID, req.Filename)
	url, err := s.documents.Put(ctx, key, body, req.Size, req.ContentType)
	if err != nil {
		return nil, err
	}

	var previous string
	if invoice.DocumentURL != nil {
		previous = *invoice.DocumentURL
	}
	invoice.AttachDocument(url)

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	if previous != "" && previous != url {
		s.removeDocument(ctx, previous)
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// DocumentURL returns a time-limited download link for the invoice document
func (s *InvoiceService) DocumentURL(ctx context.Context, id uuid.UUID) (string, error) {
	if s.documents == nil {
		return "", ErrStorageUnavailable
	}
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if invoice.DocumentURL == nil {
		return "", shared.NewDomainError("NOT_FOUND", "Invoice has no document")
	}
	key, ok := s.documents.KeyFromURL(*invoice.DocumentURL)
	if !ok {
		return *invoice.DocumentURL, nil
	}
	return s.documents.DownloadURL(ctx, key)
}

// Delete deletes an invoice and its stored document
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}
	if invoice.DocumentURL != nil && s.documents != nil {
		s.removeDocument(ctx, *invoice.DocumentURL)
	}
	s.refresh.Enqueue(ctx, invoice.ProjectID)
	return nil
}

func (s *InvoiceService) removeDocument(ctx context.Context, url string) {
	key, ok := s.documents.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.documents.Delete(ctx, key); err != nil {
		s.logger.Warn("Failed to delete invoice document",
			zap.String("key", key),
			zap.Error(err))
	}
}
