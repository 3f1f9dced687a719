package project

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/project"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/opsboard/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newInvoiceServiceFixture(documents DocumentStore) (*InvoiceService, *MockInvoiceRepository, *MockProjectRepository) {
	invoices := new(MockInvoiceRepository)
	projects := new(MockProjectRepository)
	service := NewInvoiceService(invoices, projects, documents, time.UTC, nil)
	service.today = fixedClock("2024-06-10")
	return service, invoices, projects
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()
	service, invoices, projects := newInvoiceServiceFixture(nil)
	p := newTestProject("2024-01-01", "")
	projects.On("FindByID", ctx, p.ID).Return(p, nil)
	invoices.On("Save", ctx, mock.AnythingOfType("*project.Invoice")).Return(nil)

	resp, err := service.Create(ctx, CreateInvoiceRequest{
		ProjectID:   p.ID,
		Number:      "INV-2024-001",
		InvoiceDate: "2024-05-31",
		Amount:      decimal.NewFromInt(4200),
	})

	require.NoError(t, err)
	assert.False(t, resp.Paid)
	assert.Equal(t, "2024-05-31", resp.InvoiceDate.String())
}

func TestInvoiceService_MarkPaid(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to today", func(t *testing.T) {
		service, invoices, _ := newInvoiceServiceFixture(nil)
		invoice, _ := project.NewInvoice(uuid.New(), "INV-1", date("2024-05-01"), decimal.NewFromInt(100))
		invoices.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
		invoices.On("Save", ctx, invoice).Return(nil)

		resp, err := service.MarkPaid(ctx, invoice.ID, MarkInvoicePaidRequest{})

		require.NoError(t, err)
		assert.True(t, resp.Paid)
		require.NotNil(t, resp.PaidDate)
		assert.Equal(t, "2024-06-10", resp.PaidDate.String())
	})

	t.Run("rejects paying twice", func(t *testing.T) {
		service, invoices, _ := newInvoiceServiceFixture(nil)
		invoice, _ := project.NewInvoice(uuid.New(), "INV-1", date("2024-05-01"), decimal.NewFromInt(100))
		require.NoError(t, invoice.MarkPaid(date("2024-05-20")))
		invoices.On("FindByID", ctx, invoice.ID).Return(invoice, nil)

		_, err := service.MarkPaid(ctx, invoice.ID, MarkInvoicePaidRequest{PaidDate: "2024-06-01"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestInvoiceService_UploadDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("stores document and replaces previous one", func(t *testing.T) {
		store := storage.NewMemoryObjectStorage("")
		service, invoices, _ := newInvoiceServiceFixture(store)
		invoice, _ := project.NewInvoice(uuid.New(), "INV-1", date("2024-05-01"), decimal.NewFromInt(100))
		oldKey := storage.InvoiceDocumentKey(invoice.ID, "old.pdf")
		oldURL, err := store.Put(ctx, oldKey, strings.NewReader("old"), 3, "application/pdf")
		require.NoError(t, err)
		invoice.AttachDocument(oldURL)

		invoices.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
		invoices.On("Save", ctx, invoice).Return(nil)

		resp, err := service.UploadDocument(ctx, invoice.ID, UploadDocumentRequest{
			Filename:    "May invoice.pdf",
			ContentType: "application/pdf",
			Size:        7,
		}, strings.NewReader("%PDF-1.7"))

		require.NoError(t, err)
		require.NotNil(t, resp.DocumentURL)
		assert.Equal(t, store.ObjectURL("invoices/"+invoice.ID.String()+"/May_invoice.pdf"), *resp.DocumentURL)

		obj, err := store.Get("invoices/" + invoice.ID.String() + "/May_invoice.pdf")
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", obj.ContentType)

		exists, err := store.Exists(ctx, oldKey)
		require.NoError(t, err)
		assert.False(t, exists, "previous document is removed")
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		service, invoices, _ := newInvoiceServiceFixture(storage.NewMemoryObjectStorage(""))

		_, err := service.UploadDocument(ctx, uuid.New(), UploadDocumentRequest{
			Filename:    "macro.xlsm",
			ContentType: "application/vnd.ms-excel",
		}, strings.NewReader("x"))

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_FILE_TYPE", domainErr.Code)
		invoices.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("no store configured", func(t *testing.T) {
		service, _, _ := newInvoiceServiceFixture(nil)

		_, err := service.UploadDocument(ctx, uuid.New(), UploadDocumentRequest{ContentType: "application/pdf"}, strings.NewReader("x"))

		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})
}

func TestInvoiceService_Delete_RemovesDocument(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryObjectStorage("")
	service, invoices, _ := newInvoiceServiceFixture(store)
	queue := &recordingQueue{}
	service.SetRefreshQueue(queue)

	invoice, _ := project.NewInvoice(uuid.New(), "INV-1", date("2024-05-01"), decimal.NewFromInt(100))
	key := storage.InvoiceDocumentKey(invoice.ID, "scan.png")
	url, err := store.Put(ctx, key, strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)
	invoice.AttachDocument(url)

	invoices.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
	invoices.On("Delete", ctx, invoice.ID).Return(nil)

	require.NoError(t, service.Delete(ctx, invoice.ID))

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, []uuid.UUID{invoice.ProjectID}, queue.Enqueued())
}

func TestExpenseService_Create(t *testing.T) {
	ctx := context.Background()
	expenses := new(MockExpenseRepository)
	projects := new(MockProjectRepository)
	logs := new(MockDailyLogRepository)
	service := NewExpenseService(expenses, projects, logs)

	p := newTestProject("2024-01-01", "")
	projects.On("FindByID", ctx, p.ID).Return(p, nil)

	t.Run("rejects a daily log from another project", func(t *testing.T) {
		log, _ := project.NewDailyLog(uuid.New(), date("2024-06-01"), decimal.NewFromInt(8))
		logs.On("FindByID", ctx, log.ID).Return(log, nil)

		_, err := service.Create(ctx, CreateExpenseRequest{
			ProjectID:   p.ID,
			ExpenseDate: "2024-06-01",
			Amount:      decimal.NewFromInt(80),
			DailyLogID:  &log.ID,
		})

		assert.ErrorIs(t, err, ErrProjectMismatch)
	})

	t.Run("company paid requires submitted", func(t *testing.T) {
		_, err := service.Create(ctx, CreateExpenseRequest{
			ProjectID:   p.ID,
			ExpenseDate: "2024-06-01",
			Amount:      decimal.NewFromInt(80),
			CompanyPaid: true,
		})

		assert.Error(t, err)
		expenses.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("creates submitted expense", func(t *testing.T) {
		expenses.On("Save", ctx, mock.AnythingOfType("*project.Expense")).Return(nil).Once()

		resp, err := service.Create(ctx, CreateExpenseRequest{
			ProjectID:          p.ID,
			ExpenseDate:        "2024-06-01",
			Amount:             decimal.NewFromFloat(80.25),
			Billable:           true,
			Category:           "travel",
			SubmittedToCompany: true,
		})

		require.NoError(t, err)
		assert.True(t, resp.SubmittedToCompany)
		assert.False(t, resp.CompanyPaid)
		assert.Equal(t, "travel", resp.Category)
	})
}
