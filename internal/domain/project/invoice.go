package project

import (
	"strings"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Invoice is a bill issued to the project's company
type Invoice struct {
	shared.BaseEntity
	ProjectID   uuid.UUID
	Number      string
	InvoiceDate shared.Date
	Amount      decimal.Decimal
	Paid        bool
	PaidDate    *shared.Date
	DocumentURL *string
}

// NewInvoice creates an unpaid invoice
func NewInvoice(projectID uuid.UUID, number string, invoiceDate shared.Date, amount decimal.Decimal) (*Invoice, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project is required")
	}
	number = strings.TrimSpace(number)
	if len(number) > 50 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if invoiceDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Invoice date is required")
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	return &Invoice{
		BaseEntity:  shared.NewBaseEntity(),
		ProjectID:   projectID,
		Number:      number,
		InvoiceDate: invoiceDate,
		Amount:      amount,
	}, nil
}

// Update replaces the editable fields
func (i *Invoice) Update(number string, invoiceDate shared.Date, amount decimal.Decimal) error {
	number = strings.TrimSpace(number)
	if len(number) > 50 {
		return shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if invoiceDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Invoice date is required")
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	i.Number = number
	i.InvoiceDate = invoiceDate
	i.Amount = amount
	i.Touch()
	return nil
}

// MarkPaid records payment on the given date
func (i *Invoice) MarkPaid(on shared.Date) error {
	if i.Paid {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already paid")
	}
	if on.Before(i.InvoiceDate) {
		return shared.NewDomainError("INVALID_DATE", "Paid date cannot precede the invoice date")
	}
	i.Paid = true
	i.PaidDate = &on
	i.Touch()
	return nil
}

// MarkUnpaid reverts a recorded payment
func (i *Invoice) MarkUnpaid() {
	i.Paid = false
	i.PaidDate = nil
	i.Touch()
}

// AttachDocument sets the stored document location
func (i *Invoice) AttachDocument(url string) {
	i.DocumentURL = &url
	i.Touch()
}
