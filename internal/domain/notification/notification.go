package notification

import (
	"strings"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// idNamespace seeds name-based notification IDs so identical inputs produce identical IDs
var idNamespace = uuid.MustParse("6f1c3a52-8d0e-4b7a-9a41-2f5d7c0e9b13")

// Notification is a derived alert about missing or overdue project data.
// It is never mutated after derivation; a refresh replaces it.
type Notification struct {
	ID          uuid.UUID
	Kind        Kind
	ProjectID   uuid.UUID
	Message     string
	RelatedDate *shared.Date
	// Count is 1 except for OverdueTotal, where it is the number of overdue items.
	Count  int
	Amount decimal.Decimal
	// RefID points at the source expense or invoice when there is one.
	RefID *uuid.UUID
}

func newNotification(kind Kind, projectID uuid.UUID, related *shared.Date, ref *uuid.UUID, message string) Notification {
	return Notification{
		ID:          notificationID(kind, projectID, related, ref),
		Kind:        kind,
		ProjectID:   projectID,
		Message:     message,
		RelatedDate: related,
		Count:       1,
		Amount:      decimal.Zero,
		RefID:       ref,
	}
}

func notificationID(kind Kind, projectID uuid.UUID, related *shared.Date, ref *uuid.UUID) uuid.UUID {
	var b strings.Builder
	b.WriteString(projectID.String())
	b.WriteByte('|')
	b.WriteString(string(kind))
	b.WriteByte('|')
	if related != nil {
		b.WriteString(related.String())
	}
	b.WriteByte('|')
	if ref != nil {
		b.WriteString(ref.String())
	}
	return uuid.NewSHA1(idNamespace, []byte(b.String()))
}

// less orders notifications by kind, related date, then ID
func less(a, b Notification) bool {
	if a.ProjectID != b.ProjectID {
		return a.ProjectID.String() < b.ProjectID.String()
	}
	if a.Kind != b.Kind {
		return a.Kind.rank() < b.Kind.rank()
	}
	switch {
	case a.RelatedDate == nil && b.RelatedDate != nil:
		return true
	case a.RelatedDate != nil && b.RelatedDate == nil:
		return false
	case a.RelatedDate != nil && b.RelatedDate != nil && *a.RelatedDate != *b.RelatedDate:
		return a.RelatedDate.Before(*b.RelatedDate)
	}
	return a.ID.String() < b.ID.String()
}
