package notification

// Kind identifies what a notification is about
type Kind string

const (
	KindInvalidDateRange Kind = "invalid_date_range"
	KindOverdueTotal     Kind = "overdue_total"
	KindOverduePayment   Kind = "overdue_payment"
	KindMissingInvoice   Kind = "missing_invoice"
	KindMissingLog       Kind = "missing_log"
)

// AllKinds returns every kind in display order
func AllKinds() []Kind {
	return []Kind{
		KindInvalidDateRange,
		KindOverdueTotal,
		KindOverduePayment,
		KindMissingInvoice,
		KindMissingLog,
	}
}

// IsValid checks if the kind is a known value
func (k Kind) IsValid() bool {
	return k.rank() >= 0
}

// String returns the string representation
func (k Kind) String() string {
	return string(k)
}

// Label returns a short human readable name
func (k Kind) Label() string {
	switch k {
	case KindInvalidDateRange:
		return "Invalid date range"
	case KindOverdueTotal:
		return "Overdue total"
	case KindOverduePayment:
		return "Overdue payment"
	case KindMissingInvoice:
		return "Missing invoice"
	case KindMissingLog:
		return "Missing log"
	}
	return string(k)
}

func (k Kind) rank() int {
	for i, kind := range AllKinds() {
		if kind == k {
			return i
		}
	}
	return -1
}
