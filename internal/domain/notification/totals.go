package notification

import (
	"github.com/shopspring/decimal"
)

// KindTotal is the aggregated count and amount for one kind
type KindTotal struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// Add returns the sum of two kind totals
func (t KindTotal) Add(other KindTotal) KindTotal {
	return KindTotal{
		Count:  t.Count + other.Count,
		Amount: t.Amount.Add(other.Amount),
	}
}

// Totals holds per-kind aggregates. The nil value is the zero total.
type Totals map[Kind]KindTotal

// Summarize aggregates a list of notifications
func Summarize(notifications []Notification) Totals {
	t := Totals{}
	for _, n := range notifications {
		t[n.Kind] = t.Get(n.Kind).Add(KindTotal{Count: n.Count, Amount: n.Amount})
	}
	return t
}

// Get returns the total for a kind, zero when absent
func (t Totals) Get(kind Kind) KindTotal {
	if kt, ok := t[kind]; ok {
		return kt
	}
	return KindTotal{Amount: decimal.Zero}
}

// Merge returns a new Totals holding the per-kind sums of t and other.
// Merge is associative and commutative and leaves both inputs untouched.
func Merge(a, b Totals) Totals {
	out := make(Totals, len(a)+len(b))
	for k, v := range a {
		out[k] = out.Get(k).Add(v)
	}
	for k, v := range b {
		out[k] = out.Get(k).Add(v)
	}
	return out
}

// Aggregate folds any number of totals into one. No input yields zero totals.
func Aggregate(totals ...Totals) Totals {
	out := Totals{}
	for _, t := range totals {
		out = Merge(out, t)
	}
	return out
}

// Equal compares two totals, treating missing kinds as zero
func (t Totals) Equal(other Totals) bool {
	for _, k := range AllKinds() {
		a, b := t.Get(k), other.Get(k)
		if a.Count != b.Count || !a.Amount.Equal(b.Amount) {
			return false
		}
	}
	return true
}

// IsZero reports whether every kind is zero
func (t Totals) IsZero() bool {
	return t.Equal(nil)
}

// OverdueAmount is the portfolio overdue amount
func (t Totals) OverdueAmount() decimal.Decimal {
	return t.Get(KindOverdueTotal).Amount
}

// Row is one kind's total in display order
type Row struct {
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`
	KindTotal
}

// Rows lists every kind, including zero ones, in display order
func (t Totals) Rows() []Row {
	rows := make([]Row, 0, len(AllKinds()))
	for _, k := range AllKinds() {
		rows = append(rows, Row{Kind: k, Label: k.Label(), KindTotal: t.Get(k)})
	}
	return rows
}
