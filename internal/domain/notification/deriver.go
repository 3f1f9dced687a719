package notification

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/project"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Snapshot is the set of rows a derivation reads for one project
type Snapshot struct {
	Project  project.Project
	Logs     []project.DailyLog
	Expenses []project.Expense
	Invoices []project.Invoice
}

// Deriver computes notifications from project snapshots.
// It holds no state besides its policy and is safe for concurrent use.
type Deriver struct {
	policy Policy
}

// NewDeriver creates a deriver with the given policy
func NewDeriver(policy Policy) *Deriver {
	return &Deriver{policy: policy}
}

// Policy returns the deriver's policy
func (d *Deriver) Policy() Policy {
	return d.policy
}

// Derive returns the notifications for a snapshot as of today, in a stable order.
// The same snapshot, day and policy always yield the same result.
func (d *Deriver) Derive(s Snapshot, today shared.Date) []Notification {
	p := s.Project
	var out []Notification

	validRange := p.HasValidDateRange()
	if !validRange {
		out = append(out, invalidDateRange(p))
	}

	out = append(out, d.overdue(s, today)...)

	if validRange {
		out = append(out, missingInvoices(s, today)...)
		if p.Status == project.StatusOngoing {
			out = append(out, d.missingLogs(s, today)...)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func invalidDateRange(p project.Project) Notification {
	end := *p.EndDate
	return newNotification(KindInvalidDateRange, p.ID, &end, nil,
		fmt.Sprintf("End date %s is before start date %s", p.EndDate, p.StartDate))
}

type overdueItem struct {
	ref     uuid.UUID
	date    shared.Date
	amount  decimal.Decimal
	message string
}

func (d *Deriver) overdue(s Snapshot, today shared.Date) []Notification {
	var items []overdueItem

	for _, e := range s.Expenses {
		if !e.AwaitingCompanyPayment() {
			continue
		}
		if days := e.ExpenseDate.DaysUntil(today); days > d.policy.GracePeriodDays {
			items = append(items, overdueItem{
				ref:    e.ID,
				date:   e.ExpenseDate,
				amount: e.Amount,
				message: fmt.Sprintf("Expense of %s from %s awaiting company payment for %d days",
					FormatAmount(e.Amount), e.ExpenseDate, days),
			})
		}
	}

	for _, inv := range s.Invoices {
		if inv.Paid {
			continue
		}
		if days := inv.InvoiceDate.DaysUntil(today); days > d.policy.GracePeriodDays {
			label := "Invoice"
			if inv.Number != "" {
				label = "Invoice " + inv.Number
			}
			items = append(items, overdueItem{
				ref:    inv.ID,
				date:   inv.InvoiceDate,
				amount: inv.Amount,
				message: fmt.Sprintf("%s of %s issued %s unpaid for %d days",
					label, FormatAmount(inv.Amount), inv.InvoiceDate, days),
			})
		}
	}

	if len(items) == 0 {
		return nil
	}

	out := make([]Notification, 0, len(items)+1)
	total := decimal.Zero
	oldest := items[0].date
	for _, it := range items {
		ref := it.ref
		date := it.date
		n := newNotification(KindOverduePayment, s.Project.ID, &date, &ref, it.message)
		n.Amount = it.amount
		out = append(out, n)

		total = total.Add(it.amount)
		if it.date.Before(oldest) {
			oldest = it.date
		}
	}

	sum := newNotification(KindOverdueTotal, s.Project.ID, &oldest, nil,
		fmt.Sprintf("%d overdue payment(s) totalling %s", len(items), FormatAmount(total)))
	sum.Count = len(items)
	sum.Amount = total
	return append(out, sum)
}

// missingInvoices flags calendar months from the start month through the last
// complete month (capped at the end month) that have no invoice dated in them.
func missingInvoices(s Snapshot, today shared.Date) []Notification {
	p := s.Project
	if p.StartDate == nil {
		return nil
	}

	last := shared.DateOf(today.StartOfMonth().Time().AddDate(0, -1, 0))
	if p.EndDate != nil && p.EndDate.StartOfMonth().Before(last) {
		last = p.EndDate.StartOfMonth()
	}

	invoiced := make(map[shared.Date]bool, len(s.Invoices))
	for _, inv := range s.Invoices {
		invoiced[inv.InvoiceDate.StartOfMonth()] = true
	}

	var out []Notification
	for month := p.StartDate.StartOfMonth(); !month.After(last); month = nextMonth(month) {
		if invoiced[month] {
			continue
		}
		m := month
		out = append(out, newNotification(KindMissingInvoice, p.ID, &m, nil,
			fmt.Sprintf("No invoice issued for %s %d", m.Month, m.Year)))
	}
	return out
}

// missingLogs flags days in the look-back window with no daily log.
// The window ends yesterday (or at the end date) and never reaches before the start date.
func (d *Deriver) missingLogs(s Snapshot, today shared.Date) []Notification {
	p := s.Project

	windowEnd := today.AddDays(-1)
	if p.EndDate != nil && p.EndDate.Before(windowEnd) {
		windowEnd = *p.EndDate
	}

	var windowStart shared.Date
	switch {
	case d.policy.MissingLogWindowDays > 0:
		windowStart = windowEnd.AddDays(-(d.policy.MissingLogWindowDays - 1))
		if p.StartDate != nil && p.StartDate.After(windowStart) {
			windowStart = *p.StartDate
		}
	case p.StartDate != nil:
		windowStart = *p.StartDate
	default:
		return nil
	}

	// Submitted marks a log as billed to the company; any filed log covers its day
	logged := make(map[shared.Date]bool, len(s.Logs))
	for _, l := range s.Logs {
		logged[l.LogDate] = true
	}

	var out []Notification
	for day := windowStart; !day.After(windowEnd); day = day.AddDays(1) {
		if logged[day] {
			continue
		}
		if d.policy.SkipWeekends && isWeekend(day) {
			continue
		}
		dd := day
		out = append(out, newNotification(KindMissingLog, p.ID, &dd, nil,
			fmt.Sprintf("No daily log for %s", dd)))
	}
	return out
}

func nextMonth(d shared.Date) shared.Date {
	return shared.DateOf(d.StartOfMonth().Time().AddDate(0, 1, 0))
}

func isWeekend(d shared.Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
