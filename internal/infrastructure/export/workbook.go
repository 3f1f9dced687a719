// Package export renders notification reports as Excel workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/opsboard/backend/internal/domain/notification"
	"github.com/xuri/excelize/v2"
)

// Sheet names in the generated workbook
const (
	SheetNotifications = "Notifications"
	SheetSummary       = "Summary"
)

// ContentType is the MIME type of the generated workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var notificationHeaders = []any{"Project Code", "Project Name", "Kind", "Related Date", "Count", "Amount", "Message"}

// NotificationRow is a notification with the project columns it is reported under
type NotificationRow struct {
	ProjectCode  string
	ProjectName  string
	Notification notification.Notification
}

// FileName returns the download name for a report generated at the given time
func FileName(at time.Time) string {
	return fmt.Sprintf("notifications-%s.xlsx", at.Format("20060102-1504"))
}

// WriteWorkbook writes the notification list and the portfolio summary to w
func WriteWorkbook(w io.Writer, rows []NotificationRow, summary notification.PortfolioSummary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetNotifications); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	amount, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr("#,##0.00")})
	if err != nil {
		return err
	}

	if err := writeNotifications(f, rows, header, amount); err != nil {
		return fmt.Errorf("failed to write %s sheet: %w", SheetNotifications, err)
	}
	if err := writeSummary(f, summary, header, amount); err != nil {
		return fmt.Errorf("failed to write %s sheet: %w", SheetSummary, err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeNotifications(f *excelize.File, rows []NotificationRow, header, amount int) error {
	if err := f.SetSheetRow(SheetNotifications, "A1", &notificationHeaders); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetNotifications, 1, 1, header); err != nil {
		return err
	}

	for i, r := range rows {
		n := r.Notification
		related := ""
		if n.RelatedDate != nil {
			related = n.RelatedDate.String()
		}
		values := []any{r.ProjectCode, r.ProjectName, n.Kind.Label(), related, n.Count, n.Amount.InexactFloat64(), n.Message}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetNotifications, cell, &values); err != nil {
			return err
		}
	}

	if len(rows) > 0 {
		if err := f.SetCellStyle(SheetNotifications, "F2", fmt.Sprintf("F%d", len(rows)+1), amount); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetNotifications, "A", "B", 18); err != nil {
		return err
	}
	return f.SetColWidth(SheetNotifications, "G", "G", 60)
}

func writeSummary(f *excelize.File, s notification.PortfolioSummary, header, amount int) error {
	if err := f.SetSheetRow(SheetSummary, "A1", &[]any{"Kind", "Count", "Amount"}); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetSummary, 1, 1, header); err != nil {
		return err
	}

	row := 2
	for _, r := range s.Totals.Rows() {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetSummary, cell, &[]any{r.Label, r.Count, r.Amount.InexactFloat64()}); err != nil {
			return err
		}
		row++
	}
	if err := f.SetCellStyle(SheetSummary, "C2", fmt.Sprintf("C%d", row-1), amount); err != nil {
		return err
	}

	row++
	meta := [][]any{
		{"Projects", s.ProjectCount},
		{"Projects with alerts", s.ProjectsWithAlerts},
		{"Generated at", s.GeneratedAt.Format(time.RFC3339)},
	}
	for _, m := range meta {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetSummary, cell, &m); err != nil {
			return err
		}
		row++
	}
	return f.SetColWidth(SheetSummary, "A", "A", 22)
}

func ptr[T any](v T) *T {
	return &v
}
