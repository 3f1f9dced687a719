package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/notification"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show notification totals across the portfolio",
	RunE:  runSummary,
}

var flagPreviewToday string

var previewCmd = &cobra.Command{
	Use:   "preview <project-id>",
	Short: "Derive a project's notifications without storing them",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&flagPreviewToday, "today", "", "Evaluate as of this date (YYYY-MM-DD)")
	rootCmd.AddCommand(summaryCmd, previewCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.notificationService().Summary(cmd.Context())
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(res)
	}

	fmt.Printf("  Projects: %d (%d with alerts)\n", res.ProjectCount, res.ProjectsWithAlerts)
	fmt.Printf("  Overdue amount: %s\n\n", res.OverdueAmount.StringFixed(2))
	printRows(res.Totals)
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid project id %q", args[0])
	}
	var today *shared.Date
	if flagPreviewToday != "" {
		d, err := shared.ParseDate(flagPreviewToday)
		if err != nil {
			return fmt.Errorf("invalid --today %q: %w", flagPreviewToday, err)
		}
		today = &d
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.notificationService().Preview(cmd.Context(), id, today)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(res)
	}

	fmt.Printf("  %s as of %s: %s\n\n", res.ProjectID, res.Today, res.Bucket)
	for _, n := range res.Notifications {
		fmt.Printf("  %-20s %s\n", n.KindLabel, n.Message)
	}
	if len(res.Notifications) > 0 {
		fmt.Println()
	}
	printRows(res.Totals)
	return nil
}

func printRows(rows []notification.Row) {
	fmt.Printf("  %-20s %6s %14s\n", "Kind", "Count", "Amount")
	for _, r := range rows {
		fmt.Printf("  %-20s %6d %14s\n", r.Label, r.Count, r.Amount.StringFixed(2))
	}
}
