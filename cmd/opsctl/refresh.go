package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var flagRefreshProject string

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recompute cached notifications for one project or the whole portfolio",
	RunE:  runRefresh,
}

func init() {
	refreshCmd.Flags().StringVarP(&flagRefreshProject, "project", "p", "", "Project ID (default: every project)")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()
	svc := a.notificationService()

	if flagRefreshProject != "" {
		id, err := uuid.Parse(flagRefreshProject)
		if err != nil {
			return fmt.Errorf("invalid project id %q", flagRefreshProject)
		}
		res, err := svc.RefreshProject(ctx, id)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(res)
		}
		fmt.Printf("  %s: %d notifications\n", res.ProjectID, res.Notifications)
		return nil
	}

	res, err := svc.RefreshAll(ctx)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(res)
	}
	fmt.Printf("  Refreshed %d of %d projects\n", res.Refreshed, res.Projects)
	for _, id := range res.Failed {
		fmt.Printf("  failed: %s\n", id)
	}
	if len(res.Failed) > 0 {
		return fmt.Errorf("%d projects failed to refresh", len(res.Failed))
	}
	return nil
}
