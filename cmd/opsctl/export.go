package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write cached notifications and totals to an Excel workbook",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file or directory (default: generated name in ./)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	tmp, err := os.CreateTemp(".", ".opsctl-export-*.xlsx")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	name, err := a.notificationService().Export(cmd.Context(), tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	dest := name
	if flagExportOut != "" {
		dest = flagExportOut
		if info, err := os.Stat(dest); err == nil && info.IsDir() {
			dest = filepath.Join(dest, name)
		}
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	fmt.Printf("  Wrote %s\n", dest)
	return nil
}
