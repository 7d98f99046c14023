package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/kickout/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the stored kickout log to a spreadsheet",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "kickouts.xlsx", "output file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	log, err := loadLog(cmd.Context())
	if err != nil {
		return err
	}
	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOut, err)
	}
	if err := export.WriteXLSX(f, log); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", exportOut, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d kickouts to %s\n", len(log), exportOut)
	return nil
}
