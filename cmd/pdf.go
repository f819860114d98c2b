package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var pdfOut string

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Export the period's schedule as a PDF document",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager("pdf-command")
		if err != nil {
			return err
		}
		f, err := os.Create(pdfOut)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		if err := mgr.ExportPDF(context.Background(), f); err != nil {
			return err
		}
		fmt.Printf("schedule %s written to %s\n", mgr.Period(), pdfOut)
		return nil
	},
}

func init() {
	pdfCmd.Flags().StringVarP(&pdfOut, "output", "o", "escala.pdf", "output file path")
	rootCmd.AddCommand(pdfCmd)
}
