package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/feedcheck-cli/internal/utils"
)

var (
	anaOutputPath    string
	anaFormat        string
	anaNegativeLimit int
	anaFlags         feedFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Validate a CSV/TSV/XLSX feed and report cost and margin distributions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(anaFormat)
		if err != nil {
			return err
		}
		limit := settings().NegativeMarginLimit
		if cmd.Flags().Changed("negative-limit") {
			limit = anaNegativeLimit
		}
		rep, err := analyzeFile(cmd, &anaFlags, args[0], limit)
		if err != nil {
			return err
		}
		out, err := rep.Render(format)
		if err != nil {
			return err
		}

		// --output path, or stdout
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", anaOutputPath)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
		}
		if !rep.Validation.IsValid {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: missing required fields: %v\n", rep.Validation.MissingRequired)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "", "report format: markdown | json | html (default from config)")
	analyzeCmd.Flags().IntVar(&anaNegativeLimit, "negative-limit", 20, "max negative-margin products to list (0 = all)")
	anaFlags.register(analyzeCmd)
}
