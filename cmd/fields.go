package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/feedcheck-cli/internal/format"
	"github.com/KaramelBytes/feedcheck-cli/internal/schema"
	"github.com/KaramelBytes/feedcheck-cli/internal/utils"
)

var (
	fieldsCatalog string
	fieldsExport  string
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List catalog fields, required first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(fieldsCatalog)
		if err != nil {
			return err
		}
		if fieldsExport != "" {
			b, err := cat.Marshal()
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(fieldsExport, b); err != nil {
				return fmt.Errorf("write catalog: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d fields to %s\n", len(cat.Fields), fieldsExport)
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Catalog %s (%d fields)\n", cat.Version, len(cat.Fields))
		var tier schema.Necessity
		for _, f := range cat.Sorted() {
			if f.Necessity != tier {
				tier = f.Necessity
				fmt.Fprintf(out, "\n[%s]\n", strings.ToUpper(string(tier)))
			}
			fmt.Fprintf(out, "- %s (%s)", f.Name, f.Type)
			if f.Validation != nil {
				fmt.Fprintf(out, " %s", bounds(f.Validation))
			}
			if f.Description != "" {
				fmt.Fprintf(out, ": %s", f.Description)
			}
			if len(f.Aliases) > 0 {
				fmt.Fprintf(out, " [aliases: %s]", strings.Join(f.Aliases, ", "))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func bounds(b *schema.Bounds) string {
	lo, hi := "-inf", "+inf"
	if b.Min != nil {
		lo = format.Number(*b.Min)
	}
	if b.Max != nil {
		hi = format.Number(*b.Max)
	}
	return "[" + lo + ", " + hi + "]"
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
	fieldsCmd.Flags().StringVar(&fieldsCatalog, "catalog", "", "YAML field catalog (default: built-in product feed catalog)")
	fieldsCmd.Flags().StringVar(&fieldsExport, "export", "", "write the catalog as YAML to this path")
}
