package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/feedcheck-cli/internal/feed"
	"github.com/KaramelBytes/feedcheck-cli/internal/report"
	"github.com/KaramelBytes/feedcheck-cli/internal/schema"
	"github.com/KaramelBytes/feedcheck-cli/internal/utils"
)

var (
	valStrict bool
	valJSON   bool
	valFlags  feedFlags
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a feed's columns against the field catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := valFlags.readOptions(cmd)
		if err != nil {
			return err
		}
		nf, err := valFlags.numberFormat()
		if err != nil {
			return err
		}
		cat, err := valFlags.loadCatalog()
		if err != nil {
			return err
		}
		t, err := feed.ReadFile(args[0], opt)
		if err != nil {
			return err
		}
		v := schema.NewValidator(cat, schema.WithAliasMode(valFlags.aliasMode()), schema.WithNumberFormat(nf))
		rep := v.ValidateTable(t)

		out := cmd.OutOrStdout()
		if valJSON {
			b, err := utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
		} else {
			if rep.IsValid {
				fmt.Fprintf(out, "✓ %s: all required fields present (%d rows)\n", t.Name, rep.TotalRows)
			} else {
				fmt.Fprintf(out, "✗ %s: missing required fields: %s\n", t.Name, strings.Join(rep.MissingRequired, ", "))
			}
			if len(rep.MissingPreferred) > 0 {
				fmt.Fprintf(out, "⚠ Missing preferred fields: %s\n", strings.Join(rep.MissingPreferred, ", "))
			}
			if len(rep.UnmappedColumns) > 0 {
				fmt.Fprintf(out, "Unmapped columns: %s\n", strings.Join(rep.UnmappedColumns, ", "))
			}
			var b strings.Builder
			report.WriteFields(&b, rep)
			fmt.Fprint(out, b.String())
			for _, w := range t.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", w)
			}
		}
		if valStrict && !rep.IsValid {
			return fmt.Errorf("feed %s is missing required fields: %s", t.Name, strings.Join(rep.MissingRequired, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&valStrict, "strict", false, "exit with an error when required fields are missing")
	validateCmd.Flags().BoolVar(&valJSON, "json", false, "print the validation report as JSON")
	valFlags.register(validateCmd)
}
