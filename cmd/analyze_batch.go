package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/feedcheck-cli/internal/report"
	"github.com/KaramelBytes/feedcheck-cli/internal/utils"
)

var (
	abOutDir        string
	abFormat        string
	abNegativeLimit int
	abWorkers       int
	abQuiet         bool
	abFlags         feedFlags
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX feeds concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}

		c := settings()
		format, err := outputFormat(abFormat)
		if err != nil {
			return err
		}
		limit := c.NegativeMarginLimit
		if cmd.Flags().Changed("negative-limit") {
			limit = abNegativeLimit
		}
		workers := c.Workers
		if cmd.Flags().Changed("workers") {
			workers = abWorkers
		}
		if workers < 1 {
			workers = 1
		}
		outDir := firstNonEmpty(abOutDir, c.OutputDir)

		// Names are assigned up front so collisions resolve in input order.
		var names []string
		if outDir != "" {
			if err := utils.EnsureDir(outDir); err != nil {
				return fmt.Errorf("create out dir: %w", err)
			}
			names = reportNames(files, outDir, report.Extension(format), abFlags.sheetName)
		}

		outputs := make([][]byte, len(files))
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(workers)
		for i, path := range files {
			i, path := i, path
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				logger.Debug("analyzing %s", path)
				rep, err := analyzeFile(cmd, &abFlags, path, limit)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				out, err := rep.Render(format)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if names != nil {
					if err := utils.SafeWriteFile(filepath.Join(outDir, names[i]), out); err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
				}
				outputs[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		total := len(files)
		for i, path := range files {
			switch {
			case names != nil:
				if !abQuiet {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ [%d/%d] %s -> %s\n", i+1, total, filepath.Base(path), names[i])
				}
			case !abQuiet:
				fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] %s\n", i+1, total, filepath.Base(path))
				fmt.Fprintln(cmd.OutOrStdout(), string(outputs[i]))
			}
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, drops duplicates and sorts.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// reportNames assigns "<base>.report.<ext>" per input, adding "__2", "__3", ... when the
// name already exists in dir or was given to an earlier input.
func reportNames(files []string, dir, ext, sheetName string) []string {
	assigned := map[string]bool{}
	taken := func(name string) bool {
		if assigned[name] {
			return true
		}
		_, err := os.Stat(filepath.Join(dir, name))
		return err == nil
	}
	names := make([]string, len(files))
	for i, path := range files {
		name := utils.ReportName(path, ext)
		if sheetName != "" {
			base := strings.TrimSuffix(name, ".report."+ext)
			name = base + "__sheet-" + sheetSlug(sheetName) + ".report." + ext
		}
		unique := utils.UniqueName(name, taken)
		if unique != name {
			logger.Warn("report %s exists, writing %s to avoid overwrite", name, unique)
		}
		assigned[unique] = true
		names[i] = unique
	}
	return names
}

func sheetSlug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' {
			b.WriteRune('-')
		}
	}
	ss := strings.Trim(b.String(), "-")
	if ss == "" {
		ss = "sheet"
	}
	return ss
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory to write <name>.report.<ext> files (default: print)")
	analyzeBatchCmd.Flags().StringVar(&abFormat, "format", "", "report format: markdown | json | html (default from config)")
	analyzeBatchCmd.Flags().IntVar(&abNegativeLimit, "negative-limit", 20, "max negative-margin products to list (0 = all)")
	analyzeBatchCmd.Flags().IntVar(&abWorkers, "workers", 4, "number of feeds analyzed concurrently")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	abFlags.register(analyzeBatchCmd)
}
