package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/feedcheck-cli/internal/feed"
	"github.com/KaramelBytes/feedcheck-cli/internal/report"
	"github.com/KaramelBytes/feedcheck-cli/internal/schema"
)

// feedFlags are the reading and catalog flags shared by analyze, analyze-batch and validate.
// Empty or unchanged flags fall back to the loaded config.
type feedFlags struct {
	delimiter     string
	decimal       string
	thousands     string
	maxRows       int
	sheetName     string
	sheetIndex    int
	catalog       string
	canonicalOnly bool
}

func (f *feedFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (sniffed if omitted)")
	fs.StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	fs.StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	fs.IntVar(&f.maxRows, "max-rows", 100000, "maximum rows to process (0 = unlimited)")
	fs.StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	fs.IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	fs.StringVar(&f.catalog, "catalog", "", "YAML field catalog (default: built-in product feed catalog)")
	fs.BoolVar(&f.canonicalOnly, "canonical-only", false, "match catalog fields by canonical name only, ignoring aliases")
}

func (f *feedFlags) readOptions(cmd *cobra.Command) (feed.Options, error) {
	c := settings()
	opt := feed.DefaultOptions()
	opt.MaxRows = c.MaxRows
	if cmd.Flags().Changed("max-rows") {
		opt.MaxRows = f.maxRows
	}
	if opt.MaxRows < 0 {
		return opt, fmt.Errorf("invalid --max-rows: %d", opt.MaxRows)
	}
	opt.SheetName = firstNonEmpty(f.sheetName, c.SheetName)
	opt.SheetIndex = c.SheetIndex
	if cmd.Flags().Changed("sheet-index") {
		opt.SheetIndex = f.sheetIndex
	}
	d, err := parseDelimiter(firstNonEmpty(f.delimiter, c.Delimiter))
	if err != nil {
		return opt, err
	}
	opt.Delimiter = d
	return opt, nil
}

func (f *feedFlags) numberFormat() (feed.NumberFormat, error) {
	c := settings()
	var nf feed.NumberFormat
	dec, err := parseDecimal(firstNonEmpty(f.decimal, c.DecimalSeparator))
	if err != nil {
		return nf, err
	}
	thou, err := parseThousands(firstNonEmpty(f.thousands, c.ThousandsSeparator))
	if err != nil {
		return nf, err
	}
	if dec != 0 && dec == thou {
		return nf, fmt.Errorf("decimal and thousands separators must differ")
	}
	nf.DecimalSeparator, nf.ThousandsSeparator = dec, thou
	return nf, nil
}

func (f *feedFlags) loadCatalog() (*schema.Catalog, error) {
	return loadCatalog(f.catalog)
}

func (f *feedFlags) aliasMode() schema.AliasMode {
	if f.canonicalOnly || settings().AliasMode == "canonical" {
		return schema.CanonicalOnly
	}
	return schema.ResolveAliases
}

// loadCatalog reads the catalog from path, the configured catalog_file, or the built-in default.
func loadCatalog(path string) (*schema.Catalog, error) {
	path = firstNonEmpty(path, settings().CatalogFile)
	if path == "" {
		return schema.DefaultCatalog(), nil
	}
	c, err := schema.LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("catalog %s: version %s, %d fields", path, c.Version, len(c.Fields))
	return c, nil
}

// analyzeFile reads one feed and builds its report.
func analyzeFile(cmd *cobra.Command, f *feedFlags, path string, negativeLimit int) (*report.FeedReport, error) {
	opt, err := f.readOptions(cmd)
	if err != nil {
		return nil, err
	}
	nf, err := f.numberFormat()
	if err != nil {
		return nil, err
	}
	cat, err := f.loadCatalog()
	if err != nil {
		return nil, err
	}
	t, err := feed.ReadFile(path, opt)
	if err != nil {
		return nil, err
	}
	for _, w := range t.Warnings {
		logger.Info("%s: %s", t.Name, w)
	}
	return report.Build(t, report.Options{
		Catalog:       cat,
		AliasMode:     f.aliasMode(),
		Numbers:       nf,
		NegativeLimit: negativeLimit,
		Log:           logger,
	}), nil
}

// outputFormat picks the flag value, then the configured format.
func outputFormat(flag string) (string, error) {
	v := strings.ToLower(firstNonEmpty(flag, settings().Format, "markdown"))
	switch v {
	case "markdown", "md":
		return "markdown", nil
	case "json", "html":
		return v, nil
	default:
		return "", fmt.Errorf("unsupported --format: %s (use markdown, json or html)", flag)
	}
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab", `\t`:
		return '\t', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s", s)
	}
}

func parseDecimal(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ",", "comma":
		return ',', nil
	case ".", "dot":
		return '.', nil
	case "":
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", s)
	}
}

func parseThousands(s string) (rune, error) {
	if s == " " {
		return ' ', nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ",":
		return ',', nil
	case ".":
		return '.', nil
	case "space":
		return ' ', nil
	case "'":
		return '\'', nil
	case "":
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", s)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
