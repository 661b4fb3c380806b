package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/feedcheck-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set feedcheck configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		for _, key := range cfgpkg.Keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", key, configValue(cfg, key))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		next := *cfg
		switch key {
		case "catalog_file":
			next.CatalogFile = val
		case "alias_mode":
			next.AliasMode = val
		case "format":
			next.Format = val
		case "output_dir":
			next.OutputDir = val
		case "negative_margin_limit", "workers", "max_rows", "sheet_index":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			switch key {
			case "negative_margin_limit":
				next.NegativeMarginLimit = i
			case "workers":
				next.Workers = i
			case "max_rows":
				next.MaxRows = i
			case "sheet_index":
				next.SheetIndex = i
			}
		case "delimiter":
			if _, err := parseDelimiter(val); err != nil {
				return err
			}
			next.Delimiter = val
		case "decimal_separator":
			if _, err := parseDecimal(val); err != nil {
				return err
			}
			next.DecimalSeparator = val
		case "thousands_separator":
			if _, err := parseThousands(val); err != nil {
				return err
			}
			next.ThousandsSeparator = val
		case "sheet_name":
			next.SheetName = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := next.Check(); err != nil {
			return err
		}
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		cfg = &next
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func configValue(c *cfgpkg.Global, key string) string {
	switch key {
	case "catalog_file":
		return orDefault(c.CatalogFile, "(built-in)")
	case "alias_mode":
		return c.AliasMode
	case "format":
		return c.Format
	case "output_dir":
		return orDefault(c.OutputDir, "(stdout)")
	case "negative_margin_limit":
		return strconv.Itoa(c.NegativeMarginLimit)
	case "workers":
		return strconv.Itoa(c.Workers)
	case "delimiter":
		if c.Delimiter == "" {
			return "(sniffed)"
		}
		return strconv.Quote(c.Delimiter)
	case "decimal_separator":
		return orDefault(c.DecimalSeparator, "(auto)")
	case "thousands_separator":
		return orDefault(c.ThousandsSeparator, "(auto)")
	case "max_rows":
		return strconv.Itoa(c.MaxRows)
	case "sheet_name":
		return c.SheetName
	case "sheet_index":
		return strconv.Itoa(c.SheetIndex)
	default:
		return ""
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
