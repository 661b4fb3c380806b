package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir ensures the provided directory exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := EnsureDir(dir); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}

// ReportName returns "<base>.report.<ext>" for a feed path, where base drops the feed's extension.
func ReportName(feedPath, ext string) string {
	base := filepath.Base(feedPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ".report." + strings.TrimPrefix(ext, ".")
}

// UniqueName returns name, or name with a "__N" suffix before its extensions when
// taken reports it as already used. The first suffix is "__2".
func UniqueName(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}
	stem, rest := name, ""
	if i := strings.Index(name, ".report."); i >= 0 {
		stem, rest = name[:i], name[i:]
	} else if ext := filepath.Ext(name); ext != "" {
		stem, rest = strings.TrimSuffix(name, ext), ext
	}
	for n := 2; ; n++ {
		cand := fmt.Sprintf("%s__%d%s", stem, n, rest)
		if !taken(cand) {
			return cand
		}
	}
}
