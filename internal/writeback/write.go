package writeback

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile stores content at path atomically: content is written to a temp
// file in the same directory first, then renamed. An existing file keeps its
// permissions; a new one gets 0o644.
func WriteFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".jsxz-out-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("close temp: %w", err)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	_ = os.Chmod(tmpName, mode) // best-effort permission sync

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("rename temp to %s: %w", path, err)
	}
	return nil
}

// OutputPath maps an input unit to its output file: the extension becomes
// ext, and the file moves under outDir (keeping its path relative to
// srcRoot) when outDir is set.
func OutputPath(input, srcRoot, outDir, ext string) string {
	base := input[:len(input)-len(filepath.Ext(input))] + ext
	if outDir == "" {
		return base
	}
	rel, err := filepath.Rel(srcRoot, base)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		rel = filepath.Base(base)
	}
	return filepath.Join(outDir, rel)
}
