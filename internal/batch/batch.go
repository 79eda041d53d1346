// Package batch handles the file-level side of patching: discovering
// course archives from mixed file and directory arguments, laying out
// the patched/ output tree and running single files through the
// rewrite pipeline.
package batch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtension is the archive extension matched during discovery.
const DefaultExtension = ".crs"

// Collect expands the given paths into a flat list of archive files.
// Directories contribute their directly contained archives, matched by
// extension case-insensitively and sorted by name. Paths that do not
// exist or do not match are logged and skipped. Duplicates collapse,
// first occurrence wins.
func Collect(args []string, ext string) []string {
	if ext == "" {
		ext = DefaultExtension
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			slog.Warn("skipping path", "path", arg, "error", err)
			continue
		}

		if !info.IsDir() {
			if !matchesExt(arg, ext) {
				slog.Warn("skipping file, extension mismatch", "path", arg, "want", ext)
				continue
			}
			files = append(files, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			slog.Warn("skipping directory", "path", arg, "error", err)
			continue
		}
		var found []string
		for _, entry := range entries {
			if entry.IsDir() || !matchesExt(entry.Name(), ext) {
				continue
			}
			found = append(found, filepath.Join(arg, entry.Name()))
		}
		sort.Strings(found)
		files = append(files, found...)
	}

	return dedupe(files)
}

func matchesExt(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Layout is where patched artifacts and their logs land.
type Layout struct {
	OutputDir string
	LogDir    string
}

// NewLayout routes output under a patched/ directory (with a nested
// logs/ directory) next to the first input, unless an explicit output
// directory overrides the location.
func NewLayout(firstInput, override string) Layout {
	out := override
	if out == "" {
		out = filepath.Join(filepath.Dir(firstInput), "patched")
	}
	return Layout{
		OutputDir: out,
		LogDir:    filepath.Join(out, "logs"),
	}
}

// Ensure creates the output directories.
func (l Layout) Ensure() error {
	if err := os.MkdirAll(l.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.MkdirAll(l.LogDir, 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	return nil
}

// OutputPath derives the patched artifact name from the source:
// `_patched` slides in before the extension.
func (l Layout) OutputPath(src string) string {
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(l.OutputDir, stem+"_patched"+ext)
}

// LogPath derives the companion log name from the source.
func (l Layout) LogPath(src string) string {
	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(l.LogDir, stem+"_patched_log.txt")
}
