package batch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/linksvis/crspatch/internal/crs"
)

// FileResult is the outcome of patching one archive. A failure is a
// value here, not a process abort: the batch loop keeps going and
// counts it.
type FileResult struct {
	Source   string
	Output   string
	LogPath  string
	Patch    *crs.Result
	Duration time.Duration
	Err      error
}

// Failed reports whether the file was not patched.
func (r FileResult) Failed() bool {
	return r.Err != nil
}

// ProcessFile runs a single archive through the rewrite pipeline and
// writes the patched artifact and its log. The artifact is written to
// a temporary file and renamed into place, and it inherits the source
// file's modification time.
func ProcessFile(src string, layout Layout, opts crs.Options) FileResult {
	start := time.Now()
	res := FileResult{Source: src}

	fail := func(err error) FileResult {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	info, err := os.Stat(src)
	if err != nil {
		return fail(fmt.Errorf("stat source: %w", err))
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fail(fmt.Errorf("reading source: %w", err))
	}

	patched, err := crs.Patch(data, info.ModTime(), opts)
	if err != nil {
		return fail(fmt.Errorf("patching: %w", err))
	}
	res.Patch = patched

	out := layout.OutputPath(src)
	if err := writeFile(out, patched.Data); err != nil {
		return fail(err)
	}
	res.Output = out

	if err := os.Chtimes(out, info.ModTime(), info.ModTime()); err != nil {
		return fail(fmt.Errorf("preserving timestamps: %w", err))
	}

	logPath := layout.LogPath(src)
	if err := writeLogFile(logPath, patched); err != nil {
		return fail(err)
	}
	res.LogPath = logPath

	res.Duration = time.Since(start)
	slog.Debug("patched archive",
		"source", src,
		"output", out,
		"entries", len(patched.Entries),
		"removed", patched.Removed,
		"duration", res.Duration)
	return res
}

// writeFile writes to a temporary sibling and renames into place, so a
// crash mid-write cannot leave a truncated artifact under the final
// name.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("renaming artifact: %w", err)
	}
	return nil
}

func writeLogFile(path string, res *crs.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating log: %w", err)
	}
	if err := crs.WriteLog(f, res); err != nil {
		f.Close()
		return fmt.Errorf("writing log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing log: %w", err)
	}
	return nil
}
