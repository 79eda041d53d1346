package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/linksvis/crspatch/internal/batch"
	"github.com/linksvis/crspatch/internal/catalog"
	"github.com/linksvis/crspatch/internal/crs"
	"github.com/linksvis/crspatch/internal/utils"
	"github.com/spf13/cobra"
)

type PatchStats struct {
	StartTime      time.Time
	EndTime        time.Time
	TotalFiles     int
	Processed      int
	Failed         int
	EntriesIndexed int
	BlocksRemoved  int
	PathsRewritten int
	PathWarnings   int
	BytesWritten   int64
}

var patchCmd = &cobra.Command{
	Use:   "patch [file.CRS | directory]...",
	Short: "Patch CRS course archives for Memorex VIS compatibility",
	Long: `Patch processes the given course archives and directories. Directories
expand to the CRS files they contain. Each archive is rewritten next to a
fresh index and header, with excluded embedded files stripped and internal
paths pointed at the configured target.

Outputs and per-archive logs are routed under a patched/ directory (with a
nested logs/ directory) beside the first input unless --output overrides
the location.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stats := &PatchStats{
			StartTime: time.Now(),
		}

		files := batch.Collect(args, cfg.Extension)
		if len(files) == 0 {
			return fmt.Errorf("no course archives found to process")
		}
		stats.TotalFiles = len(files)

		layout := batch.NewLayout(files[0], cfg.Output)
		if err := layout.Ensure(); err != nil {
			return err
		}

		slog.Info("Batch processing course archives",
			"count", len(files),
			"output", layout.OutputDir,
			"logs", layout.LogDir)

		var cat *catalog.Catalog
		if cfg.Catalog {
			path := cfg.Database
			if path == "" {
				path = filepath.Join(layout.OutputDir, "catalog.db")
			}
			var err error
			cat, err = catalog.Open(catalog.DefaultOptions(path))
			if err != nil {
				return fmt.Errorf("opening catalog: %w", err)
			}
			defer cat.Close()
		}

		opts := crs.Options{
			Exclusions: cfg.Exclusions(),
			TargetPath: cfg.TargetPath,
		}

		progress := utils.NewProgress(len(files),
			!(noProgress || cfg.LogFormat == "json" || cfg.LogLevel == "debug"))

		for i, file := range files {
			progress.Update(i+1, filepath.Base(file))

			res := batch.ProcessFile(file, layout, opts)
			if res.Failed() {
				slog.Error("Failed to patch archive", "file", file, "error", res.Err)
				stats.Failed++
				continue
			}

			stats.Processed++
			stats.EntriesIndexed += len(res.Patch.Entries)
			stats.BlocksRemoved += res.Patch.Removed
			stats.PathsRewritten += res.Patch.Rewritten
			stats.PathWarnings += res.Patch.SkippedPaths
			stats.BytesWritten += int64(len(res.Patch.Data))

			if cat != nil {
				_, err := cat.RecordRun(context.Background(), catalog.Run{
					Source:     res.Source,
					Output:     res.Output,
					EntryCount: len(res.Patch.Entries),
					Removed:    res.Patch.Removed,
					Rewritten:  res.Patch.Rewritten,
					Skipped:    res.Patch.SkippedPaths,
					Stamp:      res.Patch.Stamp,
					Duration:   res.Duration,
					CreatedAt:  time.Now(),
				}, res.Patch.Entries)
				if err != nil {
					slog.Warn("Failed to record run in catalog", "file", file, "error", err)
				}
			}
		}

		progress.Finish()
		stats.EndTime = time.Now()

		fmt.Printf("Archives patched: %d/%d\n", stats.Processed, stats.TotalFiles)
		if stats.Failed > 0 {
			fmt.Printf("Failures: %d\n", stats.Failed)
		}
		fmt.Printf("Index entries: %s\n", utils.Number(int64(stats.EntriesIndexed)))
		fmt.Printf("Blocks removed: %d\n", stats.BlocksRemoved)
		fmt.Printf("Paths rewritten: %d\n", stats.PathsRewritten)
		if stats.PathWarnings > 0 {
			fmt.Printf("Path warnings: %d\n", stats.PathWarnings)
		}
		fmt.Printf("Bytes written: %s\n", utils.Number(stats.BytesWritten))
		fmt.Printf("Total duration: %s\n", utils.Duration(stats.EndTime.Sub(stats.StartTime)))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(patchCmd)
}
