package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/linksvis/crspatch/internal/catalog"
	"github.com/linksvis/crspatch/internal/utils"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [sql]",
	Short: "Query the patch-run catalog",
	Long: `Query reads the SQLite catalog written by patch --catalog. List the
recorded runs, show the index entries of one run, or execute raw SQL
against the runs and entries tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		listRuns, err := cmd.Flags().GetBool("runs")
		if err != nil {
			return fmt.Errorf("failed to get runs flag: %w", err)
		}
		runID, err := cmd.Flags().GetInt64("entries")
		if err != nil {
			return fmt.Errorf("failed to get entries flag: %w", err)
		}

		path := cfg.Database
		if path == "" {
			path = filepath.Join("patched", "catalog.db")
		}

		cat, err := catalog.Open(catalog.DefaultOptions(path))
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer cat.Close()

		if listRuns {
			runs, err := cat.Runs(ctx)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No runs recorded")
				return nil
			}

			fmt.Printf("%-5s %-24s %-8s %-8s %-20s %-10s\n",
				"ID", "Source", "Entries", "Removed", "Timestamp", "Duration")
			fmt.Println(strings.Repeat("-", 80))
			for _, r := range runs {
				fmt.Printf("%-5d %-24s %-8d %-8d %-20s %-10s\n",
					r.ID, filepath.Base(r.Source), r.EntryCount, r.Removed,
					r.Stamp, utils.Duration(r.Duration))
			}
			return nil
		}

		if runID > 0 {
			entries, err := cat.Entries(ctx, runID)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Printf("No entries recorded for run %d\n", runID)
				return nil
			}

			fmt.Printf("%-5s %-14s %-10s %-10s %-34s\n",
				"#", "Name", "Original", "Adjusted", "Record")
			fmt.Println(strings.Repeat("-", 78))
			for _, e := range entries {
				fmt.Printf("%-5d %-14s %-10s %-10s %-34s\n",
					e.Index, e.Name,
					utils.HexOffset(e.OriginalOffset), utils.HexOffset(e.AdjustedOffset),
					e.RecordHex)
			}
			return nil
		}

		if len(args) > 0 {
			return runRawQuery(ctx, cat, args[0])
		}

		return fmt.Errorf("no query provided, use --runs to list runs or --entries <id> to show a run's index")
	},
}

func runRawQuery(ctx context.Context, cat *catalog.Catalog, query string) error {
	rows, err := cat.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("getting column names: %w", err)
	}

	fmt.Println(strings.Join(columns, "\t"))
	seps := make([]string, len(columns))
	for i, col := range columns {
		seps[i] = strings.Repeat("-", len(col))
	}
	fmt.Println(strings.Join(seps, "\t"))

	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		cells := make([]string, len(columns))
		for i, val := range values {
			if val == nil {
				cells[i] = "NULL"
				continue
			}
			cells[i] = fmt.Sprintf("%v", val)
		}
		fmt.Println(strings.Join(cells, "\t"))
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().Bool("runs", false, "List recorded patch runs")
	queryCmd.Flags().Int64("entries", 0, "Show the index entries recorded for a run ID")
}
