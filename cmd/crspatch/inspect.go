package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/linksvis/crspatch/internal/crs"
	"github.com/linksvis/crspatch/internal/utils"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.CRS>",
	Short: "Show the header and index of a CRS archive",
	Long: `Inspect decodes an existing course archive and prints its header fields
and directory index without modifying anything. Useful for checking a
patched artifact or studying a stock course file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}

		h, err := crs.ReadHeader(data)
		if err != nil {
			return fmt.Errorf("decoding header: %w", err)
		}

		entries, err := crs.ReadIndex(data, h)
		if err != nil {
			return fmt.Errorf("decoding index: %w", err)
		}

		fmt.Printf("Archive: %s (%s bytes)\n", path, utils.Number(int64(len(data))))
		fmt.Printf("Release level:    0x%02X\n", h.ReleaseLevel)
		fmt.Printf("Header type:      0x%02X\n", h.HeaderType)
		fmt.Printf("Header length:    %d\n", h.HeaderLength)
		fmt.Printf("File count:       %d\n", h.FileCount)
		fmt.Printf("Index table size: %d bytes\n", h.TableSize)
		fmt.Printf("Timestamp:        %s\n", h.Stamp)
		fmt.Printf("Index marker:     %s\n", h.IndexMarker)

		if len(entries) == 0 {
			return nil
		}

		fmt.Println()
		fmt.Printf("%-5s %-14s %-10s %-10s\n", "#", "Name", "Offset", "Data pos")
		fmt.Println(strings.Repeat("-", 44))
		for i, e := range entries {
			fmt.Printf("%-5d %-14s %-10s %-10s\n",
				i, e.DisplayName(), utils.HexOffset(e.Offset), utils.HexOffset(e.ScanPos))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
