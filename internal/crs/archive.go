package crs

import (
	"log/slog"
	"time"
)

// Options configures a patch run.
type Options struct {
	// Exclusions are the byte signatures of embedded files to strip.
	// Nil means DefaultExclusions.
	Exclusions [][]byte

	// TargetPath replaces the working path in every file sub-header.
	// Empty means DefaultTargetPath.
	TargetPath string
}

func (o Options) withDefaults() Options {
	if o.Exclusions == nil {
		o.Exclusions = DefaultExclusions()
	}
	if o.TargetPath == "" {
		o.TargetPath = DefaultTargetPath
	}
	return o
}

// Result describes one completed patch run.
type Result struct {
	// Data is the rebuilt archive: header ++ index ++ data, paths
	// rewritten.
	Data []byte

	// Entries are the retained index records in scan order.
	Entries []Entry

	// Stamp is the DOS time/date written into the header.
	Stamp DOSStamp

	Removed      int // blocks stripped by content signature
	Rewritten    int // path sites overwritten
	SkippedPaths int // path sites skipped for overflow
}

// BaseOffset is the start of the data segment in the rebuilt archive.
func (r *Result) BaseOffset() int {
	return BaseOffset(len(r.Entries))
}

// Patch runs the whole rewrite pipeline over a source archive held in
// memory: locate blocks, drop excluded ones, rebuild the index with
// shifted offsets, emit a fresh header, assemble and rewrite the
// embedded paths. The source buffer is not modified.
//
// An archive with no block signatures is not an error: the index
// builds empty and the header carries a zero count.
func Patch(data []byte, mtime time.Time, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	positions := FindSignatures(data, Signature())
	kept, removed := RemoveBlocks(data, positions, opts.Exclusions)

	entries, err := BuildIndex(kept, opts.Exclusions)
	if err != nil {
		return nil, err
	}

	header, stamp := BuildHeader(len(entries), mtime)

	slog.Debug("assembling archive",
		"entries", len(entries),
		"removed", removed,
		"base_offset", BaseOffset(len(entries)),
		"data_size", len(kept))

	out := make([]byte, 0, HeaderSize+len(entries)*EntrySize+len(kept))
	out = append(out, header...)
	out = append(out, IndexTable(entries)...)
	out = append(out, kept...)

	rewritten, skipped := RewritePaths(out, opts.TargetPath)

	return &Result{
		Data:         out,
		Entries:      entries,
		Stamp:        stamp,
		Removed:      removed,
		Rewritten:    rewritten,
		SkippedPaths: skipped,
	}, nil
}
