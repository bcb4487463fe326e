// Package treesync implements the incremental one-way sync of a scanned
// source tree to a single destination directory.
//
// The source is enumerated once into a Snapshot (see Scan) and the snapshot
// is replayed against each destination: directories are created eagerly ahead
// of their files, every file is either copied, skipped as identical, ignored
// by extension, or recorded as a copy error, and a ProgressReporter is
// invoked after each decision. Change detection uses size plus modification
// time truncated to a configurable window; no content hashing.
package treesync

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/mhartig/fansync/pkg/config"
	"github.com/mhartig/fansync/pkg/extfilter"
	"github.com/mhartig/fansync/pkg/pool"
	"github.com/mhartig/fansync/pkg/util"
)

// Options configures a DestinationSyncer.
type Options struct {
	// ModTimeWindow is the time window within which modification times are
	// considered equal. Zero compares exactly.
	ModTimeWindow time.Duration
	// BufferSizeKB is the size of the pooled I/O copy buffers.
	BufferSizeKB int
	// DryRun classifies and counts without creating directories or copying.
	DryRun bool
}

// DestinationSyncer replays a source Snapshot against destination
// directories. It keeps no per-run state and is safe for concurrent use; the
// pooled copy buffers are shared across destinations.
type DestinationSyncer struct {
	log    zerolog.Logger
	cp     *copier
	window time.Duration
	dryRun bool
}

// NewDestinationSyncer creates a syncer with the given options.
func NewDestinationSyncer(log zerolog.Logger, opts Options) *DestinationSyncer {
	bufferSizeKB := opts.BufferSizeKB
	if bufferSizeKB <= 0 {
		bufferSizeKB = 256
	}
	return &DestinationSyncer{
		log:    log,
		cp:     &copier{log: log, bufPool: pool.NewFixedBuffer(int64(bufferSizeKB) * 1024)},
		window: opts.ModTimeWindow,
		dryRun: opts.DryRun,
	}
}

// Run synchronizes the snapshot to one destination. File-level failures are
// recorded in the Result and never abort the run; the returned error is
// non-nil only when the context is canceled, in which case the partial Result
// is still returned.
func (s *DestinationSyncer) Run(ctx context.Context, snap *Snapshot, dest config.Destination, filter *extfilter.Filter, reporter ProgressReporter) (*Result, error) {
	res := &Result{DestinationName: dest.Name}

	total := snap.FileCount()
	processed := 0
	report := func() {
		// A zero total would make any percentage computation divide by zero,
		// so the reporter is simply never invoked for an empty source.
		if total > 0 {
			reporter.Report(processed, total)
		}
	}

	s.log.Info().
		Str("destination", dest.Name).
		Str("path", dest.Path).
		Int("files_total", total).
		Bool("dry_run", s.dryRun).
		Msg("Starting sync")

	// Signal the start of this destination's run with a reset progress value.
	report()

	for _, dir := range snap.Dirs {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		dstDir := filepath.Join(dest.Path, dir.RelPath)

		// Directories are created ahead of their files, including empty
		// ones, so a file copy never fails for a missing parent and empty
		// source directories appear at the destination.
		if !s.dryRun {
			if err := os.MkdirAll(dstDir, util.WithUserWritePermission(dir.Mode.Perm())); err != nil {
				s.log.Error().Str("dir", dir.RelPath).Err(err).Msg("Failed to create destination directory")
				// Fall through: the files below will fail individually and
				// each failure is recorded against its own path.
			}
		}

		for _, file := range dir.Files {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			default:
			}

			s.processFile(snap, dest, file, filter, res)
			processed++
			report()
		}
	}

	res.LogSummary(s.log, "Finished sync")
	return res, nil
}

// processFile decides and executes the outcome for a single file, placing it
// in exactly one of the Result buckets.
func (s *DestinationSyncer) processFile(snap *Snapshot, dest config.Destination, file FileRecord, filter *extfilter.Filter, res *Result) {
	if filter.Ignore(file.Name) {
		s.log.Debug().Str("path", file.RelPath).Msg("Ignored by extension")
		res.FilesIgnored++
		return
	}

	srcAbsPath := filepath.Join(snap.Root, file.RelPath)
	dstAbsPath := filepath.Join(dest.Path, file.RelPath)

	var dstInfo os.FileInfo
	info, err := os.Lstat(dstAbsPath)
	if err == nil {
		dstInfo = info
	} else if !os.IsNotExist(err) {
		res.Errors = append(res.Errors, &CopyError{RelPath: file.RelPath, Err: err})
		s.log.Error().Str("path", file.RelPath).Err(err).Msg("Cannot stat destination file")
		return
	}

	if !needsCopy(file, dstInfo, s.window) {
		s.log.Debug().Str("path", file.RelPath).Msg("Skipped, up to date")
		res.FilesSkipped++
		return
	}

	if s.dryRun {
		s.log.Info().Str("src", srcAbsPath).Str("dst", dstAbsPath).Msg("[DRY RUN] Would copy")
		res.FilesCopied++
		return
	}

	// A destination entry that is not a regular file (directory, symlink)
	// must be removed first; rename cannot atomically replace it.
	if dstInfo != nil && !dstInfo.Mode().IsRegular() {
		s.log.Warn().Str("path", file.RelPath).Str("type", dstInfo.Mode().String()).Msg("Destination is not a regular file, removing before copy")
		if err := os.RemoveAll(dstAbsPath); err != nil {
			res.Errors = append(res.Errors, &CopyError{RelPath: file.RelPath, Err: err})
			s.log.Error().Str("path", file.RelPath).Err(err).Msg("Cannot replace destination entry")
			return
		}
	}

	if err := s.cp.copyFile(srcAbsPath, dstAbsPath, file); err != nil {
		res.Errors = append(res.Errors, &CopyError{RelPath: file.RelPath, Err: err})
		s.log.Error().Str("path", file.RelPath).Err(err).Msg("Copy failed")
		return
	}
	res.FilesCopied++
}
