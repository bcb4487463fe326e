package treesync

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mhartig/fansync/pkg/pool"
	"github.com/mhartig/fansync/pkg/util"
)

// copier performs the byte copy plus metadata preservation for one file.
type copier struct {
	log     zerolog.Logger
	bufPool *pool.FixedBufferPool
}

// copyFile writes the source file to dstAbsPath so that content and size
// equal the source's and the destination modification time matches the
// source's. It ensures atomicity by writing to a temporary file in the
// destination directory first and then renaming it into place, so a copy
// interrupted mid-run never leaves a truncated file under the final name.
func (c *copier) copyFile(srcAbsPath, dstAbsPath string, rec FileRecord) error {
	in, err := os.Open(srcAbsPath)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", srcAbsPath, err)
	}
	defer in.Close()

	dstDir := filepath.Dir(dstAbsPath)

	out, err := os.CreateTemp(dstDir, "fansync-*.partial")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dstDir, err)
	}

	tempPath := out.Name()
	// If the rename succeeds, tempPath is cleared and this becomes a no-op.
	defer func() {
		if tempPath != "" {
			os.Remove(tempPath)
		}
	}()

	bufPtr := c.bufPool.Get()
	defer c.bufPool.Put(bufPtr)

	if _, err = io.CopyBuffer(out, in, *bufPtr); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy content to %s: %w", tempPath, err)
	}

	if err := out.Chmod(util.WithUserWritePermission(rec.Mode.Perm())); err != nil {
		out.Close()
		return fmt.Errorf("failed to set permissions on %s: %w", tempPath, err)
	}

	// Close before Chtimes: flushing on close may itself update the
	// modification time.
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file %s: %w", tempPath, err)
	}

	if err := os.Chtimes(tempPath, rec.ModTime, rec.ModTime); err != nil {
		return fmt.Errorf("failed to set timestamps on %s: %w", tempPath, err)
	}

	if err := os.Rename(tempPath, dstAbsPath); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", tempPath, err)
	}
	tempPath = ""

	c.log.Info().Str("src", srcAbsPath).Str("dst", dstAbsPath).Msg("Copied")
	return nil
}
