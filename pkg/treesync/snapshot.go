package treesync

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// FileRecord describes one regular file found under the source root.
type FileRecord struct {
	// RelPath is the path relative to the source root, in OS notation.
	RelPath string
	// Name is the base file name, used for extension filtering.
	Name    string
	Size    int64
	ModTime time.Time
	Mode    os.FileMode
}

// DirRecord describes one directory found under the source root together
// with the regular files it directly contains.
type DirRecord struct {
	// RelPath is the path relative to the source root; "." for the root itself.
	RelPath string
	Mode    os.FileMode
	Files   []FileRecord
}

// Snapshot is the result of enumerating a source tree once. Directories
// appear in walk order (parents before children, lexical within a level), so
// replaying the snapshot against a destination can create directories eagerly
// ahead of their files. A Snapshot is read-only after Scan returns and may be
// shared across destinations without locking.
type Snapshot struct {
	Root string
	Dirs []DirRecord

	fileCount int
}

// FileCount returns the total number of regular files in the snapshot. It is
// the progress denominator and deliberately counts files that an extension
// filter will later ignore.
func (s *Snapshot) FileCount() int {
	return s.fileCount
}

// Scan enumerates the tree under root into a Snapshot. The traversal order is
// filepath.WalkDir's lexical order, so it is deterministic for a fixed tree.
// If the root itself cannot be enumerated, Scan fails with a *ScanError.
// Unreadable subtrees below the root are logged and skipped; symlinks and
// other non-regular entries are not recorded.
func Scan(root string, log zerolog.Logger) (*Snapshot, error) {
	snap := &Snapshot{Root: root}

	// Index of DirRecords by relative path, so file entries can be attached
	// to their parent directory as the walk discovers them.
	dirIndex := make(map[string]int)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			relPath = path
		}

		if err != nil {
			if path == root {
				// The root is unreadable. Abort the scan.
				return err
			}
			log.Warn().Str("path", relPath).Err(err).Msg("Cannot access path, skipping")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			if path == root {
				return err
			}
			log.Warn().Str("path", relPath).Err(err).Msg("Cannot stat path, skipping")
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			dirIndex[relPath] = len(snap.Dirs)
			snap.Dirs = append(snap.Dirs, DirRecord{RelPath: relPath, Mode: info.Mode()})
			return nil
		}

		if !info.Mode().IsRegular() {
			log.Debug().Str("path", relPath).Str("type", info.Mode().String()).Msg("Skipping non-regular file")
			return nil
		}

		parent := filepath.Dir(relPath)
		idx, ok := dirIndex[parent]
		if !ok {
			// WalkDir visits parents before children, so this cannot happen
			// for a well-formed walk.
			log.Warn().Str("path", relPath).Msg("File has no recorded parent directory, skipping")
			return nil
		}

		snap.Dirs[idx].Files = append(snap.Dirs[idx].Files, FileRecord{
			RelPath: relPath,
			Name:    d.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Mode:    info.Mode(),
		})
		snap.fileCount++
		return nil
	})

	if err != nil {
		return nil, &ScanError{Root: root, Err: err}
	}
	return snap, nil
}
