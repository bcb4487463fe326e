package treesync

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// makeSourceTree builds a small fixture tree:
//
//	root/
//	  a.txt
//	  b.tmp
//	  sub/
//	    c.txt
//	  empty/
func makeSourceTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("0123456789"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "b.tmp"), []byte("01234"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "sub", "c.txt"), []byte("c"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0755); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestScan(t *testing.T) {
	root := makeSourceTree(t)

	snap, err := Scan(root, zerolog.Nop())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if snap.FileCount() != 3 {
		t.Errorf("expected FileCount=3 (ignored-extension files still count), got %d", snap.FileCount())
	}

	if len(snap.Dirs) != 3 {
		t.Fatalf("expected 3 directories (root, empty, sub), got %d", len(snap.Dirs))
	}

	// WalkDir is lexical: root, then "empty", then "sub".
	if snap.Dirs[0].RelPath != "." {
		t.Errorf("expected first directory to be the root ('.'), got %q", snap.Dirs[0].RelPath)
	}
	if snap.Dirs[1].RelPath != "empty" || snap.Dirs[2].RelPath != "sub" {
		t.Errorf("unexpected directory order: %q, %q", snap.Dirs[1].RelPath, snap.Dirs[2].RelPath)
	}

	rootFiles := snap.Dirs[0].Files
	if len(rootFiles) != 2 || rootFiles[0].Name != "a.txt" || rootFiles[1].Name != "b.tmp" {
		t.Errorf("unexpected root files: %v", rootFiles)
	}
	if rootFiles[0].Size != 10 || rootFiles[1].Size != 5 {
		t.Errorf("unexpected file sizes: %d, %d", rootFiles[0].Size, rootFiles[1].Size)
	}

	if len(snap.Dirs[1].Files) != 0 {
		t.Errorf("expected the empty directory to have no files, got %v", snap.Dirs[1].Files)
	}

	subFiles := snap.Dirs[2].Files
	if len(subFiles) != 1 || subFiles[0].RelPath != filepath.Join("sub", "c.txt") {
		t.Errorf("unexpected sub files: %v", subFiles)
	}
}

func TestScanDeterministic(t *testing.T) {
	root := makeSourceTree(t)

	first, err := Scan(root, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Scan(root, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	if len(first.Dirs) != len(second.Dirs) {
		t.Fatalf("scan orders differ in length: %d vs %d", len(first.Dirs), len(second.Dirs))
	}
	for i := range first.Dirs {
		if first.Dirs[i].RelPath != second.Dirs[i].RelPath {
			t.Errorf("directory order differs at %d: %q vs %q", i, first.Dirs[i].RelPath, second.Dirs[i].RelPath)
		}
		if len(first.Dirs[i].Files) != len(second.Dirs[i].Files) {
			t.Errorf("file count differs in %q", first.Dirs[i].RelPath)
			continue
		}
		for j := range first.Dirs[i].Files {
			if first.Dirs[i].Files[j].RelPath != second.Dirs[i].Files[j].RelPath {
				t.Errorf("file order differs in %q at %d", first.Dirs[i].RelPath, j)
			}
		}
	}
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "does-not-exist"), zerolog.Nop())
	if err == nil {
		t.Fatal("expected an error for a missing source root, got nil")
	}

	var scanErr *ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("expected a *ScanError, got %T: %v", err, err)
	}
	if scanErr.Root == "" {
		t.Error("expected ScanError.Root to carry the failing root path")
	}
}

func TestScanEmptyRoot(t *testing.T) {
	snap, err := Scan(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if snap.FileCount() != 0 {
		t.Errorf("expected FileCount=0 for an empty root, got %d", snap.FileCount())
	}
	if len(snap.Dirs) != 1 || snap.Dirs[0].RelPath != "." {
		t.Errorf("expected only the root directory record, got %v", snap.Dirs)
	}
}
