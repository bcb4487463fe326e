package treesync

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeFileWithModTime creates a file with the given content and modification time.
func writeFileWithModTime(t *testing.T, path, content string, modTime time.Time) os.FileInfo {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatal(err)
	}
	info, err := os.Lstat(path)
	if err != nil {
		t.Fatal(err)
	}
	return info
}

func TestNeedsCopy(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	src := FileRecord{RelPath: "a.txt", Name: "a.txt", Size: 7, ModTime: base, Mode: 0644}

	t.Run("Missing destination", func(t *testing.T) {
		if !needsCopy(src, nil, time.Second) {
			t.Error("expected needsCopy=true for a missing destination file")
		}
	})

	t.Run("Identical destination", func(t *testing.T) {
		dstInfo := writeFileWithModTime(t, filepath.Join(dir, "same.txt"), "content", base)
		if needsCopy(src, dstInfo, time.Second) {
			t.Error("expected needsCopy=false for an identical destination file")
		}
	})

	t.Run("Size differs", func(t *testing.T) {
		dstInfo := writeFileWithModTime(t, filepath.Join(dir, "bigger.txt"), "content++", base)
		if !needsCopy(src, dstInfo, time.Second) {
			t.Error("expected needsCopy=true when sizes differ")
		}
	})

	t.Run("ModTime differs by a whole second", func(t *testing.T) {
		dstInfo := writeFileWithModTime(t, filepath.Join(dir, "older.txt"), "content", base.Add(-2*time.Second))
		if !needsCopy(src, dstInfo, time.Second) {
			t.Error("expected needsCopy=true when modification times differ by >= 1s")
		}
	})

	t.Run("Sub-second ModTime difference is tolerated", func(t *testing.T) {
		// Documented lossy behavior: a change within the window with an
		// unchanged size is not detected.
		dstInfo := writeFileWithModTime(t, filepath.Join(dir, "close.txt"), "content", base.Add(300*time.Millisecond))
		if needsCopy(src, dstInfo, time.Second) {
			t.Error("expected needsCopy=false for a sub-second modification time difference")
		}
	})

	t.Run("Zero window compares exactly", func(t *testing.T) {
		dstInfo := writeFileWithModTime(t, filepath.Join(dir, "exact.txt"), "content", base.Add(300*time.Millisecond))
		if !needsCopy(src, dstInfo, 0) {
			t.Error("expected needsCopy=true with an exact comparison window")
		}
	})
}

func TestEqualTimestamp(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 500_000_000, time.UTC)

	testCases := []struct {
		name     string
		a, b     time.Time
		window   time.Duration
		expected bool
	}{
		{name: "Same instant", a: base, b: base, window: time.Second, expected: true},
		{name: "Within window", a: base, b: base.Add(400 * time.Millisecond), window: time.Second, expected: true},
		{name: "Across truncation boundary", a: base, b: base.Add(600 * time.Millisecond), window: time.Second, expected: false},
		{name: "Exact compare differs", a: base, b: base.Add(time.Nanosecond), window: 0, expected: false},
		{name: "Exact compare equal", a: base, b: base, window: 0, expected: true},
		{name: "Wider window", a: base, b: base.Add(45 * time.Second), window: time.Minute, expected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := equalTimestamp(tc.a, tc.b, tc.window); got != tc.expected {
				t.Errorf("equalTimestamp(%v, %v, %v) = %v; want %v", tc.a, tc.b, tc.window, got, tc.expected)
			}
		})
	}
}
