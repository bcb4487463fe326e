package treesync

import (
	"os"
	"time"
)

// needsCopy reports whether the source file must be (re)written to the
// destination. A copy is needed when the destination file does not exist, is
// not a regular file, differs in size, or differs in modification time after
// truncation to the configured window.
//
// The window (default one second) tolerates filesystem timestamp-resolution
// differences across platforms and protocols. The explicit tradeoff is that a
// content change within the window that leaves the size unchanged is not
// detected. No content hashing is performed.
func needsCopy(src FileRecord, dstInfo os.FileInfo, window time.Duration) bool {
	if dstInfo == nil {
		return true
	}
	if !dstInfo.Mode().IsRegular() {
		return true
	}
	if src.Size != dstInfo.Size() {
		return true
	}
	return !equalTimestamp(src.ModTime, dstInfo.ModTime(), window)
}

// equalTimestamp compares two timestamps truncated to the given window.
// A non-positive window compares exactly.
func equalTimestamp(a, b time.Time, window time.Duration) bool {
	if window <= 0 {
		return a.Equal(b)
	}
	return a.Truncate(window).Equal(b.Truncate(window))
}
