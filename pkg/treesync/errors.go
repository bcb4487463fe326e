package treesync

import "fmt"

// ScanError reports that the source tree could not be enumerated. It is fatal
// for the whole run: every destination reads the same source.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scanning source tree %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// CopyError reports a single-file copy failure. It is non-fatal: the syncer
// records it in the destination's Result and continues with the next file.
type CopyError struct {
	RelPath string
	Err     error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copying %s: %v", e.RelPath, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}
