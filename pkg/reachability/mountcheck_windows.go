//go:build windows

package reachability

import (
	"fmt"
	"os"
	"path/filepath"
)

// ghostMountCheck verifies that the volume a path belongs to actually exists.
// It does not detect volumes mounted to folders, but it covers the common
// case of a destination on a detached removable drive.
func ghostMountCheck(path string) error {
	volume := filepath.VolumeName(path)
	if volume == "" {
		return nil
	}
	if _, err := os.Stat(volume + string(filepath.Separator)); err != nil {
		return fmt.Errorf("volume %s for path %s is not available", volume, path)
	}
	return nil
}
