//go:build !windows

package reachability

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// ghostMountCheck reports an error when path resides on the root filesystem.
// A destination that should live on an external drive but sits on the system
// disk usually means the drive is not mounted and writes would land in an
// empty mount point directory.
func ghostMountCheck(path string) error {
	// Destinations under the home directory are usually intentional.
	homeDir, _ := os.UserHomeDir()
	if homeDir != "" && strings.HasPrefix(path, homeDir) {
		return nil
	}

	rootInfo, err := os.Stat("/")
	if err != nil {
		return nil
	}
	rootStat, ok := rootInfo.Sys().(*unix.Stat_t)
	if !ok {
		return nil
	}

	pathInfo, err := os.Stat(path)
	if err != nil {
		return nil
	}
	pathStat, ok := pathInfo.Sys().(*unix.Stat_t)
	if !ok {
		return nil
	}

	if pathStat.Dev == rootStat.Dev && path != "/" {
		return fmt.Errorf("path %s is on the root filesystem (system disk), the drive may not be mounted", path)
	}
	return nil
}
