//go:build windows

package reachability

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// netUseMapper maps UNC shares with a one-shot "net use" invocation.
type netUseMapper struct{}

func newPlatformMapper() ShareMapper {
	return netUseMapper{}
}

func (netUseMapper) Supported() bool {
	return true
}

func (netUseMapper) Map(ctx context.Context, sharePath string, creds Credentials) error {
	cmd := exec.CommandContext(ctx, "net", "use", sharePath, creds.Secret, "/user:"+creds.Principal)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("net use %s: %w: %s", sharePath, err, msg)
		}
		return fmt.Errorf("net use %s: %w", sharePath, err)
	}
	return nil
}
