package reachability

import (
	"context"
	"errors"
)

// Credentials authenticate a principal against a network share.
type Credentials struct {
	Principal string
	Secret    string
}

// ShareMapper attaches a network share to the local namespace so that its
// path becomes accessible.
type ShareMapper interface {
	// Supported reports whether this platform can map shares on demand.
	// When false, Map must not be called and no credentials are needed.
	Supported() bool
	Map(ctx context.Context, sharePath string, creds Credentials) error
}

// ErrMappingUnsupported is returned by the platform mapper on systems that
// have no on-demand share mapping command.
var ErrMappingUnsupported = errors.New("on-demand share mapping is not supported on this platform")
