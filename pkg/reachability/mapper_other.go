//go:build !windows

package reachability

import "context"

type unsupportedMapper struct{}

func newPlatformMapper() ShareMapper {
	return unsupportedMapper{}
}

func (unsupportedMapper) Supported() bool {
	return false
}

func (unsupportedMapper) Map(ctx context.Context, sharePath string, creds Credentials) error {
	return ErrMappingUnsupported
}
