package reachability

import "fmt"

// MappingError reports a destination that could not be accessed and could
// not be mapped. It is fatal for that destination only.
type MappingError struct {
	Destination string
	Path        string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("destination %s unreachable: cannot access or map %s", e.Destination, e.Path)
}
