package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mhartig/fansync/pkg/util"
)

// HostType describes how a destination path is reached.
type HostType int

const (
	// HostLocal is a plain local filesystem path. It is never mapped on demand.
	HostLocal HostType = iota
	// HostSMB is a network share path that may need to be mapped with
	// credentials before it becomes visible to the local filesystem.
	HostSMB
)

var hostTypeToString = map[HostType]string{HostLocal: "local", HostSMB: "smb"}
var stringToHostType = map[string]HostType{}

func init() {
	stringToHostType = util.InvertMap(hostTypeToString)
}

// String returns the string representation of a HostType.
func (h HostType) String() string {
	if str, ok := hostTypeToString[h]; ok {
		return str
	}
	return fmt.Sprintf("unknown_host_type(%d)", h)
}

// ParseHostType parses a string and returns the corresponding HostType.
func ParseHostType(s string) (HostType, error) {
	if t, ok := stringToHostType[strings.ToLower(s)]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("invalid host type: %q. Must be 'local' or 'smb'", s)
}

// MarshalJSON implements the json.Marshaler interface for HostType.
func (h HostType) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for HostType.
func (h *HostType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("HostType should be a string, got %s", data)
	}

	t, err := ParseHostType(s)
	if err != nil {
		return err
	}
	*h = t
	return nil
}

// Destination is a named sync target. Its identity is the Name, which must be
// unique within a destination list. The sync engine treats destinations as
// read-only input; they are only ever created or edited through the
// destination management commands.
type Destination struct {
	Name string   `json:"name"`
	Path string   `json:"path"`
	Type HostType `json:"type"`
}

// Validate checks that the destination tuple is usable.
func (d Destination) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("destination name cannot be empty")
	}
	if strings.TrimSpace(d.Path) == "" {
		return fmt.Errorf("destination %q: path cannot be empty", d.Name)
	}
	return nil
}
