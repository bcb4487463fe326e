package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mhartig/fansync/pkg/util"
)

// DestinationsFileName is the default name of the destination list document.
const DestinationsFileName = "destinations.json"

// LoadDestinations reads the destination list from the given path.
// A missing file is a normal case and yields an empty list.
func LoadDestinations(path string) ([]Destination, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &ConfigError{Op: "load", Path: path, Err: err}
	}

	var destinations []Destination
	if err := json.Unmarshal(data, &destinations); err != nil {
		return nil, &ConfigError{Op: "load", Path: path, Err: err}
	}

	// Reject duplicate names up front so the rest of the program can treat
	// the name as a stable identity.
	seen := make(map[string]struct{}, len(destinations))
	for _, d := range destinations {
		if err := d.Validate(); err != nil {
			return nil, &ConfigError{Op: "load", Path: path, Err: err}
		}
		if _, ok := seen[d.Name]; ok {
			return nil, &ConfigError{Op: "load", Path: path, Err: fmt.Errorf("duplicate destination name %q", d.Name)}
		}
		seen[d.Name] = struct{}{}
	}
	return destinations, nil
}

// SaveDestinations writes the destination list to the given path as an
// indented JSON document.
func SaveDestinations(path string, destinations []Destination) error {
	data, err := json.MarshalIndent(destinations, "", "  ")
	if err != nil {
		return &ConfigError{Op: "save", Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, util.UserWritableFilePerms); err != nil {
		return &ConfigError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// AddDestination appends a destination, enforcing name uniqueness.
func AddDestination(destinations []Destination, d Destination) ([]Destination, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	for _, existing := range destinations {
		if existing.Name == d.Name {
			return nil, fmt.Errorf("destination %q already exists", d.Name)
		}
	}
	return append(destinations, d), nil
}

// RemoveDestination removes the destination with the given name.
func RemoveDestination(destinations []Destination, name string) ([]Destination, error) {
	for i, d := range destinations {
		if d.Name == name {
			return append(destinations[:i:i], destinations[i+1:]...), nil
		}
	}
	return nil, fmt.Errorf("no destination named %q", name)
}

// SelectDestinations returns the destinations matching the given names, in
// list order. An empty name filter selects every destination.
func SelectDestinations(destinations []Destination, names []string) ([]Destination, error) {
	if len(names) == 0 {
		return destinations, nil
	}

	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}

	selected := make([]Destination, 0, len(names))
	for _, d := range destinations {
		if _, ok := wanted[d.Name]; ok {
			selected = append(selected, d)
			delete(wanted, d.Name)
		}
	}
	for n := range wanted {
		return nil, fmt.Errorf("no destination named %q", n)
	}
	return selected, nil
}
