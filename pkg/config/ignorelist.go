package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mhartig/fansync/pkg/util"
)

// IgnoreFileName is the default name of the ignored-extension list document.
const IgnoreFileName = "ignored_extensions.json"

// LoadIgnoreList reads the ignored-extension suffixes from the given path.
// A missing file is a normal case and yields an empty list. Entries are
// normalized to lowercase; order is preserved.
func LoadIgnoreList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &ConfigError{Op: "load", Path: path, Err: err}
	}

	var suffixes []string
	if err := json.Unmarshal(data, &suffixes); err != nil {
		return nil, &ConfigError{Op: "load", Path: path, Err: err}
	}

	normalized := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		s = NormalizeSuffix(s)
		if s == "" {
			continue
		}
		normalized = append(normalized, s)
	}
	return normalized, nil
}

// SaveIgnoreList writes the ignored-extension suffixes to the given path.
func SaveIgnoreList(path string, suffixes []string) error {
	if suffixes == nil {
		suffixes = []string{}
	}
	data, err := json.MarshalIndent(suffixes, "", "  ")
	if err != nil {
		return &ConfigError{Op: "save", Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, util.UserWritableFilePerms); err != nil {
		return &ConfigError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// NormalizeSuffix brings an extension suffix into its canonical stored form:
// trimmed, lowercase, with a leading dot.
func NormalizeSuffix(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "." {
		return ""
	}
	if !strings.HasPrefix(s, ".") {
		s = "." + s
	}
	return s
}

// AddIgnoreSuffix appends a suffix, rejecting duplicates after normalization.
func AddIgnoreSuffix(suffixes []string, s string) ([]string, error) {
	s = NormalizeSuffix(s)
	if s == "" {
		return nil, fmt.Errorf("extension suffix cannot be empty")
	}
	for _, existing := range suffixes {
		if existing == s {
			return nil, fmt.Errorf("extension %q is already ignored", s)
		}
	}
	return append(suffixes, s), nil
}

// RemoveIgnoreSuffix removes a suffix from the list.
func RemoveIgnoreSuffix(suffixes []string, s string) ([]string, error) {
	s = NormalizeSuffix(s)
	for i, existing := range suffixes {
		if existing == s {
			return append(suffixes[:i:i], suffixes[i+1:]...), nil
		}
	}
	return nil, fmt.Errorf("extension %q is not in the ignore list", s)
}
