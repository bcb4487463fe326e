// Package extfilter decides per-file inclusion based on a configured set of
// ignored file-extension suffixes.
package extfilter

import "strings"

// Filter holds the lowercase-normalized extension suffixes to ignore.
// A Filter is immutable after construction and safe for concurrent use.
type Filter struct {
	suffixes []string
}

// New builds a Filter from the given suffixes. Entries are normalized to
// lowercase and trimmed; empty entries are dropped. Order is preserved.
func New(suffixes []string) *Filter {
	normalized := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		normalized = append(normalized, s)
	}
	return &Filter{suffixes: normalized}
}

// Ignore reports whether the given file name, compared case-insensitively,
// ends with any configured suffix. This is a suffix match, not a substring
// match: "x.tmp2" is not ignored by a ".tmp" rule. An empty filter ignores
// nothing.
func (f *Filter) Ignore(name string) bool {
	if len(f.suffixes) == 0 {
		return false
	}

	name = strings.ToLower(name)
	for _, s := range f.suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// Empty reports whether the filter has no configured suffixes.
func (f *Filter) Empty() bool {
	return len(f.suffixes) == 0
}

// Suffixes returns the normalized suffixes in configuration order.
func (f *Filter) Suffixes() []string {
	out := make([]string, len(f.suffixes))
	copy(out, f.suffixes)
	return out
}
