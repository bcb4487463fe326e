package config

import "fmt"

// ConfigError reports a failure to load or save one of the persisted
// configuration documents (the destination list or the ignore list). It is
// always surfaced to the caller, never silently dropped.
type ConfigError struct {
	Op   string // "load" or "save"
	Path string // the document that failed
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
