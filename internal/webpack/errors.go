package webpack

import "fmt"

// ConfigFileNotFoundError is returned when the declared (or defaulted)
// bundler configuration file does not exist in the service root.
type ConfigFileNotFoundError struct {
	Path string
}

func (e *ConfigFileNotFoundError) Error() string {
	return fmt.Sprintf("could not find the bundler configuration file %q", e.Path)
}

// ConfigLoadError is returned when the configuration file exists but
// cannot be parsed. The underlying cause is preserved.
type ConfigLoadError struct {
	Path string
	Err  error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("could not load the bundler configuration file %q: %v", e.Path, e.Err)
}

func (e *ConfigLoadError) Unwrap() error {
	return e.Err
}

// ConflictingEntryError is returned when isolated packaging is requested
// but the configuration declares an explicit entry that differs from the
// resolved one.
type ConflictingEntryError struct{}

func (e *ConflictingEntryError) Error() string {
	return "the bundler entry must be automatically resolved when packaging functions individually; " +
		"remove the entry declaration from the bundler configuration"
}
