// Package webpack resolves, defaults and fans out the bundler
// configuration for a service.
package webpack

import "maps"

// Default values applied to a configuration when the corresponding field
// is absent.
const (
	DefaultTarget        = "node"
	DefaultLibraryTarget = "commonjs"
	DefaultOutputDir     = ".webpack"
	DefaultFilename      = "[name].js"

	// serviceOutputDir is the subfolder appended to the output path in
	// single-configuration mode.
	serviceOutputDir = "service"
)

// Output describes where and how bundles are written.
type Output struct {
	LibraryTarget string `yaml:"libraryTarget,omitempty" json:"libraryTarget,omitempty"`
	Path          string `yaml:"path,omitempty" json:"path,omitempty"`
	Filename      string `yaml:"filename,omitempty" json:"filename,omitempty"`
}

// Config is a bundler configuration. One instance is produced per
// resolution pass, or one per function when isolated packaging is active.
type Config struct {
	Entry     map[string]string `yaml:"entry,omitempty" json:"entry,omitempty"`
	Context   string            `yaml:"context,omitempty" json:"context,omitempty"`
	Target    string            `yaml:"target,omitempty" json:"target,omitempty"`
	Mode      string            `yaml:"mode,omitempty" json:"mode,omitempty"`
	Devtool   string            `yaml:"devtool,omitempty" json:"devtool,omitempty"`
	Externals []string          `yaml:"externals,omitempty" json:"externals,omitempty"`
	Output    Output            `yaml:"output,omitempty" json:"output,omitempty"`
}

// Clone returns a deep copy of the configuration. Fan-out mutates the
// entry map and output path of each copy, so sharing would leak between
// per-function configurations.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Entry = maps.Clone(c.Entry)
	if c.Externals != nil {
		clone.Externals = append([]string(nil), c.Externals...)
	}
	return &clone
}

// applyDefaults fills the defaulted fields in place. A zero Output is
// replaced as a whole; a partially set one keeps its fields and only the
// missing ones are filled.
func (c *Config) applyDefaults(serviceRoot, outputPath string) {
	if c.Context == "" {
		c.Context = serviceRoot
	}
	if c.Target == "" {
		c.Target = DefaultTarget
	}
	if c.Output == (Output{}) {
		c.Output = Output{
			LibraryTarget: DefaultLibraryTarget,
			Path:          outputPath,
			Filename:      DefaultFilename,
		}
		return
	}
	if c.Output.LibraryTarget == "" {
		c.Output.LibraryTarget = DefaultLibraryTarget
	}
	if c.Output.Path == "" {
		c.Output.Path = outputPath
	}
	if c.Output.Filename == "" {
		c.Output.Filename = DefaultFilename
	}
}
