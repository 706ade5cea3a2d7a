// Package manifest loads and validates the service manifest that declares
// the functions to bundle.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the manifest filename looked up in the service root.
const DefaultFile = "service.yml"

// Provider identifies the platform the service deploys to.
type Provider struct {
	Name    string `yaml:"name"`
	Runtime string `yaml:"runtime,omitempty"`
}

// Package holds service-level packaging settings.
type Package struct {
	// Individually requests one independent bundle per function.
	Individually bool `yaml:"individually,omitempty"`
}

// Function is a single declared function. The handler is a loosely
// structured reference of the form <path-without-extension>.<exportName>.
type Function struct {
	Name    string `yaml:"-"`
	Handler string `yaml:"handler"`
	Runtime string `yaml:"runtime,omitempty"`
	Memory  int    `yaml:"memory,omitempty"`
	Timeout int    `yaml:"timeout,omitempty"`
}

// Service is the parsed manifest. Functions keep their declaration order.
type Service struct {
	Name      string
	Provider  Provider
	Package   Package
	Functions []Function

	// Bundler is the raw bundler configuration value from the manifest:
	// a file path, an inline mapping, or absent.
	Bundler *yaml.Node

	// Root is the directory the manifest was loaded from. All relative
	// paths in the service resolve against it.
	Root string

	byName map[string]int
}

// UnknownFunctionError is returned when a selected function is not declared.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("function %q is not defined in the service manifest", e.Name)
}

var functionNameRE = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// serviceYAML is the raw on-disk shape. Functions are decoded through a
// yaml.Node so declaration order survives.
type serviceYAML struct {
	Service   string    `yaml:"service"`
	Provider  Provider  `yaml:"provider"`
	Package   Package   `yaml:"package"`
	Functions yaml.Node `yaml:"functions"`
	Custom    struct {
		Bundler yaml.Node `yaml:"bundler"`
	} `yaml:"custom"`
}

// Load reads and validates the manifest file at <root>/<DefaultFile>.
func Load(root string) (*Service, error) {
	return LoadFile(root, DefaultFile)
}

// LoadFile reads and validates a manifest at an explicit path relative to root.
func LoadFile(root, file string) (*Service, error) {
	path := filepath.Join(root, file)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service manifest %s: %w", path, err)
	}

	svc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid service manifest %s: %w", path, err)
	}
	svc.Root = root

	log.Debug().
		Str("service", svc.Name).
		Int("functions", len(svc.Functions)).
		Msg("Service manifest loaded")

	return svc, nil
}

// Parse decodes and validates manifest bytes.
func Parse(data []byte) (*Service, error) {
	var raw serviceYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if raw.Service == "" {
		return nil, fmt.Errorf("manifest is missing a service name")
	}

	svc := &Service{
		Name:     raw.Service,
		Provider: raw.Provider,
		Package:  raw.Package,
		byName:   make(map[string]int),
	}
	if raw.Custom.Bundler.Kind != 0 {
		node := raw.Custom.Bundler
		svc.Bundler = &node
	}

	if err := svc.decodeFunctions(&raw.Functions); err != nil {
		return nil, err
	}

	return svc, nil
}

// decodeFunctions walks the functions mapping node pairwise so that the
// declaration order of the YAML document is preserved.
func (s *Service) decodeFunctions(node *yaml.Node) error {
	if node.Kind == 0 {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("functions must be a mapping of name to definition")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]

		var fn Function
		if err := valNode.Decode(&fn); err != nil {
			return fmt.Errorf("invalid definition for function %q: %w", keyNode.Value, err)
		}
		fn.Name = keyNode.Value

		if err := validateFunction(fn); err != nil {
			return err
		}
		if _, exists := s.byName[fn.Name]; exists {
			return fmt.Errorf("function %q is declared twice", fn.Name)
		}

		s.byName[fn.Name] = len(s.Functions)
		s.Functions = append(s.Functions, fn)
	}

	return nil
}

func validateFunction(fn Function) error {
	if !functionNameRE.MatchString(fn.Name) {
		return fmt.Errorf("invalid function name %q: must start with a letter and contain only letters, digits, '-' or '_'", fn.Name)
	}
	if fn.Handler == "" {
		return fmt.Errorf("function %q has no handler", fn.Name)
	}
	return nil
}

// Function looks up a declared function by name.
func (s *Service) Function(name string) (*Function, error) {
	idx, ok := s.byName[name]
	if !ok {
		return nil, &UnknownFunctionError{Name: name}
	}
	return &s.Functions[idx], nil
}
