package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk registry document.
type File struct {
	Version  string   `yaml:"version"`
	Entities []Entity `yaml:"entities"`
}

// LoadFile loads and parses a YAML registry file from the given path.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file %s: %w", path, err)
	}

	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return reg, nil
}

// Parse parses YAML data into a Registry.
func Parse(data []byte) (*Registry, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse registry YAML: %w", err)
	}

	applyDefaults(&f)

	if f.Version != "1" {
		return nil, fmt.Errorf("unsupported registry version %q", f.Version)
	}

	return New(f.Entities...)
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	for i := range f.Entities {
		if f.Entities[i].Table == "" {
			f.Entities[i].Table = DefaultTable(f.Entities[i].Name)
		}
	}
}

// Marshal serializes a Registry to YAML.
func Marshal(r *Registry) ([]byte, error) {
	f := File{Version: "1"}
	for _, e := range r.Entities() {
		f.Entities = append(f.Entities, *e)
	}

	return yaml.Marshal(&f)
}

// WriteFile writes a Registry to the given path.
func WriteFile(r *Registry, path string) error {
	data, err := Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write registry file %s: %w", path, err)
	}

	return nil
}
