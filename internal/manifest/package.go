package manifest

import (
	"encoding/json"
	"fmt"
	"os"
)

// FileName is the manifest file written by the package manager.
const FileName = "package.json"

// Package holds the package.json fields the scaffolder reads.
type Package struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description,omitempty"`
	Scripts         map[string]string `json:"scripts,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// DevDependency returns the version recorded for a dev dependency.
func (p *Package) DevDependency(name string) (string, bool) {
	v, ok := p.DevDependencies[name]
	return v, ok
}

// ParseFile reads and decodes a package.json file.
func ParseFile(path string) (*Package, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// Parse decodes package.json content. path is used only in error messages.
func Parse(data []byte, path string) (*Package, error) {
	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &pkg, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
