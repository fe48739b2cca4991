// Package manifest loads and models npm package descriptors (package.json).
// A Manifest is loaded once for the project root and, opportunistically, for
// any dependency's own install location under node_modules. Loaded manifests
// are read-only and safe for unsynchronized concurrent reads.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the manifest file name looked up in every directory.
const FileName = "package.json"

// ErrNotFound indicates that a directory contains no package.json.
var ErrNotFound = errors.New("package.json not found")

// ErrMalformed indicates that a package.json exists but cannot be parsed.
var ErrMalformed = errors.New("package.json malformed")

// Manifest is an in-memory package descriptor. Only the fields relevant to
// dependency checking are modeled; everything else is ignored on load.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`

	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`

	// Main, Module and Exports identify importable entry points. Bin may be
	// a string or an object, so both it and Exports are kept raw; only their
	// presence matters here.
	Main    string          `json:"main"`
	Module  string          `json:"module"`
	Exports json.RawMessage `json:"exports"`
	Bin     json.RawMessage `json:"bin"`
}

// Load reads the package.json in dir. A missing file is reported as
// ErrNotFound and invalid JSON as ErrMalformed, both wrapped with the
// directory for context.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w in %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w at %s: %v", ErrMalformed, path, err)
	}
	return &m, nil
}

// LoadInstalled reads the manifest of an installed dependency from the
// project's node_modules tree. The name may be scoped.
func LoadInstalled(root, name string) (*Manifest, error) {
	return Load(filepath.Join(root, "node_modules", filepath.FromSlash(name)))
}

// HasDependency reports whether name is a regular dependency.
func (m *Manifest) HasDependency(name string) bool {
	_, ok := m.Dependencies[name]
	return ok
}

// HasDevDependency reports whether name is a dev dependency.
func (m *Manifest) HasDevDependency(name string) bool {
	_, ok := m.DevDependencies[name]
	return ok
}

// HasAnyDependency reports whether name appears in any of the four
// dependency maps.
func (m *Manifest) HasAnyDependency(name string) bool {
	if m.HasDependency(name) || m.HasDevDependency(name) {
		return true
	}
	if _, ok := m.PeerDependencies[name]; ok {
		return true
	}
	_, ok := m.OptionalDependencies[name]
	return ok
}

// HasBin reports whether the manifest declares executable entry points.
func (m *Manifest) HasBin() bool {
	return rawPresent(m.Bin)
}

// BinOnly reports whether the package exposes only executables: it declares
// a bin field but no main, module or exports entry.
func (m *Manifest) BinOnly() bool {
	return m.HasBin() && m.Main == "" && m.Module == "" && !rawPresent(m.Exports)
}

// IsBinDependency reports whether the named dependency, as installed under
// root, is a bin-only package. A missing or malformed installed manifest
// counts as not bin-only.
func IsBinDependency(root, name string) bool {
	m, err := LoadInstalled(root, name)
	if err != nil {
		return false
	}
	return m.BinOnly()
}

// rawPresent reports whether a raw JSON field was set to anything but null.
func rawPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}
