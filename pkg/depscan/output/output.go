// Package output provides formatters for rendering dependency check reports
// in various formats (pretty, plain, json).
//
// The package uses a registry pattern so formatters can be selected by name
// at runtime:
//
//	formatter, err := output.Get("pretty")
//	var buf bytes.Buffer
//	err = formatter.Format(&buf, report)
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jamesainslie/depscan/pkg/depscan/types"
)

// Report is the renderable outcome of a dependency check.
type Report struct {
	// Directory is the project root that was checked.
	Directory string `json:"directory"`

	// Missing maps undeclared-but-imported package names to the relative
	// paths of the files importing them.
	Missing map[string][]string `json:"missing"`

	// UnusedDependencies lists declared dependencies nothing imports.
	UnusedDependencies []string `json:"unused_dependencies"`

	// UnusedDevDependencies lists declared dev dependencies nothing imports.
	UnusedDevDependencies []string `json:"unused_dev_dependencies"`

	// FilesScanned is the number of source files analyzed.
	FilesScanned int64 `json:"files_scanned"`

	// Elapsed is the total check duration.
	Elapsed time.Duration `json:"elapsed"`

	// Errors holds recoverable scan errors, if any.
	Errors []types.ScanError `json:"errors,omitempty"`
}

// Clean reports whether the check found no missing or unused dependencies.
func (r *Report) Clean() bool {
	return len(r.Missing) == 0 &&
		len(r.UnusedDependencies) == 0 &&
		len(r.UnusedDevDependencies) == 0
}

// MissingNames returns the missing package names in sorted order.
func (r *Report) MissingNames() []string {
	names := make([]string, 0, len(r.Missing))
	for name := range r.Missing {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Formatter renders a report into a buffer.
type Formatter interface {
	Format(w *bytes.Buffer, r *Report) error
}

// FormatterFactory creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates an empty formatter registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]FormatterFactory)}
}

// Register adds a formatter factory, replacing any existing one of the same
// name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns the sorted names of all registered formatters.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
