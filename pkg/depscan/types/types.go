// Package types provides core data types shared across the depscan packages:
// file entries produced by the walker, scan errors collected during a run,
// and the dependency usage map built by the aggregator.
package types

import "sort"

// FileEntry is a candidate source file discovered by the walker.
// It is produced once and consumed by exactly one extractor worker.
type FileEntry struct {
	// Path is the absolute path to the file.
	Path string `json:"path"`

	// Rel is the path relative to the project root using forward slashes.
	// It is the stable identity of the file in reports.
	Rel string `json:"rel"`
}

// ScanError records a recoverable error encountered during a scan.
// It pairs a path with the error message for diagnostics; these errors
// never abort the run.
type ScanError struct {
	// Path is the file or directory where the error occurred.
	Path string `json:"path"`

	// Error is the error message describing what went wrong.
	Error string `json:"error"`
}

// UsageMap maps a dependency name to the set of relative file paths that
// reference it. It is built incrementally by a single consumer and must not
// be mutated once a check result has been constructed.
type UsageMap map[string]map[string]struct{}

// Add records that file references the named dependency.
func (m UsageMap) Add(name, file string) {
	files, ok := m[name]
	if !ok {
		files = make(map[string]struct{})
		m[name] = files
	}
	files[file] = struct{}{}
}

// Has reports whether any file references the named dependency.
func (m UsageMap) Has(name string) bool {
	_, ok := m[name]
	return ok
}

// Names returns all dependency names in sorted order.
func (m UsageMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Files returns the sorted relative paths referencing the named dependency.
// It returns nil when the dependency is not present.
func (m UsageMap) Files(name string) []string {
	set, ok := m[name]
	if !ok {
		return nil
	}
	files := make([]string, 0, len(set))
	for f := range set {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}
