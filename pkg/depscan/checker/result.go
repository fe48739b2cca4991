package checker

import (
	"sort"
	"time"

	"github.com/jamesainslie/depscan/pkg/depscan/ignore"
	"github.com/jamesainslie/depscan/pkg/depscan/manifest"
	"github.com/jamesainslie/depscan/pkg/depscan/types"
)

// Result is an immutable snapshot of a completed check. Its query methods
// are pure and idempotent: they derive the same sets on every call.
type Result struct {
	// Manifest is the project's loaded package descriptor.
	Manifest *manifest.Manifest

	// Directory is the absolute project root that was scanned.
	Directory string

	// Using maps each referenced dependency name to the files using it.
	Using types.UsageMap

	// Errors holds the recoverable per-entry and per-file failures.
	Errors []types.ScanError

	// FilesScanned is the number of files parsed and classified.
	FilesScanned int64

	// Elapsed is the total check duration.
	Elapsed time.Duration

	opts  Options
	rules *ignore.RuleSet
}

// Missing returns imported package names absent from all four manifest
// mappings, each with the sorted files referencing it. Ignored names and,
// when the bin filter is on, bin-only packages are excluded. When the check
// was configured with SkipMissing the result is empty with no computation.
func (r *Result) Missing() map[string][]string {
	missing := make(map[string][]string)
	if r.opts.SkipMissing {
		return missing
	}
	for _, name := range r.Using.Names() {
		if r.rules.MatchName(name) {
			continue
		}
		if r.Manifest.HasAnyDependency(name) {
			continue
		}
		if r.opts.IgnoreBinPackages && manifest.IsBinDependency(r.Directory, name) {
			continue
		}
		missing[name] = r.Using.Files(name)
	}
	return missing
}

// UnusedDependencies returns declared regular dependencies no file
// references, sorted.
func (r *Result) UnusedDependencies() []string {
	return r.filterUnused(r.Manifest.Dependencies)
}

// UnusedDevDependencies returns declared dev dependencies no file
// references, sorted.
func (r *Result) UnusedDevDependencies() []string {
	return r.filterUnused(r.Manifest.DevDependencies)
}

func (r *Result) filterUnused(declared map[string]string) []string {
	unused := make([]string, 0)
	for name := range declared {
		if r.rules.MatchName(name) {
			continue
		}
		if r.Using.Has(name) {
			continue
		}
		if r.opts.IgnoreBinPackages && manifest.IsBinDependency(r.Directory, name) {
			continue
		}
		unused = append(unused, name)
	}
	sort.Strings(unused)
	return unused
}

// Clean reports whether the check found nothing to complain about.
func (r *Result) Clean() bool {
	return len(r.Missing()) == 0 &&
		len(r.UnusedDependencies()) == 0 &&
		len(r.UnusedDevDependencies()) == 0
}
