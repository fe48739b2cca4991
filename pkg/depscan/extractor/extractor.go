// Package extractor derives the set of package names a source file depends
// on. Raw specifiers collected from the syntax tree are filtered, normalized
// to package names, and classified: type-only imports, runtime builtins,
// bin-only packages, and transitive peer/optional forwarding.
//
// An Extractor is immutable after construction and shared read-only across
// all worker goroutines.
package extractor

import (
	"strings"

	"github.com/jamesainslie/depscan/pkg/depscan/logging"
	"github.com/jamesainslie/depscan/pkg/depscan/manifest"
	"github.com/jamesainslie/depscan/pkg/depscan/parser"
)

var logger = logging.Get("extractor")

// Extractor classifies the dependencies of parsed files against a project
// manifest.
type Extractor struct {
	root      string
	pkg       *manifest.Manifest
	ignoreBin bool
}

// New creates an Extractor for a project. root is the project directory
// containing node_modules; pkg is the loaded root manifest. When ignoreBin
// is set, packages whose installed manifest exposes only executables are
// dropped.
func New(root string, pkg *manifest.Manifest, ignoreBin bool) *Extractor {
	return &Extractor{root: root, pkg: pkg, ignoreBin: ignoreBin}
}

// Extract returns the deduplicated set of package names used by one parsed
// file.
func (e *Extractor) Extract(res *parser.Result) map[string]struct{} {
	names := make(map[string]struct{})
	for _, raw := range CollectRaw(res) {
		for _, name := range e.classify(raw, res.Dialect) {
			if IsBuiltin(name) {
				continue
			}
			if e.ignoreBin && manifest.IsBinDependency(e.root, name) {
				continue
			}
			names[name] = struct{}{}
			e.forward(name, names)
		}
	}
	return names
}

// classify turns one raw specifier into zero or more package names,
// applying the relative filter, name normalization, and type-only handling.
func (e *Extractor) classify(raw RawDependency, dialect parser.Dialect) []string {
	name, ok := PackageName(raw.Specifier)
	if !ok {
		return nil
	}

	if !dialect.TypeAware() {
		return []string{name}
	}

	typePkg := TypePackage(name)
	typeDeclared := e.pkg.HasDependency(typePkg) || e.pkg.HasDevDependency(typePkg)

	switch raw.Kind {
	case KindImportType, KindExportType:
		// A type-only import is satisfied by the stub package when one is
		// declared; otherwise it references nothing installable.
		if typeDeclared {
			return []string{typePkg}
		}
		return nil
	default:
		// Typed code importing a value implicitly depends on its declared
		// type stubs as well.
		if typeDeclared {
			return []string{name, typePkg}
		}
		return []string{name}
	}
}

// forward credits the file with the peer and optional dependencies of name's
// own installed manifest, provided the root manifest declares them. Depth is
// exactly one level; a missing nested manifest means no forwarding.
func (e *Extractor) forward(name string, names map[string]struct{}) {
	dep, err := manifest.LoadInstalled(e.root, name)
	if err != nil {
		logger.Debug("no installed manifest; skipping forwarding", "dependency", name)
		return
	}
	for peer := range dep.PeerDependencies {
		if e.pkg.HasDependency(peer) || e.pkg.HasDevDependency(peer) {
			names[peer] = struct{}{}
		}
	}
	for opt := range dep.OptionalDependencies {
		if e.pkg.HasDependency(opt) || e.pkg.HasDevDependency(opt) {
			names[opt] = struct{}{}
		}
	}
}

// PackageName reduces a specifier to its package name. It reports false for
// relative and absolute specifiers, which reference local modules rather
// than installed packages. Scoped names keep their first two path segments;
// all others keep only the first.
func PackageName(specifier string) (string, bool) {
	if specifier == "" || strings.HasPrefix(specifier, "/") {
		return "", false
	}
	parts := strings.Split(specifier, "/")
	if parts[0] == "." || parts[0] == ".." {
		return "", false
	}
	if strings.HasPrefix(specifier, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1], true
	}
	return parts[0], true
}

// TypePackage maps a package name to its DefinitelyTyped stub package:
// pkg -> @types/pkg, @scope/pkg -> @types/scope__pkg.
func TypePackage(name string) string {
	if strings.HasPrefix(name, "@") {
		return "@types/" + strings.Replace(name[1:], "/", "__", 1)
	}
	return "@types/" + name
}
