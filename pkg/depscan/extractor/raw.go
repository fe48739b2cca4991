package extractor

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jamesainslie/depscan/pkg/depscan/parser"
)

// Kind tags how a specifier entered the file.
type Kind int

// Raw import kinds. The set is closed; classification branches exhaustively
// over it.
const (
	KindImport Kind = iota
	KindImportType
	KindExport
	KindExportType
	KindRequire
	KindDynamicImport
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindImport:
		return "import"
	case KindImportType:
		return "import-type"
	case KindExport:
		return "export"
	case KindExportType:
		return "export-type"
	case KindRequire:
		return "require"
	case KindDynamicImport:
		return "dynamic-import"
	default:
		return "unknown"
	}
}

// RawDependency is one specifier found in a file, before any filtering or
// normalization. It lives only within a single file's extraction pass.
type RawDependency struct {
	Specifier string
	Kind      Kind
}

// CollectRaw walks the syntax tree and gathers every import, re-export,
// require and dynamic import together with its specifier.
func CollectRaw(res *parser.Result) []RawDependency {
	var deps []RawDependency
	if res.Tree == nil {
		return deps
	}

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement":
			// import ... from 'x' / import type ... from 'x'. The
			// "import x = require('y')" form carries its source on the
			// nested import_require_clause instead.
			if src := n.ChildByFieldName("source"); src != nil {
				kind := KindImport
				if hasTypeKeyword(n) {
					kind = KindImportType
				}
				deps = append(deps, RawDependency{Specifier: stringValue(src, res.Source), Kind: kind})
			}

		case "import_require_clause":
			if src := n.ChildByFieldName("source"); src != nil {
				deps = append(deps, RawDependency{Specifier: stringValue(src, res.Source), Kind: KindRequire})
			}

		case "export_statement":
			// Only re-exports (export ... from 'x') reference a module.
			if src := n.ChildByFieldName("source"); src != nil {
				kind := KindExport
				if hasTypeKeyword(n) {
					kind = KindExportType
				}
				deps = append(deps, RawDependency{Specifier: stringValue(src, res.Source), Kind: kind})
			}

		case "call_expression":
			if raw, ok := callDependency(n, res.Source); ok {
				deps = append(deps, raw)
			}
		}

		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(res.Tree.RootNode())
	return deps
}

// callDependency recognizes require("x") and import("x") calls with a
// literal string argument. Computed specifiers are not resolvable and are
// skipped.
func callDependency(n *sitter.Node, source []byte) (RawDependency, bool) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return RawDependency{}, false
	}

	var kind Kind
	switch {
	case fn.Type() == "import":
		kind = KindDynamicImport
	case fn.Type() == "identifier" && fn.Content(source) == "require":
		kind = KindRequire
	default:
		return RawDependency{}, false
	}

	args := n.ChildByFieldName("arguments")
	if args == nil {
		return RawDependency{}, false
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if arg.Type() == "string" {
			return RawDependency{Specifier: stringValue(arg, source), Kind: kind}, true
		}
		break
	}
	return RawDependency{}, false
}

// hasTypeKeyword reports whether a statement carries a top-level "type"
// keyword (import type / export type). Inline type specifiers inside the
// import clause sit deeper in the tree and do not count.
func hasTypeKeyword(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == "type" {
			return true
		}
		// Stop once the clause or source starts; the keyword sits right
		// after "import"/"export".
		if c.IsNamed() {
			break
		}
	}
	return false
}

// stringValue extracts the literal value of a string node without quotes.
func stringValue(n *sitter.Node, source []byte) string {
	var out []byte
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "string_fragment" {
			out = append(out, source[c.StartByte():c.EndByte()]...)
		}
	}
	if len(out) > 0 {
		return string(out)
	}

	text := n.Content(source)
	if len(text) >= 2 {
		switch text[0] {
		case '\'', '"', '`':
			return text[1 : len(text)-1]
		}
	}
	return text
}
