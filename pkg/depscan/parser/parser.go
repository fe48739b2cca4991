// Package parser turns source files into syntax trees. It wraps tree-sitter
// behind a small capability: file path in, (AST, dialect) or failure out.
// Parse failures are always recoverable at the file level; callers skip the
// file and move on.
//
// Each call creates its own tree-sitter parser instance, so the package is
// safe for concurrent use from many extractor workers.
package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ErrUnsupported is returned for files whose extension maps to no known
// script or module dialect.
var ErrUnsupported = errors.New("unsupported file type")

// Dialect identifies the detected source dialect of a parsed file.
type Dialect int

// Recognized dialects.
const (
	DialectNone Dialect = iota
	DialectJavaScript
	DialectTypeScript
	DialectTSX
)

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case DialectJavaScript:
		return "javascript"
	case DialectTypeScript:
		return "typescript"
	case DialectTSX:
		return "tsx"
	default:
		return "none"
	}
}

// TypeAware reports whether the dialect carries static type information, and
// with it type-only imports.
func (d Dialect) TypeAware() bool {
	return d == DialectTypeScript || d == DialectTSX
}

// DetectDialect maps a file path to its dialect by extension.
func DetectDialect(path string) Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return DialectJavaScript
	case ".ts", ".mts", ".cts":
		return DialectTypeScript
	case ".tsx":
		return DialectTSX
	default:
		return DialectNone
	}
}

// Result is a parsed file: the syntax tree, the source bytes backing it, and
// the detected dialect.
type Result struct {
	Tree    *sitter.Tree
	Source  []byte
	Dialect Dialect
}

// Close releases the underlying syntax tree.
func (r *Result) Close() {
	if r.Tree != nil {
		r.Tree.Close()
	}
}

// language returns the tree-sitter grammar for a dialect. The javascript
// grammar also covers JSX.
func language(d Dialect) *sitter.Language {
	switch d {
	case DialectTypeScript:
		return typescript.GetLanguage()
	case DialectTSX:
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// ParseFile reads and parses one file. It returns ErrUnsupported for files
// no dialect claims, and a read or parse error otherwise. Malformed source
// does not fail: tree-sitter produces a tree with error nodes, which simply
// yields no imports.
func ParseFile(ctx context.Context, path string) (*Result, error) {
	dialect := DetectDialect(path)
	if dialect == DialectNone {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return Parse(ctx, source, dialect)
}

// Parse parses source bytes in the given dialect.
func Parse(ctx context.Context, source []byte, dialect Dialect) (*Result, error) {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(language(dialect))

	tree, err := p.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse (%s): %w", dialect, err)
	}
	return &Result{Tree: tree, Source: source, Dialect: dialect}, nil
}
