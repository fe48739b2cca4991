package extractor

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/depscan/pkg/depscan/manifest"
	"github.com/jamesainslie/depscan/pkg/depscan/parser"
)

func TestPackageName(t *testing.T) {
	tests := []struct {
		specifier string
		want      string
		ok        bool
	}{
		{"express", "express", true},
		{"lodash/merge", "lodash", true},
		{"@angular/core", "@angular/core", true},
		{"@scope/pkg/deep/path", "@scope/pkg", true},
		{"node:fs", "node:fs", true},
		{"fs/promises", "fs", true},
		{"./local", "", false},
		{"../up", "", false},
		{"/abs/path", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := PackageName(tt.specifier)
		if got != tt.want || ok != tt.ok {
			t.Errorf("PackageName(%q) = (%q, %v), want (%q, %v)", tt.specifier, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTypePackage(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"react", "@types/react"},
		{"lodash", "@types/lodash"},
		{"@angular/core", "@types/angular__core"},
	}
	for _, tt := range tests {
		if got := TypePackage(tt.name); got != tt.want {
			t.Errorf("TypePackage(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestIsBuiltin(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"fs", true},
		{"path", true},
		{"worker_threads", true},
		{"node:fs", true},
		{"node:test", true},
		{"express", false},
		{"fs-extra", false},
	}
	for _, tt := range tests {
		if got := IsBuiltin(tt.name); got != tt.want {
			t.Errorf("IsBuiltin(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// parseSource parses a snippet and cleans up after the test.
func parseSource(t *testing.T, src string, dialect parser.Dialect) *parser.Result {
	t.Helper()
	res, err := parser.Parse(context.Background(), []byte(src), dialect)
	require.NoError(t, err)
	t.Cleanup(res.Close)
	return res
}

func TestCollectRawJavaScript(t *testing.T) {
	src := `
import express from "express";
import "./setup";
const fs = require("fs");
const merge = require('lodash/merge');
const pkg = await import("chalk");
export { render } from "react-dom";
export * from "./internal";
require(someVariable);
`
	res := parseSource(t, src, parser.DialectJavaScript)
	raws := CollectRaw(res)

	got := make(map[string]Kind)
	for _, r := range raws {
		got[r.Specifier] = r.Kind
	}

	want := map[string]Kind{
		"express":      KindImport,
		"./setup":      KindImport,
		"fs":           KindRequire,
		"lodash/merge": KindRequire,
		"chalk":        KindDynamicImport,
		"react-dom":    KindExport,
		"./internal":   KindExport,
	}
	assert.Equal(t, want, got)
}

func TestCollectRawTypeScript(t *testing.T) {
	src := `
import type { Request } from "express";
import { type Component, render } from "preact";
import express from "express";
import legacy = require("old-lib");
export type { Thing } from "model-pkg";
export { helper } from "util-pkg";
`
	res := parseSource(t, src, parser.DialectTypeScript)
	raws := CollectRaw(res)

	got := make(map[string]Kind)
	for _, r := range raws {
		got[r.Specifier+"/"+r.Kind.String()] = r.Kind
	}

	assert.Contains(t, got, "express/import-type")
	assert.Contains(t, got, "express/import")
	assert.Contains(t, got, "preact/import") // inline type specifier is not import type
	assert.Contains(t, got, "old-lib/require")
	assert.Contains(t, got, "model-pkg/export-type")
	assert.Contains(t, got, "util-pkg/export")
	assert.Len(t, raws, 6)
}

// installPackage writes a nested manifest under root/node_modules.
func installPackage(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, "node_modules", filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(content), 0o644))
}

func sortedNames(names map[string]struct{}) []string {
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func TestExtractFiltersBuiltinsAndLocals(t *testing.T) {
	root := t.TempDir()
	pkg := &manifest.Manifest{}

	src := `
import fs from "node:fs";
import path from "path";
import local from "./local";
import express from "express";
`
	res := parseSource(t, src, parser.DialectJavaScript)

	e := New(root, pkg, false)
	assert.Equal(t, []string{"express"}, sortedNames(e.Extract(res)))
}

func TestExtractTypeOnly(t *testing.T) {
	root := t.TempDir()
	pkg := &manifest.Manifest{
		DevDependencies: map[string]string{"@types/express": "^4.17.0"},
	}

	src := `
import type { Request } from "express";
import type { Pojo } from "untyped-lib";
`
	res := parseSource(t, src, parser.DialectTypeScript)

	e := New(root, pkg, false)
	// Declared stubs satisfy the typed import; undeclared ones yield nothing.
	assert.Equal(t, []string{"@types/express"}, sortedNames(e.Extract(res)))
}

func TestExtractValueImportCreditsDeclaredStubs(t *testing.T) {
	root := t.TempDir()
	pkg := &manifest.Manifest{
		Dependencies:    map[string]string{"express": "^4.18.0"},
		DevDependencies: map[string]string{"@types/express": "^4.17.0"},
	}

	src := `import express from "express";`
	res := parseSource(t, src, parser.DialectTypeScript)

	e := New(root, pkg, false)
	assert.Equal(t, []string{"@types/express", "express"}, sortedNames(e.Extract(res)))
}

func TestExtractJavaScriptNeverCreditsStubs(t *testing.T) {
	root := t.TempDir()
	pkg := &manifest.Manifest{
		Dependencies:    map[string]string{"express": "^4.18.0"},
		DevDependencies: map[string]string{"@types/express": "^4.17.0"},
	}

	src := `import express from "express";`
	res := parseSource(t, src, parser.DialectJavaScript)

	e := New(root, pkg, false)
	assert.Equal(t, []string{"express"}, sortedNames(e.Extract(res)))
}

func TestExtractForwardsPeerAndOptional(t *testing.T) {
	root := t.TempDir()
	pkg := &manifest.Manifest{
		Dependencies: map[string]string{
			"host-lib":    "^1.0.0",
			"peer-lib":    "^2.0.0",
			"optional-ui": "^3.0.0",
		},
	}

	installPackage(t, root, "host-lib", `{
		"name": "host-lib",
		"peerDependencies": {"peer-lib": "^2.0.0", "undeclared-peer": "^1.0.0"},
		"optionalDependencies": {"optional-ui": "^3.0.0"}
	}`)

	src := `import host from "host-lib";`
	res := parseSource(t, src, parser.DialectJavaScript)

	e := New(root, pkg, false)
	assert.Equal(t, []string{"host-lib", "optional-ui", "peer-lib"}, sortedNames(e.Extract(res)))
}

func TestExtractForwardingToleratesMissingManifest(t *testing.T) {
	root := t.TempDir()
	pkg := &manifest.Manifest{Dependencies: map[string]string{"ghost": "^1.0.0"}}

	src := `import g from "ghost";`
	res := parseSource(t, src, parser.DialectJavaScript)

	e := New(root, pkg, false)
	assert.Equal(t, []string{"ghost"}, sortedNames(e.Extract(res)))
}

func TestExtractIgnoresBinOnlyPackages(t *testing.T) {
	root := t.TempDir()
	pkg := &manifest.Manifest{DevDependencies: map[string]string{"some-cli": "^1.0.0"}}

	installPackage(t, root, "some-cli", `{
		"name": "some-cli",
		"bin": {"some-cli": "./cli.js"}
	}`)

	src := `const cli = require("some-cli");`
	res := parseSource(t, src, parser.DialectJavaScript)

	withBin := New(root, pkg, true)
	assert.Empty(t, sortedNames(withBin.Extract(res)))

	withoutBin := New(root, pkg, false)
	assert.Equal(t, []string{"some-cli"}, sortedNames(withoutBin.Extract(res)))
}
