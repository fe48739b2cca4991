package extractor

import "strings"

// builtinModules is the fixed allow-list of modules provided by the Node.js
// runtime itself. Sub-path imports (fs/promises, stream/web) collapse onto
// these names during normalization, so only root names appear here.
var builtinModules = map[string]struct{}{
	"assert":              {},
	"async_hooks":         {},
	"buffer":              {},
	"child_process":       {},
	"cluster":             {},
	"console":             {},
	"constants":           {},
	"crypto":              {},
	"dgram":               {},
	"diagnostics_channel": {},
	"dns":                 {},
	"domain":              {},
	"events":              {},
	"fs":                  {},
	"http":                {},
	"http2":               {},
	"https":               {},
	"inspector":           {},
	"module":              {},
	"net":                 {},
	"os":                  {},
	"path":                {},
	"perf_hooks":          {},
	"process":             {},
	"punycode":            {},
	"querystring":         {},
	"readline":            {},
	"repl":                {},
	"stream":              {},
	"string_decoder":      {},
	"sys":                 {},
	"timers":              {},
	"tls":                 {},
	"trace_events":        {},
	"tty":                 {},
	"url":                 {},
	"util":                {},
	"v8":                  {},
	"vm":                  {},
	"wasi":                {},
	"worker_threads":      {},
	"zlib":                {},
}

// IsBuiltin reports whether name refers to a runtime-provided module. The
// node: scheme always denotes a builtin (node:fs, node:test) even for names
// absent from the static table.
func IsBuiltin(name string) bool {
	if strings.HasPrefix(name, "node:") {
		return true
	}
	_, ok := builtinModules[name]
	return ok
}
