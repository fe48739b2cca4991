package config

// DefaultIgnoreFile is the VCS-style ignore file honored during the walk.
const DefaultIgnoreFile = ".depscanignore"

// DefaultOutput is the report format used when none is configured.
const DefaultOutput = "pretty"

// DefaultIgnorePatterns excludes build artifacts and vendored output that
// commonly shadow real sources. Users override or extend via configuration;
// a leading '!' re-includes.
var DefaultIgnorePatterns = []string{
	"dist",
	"build",
	"coverage",
	"*.min.js",
	"*.d.ts",
}
