// Package cmd implements the sdfc subcommands.
//
// Every command reads CSG source from a file or stdin, compiles or formats
// it, and writes the result to a file or stdout. Watch, serve, and edit keep
// running and recompile as the source changes.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
