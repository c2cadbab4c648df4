// Package cmd implements the choixe CLI's subcommands: process (compile and
// evaluate a document), inspect (report a document's external dependencies
// without evaluating it), and repl (interactive evaluation).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
