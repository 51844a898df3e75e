// Package cmd implements the subcommands of grand: gen, tokens, tree, fmt,
// init and repl.
//
// Every command reads one Grand Expression from its positional arguments,
// which are joined with spaces, from the file named by --file, or from
// standard input when neither is given.
package cmd

var (
	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"

	// HistoryIdentifier is the kong variable identifier containing the path
	// to the interactive session history file.
	HistoryIdentifier = "history"
)
