// Package cli wires together the Cobra command tree for the prr binary.
//
// It defines the root command and all subcommands (get, edit, submit, apply,
// status, remove, config, cache, version), binds flags, reads configuration,
// sets up logging, and maps errors to exit codes.
package cli
