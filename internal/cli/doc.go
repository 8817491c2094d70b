// Package cli is the command-line dispatcher. It parses arguments with cobra,
// resolves the configuration and maps failures to exit codes: 0 on success, 2
// for usage and configuration errors, 1 for everything else.
package cli
