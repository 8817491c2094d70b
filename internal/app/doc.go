// Package app contains the core application logic. It wires the registry,
// loader, opener, algo wrapper, run ledger and metrics of one invocation,
// decoupled from any specific entrypoint like the CLI.
package app
