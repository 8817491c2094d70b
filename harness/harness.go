// Package harness is the entry point for binaries that compile their own Algo.
//
// A typical main package is:
//
//	func main() {
//		harness.Main(&myAlgo{})
//	}
//
// The binary then understands `train [MODEL_FILENAME...] [--dry-run]` and
// `predict MODEL_FILENAME`. The Opener is resolved by the harness, from the
// compiled-in modules or from an opener.so plugin in the working directory.
package harness

import (
	"context"
	"os"

	"github.com/specialistvlad/algoharness/contract"
	"github.com/specialistvlad/algoharness/internal/cli"
	"github.com/specialistvlad/algoharness/internal/workspace"
)

// Layout is the workspace convention: model, prediction and data directories.
type Layout = workspace.Layout

// Execute runs the command in args with the given Algo and returns the exit
// status: 0 on success, 2 on usage errors, 1 on any other failure.
func Execute(a contract.Algo, args []string) int {
	return cli.Execute(context.Background(), a, args, os.Stdout, os.Stderr)
}

// Main runs the command in os.Args and exits with its status.
func Main(a contract.Algo) {
	os.Exit(Execute(a, os.Args[1:]))
}

// LayoutFrom returns the workspace layout of the running command. Openers and
// algos use it to find their data.
func LayoutFrom(ctx context.Context) Layout {
	return workspace.FromContext(ctx)
}
