package main

import (
	"context"
	"io"
	"os"

	"github.com/specialistvlad/algoharness/internal/cli"
)

// main is the entrypoint for the standalone algoharness binary. The Algo is
// resolved from the configuration: a compiled-in unit, plugins.algo_path, or
// an algo.so plugin on the search path.
func main() {
	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:]))
}

// run encapsulates the main application logic for easier testing.
func run(outW, errW io.Writer, args []string) int {
	return cli.Execute(context.Background(), nil, args, outW, errW)
}
